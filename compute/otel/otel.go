// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package castotel provides OpenTelemetry instrumentation for array
// casts. It implements the [compute.CastHook] interface to add a span
// and metrics around every top level cast.
//
// Usage:
//
//	ctx = compute.WithCastHook(ctx, castotel.NewHook(castotel.DefaultConfig()))
//	out, err := compute.CastArray(ctx, arr, opts)
package castotel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/simon-mo/arrow/compute"
)

const instrumentationName = "github.com/simon-mo/arrow/compute"

// Config configures OpenTelemetry instrumentation for casts.
type Config struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordErrors calls RecordError on the span for failed casts.
	// Default true.
	RecordErrors bool
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns a Config with tracing, metrics and error
// recording enabled. Providers are resolved from the global OTel SDK
// when the hook is created.
func DefaultConfig() Config {
	return Config{
		EnableTracing: true,
		EnableMetrics: true,
		RecordErrors:  true,
	}
}

// NewHook builds a cast hook from cfg.
func NewHook(cfg Config) compute.CastHook {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	hook := &otelHook{
		cfg:    cfg,
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}

	if cfg.EnableMetrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		hook.castCounter, _ = meter.Int64Counter("arrow.cast.calls",
			metric.WithUnit("{call}"),
			metric.WithDescription("Number of array casts"),
		)
		hook.nullCounter, _ = meter.Int64Counter("arrow.cast.introduced_nulls",
			metric.WithUnit("{value}"),
			metric.WithDescription("Values that became null because they did not fit the target type"),
		)
		hook.durationHistogram, _ = meter.Float64Histogram("arrow.cast.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of array casts"),
		)
	}
	return hook
}

type otelHook struct {
	cfg               Config
	tracer            trace.Tracer
	castCounter       metric.Int64Counter
	nullCounter       metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

type spanToken struct {
	span      trace.Span
	startTime time.Time
}

func typeAttrs(info compute.CastInfo) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("arrow.cast.from", info.From.String()),
		attribute.String("arrow.cast.to", info.To.String()),
	}
}

func (h *otelHook) OnCastStart(ctx context.Context, info compute.CastInfo) (context.Context, compute.HookToken) {
	if !h.cfg.EnableTracing {
		return ctx, &spanToken{startTime: time.Now()}
	}

	attrs := append(typeAttrs(info), h.cfg.CustomAttributes...)
	ctx, span := h.tracer.Start(ctx, "arrow.cast",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &spanToken{span: span, startTime: time.Now()}
}

func (h *otelHook) OnCastEnd(ctx context.Context, token compute.HookToken, info compute.CastInfo, stats *compute.CastStats, err error) {
	st, ok := token.(*spanToken)
	if !ok {
		return
	}
	duration := time.Since(st.startTime)

	status := "ok"
	if err != nil {
		status = "error"
	}

	if h.cfg.EnableMetrics {
		metricAttrs := metric.WithAttributes(append(typeAttrs(info), attribute.String("status", status))...)
		if h.castCounter != nil {
			h.castCounter.Add(ctx, 1, metricAttrs)
		}
		if h.durationHistogram != nil {
			h.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
		}
		if h.nullCounter != nil && err == nil && stats != nil {
			if n := stats.IntroducedNulls(); n > 0 {
				h.nullCounter.Add(ctx, n, metricAttrs)
			}
		}
	}

	if st.span == nil {
		return
	}
	defer st.span.End()

	if stats != nil {
		st.span.SetAttributes(
			attribute.Int64("arrow.cast.rows", stats.Rows),
			attribute.Int64("arrow.cast.nulls_in", stats.NullsIn),
		)
	}
	if err != nil {
		st.span.SetStatus(codes.Error, err.Error())
		if h.cfg.RecordErrors {
			st.span.RecordError(err)
		}
		errType := fmt.Sprintf("%T", err)
		var castErr *compute.CastError
		if errors.As(err, &castErr) {
			errType = castErr.Kind.String()
		}
		st.span.SetAttributes(attribute.String("arrow.cast.error_type", errType))
		return
	}

	if stats != nil {
		st.span.SetAttributes(attribute.Int64("arrow.cast.nulls_out", stats.NullsOut))
	}
	st.span.SetStatus(codes.Ok, "")
}
