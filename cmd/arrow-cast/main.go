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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/docopt/docopt-go"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/simon-mo/arrow/compute"
	"github.com/simon-mo/arrow/internal/typespec"
)

const usage = `Arrow Cast.
Usage:
  arrow-cast -h | --help
  arrow-cast [--input=FILE] [--format=FORMAT] [--output=FILE] [--compression=CODEC]
             [--batch-size=ROWS] [--preserve-list-validity] [--summary] [--telemetry]
             [--log-level=LEVEL] <cast>...
Options:
  -h --help                   Show this screen.
  -i FILE --input=FILE        Input file, "-" reads standard input. [default: -]
  -f FORMAT --format=FORMAT   Input format: ipc, parquet or csv. [default: ipc]
  -o FILE --output=FILE       Output Arrow IPC stream, "-" writes standard output. [default: -]
  --compression=CODEC         Output compression: none, lz4 or zstd. [default: none]
  --batch-size=ROWS           Rows per batch read from parquet and csv input. [default: 65536]
  --preserve-list-validity    Keep the validity of list columns instead of deriving it from their values.
  --summary                   Print per-column cast statistics as JSON to stderr.
  --telemetry                 Export cast traces and metrics to stderr.
  --log-level=LEVEL           Log level: debug, info, warn or error. [default: info]

Casts are written as column=type, for example amount=float64 or tags=list<utf8>.`

type config struct {
	Help                 bool
	Input                string
	Format               string
	Output               string
	Compression          string
	BatchSize            string
	PreserveListValidity bool
	Summary              bool
	Telemetry            bool
	LogLevel             string
	Cast                 []string `docopt:"<cast>"`
}

func main() {
	opts, _ := docopt.ParseDoc(usage)
	var cfg config
	if err := opts.Bind(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error parsing arguments:", err)
		os.Exit(2)
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		level.Error(logger).Log("msg", "arrow-cast failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

// castSpec is a single column=type argument.
type castSpec struct {
	Column string
	To     arrow.DataType
}

func parseCasts(args []string) ([]castSpec, error) {
	specs := make([]castSpec, 0, len(args))
	seen := make(map[string]struct{}, len(args))
	for _, arg := range args {
		col, expr, ok := strings.Cut(arg, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("cast %q must have the form column=type", arg)
		}
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("column %q is cast more than once", col)
		}
		seen[col] = struct{}{}

		dt, err := typespec.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("cast %q: %w", arg, err)
		}
		specs = append(specs, castSpec{Column: col, To: dt})
	}
	return specs, nil
}

func run(ctx context.Context, cfg config, logger log.Logger) (err error) {
	specs, err := parseCasts(cfg.Cast)
	if err != nil {
		return err
	}
	batchSize, err := strconv.Atoi(cfg.BatchSize)
	if err != nil || batchSize <= 0 {
		return fmt.Errorf("--batch-size must be a positive integer, got %q", cfg.BatchSize)
	}
	writeOpts, err := compressionOption(cfg.Compression)
	if err != nil {
		return err
	}

	mem := memory.DefaultAllocator
	ctx = compute.WithAllocator(ctx, mem)
	ctx = compute.WithLogger(ctx, logger)

	if cfg.Telemetry {
		hook, shutdown, err := setupTelemetry(os.Stderr)
		if err != nil {
			return fmt.Errorf("setting up telemetry: %w", err)
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil && err == nil {
				err = fmt.Errorf("flushing telemetry: %w", serr)
			}
		}()
		ctx = compute.WithCastHook(ctx, hook)
	}

	rdr, closeInput, err := openInput(ctx, cfg.Input, cfg.Format, batchSize, mem)
	if err != nil {
		return err
	}
	defer closeInput()
	defer rdr.Release()

	out, closeOutput, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	res, err := castStream(ctx, rdr, out, specs, streamOptions{
		mem:                  mem,
		writeOpts:            writeOpts,
		preserveListValidity: cfg.PreserveListValidity,
	})
	if cerr := closeOutput(); cerr != nil && err == nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	if err != nil {
		return err
	}

	level.Info(logger).Log("msg", "cast complete",
		"batches", res.Batches,
		"rows", humanize.Comma(res.Rows),
		"written", humanize.Bytes(uint64(res.BytesWritten)))

	if cfg.Summary {
		return writeSummary(os.Stderr, res.Columns)
	}
	return nil
}
