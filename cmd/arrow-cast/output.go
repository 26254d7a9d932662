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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"

	"github.com/simon-mo/arrow/compute"
)

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		bw := bufio.NewWriter(os.Stdout)
		return bw, bw.Flush, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	bw := bufio.NewWriter(f)
	return bw, func() error {
		if err := bw.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

func compressionOption(codec string) ([]ipc.Option, error) {
	switch codec {
	case "none", "":
		return nil, nil
	case "lz4":
		return []ipc.Option{ipc.WithLZ4()}, nil
	case "zstd":
		return []ipc.Option{ipc.WithZstd()}, nil
	}
	return nil, fmt.Errorf("unknown compression %q", codec)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// columnStats accumulates the effect of casting one column across all
// batches of a stream.
type columnStats struct {
	Column          string `json:"column"`
	From            string `json:"from"`
	To              string `json:"to"`
	Rows            int64  `json:"rows"`
	NullsIn         int64  `json:"nulls_in"`
	NullsOut        int64  `json:"nulls_out"`
	IntroducedNulls int64  `json:"introduced_nulls"`
}

type streamResult struct {
	Batches      int
	Rows         int64
	BytesWritten int64
	Columns      []*columnStats
}

type streamOptions struct {
	mem                  memory.Allocator
	writeOpts            []ipc.Option
	preserveListValidity bool
}

// castPlan maps column indexes of the input schema to their target type.
type castPlan struct {
	schema  *arrow.Schema
	targets map[int]arrow.DataType
	stats   map[int]*columnStats
	order   []*columnStats
}

func newCastPlan(in *arrow.Schema, specs []castSpec) (*castPlan, error) {
	plan := &castPlan{
		targets: make(map[int]arrow.DataType, len(specs)),
		stats:   make(map[int]*columnStats, len(specs)),
	}

	fields := append([]arrow.Field(nil), in.Fields()...)
	for _, spec := range specs {
		idx := in.FieldIndices(spec.Column)
		if len(idx) == 0 {
			return nil, fmt.Errorf("column %q not found in input schema", spec.Column)
		}
		for _, i := range idx {
			from := fields[i].Type
			if !compute.CanCast(from, spec.To) {
				return nil, fmt.Errorf("column %q: %w", spec.Column,
					&compute.CastError{Kind: compute.UnsupportedCast, From: from, To: spec.To})
			}
			fields[i].Type = spec.To
			fields[i].Nullable = true
			plan.targets[i] = spec.To

			st := &columnStats{Column: spec.Column, From: from.String(), To: spec.To.String()}
			plan.stats[i] = st
			plan.order = append(plan.order, st)
		}
	}

	md := in.Metadata()
	plan.schema = arrow.NewSchema(fields, &md)
	return plan, nil
}

func (p *castPlan) apply(ctx context.Context, rec arrow.Record, preserveListValidity bool) (arrow.Record, error) {
	cols := make([]arrow.Array, rec.NumCols())
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()

	for i, col := range rec.Columns() {
		to, ok := p.targets[i]
		if !ok {
			col.Retain()
			cols[i] = col
			continue
		}

		out, err := compute.CastArray(ctx, col, &compute.CastOptions{
			ToType:               to,
			PreserveListValidity: preserveListValidity,
		})
		if err != nil {
			return nil, fmt.Errorf("casting column %q: %w", p.schema.Field(i).Name, err)
		}
		cols[i] = out

		st := p.stats[i]
		st.Rows += int64(col.Len())
		st.NullsIn += int64(col.NullN())
		st.NullsOut += int64(out.NullN())
		st.IntroducedNulls = max(st.NullsOut-st.NullsIn, 0)
	}
	return array.NewRecord(p.schema, cols, rec.NumRows()), nil
}

// castStream casts every batch read from rdr and writes the results to w
// as an Arrow IPC stream. An input without batches still produces a
// stream carrying the cast schema.
func castStream(ctx context.Context, rdr array.RecordReader, w io.Writer, specs []castSpec, opts streamOptions) (*streamResult, error) {
	// the inferring csv reader only knows its schema after the first batch
	more := rdr.Next()
	if err := readErr(rdr); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if rdr.Schema() == nil {
		return nil, fmt.Errorf("input has no schema")
	}

	plan, err := newCastPlan(rdr.Schema(), specs)
	if err != nil {
		return nil, err
	}

	cw := &countingWriter{w: w}
	writeOpts := append([]ipc.Option{ipc.WithSchema(plan.schema), ipc.WithAllocator(opts.mem)}, opts.writeOpts...)
	writer := ipc.NewWriter(cw, writeOpts...)

	res := &streamResult{Columns: plan.order}
	for ; more; more = rdr.Next() {
		rec := rdr.Record()
		out, err := plan.apply(ctx, rec, opts.preserveListValidity)
		if err != nil {
			writer.Close()
			return nil, err
		}
		err = writer.Write(out)
		out.Release()
		if err != nil {
			writer.Close()
			return nil, fmt.Errorf("writing batch %d: %w", res.Batches, err)
		}
		res.Batches++
		res.Rows += rec.NumRows()
	}
	if err := readErr(rdr); err != nil {
		writer.Close()
		return nil, fmt.Errorf("reading input: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing ipc stream: %w", err)
	}
	res.BytesWritten = cw.n
	return res, nil
}

// readErr reports the reader's error. Parquet record readers report
// io.EOF once exhausted, which is a clean end of stream.
func readErr(rdr array.RecordReader) error {
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeSummary(w io.Writer, cols []*columnStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cols)
}
