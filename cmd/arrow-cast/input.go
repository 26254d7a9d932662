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

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

func nopClose() error { return nil }

// openInput returns a record reader for path in the given format. The
// returned close function releases the underlying file.
func openInput(ctx context.Context, path, format string, batchSize int, mem memory.Allocator) (array.RecordReader, func() error, error) {
	switch format {
	case "ipc":
		r, closeFn, err := openFile(path)
		if err != nil {
			return nil, nil, err
		}
		rdr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("reading ipc stream: %w", err)
		}
		return rdr, closeFn, nil
	case "csv":
		r, closeFn, err := openFile(path)
		if err != nil {
			return nil, nil, err
		}
		return newCSVReader(r, batchSize, mem), closeFn, nil
	case "parquet":
		if path == "-" {
			return nil, nil, fmt.Errorf("parquet input must be a file")
		}
		return openParquet(ctx, path, batchSize, mem)
	}
	return nil, nil, fmt.Errorf("unknown input format %q", format)
}

func openFile(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, nopClose, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, f.Close, nil
}

// newCSVReader infers column types from the first rows. Empty fields and
// "NULL" read as null.
func newCSVReader(r io.Reader, batchSize int, mem memory.Allocator) array.RecordReader {
	return csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(batchSize),
		csv.WithAllocator(mem),
		csv.WithNullReader(true, "", "NULL"),
	)
}

func openParquet(ctx context.Context, path string, batchSize int, mem memory.Allocator) (array.RecordReader, func() error, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, nil, fmt.Errorf("opening parquet file: %w", err)
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: int64(batchSize)}, mem)
	if err != nil {
		pf.Close()
		return nil, nil, fmt.Errorf("reading parquet schema: %w", err)
	}

	rr, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		pf.Close()
		return nil, nil, fmt.Errorf("reading parquet row groups: %w", err)
	}
	return rr, pf.Close, nil
}
