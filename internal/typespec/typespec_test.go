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

package typespec

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want arrow.DataType
	}{
		{"int32", arrow.PrimitiveTypes.Int32},
		{" UINT8 ", arrow.PrimitiveTypes.Uint8},
		{"double", arrow.PrimitiveTypes.Float64},
		{"bool", arrow.FixedWidthTypes.Boolean},
		{"utf8", arrow.BinaryTypes.String},
		{"large_string", arrow.BinaryTypes.LargeString},
		{"null", arrow.Null},
		{"date32", arrow.FixedWidthTypes.Date32},
		{"list<int16>", arrow.ListOf(arrow.PrimitiveTypes.Int16)},
		{"large_list< utf8 >", arrow.LargeListOf(arrow.BinaryTypes.String)},
		{"list<list<float32>>", arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Float32))},
		{"timestamp[us]", &arrow.TimestampType{Unit: arrow.Microsecond}},
		{"list<timestamp[ns]>", arrow.ListOf(&arrow.TimestampType{Unit: arrow.Nanosecond})},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Truef(t, arrow.TypeEqual(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"int128",
		"list<int32",
		"list<>",
		"map<int32>",
		"timestamp[minutes]",
		"timestamp<us>",
		"list<wat>",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, arrow.ErrInvalid)
		})
	}
}
