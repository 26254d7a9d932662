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

package kernels

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"
)

type stringBuilder interface {
	array.Builder
	Append(string)
}

func newStringBuilder(mem memory.Allocator, to arrow.DataType) (stringBuilder, error) {
	switch to.ID() {
	case arrow.STRING:
		return array.NewStringBuilder(mem), nil
	case arrow.LARGE_STRING:
		return array.NewLargeStringBuilder(mem), nil
	}
	return nil, unsupported(arrow.BinaryTypes.String, to)
}

type stringValues interface {
	arrow.Array
	Value(int) string
}

// CastNumericToString formats integers as plain decimal and floats as the
// shortest decimal that round trips, always with a fractional part.
func CastNumericToString(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	switch in.DataType().ID() {
	case arrow.INT8:
		return formatValues(mem, in, to, formatSigned[int8])
	case arrow.INT16:
		return formatValues(mem, in, to, formatSigned[int16])
	case arrow.INT32:
		return formatValues(mem, in, to, formatSigned[int32])
	case arrow.INT64:
		return formatValues(mem, in, to, formatSigned[int64])
	case arrow.UINT8:
		return formatValues(mem, in, to, formatUnsigned[uint8])
	case arrow.UINT16:
		return formatValues(mem, in, to, formatUnsigned[uint16])
	case arrow.UINT32:
		return formatValues(mem, in, to, formatUnsigned[uint32])
	case arrow.UINT64:
		return formatValues(mem, in, to, formatUnsigned[uint64])
	case arrow.FLOAT32:
		return formatValues(mem, in, to, formatFloat[float32])
	case arrow.FLOAT64:
		return formatValues(mem, in, to, formatFloat[float64])
	}
	return nil, unsupported(in.DataType(), to)
}

func formatValues[T numeric](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType, format func(T) string) (arrow.Array, error) {
	bldr, err := newStringBuilder(mem, to)
	if err != nil {
		return nil, err
	}
	defer bldr.Release()

	var (
		n      = in.Len()
		off    = in.Offset()
		src    = arrow.GetValues[T](in, 1)
		inBits = validityBits(in)
	)
	bldr.Reserve(n)
	for i := 0; i < n; i++ {
		if inBits != nil && !bitutil.BitIsSet(inBits, off+i) {
			bldr.AppendNull()
			continue
		}
		bldr.Append(format(src[i]))
	}
	return bldr.NewArray(), nil
}

func formatSigned[T signedInt](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

func formatUnsigned[T unsignedInt](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}

// formatFloat appends ".0" to integral finite values so that the text
// still reads as a float. NaN and the infinities keep the strconv form.
func formatFloat[T floating](v T) string {
	f := float64(v)
	s := strconv.FormatFloat(f, 'f', -1, floatBits[T]())
	if !math.IsNaN(f) && !math.IsInf(f, 0) && !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// CastStringToNumeric parses every valid slot as a base 10 integer or a
// float, depending on the target. Text that is not valid UTF-8 is parsed
// as the empty string. Any parse failure, including a float outside the
// target range, yields null.
func CastStringToNumeric(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	arr := array.MakeFromData(in)
	defer arr.Release()

	strs, ok := arr.(stringValues)
	if !ok {
		return nil, unsupported(in.DataType(), to)
	}

	switch to.ID() {
	case arrow.INT8:
		return parseValues(mem, in, to, strs, parseSigned[int8]), nil
	case arrow.INT16:
		return parseValues(mem, in, to, strs, parseSigned[int16]), nil
	case arrow.INT32:
		return parseValues(mem, in, to, strs, parseSigned[int32]), nil
	case arrow.INT64:
		return parseValues(mem, in, to, strs, parseSigned[int64]), nil
	case arrow.UINT8:
		return parseValues(mem, in, to, strs, parseUnsigned[uint8]), nil
	case arrow.UINT16:
		return parseValues(mem, in, to, strs, parseUnsigned[uint16]), nil
	case arrow.UINT32:
		return parseValues(mem, in, to, strs, parseUnsigned[uint32]), nil
	case arrow.UINT64:
		return parseValues(mem, in, to, strs, parseUnsigned[uint64]), nil
	case arrow.FLOAT32:
		return parseValues(mem, in, to, strs, parseFloat[float32]), nil
	case arrow.FLOAT64:
		return parseValues(mem, in, to, strs, parseFloat[float64]), nil
	}
	return nil, unsupported(in.DataType(), to)
}

func parseValues[T numeric](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType, strs stringValues, parse func(string) (T, bool)) arrow.Array {
	return fillNumeric(mem, in, to, func(i int) (T, bool) {
		s := strs.Value(i)
		if !utf8.ValidString(s) {
			s = ""
		}
		return parse(s)
	})
}

func parseSigned[T signedInt](s string) (T, bool) {
	v, err := strconv.ParseInt(s, 10, int(8*SizeOf[T]()))
	if err != nil {
		return 0, false
	}
	return T(v), true
}

// parseUnsigned accepts one leading '+', which ParseUint does not.
func parseUnsigned[T unsignedInt](s string) (T, bool) {
	if len(s) > 1 && s[0] == '+' && s[1] != '+' && s[1] != '-' {
		s = s[1:]
	}
	v, err := strconv.ParseUint(s, 10, int(8*SizeOf[T]()))
	if err != nil {
		return 0, false
	}
	return T(v), true
}

// parseFloat only accepts plain decimal numerals. Underscore separators
// and hexadecimal mantissas, which ParseFloat allows, are rejected.
func parseFloat[T constraints.Float](s string) (T, bool) {
	if strings.ContainsRune(s, '_') || isHexNumeral(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, floatBits[T]())
	if err != nil {
		return 0, false
	}
	return T(v), true
}

func isHexNumeral(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
