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

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"
)

// CastNumeric converts between any two numeric types. Widening always
// succeeds; a value that cannot be represented in the target type, and
// any NaN or infinite float cast to an integer, becomes null. Floats
// cast to integers are truncated toward zero.
func CastNumeric(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	switch in.DataType().ID() {
	case arrow.INT8:
		return castFromInteger[int8](mem, in, to)
	case arrow.INT16:
		return castFromInteger[int16](mem, in, to)
	case arrow.INT32:
		return castFromInteger[int32](mem, in, to)
	case arrow.INT64:
		return castFromInteger[int64](mem, in, to)
	case arrow.UINT8:
		return castFromInteger[uint8](mem, in, to)
	case arrow.UINT16:
		return castFromInteger[uint16](mem, in, to)
	case arrow.UINT32:
		return castFromInteger[uint32](mem, in, to)
	case arrow.UINT64:
		return castFromInteger[uint64](mem, in, to)
	case arrow.FLOAT32:
		return castFromFloating[float32](mem, in, to)
	case arrow.FLOAT64:
		return castFromFloating[float64](mem, in, to)
	}
	return nil, unsupported(in.DataType(), to)
}

func castFromInteger[I integer](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	switch to.ID() {
	case arrow.INT8:
		return castValues(mem, in, to, intToInt[I, int8]), nil
	case arrow.INT16:
		return castValues(mem, in, to, intToInt[I, int16]), nil
	case arrow.INT32:
		return castValues(mem, in, to, intToInt[I, int32]), nil
	case arrow.INT64:
		return castValues(mem, in, to, intToInt[I, int64]), nil
	case arrow.UINT8:
		return castValues(mem, in, to, intToInt[I, uint8]), nil
	case arrow.UINT16:
		return castValues(mem, in, to, intToInt[I, uint16]), nil
	case arrow.UINT32:
		return castValues(mem, in, to, intToInt[I, uint32]), nil
	case arrow.UINT64:
		return castValues(mem, in, to, intToInt[I, uint64]), nil
	case arrow.FLOAT32:
		return castValues(mem, in, to, intToFloat[I, float32]), nil
	case arrow.FLOAT64:
		return castValues(mem, in, to, intToFloat[I, float64]), nil
	}
	return nil, unsupported(in.DataType(), to)
}

func castFromFloating[I floating](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	switch to.ID() {
	case arrow.INT8:
		return castValues(mem, in, to, floatToInt[I, int8]), nil
	case arrow.INT16:
		return castValues(mem, in, to, floatToInt[I, int16]), nil
	case arrow.INT32:
		return castValues(mem, in, to, floatToInt[I, int32]), nil
	case arrow.INT64:
		return castValues(mem, in, to, floatToInt[I, int64]), nil
	case arrow.UINT8:
		return castValues(mem, in, to, floatToInt[I, uint8]), nil
	case arrow.UINT16:
		return castValues(mem, in, to, floatToInt[I, uint16]), nil
	case arrow.UINT32:
		return castValues(mem, in, to, floatToInt[I, uint32]), nil
	case arrow.UINT64:
		return castValues(mem, in, to, floatToInt[I, uint64]), nil
	case arrow.FLOAT32:
		return castValues(mem, in, to, floatToFloat[I, float32]), nil
	case arrow.FLOAT64:
		return castValues(mem, in, to, floatToFloat[I, float64]), nil
	}
	return nil, unsupported(in.DataType(), to)
}

func castValues[I, O numeric](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType, conv func(I) (O, bool)) arrow.Array {
	src := arrow.GetValues[I](in, 1)
	return fillNumeric(mem, in, to, func(i int) (O, bool) {
		return conv(src[i])
	})
}

// intToInt reports whether v survives the round trip through O with its
// sign intact.
func intToInt[I, O constraints.Integer](v I) (O, bool) {
	out := O(v)
	if I(out) != v || (out < 0) != (v < 0) {
		return 0, false
	}
	return out, true
}

// intToFloat never fails. Integers beyond the float mantissa are rounded
// to the nearest representable value.
func intToFloat[I constraints.Integer, O constraints.Float](v I) (O, bool) {
	return O(v), true
}

func floatToInt[I constraints.Float, O constraints.Integer](v I) (O, bool) {
	f := math.Trunc(float64(v))
	if !(f >= float64(MinOf[O]()) && f < float64(MaxOf[O]())+1) {
		return 0, false
	}
	return O(f), true
}

// floatToFloat keeps NaN and the infinities. A finite value beyond the
// target range is null.
func floatToFloat[I, O constraints.Float](v I) (O, bool) {
	f := float64(v)
	if floatBits[O]() == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return O(v), true
}
