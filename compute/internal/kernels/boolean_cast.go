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
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CastNumericToBoolean maps every non-zero value to true. It never
// introduces nulls.
func CastNumericToBoolean(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	switch in.DataType().ID() {
	case arrow.INT8:
		return numberToBool[int8](mem, in, to), nil
	case arrow.INT16:
		return numberToBool[int16](mem, in, to), nil
	case arrow.INT32:
		return numberToBool[int32](mem, in, to), nil
	case arrow.INT64:
		return numberToBool[int64](mem, in, to), nil
	case arrow.UINT8:
		return numberToBool[uint8](mem, in, to), nil
	case arrow.UINT16:
		return numberToBool[uint16](mem, in, to), nil
	case arrow.UINT32:
		return numberToBool[uint32](mem, in, to), nil
	case arrow.UINT64:
		return numberToBool[uint64](mem, in, to), nil
	case arrow.FLOAT32:
		return numberToBool[float32](mem, in, to), nil
	case arrow.FLOAT64:
		return numberToBool[float64](mem, in, to), nil
	}
	return nil, unsupported(in.DataType(), to)
}

func numberToBool[T numeric](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) arrow.Array {
	var (
		n      = in.Len()
		off    = in.Offset()
		src    = arrow.GetValues[T](in, 1)
		inBits = validityBits(in)
	)

	values := memory.NewResizableBuffer(mem)
	values.Resize(int(bitutil.BytesForBits(int64(n))))
	out := values.Bytes()
	memory.Set(out, 0)
	for i := 0; i < n; i++ {
		if inBits != nil && !bitutil.BitIsSet(inBits, off+i) {
			continue
		}
		if src[i] != 0 {
			bitutil.SetBit(out, i)
		}
	}

	validity := inheritValidity(mem, in)
	defer releaseBuffers(validity, values)

	data := array.NewData(to, n, []*memory.Buffer{validity, values}, nil, NullCount(in), 0)
	defer data.Release()
	return array.MakeFromData(data)
}

// CastBooleanToNumeric writes 1 for true and 0 for false.
func CastBooleanToNumeric(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	switch to.ID() {
	case arrow.INT8:
		return boolToNumber[int8](mem, in, to), nil
	case arrow.INT16:
		return boolToNumber[int16](mem, in, to), nil
	case arrow.INT32:
		return boolToNumber[int32](mem, in, to), nil
	case arrow.INT64:
		return boolToNumber[int64](mem, in, to), nil
	case arrow.UINT8:
		return boolToNumber[uint8](mem, in, to), nil
	case arrow.UINT16:
		return boolToNumber[uint16](mem, in, to), nil
	case arrow.UINT32:
		return boolToNumber[uint32](mem, in, to), nil
	case arrow.UINT64:
		return boolToNumber[uint64](mem, in, to), nil
	case arrow.FLOAT32:
		return boolToNumber[float32](mem, in, to), nil
	case arrow.FLOAT64:
		return boolToNumber[float64](mem, in, to), nil
	}
	return nil, unsupported(in.DataType(), to)
}

func boolToNumber[T numeric](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) arrow.Array {
	var (
		bits = bufferBytes(in, 1)
		off  = in.Offset()
		one  = T(1)
	)
	return fillNumeric(mem, in, to, func(i int) (T, bool) {
		if bitutil.BitIsSet(bits, off+i) {
			return one, true
		}
		return 0, true
	})
}

// CastBooleanToString renders true as "1" and false as "0".
func CastBooleanToString(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	bldr, err := newStringBuilder(mem, to)
	if err != nil {
		return nil, err
	}
	defer bldr.Release()

	var (
		n      = in.Len()
		off    = in.Offset()
		bits   = bufferBytes(in, 1)
		inBits = validityBits(in)
	)
	bldr.Reserve(n)
	for i := 0; i < n; i++ {
		switch {
		case inBits != nil && !bitutil.BitIsSet(inBits, off+i):
			bldr.AppendNull()
		case bitutil.BitIsSet(bits, off+i):
			bldr.Append("1")
		default:
			bldr.Append("0")
		}
	}
	return bldr.NewArray(), nil
}
