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
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"
)

// SizeOf determines the size in number of bytes for an integer
// based on the generic value in a way that the compiler should
// be able to easily evaluate and create as a constant.
func SizeOf[T constraints.Integer]() uint {
	x := uint16(1 << 8)
	y := uint32(2 << 16)
	z := uint64(4 << 32)
	return 1 + uint(T(x))>>8 + uint(T(y))>>16 + uint(T(z))>>32
}

// MinOf returns the minimum value for a given type since there is not
// currently a generic way to do this with Go generics yet.
func MinOf[T constraints.Integer]() T {
	if ones := ^T(0); ones < 0 {
		return ones << (8*SizeOf[T]() - 1)
	}
	return 0
}

// MaxOf determines the max value for a given type since there is not
// currently a generic way to do this for Go generics yet as all of the
// math.Max/Min values are constants.
func MaxOf[T constraints.Integer]() T {
	ones := ^T(0)
	if ones < 0 {
		return ones ^ (ones << (8*SizeOf[T]() - 1))
	}
	return ones
}

func floatBits[T constraints.Float]() int {
	var z T
	if _, ok := any(z).(float32); ok {
		return 32
	}
	return 64
}

// NullCount returns the number of null slots in in. Data carrying
// array.UnknownNullCount, such as slices, is counted from its bitmap.
func NullCount(in arrow.ArrayData) int {
	if n := in.NullN(); n >= 0 {
		return n
	}
	if in.DataType().ID() == arrow.NULL {
		return in.Len()
	}
	bits := bufferBytes(in, 0)
	if bits == nil {
		return 0
	}
	return in.Len() - bitutil.CountSetBits(bits, in.Offset(), in.Len())
}

// validityBits returns the raw validity bitmap of in, or nil when every
// visible slot is valid. Slot i lives at bit in.Offset()+i.
func validityBits(in arrow.ArrayData) []byte {
	if NullCount(in) == 0 {
		return nil
	}
	return bufferBytes(in, 0)
}

// newValidityBitmap allocates a bitmap for in.Len() slots starting at
// bit zero, seeded from the visible window of the input validity or set
// entirely when the input has no nulls. The caller owns the buffer.
func newValidityBitmap(mem memory.Allocator, in arrow.ArrayData) *memory.Buffer {
	n := in.Len()
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(n))))
	if bits := validityBits(in); bits != nil {
		bitutil.CopyBitmap(bits, in.Offset(), n, buf.Bytes(), 0)
	} else {
		bitutil.SetBitsTo(buf.Bytes(), 0, int64(n), true)
	}
	return buf
}

// inheritValidity returns a validity buffer for an output with offset zero
// whose null pattern equals the input's. The input buffer is shared when
// its bits already line up, otherwise the window is copied. It returns nil
// when the input has no nulls. A non-nil result must be released by the
// caller.
func inheritValidity(mem memory.Allocator, in arrow.ArrayData) *memory.Buffer {
	if validityBits(in) == nil {
		return nil
	}
	if in.Offset() == 0 {
		buf := in.Buffers()[0]
		buf.Retain()
		return buf
	}
	return newValidityBitmap(mem, in)
}

func bufferBytes(in arrow.ArrayData, i int) []byte {
	if bufs := in.Buffers(); i < len(bufs) && bufs[i] != nil {
		return bufs[i].Bytes()
	}
	return nil
}

func releaseBuffers(bufs ...*memory.Buffer) {
	for _, b := range bufs {
		if b != nil {
			b.Release()
		}
	}
}

// fillNumeric builds a fixed width array of type to with in.Len() slots.
// conv is only invoked for valid input slots; a false result turns the
// slot null. Null slots are always written as zero.
func fillNumeric[O numeric](mem memory.Allocator, in arrow.ArrayData, to arrow.DataType, conv func(i int) (O, bool)) arrow.Array {
	var (
		n       = in.Len()
		off     = in.Offset()
		inBits  = validityBits(in)
		outBits *memory.Buffer
		nulls   = NullCount(in)
		zero    O
	)

	values := memory.NewResizableBuffer(mem)
	values.Resize(n * to.(arrow.FixedWidthDataType).BitWidth() / 8)
	dst := arrow.GetData[O](values.Bytes())

	for i := 0; i < n; i++ {
		if inBits != nil && !bitutil.BitIsSet(inBits, off+i) {
			dst[i] = zero
			continue
		}
		v, ok := conv(i)
		if !ok {
			if outBits == nil {
				outBits = newValidityBitmap(mem, in)
			}
			bitutil.ClearBit(outBits.Bytes(), i)
			nulls++
			dst[i] = zero
			continue
		}
		dst[i] = v
	}

	if outBits == nil {
		outBits = inheritValidity(mem, in)
	}
	defer releaseBuffers(outBits, values)

	data := array.NewData(to, n, []*memory.Buffer{outBits, values}, nil, nulls, 0)
	defer data.Release()
	return array.MakeFromData(data)
}

func unsupported(from, to arrow.DataType) error {
	return fmt.Errorf("%w: no kernel casting %s to %s", arrow.ErrNotImplemented, from, to)
}
