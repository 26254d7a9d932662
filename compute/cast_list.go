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

package compute

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/simon-mo/arrow/compute/internal/kernels"
)

func listElem(dt arrow.DataType) arrow.DataType {
	switch dt := dt.(type) {
	case *arrow.ListType:
		return dt.Elem()
	case *arrow.LargeListType:
		return dt.Elem()
	}
	return nil
}

// castListToList casts the child values to the target element type and
// reuses the source offsets. Unless PreserveListValidity is set, slot i
// of the result is null exactly when value i of the cast child is null.
func castListToList(mem memory.Allocator, in arrow.ArrayData, opts *CastOptions) (arrow.Array, error) {
	from, to := in.DataType(), opts.ToType
	if from.ID() != to.ID() {
		return nil, newCastError(UnsupportedCast, from, to)
	}

	childOpts := *opts
	childOpts.ToType = listElem(to)
	values, err := castArray(mem, in.Children()[0], &childOpts)
	if err != nil {
		return nil, err
	}
	defer values.Release()

	var (
		validity *memory.Buffer
		nulls    int
	)
	if opts.PreserveListValidity {
		if nulls = kernels.NullCount(in); nulls > 0 {
			validity = in.Buffers()[0]
			validity.Retain()
		}
	} else {
		validity, nulls = validityFromValues(mem, in.Offset(), in.Len(), values.Data())
	}
	if validity != nil {
		defer validity.Release()
	}

	data := array.NewData(to, in.Len(),
		[]*memory.Buffer{validity, in.Buffers()[1]},
		[]arrow.ArrayData{values.Data()}, nulls, in.Offset())
	defer data.Release()
	return array.MakeFromData(data), nil
}

// promoteToList wraps every element of a flat array into a list of
// length one. Only arrays with a zero offset can be promoted.
func promoteToList(mem memory.Allocator, in arrow.ArrayData, opts *CastOptions) (arrow.Array, error) {
	from, to := in.DataType(), opts.ToType
	if in.Offset() != 0 {
		return nil, newCastError(SlicedArray, from, to)
	}

	n := in.Len()
	if to.ID() == arrow.LIST && n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d elements do not fit in %s offsets", arrow.ErrInvalid, n, to)
	}

	childOpts := *opts
	childOpts.ToType = listElem(to)
	values, err := castArray(mem, in, &childOpts)
	if err != nil {
		return nil, err
	}
	defer values.Release()

	offsets := memory.NewResizableBuffer(mem)
	defer offsets.Release()
	if to.ID() == arrow.LIST {
		offsets.Resize((n + 1) * arrow.Int32SizeBytes)
		for i, o := 0, arrow.GetData[int32](offsets.Bytes()); i <= n; i++ {
			o[i] = int32(i)
		}
	} else {
		offsets.Resize((n + 1) * arrow.Int64SizeBytes)
		for i, o := 0, arrow.GetData[int64](offsets.Bytes()); i <= n; i++ {
			o[i] = int64(i)
		}
	}

	validity, nulls := validityFromValues(mem, 0, n, values.Data())
	if validity != nil {
		defer validity.Release()
	}

	data := array.NewData(to, n,
		[]*memory.Buffer{validity, offsets},
		[]arrow.ArrayData{values.Data()}, nulls, 0)
	defer data.Release()
	return array.MakeFromData(data), nil
}

// validityFromValues builds the validity of a list with the given offset
// and length from the null pattern of its child values, one child value
// per list slot. Child values past the end of the child count as valid.
// A null typed child makes every covered slot null.
// The child bitmap is shared when its bits already line up. A non-nil
// result must be released by the caller.
func validityFromValues(mem memory.Allocator, offset, length int, values arrow.ArrayData) (*memory.Buffer, int) {
	if kernels.NullCount(values) == 0 {
		return nil, 0
	}
	var bits *memory.Buffer
	if bufs := values.Buffers(); len(bufs) > 0 {
		bits = bufs[0]
	}
	end := offset + length

	if bits != nil && values.Offset() == 0 && values.Len() >= end {
		nulls := length - bitutil.CountSetBits(bits.Bytes(), offset, length)
		if nulls == 0 {
			return nil, 0
		}
		bits.Retain()
		return bits, nulls
	}

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(end))))
	out := buf.Bytes()
	bitutil.SetBitsTo(out, 0, int64(end), true)
	if n := min(values.Len(), end); n > 0 {
		if bits != nil {
			bitutil.CopyBitmap(bits.Bytes(), values.Offset(), n, out, 0)
		} else {
			// null typed children carry no bitmap
			bitutil.SetBitsTo(out, 0, int64(n), false)
		}
	}

	nulls := length - bitutil.CountSetBits(out, offset, length)
	if nulls == 0 {
		buf.Release()
		return nil, 0
	}
	return buf, nulls
}
