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

package compute_test

import (
	"errors"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/simon-mo/arrow/compute"
)

func (c *CastSuite) TestPromoteToList() {
	in := c.fromJSON(arrow.PrimitiveTypes.Int32, `[1, null, 3, 4, 5]`)
	defer in.Release()

	out, err := compute.CastToType(c.ctx, in, arrow.ListOf(arrow.PrimitiveTypes.Int32))
	c.Require().NoError(err)
	defer out.Release()

	list := out.(*array.List)
	c.Equal(5, list.Len())
	c.Equal(1, list.NullN())
	c.True(list.IsNull(1))
	c.Zero(list.Data().Offset())
	c.Equal([]int32{0, 1, 2, 3, 4, 5}, list.Offsets())
	for i := 0; i < list.Len(); i++ {
		start, end := list.ValueOffsets(i)
		c.EqualValues(1, end-start)
	}

	values := list.ListValues()
	c.Equal(5, values.Len())
	c.True(values.IsNull(1))
	c.Same(in.Data(), values.Data())

	exp := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[1], null, [3], [4], [5]]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

func (c *CastSuite) TestPromoteToListWithConversion() {
	in := c.fromJSON(arrow.PrimitiveTypes.Float64, `[1.5, 1e10, null]`)
	defer in.Release()

	c.checkCastArr(in, arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[1], null, null]`, compute.CastOptions{})
	c.checkCastArr(in, arrow.ListOf(arrow.BinaryTypes.String),
		`[["1.5"], ["10000000000.0"], null]`, compute.CastOptions{})
}

func (c *CastSuite) TestPromoteToLargeList() {
	in := c.fromJSON(arrow.FixedWidthTypes.Boolean, `[true, null, false]`)
	defer in.Release()

	out, err := compute.CastToType(c.ctx, in, arrow.LargeListOf(arrow.PrimitiveTypes.Uint8))
	c.Require().NoError(err)
	defer out.Release()

	c.Equal([]int64{0, 1, 2, 3}, out.(*array.LargeList).Offsets())
	exp := c.fromJSON(arrow.LargeListOf(arrow.PrimitiveTypes.Uint8), `[[1], null, [0]]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

func (c *CastSuite) TestPromoteSlicedRejected() {
	in := c.fromJSON(arrow.PrimitiveTypes.Int32, `[1, 2, 3, 4]`)
	defer in.Release()
	sliced := array.NewSlice(in, 1, 3)
	defer sliced.Release()

	c.checkCastFails(sliced, arrow.ListOf(arrow.PrimitiveTypes.Int32), compute.SlicedArray,
		"Cast kernel does not yet support sliced (non-zero offset) arrays")
	c.checkCastFails(sliced, arrow.ListOf(pointType), compute.SlicedArray,
		"Cast kernel does not yet support sliced (non-zero offset) arrays")
}

func (c *CastSuite) TestPromoteNested() {
	in := c.fromJSON(arrow.PrimitiveTypes.Int8, `[7, null]`)
	defer in.Release()

	c.checkCastArr(in, arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int64)),
		`[[[7]], null]`, compute.CastOptions{})
}

func (c *CastSuite) TestPromoteNullArray() {
	in := array.NewNull(3)
	defer in.Release()

	out, err := compute.CastToType(c.ctx, in, arrow.ListOf(arrow.Null))
	c.Require().NoError(err)
	defer out.Release()

	c.Equal(3, out.Len())
	c.Equal(3, out.NullN())
	for i := 0; i < out.Len(); i++ {
		c.True(out.IsNull(i))
	}
}

func (c *CastSuite) TestListToList() {
	in := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[1, 2], [300], [], [4]]`)
	defer in.Release()

	out, err := compute.CastToType(c.ctx, in, arrow.ListOf(arrow.PrimitiveTypes.Float64))
	c.Require().NoError(err)
	defer out.Release()

	c.Same(in.Data().Buffers()[1], out.Data().Buffers()[1])
	c.Equal(in.Len(), out.Len())

	exp := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Float64), `[[1.0, 2.0], [300.0], [], [4.0]]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

func (c *CastSuite) TestListToListOverflow() {
	in := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[1, 2], [300], null]`)
	defer in.Release()

	c.checkCastArr(in, arrow.ListOf(arrow.PrimitiveTypes.Uint8), `[[1, 2], [null], null]`, compute.CastOptions{})
}

func (c *CastSuite) TestListValidityFromValues() {
	in := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[null, 1], [2]]`)
	defer in.Release()

	// slot i takes the validity of child value i
	c.checkCastArr(in, arrow.ListOf(arrow.PrimitiveTypes.Int64), `[null, [2]]`, compute.CastOptions{})

	c.checkCastArr(in, arrow.ListOf(arrow.PrimitiveTypes.Int64), `[[null, 1], [2]]`,
		compute.CastOptions{PreserveListValidity: true})
}

func (c *CastSuite) TestListPreserveValidity() {
	in := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int64), `[[1], null, [1000, 2]]`)
	defer in.Release()

	opts := compute.NewCastOptions(arrow.ListOf(arrow.PrimitiveTypes.Int8))
	opts.PreserveListValidity = true
	out, err := compute.CastArray(c.ctx, in, opts)
	c.Require().NoError(err)
	defer out.Release()

	c.Same(in.Data().Buffers()[0], out.Data().Buffers()[0])
	exp := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int8), `[[1], null, [null, 2]]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

// listOver builds a list array with no nulls of its own over child.
func (c *CastSuite) listOver(dt arrow.DataType, child arrow.ArrayData, offsets []int32) arrow.Array {
	data := array.NewData(dt, len(offsets)-1,
		[]*memory.Buffer{nil, memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offsets))},
		[]arrow.ArrayData{child}, 0, 0)
	defer data.Release()
	return array.MakeFromData(data)
}

func (c *CastSuite) TestListOverSlicedChild() {
	values := c.fromJSON(arrow.PrimitiveTypes.Int16, `[null, 300, 5, null, -1, 7]`)
	defer values.Release()
	child := array.NewSliceData(values.Data(), 1, 5)
	defer child.Release()

	in := c.listOver(arrow.ListOf(arrow.PrimitiveTypes.Int16), child, []int32{0, 1, 2, 3, 4})
	defer in.Release()

	out, err := compute.CastToType(c.ctx, in, arrow.ListOf(arrow.PrimitiveTypes.Uint8))
	c.Require().NoError(err)
	defer out.Release()

	c.Equal(3, out.(*array.List).ListValues().Data().NullN())
	c.Equal(3, out.Data().NullN())
	exp := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Uint8), `[null, [5], null, null]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

func (c *CastSuite) TestPreserveValiditySlicedChild() {
	inner := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[9], null, [2], null]`)
	defer inner.Release()
	child := array.NewSliceData(inner.Data(), 1, 4)
	defer child.Release()

	in := c.listOver(arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int32)), child, []int32{0, 3})
	defer in.Release()

	opts := compute.NewCastOptions(arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int64)))
	opts.PreserveListValidity = true
	out, err := compute.CastArray(c.ctx, in, opts)
	c.Require().NoError(err)
	defer out.Release()

	c.Equal(2, out.(*array.List).ListValues().Data().NullN())
	exp := c.fromJSON(arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int64)), `[[null, [2], null]]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

func (c *CastSuite) TestSlicedListToList() {
	in := c.fromJSON(arrow.LargeListOf(arrow.PrimitiveTypes.Int16), `[[1], [2, 3], [4], [5, 6]]`)
	defer in.Release()
	sliced := array.NewSlice(in, 1, 3)
	defer sliced.Release()

	out, err := compute.CastToType(c.ctx, sliced, arrow.LargeListOf(arrow.BinaryTypes.LargeString))
	c.Require().NoError(err)
	defer out.Release()

	c.Equal(1, out.Data().Offset())
	exp := c.fromJSON(arrow.LargeListOf(arrow.BinaryTypes.LargeString), `[["2", "3"], ["4"]]`)
	defer exp.Release()
	assertArraysEqual(c.T(), exp, out)
}

func (c *CastSuite) TestNestedListToList() {
	in := c.fromJSON(arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int8)), `[[[1, 2], [3]], [[4]]]`)
	defer in.Release()

	c.checkCastArr(in, arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Uint16)),
		`[[[1, 2], [3]], [[4]]]`, compute.CastOptions{})
}

func (c *CastSuite) TestListErrors() {
	in := c.fromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[1], [2]]`)
	defer in.Release()

	c.checkCastFails(in, arrow.PrimitiveTypes.Int32, compute.ListToNonList,
		"Cannot cast list to non-list data types")
	large := arrow.LargeListOf(arrow.PrimitiveTypes.Int32)
	c.checkCastFails(in, large, compute.UnsupportedCast,
		"Casting from "+in.DataType().String()+" to "+large.String()+" not supported")

	// inner failures surface unchanged
	_, err := compute.CastToType(c.ctx, in, arrow.ListOf(timestampUs))
	var castErr *compute.CastError
	c.Require().True(errors.As(err, &castErr))
	c.Equal(compute.UnsupportedCast, castErr.Kind)
	c.True(arrow.TypeEqual(arrow.PrimitiveTypes.Int32, castErr.From))
	c.True(arrow.TypeEqual(timestampUs, castErr.To))

	c.checkCastFails(in, arrow.ListOf(pointType), compute.StructCast,
		"Cannot cast to struct from other types")
}
