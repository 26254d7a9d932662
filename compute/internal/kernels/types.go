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
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CastFunc converts the array described by in to the type to, allocating
// from mem. Elements that cannot be represented in to become null.
type CastFunc func(mem memory.Allocator, in arrow.ArrayData, to arrow.DataType) (arrow.Array, error)

type signedInt interface {
	int8 | int16 | int32 | int64
}

type unsignedInt interface {
	uint8 | uint16 | uint32 | uint64
}

type integer interface {
	signedInt | unsignedInt
}

type floating interface {
	float32 | float64
}

type numeric interface {
	integer | floating
}

var (
	unsignedIntTypes = []arrow.DataType{
		arrow.PrimitiveTypes.Uint8,
		arrow.PrimitiveTypes.Uint16,
		arrow.PrimitiveTypes.Uint32,
		arrow.PrimitiveTypes.Uint64,
	}
	signedIntTypes = []arrow.DataType{
		arrow.PrimitiveTypes.Int8,
		arrow.PrimitiveTypes.Int16,
		arrow.PrimitiveTypes.Int32,
		arrow.PrimitiveTypes.Int64,
	}
	intTypes      = append(unsignedIntTypes, signedIntTypes...)
	floatingTypes = []arrow.DataType{
		arrow.PrimitiveTypes.Float32,
		arrow.PrimitiveTypes.Float64,
	}
	numericTypes = append(intTypes, floatingTypes...)
	textTypes    = []arrow.DataType{
		arrow.BinaryTypes.String,
		arrow.BinaryTypes.LargeString,
	}
)

// NumericTypes returns the numeric types the cast kernels can read and
// produce. Float16 is not among them.
func NumericTypes() []arrow.DataType {
	return append([]arrow.DataType(nil), numericTypes...)
}

// TextTypes returns the utf8 types accepted as text endpoints.
func TextTypes() []arrow.DataType {
	return append([]arrow.DataType(nil), textTypes...)
}

func IsNumeric(id arrow.Type) bool {
	switch id {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64:
		return true
	}
	return false
}

func IsText(id arrow.Type) bool {
	return id == arrow.STRING || id == arrow.LARGE_STRING
}

func IsList(id arrow.Type) bool {
	return id == arrow.LIST || id == arrow.LARGE_LIST
}
