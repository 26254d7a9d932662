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

	"github.com/apache/arrow-go/v18/arrow"
)

// CastErrorKind classifies a structural cast failure.
type CastErrorKind int8

const (
	// UnsupportedCast means no conversion exists for the type pair.
	UnsupportedCast CastErrorKind = iota
	// StructCast means one side of the cast is a struct type.
	StructCast
	// ListToNonList means a list was asked to become a non-list type.
	ListToNonList
	// SlicedArray means a non-list array with a non-zero offset was
	// asked to become a list.
	SlicedArray
)

func (k CastErrorKind) String() string {
	switch k {
	case UnsupportedCast:
		return "unsupported_cast"
	case StructCast:
		return "struct_cast"
	case ListToNonList:
		return "list_to_non_list"
	case SlicedArray:
		return "sliced_array"
	}
	return fmt.Sprintf("CastErrorKind(%d)", int8(k))
}

// CastError is returned by CastArray when the requested cast cannot be
// performed for structural reasons. It never describes a single element.
type CastError struct {
	Kind CastErrorKind
	From arrow.DataType
	To   arrow.DataType
}

func (e *CastError) Error() string {
	switch e.Kind {
	case StructCast:
		if e.From != nil && e.From.ID() == arrow.STRUCT {
			return "Cannot cast from struct to other types"
		}
		return "Cannot cast to struct from other types"
	case ListToNonList:
		return "Cannot cast list to non-list data types"
	case SlicedArray:
		return "Cast kernel does not yet support sliced (non-zero offset) arrays"
	}
	return fmt.Sprintf("Casting from %s to %s not supported", e.From, e.To)
}

// Unwrap allows errors.Is(err, arrow.ErrNotImplemented).
func (e *CastError) Unwrap() error { return arrow.ErrNotImplemented }

func newCastError(kind CastErrorKind, from, to arrow.DataType) error {
	return &CastError{Kind: kind, From: from, To: to}
}
