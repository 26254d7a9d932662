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
	"github.com/apache/arrow-go/v18/arrow"
)

// CastOptions controls a call to CastArray.
type CastOptions struct {
	// ToType is the requested output type and must be set.
	ToType arrow.DataType `compute:"to_type"`
	// PreserveListValidity makes list to list casts keep the validity of
	// the source list instead of deriving it from the cast child values.
	PreserveListValidity bool `compute:"preserve_list_validity"`
}

func (CastOptions) TypeName() string { return "CastOptions" }

// NewCastOptions returns options casting to dt with the default behavior.
func NewCastOptions(dt arrow.DataType) *CastOptions {
	return &CastOptions{ToType: dt}
}

// DefaultCastOptions returns options with no target type set. ToType
// must be filled in before the options are used.
func DefaultCastOptions() *CastOptions {
	return &CastOptions{}
}
