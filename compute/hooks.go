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
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// CastHook observes top level CastArray calls. Implementations must be
// safe for concurrent use.
type CastHook interface {
	OnCastStart(ctx context.Context, info CastInfo) (context.Context, HookToken)
	OnCastEnd(ctx context.Context, token HookToken, info CastInfo, stats *CastStats, err error)
}

// HookToken is an opaque value returned by OnCastStart and handed back
// to OnCastEnd. Only meaningful to the hook that created it.
type HookToken interface{}

// CastInfo describes the requested cast.
type CastInfo struct {
	From arrow.DataType
	To   arrow.DataType
}

// CastStats holds per-call counters. NullsOut is only meaningful when the
// cast succeeded.
type CastStats struct {
	Rows     int64
	NullsIn  int64
	NullsOut int64
}

// IntroducedNulls is the number of slots that were valid in the input
// and are null in the output.
func (s *CastStats) IntroducedNulls() int64 {
	if s.NullsOut <= s.NullsIn {
		return 0
	}
	return s.NullsOut - s.NullsIn
}
