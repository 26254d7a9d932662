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
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/simon-mo/arrow/compute/internal/kernels"
)

// CastArray casts val to opts.ToType and returns a new array of the same
// length, which the caller must release. Values that cannot be
// represented in the target type become null; inspect NullN on the
// result to detect them. A *CastError is returned when the pair of types
// cannot be cast at all.
//
// Output buffers are allocated from the allocator attached with
// WithAllocator. A hook attached with WithCastHook observes the call.
func CastArray(ctx context.Context, val arrow.Array, opts *CastOptions) (arrow.Array, error) {
	if opts == nil || opts.ToType == nil {
		return nil, fmt.Errorf("%w: cast requires that options be passed with a ToType", arrow.ErrInvalid)
	}
	if val == nil {
		return nil, fmt.Errorf("%w: cast requires an input array", arrow.ErrInvalid)
	}

	var (
		info  = CastInfo{From: val.DataType(), To: opts.ToType}
		stats = &CastStats{Rows: int64(val.Len()), NullsIn: int64(val.NullN())}
		hook  = getCastHook(ctx)
		token HookToken
	)
	if hook != nil {
		ctx, token = hook.OnCastStart(ctx, info)
	}

	out, err := castArray(GetAllocator(ctx), val.Data(), opts)
	if err == nil {
		stats.NullsOut = int64(out.NullN())
	}

	if hook != nil {
		hook.OnCastEnd(ctx, token, info, stats, err)
	}
	logCast(GetLogger(ctx), info, stats, err)
	return out, err
}

// CastToType is a convenience for CastArray with NewCastOptions(toType).
func CastToType(ctx context.Context, val arrow.Array, toType arrow.DataType) (arrow.Array, error) {
	return CastArray(ctx, val, NewCastOptions(toType))
}

func logCast(logger log.Logger, info CastInfo, stats *CastStats, err error) {
	logger = log.With(logger, "from", info.From, "to", info.To, "len", stats.Rows)
	if err != nil {
		level.Debug(logger).Log("msg", "cast failed", "err", err)
		return
	}

	level.Debug(logger).Log("msg", "cast", "nulls_in", stats.NullsIn, "nulls_out", stats.NullsOut)
	if n := stats.IntroducedNulls(); n > 0 {
		level.Warn(logger).Log("msg", "cast introduced nulls", "introduced", n)
	}
}

// castArray is the recursive dispatcher. Lists re-enter it for their
// child data.
func castArray(mem memory.Allocator, in arrow.ArrayData, opts *CastOptions) (arrow.Array, error) {
	from, to := in.DataType(), opts.ToType

	switch {
	case arrow.TypeEqual(from, to):
		return array.MakeFromData(in), nil
	case from.ID() == arrow.STRUCT:
		return nil, newCastError(StructCast, from, to)
	case to.ID() == arrow.STRUCT:
		return nil, newCastError(StructCast, from, to)
	case kernels.IsList(from.ID()) && kernels.IsList(to.ID()):
		return castListToList(mem, in, opts)
	case kernels.IsList(from.ID()):
		return nil, newCastError(ListToNonList, from, to)
	case kernels.IsList(to.ID()):
		return promoteToList(mem, in, opts)
	}

	fn := elementwiseKernel(from.ID(), to.ID())
	if fn == nil {
		return nil, newCastError(UnsupportedCast, from, to)
	}
	return fn(mem, in, to)
}

func elementwiseKernel(from, to arrow.Type) kernels.CastFunc {
	switch {
	case from == arrow.NULL:
		if to == arrow.BOOL || kernels.IsNumeric(to) || kernels.IsText(to) {
			return kernels.CastFromNull
		}
	case to == arrow.BOOL && kernels.IsNumeric(from):
		return kernels.CastNumericToBoolean
	case from == arrow.BOOL && kernels.IsNumeric(to):
		return kernels.CastBooleanToNumeric
	case from == arrow.BOOL && kernels.IsText(to):
		return kernels.CastBooleanToString
	case kernels.IsText(from) && kernels.IsNumeric(to):
		return kernels.CastStringToNumeric
	case kernels.IsNumeric(from) && kernels.IsText(to):
		return kernels.CastNumericToString
	case kernels.IsNumeric(from) && kernels.IsNumeric(to):
		return kernels.CastNumeric
	}
	return nil
}

// CanCast reports whether CastArray has an implementation for casting
// from one type to the other. A true result does not cover the
// restriction on promoting sliced arrays to lists.
func CanCast(from, to arrow.DataType) bool {
	switch {
	case arrow.TypeEqual(from, to):
		return true
	case from.ID() == arrow.STRUCT || to.ID() == arrow.STRUCT:
		return false
	case kernels.IsList(from.ID()) && kernels.IsList(to.ID()):
		return from.ID() == to.ID() && CanCast(listElem(from), listElem(to))
	case kernels.IsList(from.ID()):
		return false
	case kernels.IsList(to.ID()):
		return CanCast(from, listElem(to))
	}
	return elementwiseKernel(from.ID(), to.ID()) != nil
}
