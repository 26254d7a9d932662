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

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
)

type (
	ctxAllocKey  struct{}
	ctxLoggerKey struct{}
	ctxHookKey   struct{}
)

// WithAllocator returns a context that makes CastArray allocate output
// buffers from mem.
func WithAllocator(ctx context.Context, mem memory.Allocator) context.Context {
	return context.WithValue(ctx, ctxAllocKey{}, mem)
}

// GetAllocator retrieves the allocator from the context, falling back to
// memory.DefaultAllocator.
func GetAllocator(ctx context.Context) memory.Allocator {
	mem, ok := ctx.Value(ctxAllocKey{}).(memory.Allocator)
	if !ok {
		return memory.DefaultAllocator
	}
	return mem
}

// WithLogger returns a context whose casts log to logger.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// GetLogger retrieves the logger from the context. Without one, logging
// is discarded.
func GetLogger(ctx context.Context) log.Logger {
	logger, ok := ctx.Value(ctxLoggerKey{}).(log.Logger)
	if !ok {
		return log.NewNopLogger()
	}
	return logger
}

// WithCastHook returns a context that reports every top level cast to
// hook.
func WithCastHook(ctx context.Context, hook CastHook) context.Context {
	return context.WithValue(ctx, ctxHookKey{}, hook)
}

func getCastHook(ctx context.Context) CastHook {
	hook, _ := ctx.Value(ctxHookKey{}).(CastHook)
	return hook
}
