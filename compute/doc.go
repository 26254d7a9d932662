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

// Package compute casts Arrow arrays from one logical type to another.
//
// CastArray is the single entry point. It short-circuits casts to the
// same type, rejects struct endpoints, recurses through list and
// large_list children and routes every other supported pair to an
// elementwise kernel:
//
//	numeric  -> numeric   overflow and unrepresentable values become null
//	numeric  -> bool      non-zero is true
//	bool     -> numeric   1 and 0
//	bool     -> utf8      "1" and "0"
//	utf8     -> numeric   base 10 parse, failures become null
//	numeric  -> utf8      decimal text, floats always carry a fraction
//	null     -> any of the above targets
//
// Per-element failures never fail the call; callers can compare the
// input and output NullN to detect lossy casts. Structural failures are
// reported as *CastError, which satisfies errors.Is(err,
// arrow.ErrNotImplemented).
//
// Results are new immutable arrays that may share buffers with the input
// and must be released by the caller.
package compute
