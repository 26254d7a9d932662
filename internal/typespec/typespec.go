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

// Package typespec parses the compact type expressions accepted on the
// arrow-cast command line, such as "int32", "large_utf8",
// "list<float64>" or "timestamp[ms]".
package typespec

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

var named = map[string]arrow.DataType{
	"null":         arrow.Null,
	"bool":         arrow.FixedWidthTypes.Boolean,
	"boolean":      arrow.FixedWidthTypes.Boolean,
	"int8":         arrow.PrimitiveTypes.Int8,
	"int16":        arrow.PrimitiveTypes.Int16,
	"int32":        arrow.PrimitiveTypes.Int32,
	"int64":        arrow.PrimitiveTypes.Int64,
	"uint8":        arrow.PrimitiveTypes.Uint8,
	"uint16":       arrow.PrimitiveTypes.Uint16,
	"uint32":       arrow.PrimitiveTypes.Uint32,
	"uint64":       arrow.PrimitiveTypes.Uint64,
	"float32":      arrow.PrimitiveTypes.Float32,
	"float":        arrow.PrimitiveTypes.Float32,
	"float64":      arrow.PrimitiveTypes.Float64,
	"double":       arrow.PrimitiveTypes.Float64,
	"utf8":         arrow.BinaryTypes.String,
	"string":       arrow.BinaryTypes.String,
	"large_utf8":   arrow.BinaryTypes.LargeString,
	"large_string": arrow.BinaryTypes.LargeString,
	"binary":       arrow.BinaryTypes.Binary,
	"date32":       arrow.FixedWidthTypes.Date32,
	"date64":       arrow.FixedWidthTypes.Date64,
}

var units = map[string]arrow.TimeUnit{
	"s":  arrow.Second,
	"ms": arrow.Millisecond,
	"us": arrow.Microsecond,
	"ns": arrow.Nanosecond,
}

// Parse returns the data type described by s. Whitespace around names
// and brackets is ignored.
func Parse(s string) (arrow.DataType, error) {
	dt, err := parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid type expression %q: %s", arrow.ErrInvalid, s, err)
	}
	return dt, nil
}

func parse(s string) (arrow.DataType, error) {
	if dt, ok := named[strings.ToLower(s)]; ok {
		return dt, nil
	}

	name, arg, open, err := split(s)
	if err != nil {
		return nil, err
	}

	switch {
	case open == '<' && name == "list":
		elem, err := parse(arg)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	case open == '<' && name == "large_list":
		elem, err := parse(arg)
		if err != nil {
			return nil, err
		}
		return arrow.LargeListOf(elem), nil
	case open == '[' && name == "timestamp":
		unit, ok := units[strings.ToLower(arg)]
		if !ok {
			return nil, fmt.Errorf("unknown time unit %q", arg)
		}
		return &arrow.TimestampType{Unit: unit}, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

// split breaks "name<arg>" or "name[arg]" into its parts.
func split(s string) (name, arg string, open byte, err error) {
	i := strings.IndexAny(s, "<[")
	if i < 0 {
		return "", "", 0, fmt.Errorf("unknown type %q", s)
	}

	open = s[i]
	closing := byte('>')
	if open == '[' {
		closing = ']'
	}
	if s[len(s)-1] != closing {
		return "", "", 0, fmt.Errorf("missing %q", closing)
	}

	name = strings.ToLower(strings.TrimSpace(s[:i]))
	arg = strings.TrimSpace(s[i+1 : len(s)-1])
	if arg == "" {
		return "", "", 0, fmt.Errorf("empty parameter for %q", name)
	}
	return name, arg, open, nil
}
