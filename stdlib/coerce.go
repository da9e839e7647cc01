// Copyright 2024 VRL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stdlib

import (
	"fmt"
	"strconv"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/value"
)

func registerCoerce(r *function.Registry) {
	r.Register(toIntFn{})
}

// toIntFn implements `to_int(value)`: converts a string, float or
// boolean to an integer, failing at runtime on a non-numeric string
// (spec.md §4.5: "functions document which argument kinds they accept
// and which runtime failures they may raise").
type toIntFn struct{}

func (toIntFn) Identifier() string { return "to_int" }

func (toIntFn) Parameters() []function.Param {
	return []function.Param{
		{Name: "value", Kind: value.BytesKind | value.FloatKind | value.BooleanKind | value.IntegerKind, Required: true},
	}
}

func (toIntFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 1 {
		return function.CompileResult{}, function.ErrWrongParamCount("to_int", 1, len(args))
	}
	fallible := !args[0].Type.Kind.Is(value.IntegerKind)
	return function.CompileResult{Result: value.TypeDef{Kind: value.IntegerKind, Fallible: fallible, Pure: true}}, nil
}

func (toIntFn) ClosureAccepting() bool { return false }

func (toIntFn) Call(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Integer:
		return v, nil
	case value.Float:
		return value.Integer(v), nil
	case value.Boolean:
		if v {
			return value.Integer(1), nil
		}
		return value.Integer(0), nil
	case value.Bytes:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("to_int: %q is not an integer", string(v))
		}
		return value.Integer(n), nil
	}
	return nil, fmt.Errorf("to_int: unsupported kind %s", args[0].Kind())
}

func (toIntFn) Examples() []function.Example {
	return []function.Example{{Source: `to_int("42")`, Result: "42"}}
}
