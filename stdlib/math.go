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
	"math"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/value"
)

func registerMath(r *function.Registry) {
	r.Register(roundFn{})
}

// roundFn implements `round(value)`, rounding a float to the nearest
// integer (ties away from zero, matching math.Round), grounded on the
// thin math-stdlib wrapping style of pkg/math.
type roundFn struct{}

func (roundFn) Identifier() string { return "round" }

func (roundFn) Parameters() []function.Param {
	return []function.Param{{Name: "value", Kind: value.FloatKind | value.IntegerKind, Required: true}}
}

func (roundFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 1 {
		return function.CompileResult{}, function.ErrWrongParamCount("round", 1, len(args))
	}
	fallible := !args[0].Type.Kind.Has(value.FloatKind | value.IntegerKind)
	return function.CompileResult{Result: value.TypeDef{Kind: value.IntegerKind, Fallible: fallible, Pure: true}}, nil
}

func (roundFn) ClosureAccepting() bool { return false }

func (roundFn) Call(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Integer:
		return v, nil
	case value.Float:
		return value.Integer(math.Round(float64(v))), nil
	}
	return nil, fmt.Errorf("round: unsupported kind %s", args[0].Kind())
}

func (roundFn) Examples() []function.Example {
	return []function.Example{{Source: `round(1.5)`, Result: "2"}}
}
