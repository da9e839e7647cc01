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
	"strings"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/value"
)

func registerCore(r *function.Registry) {
	r.Register(pushFn{})
	r.Register(lengthFn{})
	r.Register(containsFn{})
	r.Register(uuidFn{})
}

// uuidFn implements `uuid()`: a fresh version-4 identifier drawn from
// the runtime Context's UUID source (runtime.Context.UUID), not called
// directly through google/uuid, so a program stays deterministic under
// a fixture's FixedUUIDSource the same way now() stays deterministic
// under a FixedClock.
type uuidFn struct{}

func (uuidFn) Identifier() string           { return "uuid" }
func (uuidFn) Parameters() []function.Param { return nil }
func (uuidFn) ClosureAccepting() bool       { return false }

func (uuidFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 0 {
		return function.CompileResult{}, function.ErrWrongParamCount("uuid", 0, len(args))
	}
	return function.CompileResult{Result: value.Infallible(value.BytesKind)}, nil
}

// Call is never reached for uuid(): see nowFn.Call in stdlib/time.go for
// why Context-dependent builtins are special-cased by the interpreter.
func (uuidFn) Call(args []value.Value) (value.Value, error) {
	return nil, errUUIDRequiresContext
}

func (uuidFn) Examples() []function.Example {
	return []function.Example{{Source: `uuid()`, Result: "<random uuid string>"}}
}

var errUUIDRequiresContext = fmt.Errorf("uuid: requires a runtime Context UUID source")

// pushFn implements `push(array, item)`: append item to array, returning
// a new array (spec.md §4.4: "Values are ... immutable from the caller's
// perspective; builtins return new values rather than mutating in place").
type pushFn struct{}

func (pushFn) Identifier() string { return "push" }

func (pushFn) Parameters() []function.Param {
	return []function.Param{
		{Name: "array", Kind: value.ArrayKind, Required: true},
		{Name: "item", Kind: value.AnyKind | value.UndefinedKind, Required: true},
	}
}

func (pushFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 2 {
		return function.CompileResult{}, function.ErrWrongParamCount("push", 2, len(args))
	}
	if !args[0].Type.Kind.Is(value.ArrayKind) {
		return function.CompileResult{}, function.ErrBadKind("push", function.Param{Name: "array", Kind: value.ArrayKind}, args[0].Type.Kind)
	}
	return function.CompileResult{Result: value.Infallible(value.ArrayKind)}, nil
}

func (pushFn) ClosureAccepting() bool { return false }

func (pushFn) Call(args []value.Value) (value.Value, error) {
	arr, ok := args[0].(value.Array)
	if !ok {
		return nil, fmt.Errorf("push: first argument is not an array")
	}
	out := make(value.Array, len(arr)+1)
	copy(out, arr)
	out[len(arr)] = args[1]
	return out, nil
}

func (pushFn) Examples() []function.Example {
	return []function.Example{{Source: `push([1, 2], 3)`, Result: "[1, 2, 3]"}}
}

// lengthFn implements `length(value)`: the element count of an array or
// object, or the byte length of a string.
type lengthFn struct{}

func (lengthFn) Identifier() string { return "length" }

func (lengthFn) Parameters() []function.Param {
	return []function.Param{
		{Name: "value", Kind: value.ArrayKind | value.ObjectKind | value.BytesKind, Required: true},
	}
}

func (lengthFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 1 {
		return function.CompileResult{}, function.ErrWrongParamCount("length", 1, len(args))
	}
	fallible := !args[0].Type.Kind.Has(value.ArrayKind | value.ObjectKind | value.BytesKind)
	return function.CompileResult{Result: value.TypeDef{Kind: value.IntegerKind, Fallible: fallible, Pure: true}}, nil
}

func (lengthFn) ClosureAccepting() bool { return false }

func (lengthFn) Call(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		return value.Integer(len(v)), nil
	case *value.Object:
		return value.Integer(v.Len()), nil
	case value.Bytes:
		return value.Integer(len(v)), nil
	}
	return nil, fmt.Errorf("length: unsupported kind %s", args[0].Kind())
}

func (lengthFn) Examples() []function.Example {
	return []function.Example{{Source: `length([1, 2, 3])`, Result: "3"}}
}

// containsFn implements `contains(haystack, needle)` over strings.
type containsFn struct{}

func (containsFn) Identifier() string { return "contains" }

func (containsFn) Parameters() []function.Param {
	return []function.Param{
		{Name: "value", Kind: value.BytesKind, Required: true},
		{Name: "substring", Kind: value.BytesKind, Required: true},
		{Name: "case_sensitive", Kind: value.BooleanKind, Required: false, Default: value.Boolean(true)},
	}
}

func (containsFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) < 2 {
		return function.CompileResult{}, function.ErrWrongParamCount("contains", 2, len(args))
	}
	fallible := !args[0].Type.Kind.Is(value.BytesKind) || !args[1].Type.Kind.Is(value.BytesKind)
	return function.CompileResult{Result: value.TypeDef{Kind: value.BooleanKind, Fallible: fallible, Pure: true}}, nil
}

func (containsFn) ClosureAccepting() bool { return false }

func (containsFn) Call(args []value.Value) (value.Value, error) {
	hay, ok := args[0].(value.Bytes)
	if !ok {
		return nil, fmt.Errorf("contains: first argument is not a string")
	}
	needle, ok := args[1].(value.Bytes)
	if !ok {
		return nil, fmt.Errorf("contains: second argument is not a string")
	}
	caseSensitive := true
	if len(args) > 2 {
		if b, ok := args[2].(value.Boolean); ok {
			caseSensitive = bool(b)
		}
	}
	h, n := string(hay), string(needle)
	if !caseSensitive {
		h, n = strings.ToLower(h), strings.ToLower(n)
	}
	return value.Boolean(strings.Contains(h, n)), nil
}

func (containsFn) Examples() []function.Example {
	return []function.Example{{Source: `contains("hello world", "world")`, Result: "true"}}
}
