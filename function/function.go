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

// Package function defines the stdlib function ABI (spec.md §4.5): every
// built-in is a static record of its identifier, parameters and a
// compile step, modeled after internal/builtin's PackageFunc contract.
package function

import (
	"fmt"

	"github.com/vrl-lang/vrl/value"
)

// Param describes one parameter of a Function's static signature.
type Param struct {
	Name     string
	Kind     value.Kind
	Required bool
	Default  value.Value // nil if Required or no default
}

// Arg is one compiled call argument, as presented to Compile: its
// resolved name (from a keyword argument, "" if positional) and its
// static Type Definition, known before the function decides the result
// type or whether the call is fallible.
type Arg struct {
	Name string
	Type value.TypeDef
}

// CompileResult is what a Function's Compile step reports back to the
// compiler: the statically known result type of the call. Whether a
// function takes a closure is reported by ClosureAccepting, not here.
type CompileResult struct {
	Result value.TypeDef
}

// Function is the static contract every stdlib builtin satisfies.
type Function interface {
	// Identifier is the name used in VRL source.
	Identifier() string

	// Parameters is the ordered, keyword-addressable parameter list.
	Parameters() []Param

	// Compile receives each argument's statically known type and
	// returns the call's result type, or an error if the arguments are
	// statically invalid (malformed regex, wrong kind, etc.) — per
	// spec.md §4.5, "functions may reject malformed arguments at
	// compile time ... preferred over runtime failure."
	Compile(args []Arg) (CompileResult, error)

	// ClosureAccepting reports whether this function takes a trailing
	// closure argument (spec.md §4.5).
	ClosureAccepting() bool

	// Call evaluates the function at runtime given fully resolved
	// argument values. Closures are never passed to Call: the
	// interpreter rejects, at runtime, any call that carries a closure
	// (for_each is evaluated by the interpreter itself).
	Call(args []value.Value) (value.Value, error)

	// Examples returns illustrative (source snippet, expected result or
	// error) pairs used by the test harness (spec.md §4.5).
	Examples() []Example
}

// Example is one documented (and test-harness-exercised) usage of a
// Function.
type Example struct {
	Source string
	Result string // human-readable expected result, or "" if Err is set
	Err    string // expected error code, if this example is fallible
}

// ErrWrongParamCount reports an arity mismatch at compile time.
func ErrWrongParamCount(name string, want, got int) error {
	return fmt.Errorf("%s: expected %d arguments, got %d", name, want, got)
}

// ErrBadKind reports that an argument's static Kind cannot satisfy a
// parameter's accepted Kind mask.
func ErrBadKind(name string, param Param, got value.Kind) error {
	return fmt.Errorf("%s: parameter %q wants %s, got %s", name, param.Name, param.Kind, got)
}
