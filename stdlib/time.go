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
	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/value"
)

func registerTime(r *function.Registry) {
	r.Register(nowFn{})
}

// nowFn implements `now()`: the current instant as seen through the
// runtime Context's clock (spec.md §4.6, "Context supplies ... a
// clock"), rather than calling time.Now() directly, so compiled
// programs stay deterministic under test.
type nowFn struct{}

func (nowFn) Identifier() string             { return "now" }
func (nowFn) Parameters() []function.Param   { return nil }
func (nowFn) ClosureAccepting() bool         { return false }

func (nowFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 0 {
		return function.CompileResult{}, function.ErrWrongParamCount("now", 0, len(args))
	}
	return function.CompileResult{Result: value.Infallible(value.TimestampKind)}, nil
}

// Call is never reached for now(): the runtime interpreter special-cases
// clock-dependent builtins to read from its Context rather than calling
// through the ordinary Function.Call path, since Call carries no
// Context parameter (spec.md §4.6 keeps Context out of the Function
// ABI, the same way CUE keeps *runtime.Runtime out of pkg builtin
// signatures and threads it separately).
func (nowFn) Call(args []value.Value) (value.Value, error) {
	return nil, errNowRequiresContext
}

func (nowFn) Examples() []function.Example {
	return []function.Example{{Source: `now()`, Result: "<current instant>"}}
}

var errNowRequiresContext = &clockError{}

type clockError struct{}

func (*clockError) Error() string { return "now: requires a runtime Context clock" }
