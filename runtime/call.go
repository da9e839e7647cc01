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

package runtime

import (
	"fmt"
	"strings"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/value"
)

// evalCall evaluates a compiled stdlib call. now() is special-cased here
// rather than through the Function ABI: its Go type is otherwise a
// perfectly ordinary zero-argument Function, but it needs the Context's
// clock, and Function.Call only ever sees argument values (spec.md
// §4.5's Context-reading builtins are the one place the ABI doesn't
// reach).
func (it *interp) evalCall(x *ir.Call, e *env) (value.Value, error) {
	args := make([]value.Value, len(x.Args))
	for i, a := range x.Args {
		v, err := it.eval(a, e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if x.FuncName == "now" {
		return value.NewTimestamp(it.ctx.Now()), nil
	}
	if x.FuncName == "uuid" {
		return value.Bytes(it.ctx.NewUUID()), nil
	}

	if x.Closure != nil {
		return nil, fmt.Errorf("%s: closure-accepting stdlib calls are not supported", x.FuncName)
	}

	fn, ok := it.functions.Get(x.FuncName)
	if !ok {
		return nil, fmt.Errorf("undefined function %q", x.FuncName)
	}

	ordered, err := orderArgs(fn.Parameters(), x.ArgNames, args)
	if err != nil {
		return nil, err
	}

	v, err := fn.Call(ordered)
	if err != nil {
		if x.Assert {
			// The function name is prefixed unless the error already
			// starts with it, as the stdlib's errors do.
			msg := err.Error()
			if !strings.HasPrefix(msg, x.FuncName+": ") {
				msg = x.FuncName + ": " + msg
			}
			return nil, abortError{Message: msg}
		}
		return nil, err
	}
	return v, nil
}

// orderArgs reorders evaluated call arguments into a Function's declared
// Parameters order, resolving keyword arguments by name and filling
// unset optional parameters from their Default.
func orderArgs(params []function.Param, names []string, values []value.Value) ([]value.Value, error) {
	out := make([]value.Value, len(params))
	set := make([]bool, len(params))

	positional := 0
	for i, name := range names {
		if name == "" {
			for positional < len(params) && set[positional] {
				positional++
			}
			if positional >= len(params) {
				return nil, fmt.Errorf("too many positional arguments")
			}
			out[positional] = values[i]
			set[positional] = true
			positional++
			continue
		}
		idx := -1
		for j, p := range params {
			if p.Name == name {
				idx = j
				break
			}
		}
		if idx == -1 {
			return nil, fmt.Errorf("unknown argument %q", name)
		}
		out[idx] = values[i]
		set[idx] = true
	}

	for i, p := range params {
		if set[i] {
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("missing required argument %q", p.Name)
		}
		if p.Default != nil {
			out[i] = p.Default
		} else {
			out[i] = value.Undefined{}
		}
	}
	return out, nil
}
