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

import "github.com/vrl-lang/vrl/value"

// env is a chain of local-variable frames, mirroring compiler.scope's
// lexical nesting so that a variable assigned inside a conditional or
// for_each body is visible (and mutated in place) in its enclosing
// frame, matching the Kind-merging discipline the compiler applies.
type env struct {
	vars   map[string]value.Value
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: map[string]value.Value{}, parent: parent}
}

func (e *env) get(name string) (value.Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// set writes name's value into the innermost frame that already
// declares it, or the current frame if this is a fresh binding.
func (e *env) set(name string, v value.Value) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}
