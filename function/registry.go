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

package function

import "sort"

// Registry holds the set of functions available to a compilation,
// mirroring internal/builtin's package-scoped Register/Get pair but
// flattened to a single namespace since VRL has no import system.
type Registry struct {
	fns map[string]Function
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fns: map[string]Function{}}
}

// Register adds fn under its own Identifier, overwriting any previous
// registration of the same name (tests register stand-ins this way).
func (r *Registry) Register(fn Function) {
	r.fns[fn.Identifier()] = fn
}

// Get looks up a Function by name.
func (r *Registry) Get(name string) (Function, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns every registered identifier, sorted, for documentation
// and test enumeration.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
