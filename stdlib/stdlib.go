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

// Package stdlib registers VRL's built-in functions against a
// function.Registry (spec.md §4.5), grouped the way the teacher splits
// pkg/strings, pkg/time, pkg/math and pkg/list into per-domain builtin
// sets rather than one monolithic file.
package stdlib

import "github.com/vrl-lang/vrl/function"

// Register adds every built-in function to r. Programs compiled via
// vrl.New() get this full set; embedders that want a restricted subset
// can build their own function.Registry and call the individual
// register*(r) helpers directly.
func Register(r *function.Registry) {
	registerCore(r)
	registerStrings(r)
	registerTime(r)
	registerMath(r)
	registerCoerce(r)
	registerEncoding(r)
}
