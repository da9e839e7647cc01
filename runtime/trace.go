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
	"github.com/kr/pretty"

	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/value"
)

// TraceProgram renders a compiled program's node tree for debugging,
// the way cue's internal debug helpers lean on kr/pretty rather than a
// hand-rolled dumper.
func TraceProgram(prog *ir.Program) string {
	return pretty.Sprint(prog)
}

// TraceValue renders a runtime value the same way, for comparing an
// evaluation's result against an expectation in a failing test.
func TraceValue(v value.Value) string {
	return pretty.Sprint(v)
}
