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

package compiler

import (
	"testing"

	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/parser"
	"github.com/vrl-lang/vrl/value"
)

func compileSrc(t *testing.T, src string) (*value.TypeDef, errors.List) {
	t.Helper()
	prog, perrs := parser.ParseFile("", []byte(src))
	if perrs.HasErrors() {
		t.Fatalf("parse errors for %q: %v", src, perrs.Error())
	}
	cfg := Config{
		Functions:  function.NewRegistry(),
		TargetType: value.TypeDef{Kind: value.ObjectKind},
	}
	out, errs := Compile(prog, cfg)
	if out == nil {
		return nil, errs
	}
	return &out.Result, errs
}

func hasCode(errs errors.List, code errors.Code) bool {
	for _, d := range errs {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestUnhandledFallibleAssignmentIsRejected(t *testing.T) {
	_, errs := compileSrc(t, `.x = 1 + "foo"`)
	if !hasCode(errs, errors.CodeUnhandledFallibleAssignment) {
		t.Fatalf("want %s among diagnostics, got:\n%s", errors.CodeUnhandledFallibleAssignment, errs.Error())
	}
}

func TestCoalescedFallibleIsAccepted(t *testing.T) {
	_, errs := compileSrc(t, `.x = (1 + "foo") ?? 0`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors for a ??-guarded fallible assignment: %v", errs.Error())
	}
}

func TestUnusedExpressionWarns(t *testing.T) {
	_, errs := compileSrc(t, `1 + 1; 2`)
	if !hasCode(errs, errors.CodeUnusedExpression) {
		t.Fatalf("want %s among diagnostics, got:\n%s", errors.CodeUnusedExpression, errs.Error())
	}
	if errs.HasErrors() {
		t.Fatalf("unused-expression is a warning, not an error: %v", errs.Error())
	}
}

func TestUnderscoreDiscardSuppressesUnusedWarning(t *testing.T) {
	_, errs := compileSrc(t, `_ = 1 + 1; 2`)
	if hasCode(errs, errors.CodeUnusedExpression) {
		t.Fatalf("explicit discard still warned unused: %v", errs.Error())
	}
}

func TestArithmeticOnExactKindsIsInfallible(t *testing.T) {
	result, errs := compileSrc(t, `1 + 2`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Error())
	}
	if result.Fallible {
		t.Fatalf("1 + 2 inferred Fallible, want infallible")
	}
	if result.Kind != value.IntegerKind {
		t.Fatalf("1 + 2 inferred Kind %s, want %s", result.Kind, value.IntegerKind)
	}
}

func TestShortCircuitWidensVariableKindAtJoin(t *testing.T) {
	result, errs := compileSrc(t, `x = false; _ = false || { x = "s"; true }; x`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Error())
	}
	want := value.BytesKind | value.BooleanKind
	if result.Kind != want {
		t.Fatalf("x inferred Kind %s, want %s (widened at the || join)", result.Kind, want)
	}
}

func TestForEachWidensVariableKindAtJoin(t *testing.T) {
	result, errs := compileSrc(t, `x = false; for_each([]) -> |i, v| { x = "s" }; x`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Error())
	}
	want := value.BytesKind | value.BooleanKind
	if result.Kind != want {
		t.Fatalf("x inferred Kind %s, want %s (widened since the loop body may never run)", result.Kind, want)
	}
}

func TestTwoTargetAssignIsAlwaysInfallible(t *testing.T) {
	result, errs := compileSrc(t, `v, err = 1 + "foo"; v`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors for the captured two-target form: %v", errs.Error())
	}
	if result.Fallible {
		t.Fatalf("captured value is Fallible, want infallible per the `, err =` decomposition")
	}
}
