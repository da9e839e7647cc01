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

package vrl_test

import (
	"strings"
	"testing"

	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/internal/vrltest"
	"github.com/vrl-lang/vrl/runtime"
	"github.com/vrl-lang/vrl/value"
	"github.com/vrl-lang/vrl/vrl"
)

// TestScenarios drives every end-to-end walkthrough under
// testdata/scenarios through the golden txtar harness.
func TestScenarios(t *testing.T) {
	vrltest.TxTarTest{Root: "testdata/scenarios"}.Run(t, func(tc *vrltest.Test) {
		tc.Run()
	})
}

// TestUnhandledFallibleAssignmentRejected covers the one walkthrough
// that never reaches Resolve: a fallible expression assigned without
// `??`, `!` or a captured `, err =` must be rejected at compile time
// with E103, never deferred to a runtime panic.
func TestUnhandledFallibleAssignmentRejected(t *testing.T) {
	ctx := vrl.New()
	_, errs := ctx.Compile(`.x = 1 + "foo"`, vrl.TargetType(value.TypeDef{Kind: value.ObjectKind}))
	if !errs.HasErrors() {
		t.Fatalf("expected a compile error, got none")
	}
	var found bool
	for _, d := range errs {
		if d.Code == errors.CodeUnhandledFallibleAssignment {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among diagnostics, got:\n%s", errors.CodeUnhandledFallibleAssignment, errs.Error())
	}
}

// TestFallibleHandledCapturesError checks the part of the handled-
// fallible walkthrough the golden renderer can't see: the captured
// `err` local itself, not just the coalesced `v`.
func TestFallibleHandledCapturesError(t *testing.T) {
	ctx := vrl.New()
	prog, errs := ctx.Compile(`v, err = to_int(.x); err`, vrl.TargetType(value.TypeDef{Kind: value.ObjectKind}))
	if errs.HasErrors() {
		t.Fatalf("compile: %v", errs.Error())
	}
	target := runtime.NewMapTarget(map[string]any{"x": "abc"})
	result, err := prog.Resolve(target, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	errBytes, ok := result.(value.Bytes)
	if !ok {
		t.Fatalf("err local: want value.Bytes, got %T (%v)", result, result)
	}
	if len(errBytes) == 0 {
		t.Fatalf("err local: want a non-empty failure message, got empty bytes")
	}
}

// TestAssertionAbortLeavesTargetUnchanged covers the walkthrough where
// an asserted call fails: the program must abort with a runtime error
// and the target it was resolving against must be left exactly as it
// was handed in, since the failing assignment never committed.
func TestAssertionAbortLeavesTargetUnchanged(t *testing.T) {
	ctx := vrl.New()
	prog, errs := ctx.Compile(`. = parse_json!(.log)`, vrl.TargetType(value.TypeDef{Kind: value.ObjectKind}))
	if errs.HasErrors() {
		t.Fatalf("compile: %v", errs.Error())
	}
	target := runtime.NewMapTarget(map[string]any{"log": "not-json"})
	before := target.Map()["log"]

	_, err := prog.Resolve(target, nil)
	if err == nil {
		t.Fatalf("expected a runtime error, got none")
	}
	if !strings.Contains(err.Error(), "parse_json") {
		t.Fatalf("runtime error: want it to name parse_json, got %q", err.Error())
	}

	after := target.Map()
	if len(after) != 1 || after["log"] != before {
		t.Fatalf("target was mutated by the failed assertion: got %v, want {\"log\": %v}", after, before)
	}
}
