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

package parser

import (
	"testing"

	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/token"
)

func TestParsePathAssignment(t *testing.T) {
	prog, errs := ParseFile("", []byte(`.total_bytes = del(.size)`))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	if len(prog.Exprs) != 1 {
		t.Fatalf("got %d top-level expressions, want 1", len(prog.Exprs))
	}

	assign, ok := prog.Exprs[0].(*ast.AssignExpr)
	if !ok {
		t.Fatalf("top-level expr is %T, want *ast.AssignExpr", prog.Exprs[0])
	}
	if assign.Op != ast.AssignPlain {
		t.Fatalf("Op = %v, want AssignPlain", assign.Op)
	}

	target, ok := assign.Target.(*ast.PathExpr)
	if !ok {
		t.Fatalf("Target is %T, want *ast.PathExpr", assign.Target)
	}
	if len(target.Segments) != 1 || target.Segments[0].Field != "total_bytes" {
		t.Fatalf("Target segments = %+v, want [total_bytes]", target.Segments)
	}

	call, ok := assign.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("Value is %T, want *ast.CallExpr", assign.Value)
	}
	if call.Fun.Name != "del" {
		t.Fatalf("Fun.Name = %q, want del", call.Fun.Name)
	}
}

func TestParseTwoTargetAssign(t *testing.T) {
	prog, errs := ParseFile("", []byte(`v, err = to_int(.x)`))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	assign := prog.Exprs[0].(*ast.AssignExpr)
	if assign.ErrTarget == nil {
		t.Fatalf("ErrTarget = nil, want non-nil for the `v, err = expr` form")
	}
}

func TestParseSequentialExprsNewlineSeparated(t *testing.T) {
	prog, errs := ParseFile("", []byte(`x = 1
y = 2`))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors for newline-separated expressions: %v", errs.Error())
	}
	if len(prog.Exprs) != 2 {
		t.Fatalf("len(Exprs) = %d, want 2 for two newline-separated expressions", len(prog.Exprs))
	}
}

func TestParseForEach(t *testing.T) {
	prog, errs := ParseFile("", []byte(`for_each(.) -> |k, v| { k }`))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	fe, ok := prog.Exprs[0].(*ast.ForEachExpr)
	if !ok {
		t.Fatalf("top-level expr is %T, want *ast.ForEachExpr", prog.Exprs[0])
	}
	if len(fe.Closure.Params) != 2 || fe.Closure.Params[0].Name != "k" || fe.Closure.Params[1].Name != "v" {
		t.Fatalf("Closure.Params = %+v, want [k v]", fe.Closure.Params)
	}
}

func TestParseAssertedCall(t *testing.T) {
	prog, errs := ParseFile("", []byte(`parse_json!(.log)`))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	call, ok := prog.Exprs[0].(*ast.CallExpr)
	if !ok {
		t.Fatalf("top-level expr is %T, want *ast.CallExpr", prog.Exprs[0])
	}
	if !call.Assert {
		t.Fatalf("Assert = false, want true for parse_json!(...)")
	}
}

func TestParseCoalesceOperator(t *testing.T) {
	prog, errs := ParseFile("", []byte(`v ?? -1`))
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", errs.Error())
	}
	bin, ok := prog.Exprs[0].(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("top-level expr is %T, want *ast.BinaryExpr", prog.Exprs[0])
	}
	if bin.Op != token.QUERY {
		t.Fatalf("Op = %s, want %s", bin.Op, token.QUERY)
	}
	if _, ok := bin.X.(*ast.Ident); !ok {
		t.Fatalf("X is %T, want *ast.Ident", bin.X)
	}
}
