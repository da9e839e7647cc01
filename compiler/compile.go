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

// Package compiler lowers an ast.Program into a typed internal/ir tree,
// computing a value.TypeDef for every node and rejecting programs that
// would risk an unhandled runtime error (spec.md §4.3). It follows the
// shape of internal/core/compile: a compiler struct walking AST nodes
// under a Config, producing ir.Node plus accumulated diagnostics.
package compiler

import (
	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

// Config configures a single compilation, mirroring
// internal/core/compile.Config's role of carrying the external scope
// (here: the registered stdlib functions and the target's static shape)
// into the compiler.
type Config struct {
	Functions  *function.Registry
	TargetType value.TypeDef // static shape of the event the program will run against
}

// scope is a chain of variable-name-to-TypeDef frames, one per closure
// body, matching compile.Scope's lexical nesting.
type scope struct {
	vars   map[string]value.TypeDef
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]value.TypeDef{}, parent: parent}
}

func (s *scope) lookup(name string) (value.TypeDef, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return value.TypeDef{}, false
}

// assign records name's new TypeDef in the innermost frame that already
// declares it, or the current frame if this is a fresh variable.
func (s *scope) assign(name string, t value.TypeDef) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = t
			return
		}
	}
	s.vars[name] = t
}

type compiler struct {
	cfg   Config
	scope *scope
	errs  errors.List
}

// Compile lowers prog into an *ir.Program under cfg.
func Compile(prog *ast.Program, cfg Config) (*ir.Program, errors.List) {
	c := &compiler{cfg: cfg, scope: newScope(nil)}
	out := &ir.Program{}
	for i, e := range prog.Exprs {
		n := c.compileExpr(e)
		c.checkStatement(e, n)
		if i == len(prog.Exprs)-1 {
			out.Result = n.Type()
		} else if n.Type().Pure {
			c.warnUnused(e)
		}
		out.Exprs = append(out.Exprs, n)
	}
	return out, c.errs
}

// checkStatement enforces the "never panic" rule (spec.md §4.3): a
// fallible result that reaches statement position unhandled is a
// compile error, except for `abort`, which is fallible by design and
// carries its own diagnostic instead.
func (c *compiler) checkStatement(e ast.Expr, n ir.Node) {
	if _, isAbort := n.(*ir.Abort); isAbort {
		return
	}
	if n.Type().Fallible {
		c.errs.Add(errors.Newf(errors.CodeUnhandledFallibleAssignment, e.Span(),
			"unhandled fallible expression of kind %s: wrap with `??`, assert with `!`, or capture the error with `, err =`",
			n.Type().Kind).WithNote("see " + errors.DocsBase + string(errors.CodeUnhandledFallibleAssignment)))
	}
}

func (c *compiler) warnUnused(e ast.Expr) {
	switch e.(type) {
	case *ast.Underscore, *ast.AssignExpr:
		return
	}
	c.errs.Add(errors.Warnf(errors.CodeUnusedExpression, e.Span(), "unused expression"))
}

func (c *compiler) errorf(code errors.Code, span token.Span, format string, args ...any) {
	c.errs.Addf(code, span, format, args...)
}

// compileExpr lowers a single ast.Expr to an ir.Node, dispatching over
// every concrete AST node type (spec.md §4.3's inference table).
func (c *compiler) compileExpr(e ast.Expr) ir.Node {
	switch x := e.(type) {
	case *ast.BasicLit:
		return c.compileBasicLit(x)
	case *ast.BoolLit:
		return ir.NewLiteral(value.Boolean(x.Value), value.Infallible(value.BooleanKind), x.Span())
	case *ast.NullLit:
		return ir.NewLiteral(value.Null{}, value.Infallible(value.NullKind), x.Span())
	case *ast.RegexLit:
		re, err := value.NewRegex(x.Pattern, x.Flags)
		if err != nil {
			c.errorf(errors.CodeInvalidFunctionArgument, x.Span(), "invalid regex literal: %v", err)
			return ir.NewLiteral(value.Null{}, value.Never, x.Span())
		}
		return ir.NewLiteral(re, value.Infallible(value.RegexKind), x.Span())
	case *ast.TimestampLit:
		return c.compileTimestampLit(x)
	case *ast.PathExpr:
		return c.compilePath(x)
	case *ast.Ident:
		return c.compileIdent(x)
	case *ast.Underscore:
		return ir.NewLiteral(value.Undefined{}, value.TypeDef{Kind: value.UndefinedKind, Pure: true}, x.Span())
	case *ast.ArrayLit:
		return c.compileArray(x)
	case *ast.ObjectLit:
		return c.compileObject(x)
	case *ast.ParenExpr:
		return c.compileExpr(x.X)
	case *ast.UnaryExpr:
		return c.compileUnary(x)
	case *ast.BinaryExpr:
		return c.compileBinary(x)
	case *ast.CallExpr:
		return c.compileCall(x)
	case *ast.BlockExpr:
		return c.compileBlockExpr(x)
	case *ast.IfExpr:
		return c.compileIf(x)
	case *ast.ForEachExpr:
		return c.compileForEach(x)
	case *ast.ReturnExpr:
		return c.compileReturn(x)
	case *ast.AbortExpr:
		return c.compileAbort(x)
	case *ast.AssignExpr:
		return c.compileAssign(x)
	}
	c.errorf(errors.CodeParseError, e.Span(), "unsupported expression")
	return ir.NewLiteral(value.Null{}, value.Never, e.Span())
}
