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
	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

// compileBlock lowers a sequence of statements under the current scope,
// applying the same unhandled-fallible and unused-expression checks that
// the top-level Program applies (spec.md §4.3). The block's own Type is
// that of its final statement, or TypeDef{Kind: NullKind} for an empty
// block.
func (c *compiler) compileBlock(stmts []ast.Expr, span token.Span) ir.Node {
	if len(stmts) == 0 {
		return ir.NewBlock(nil, value.Infallible(value.NullKind), span)
	}
	nodes := make([]ir.Node, len(stmts))
	for i, e := range stmts {
		n := c.compileExpr(e)
		c.checkStatement(e, n)
		if i < len(stmts)-1 && n.Type().Pure {
			c.warnUnused(e)
		}
		nodes[i] = n
	}
	return ir.NewBlock(nodes, nodes[len(nodes)-1].Type(), span)
}

func (c *compiler) compileBlockExpr(x *ast.BlockExpr) ir.Node {
	parent := c.scope
	c.scope = newScope(parent)
	n := c.compileBlock(x.Exprs, x.Span())
	c.scope = parent
	return n
}

// compileIf compiles an if/else-if/else chain. Each branch body runs
// under the conditional-execution discipline used for &&/||: variables
// it touches are unioned back into the enclosing scope rather than
// replacing it outright, since any branch but the one taken never runs.
// The chain's own Kind is the union of every clause's body Kind, widened
// with Undefined if there is no final unconditioned `else`.
func (c *compiler) compileIf(x *ast.IfExpr) ir.Node {
	clauses := make([]ir.IfClause, len(x.Clauses))
	var resultType value.TypeDef
	hasElse := false
	for i, cl := range x.Clauses {
		var cond ir.Node
		if cl.Cond != nil {
			cond = c.compileExpr(cl.Cond)
			if !cond.Type().Kind.Is(value.BooleanKind) {
				c.errorf(errors.CodeNonBooleanNegation, cl.Cond.Span(),
					"if condition must be boolean, got %s", cond.Type().Kind)
			}
		} else {
			hasElse = true
		}
		before := c.snapshotVars()
		body := c.compileBlockExprClause(cl.Body)
		c.unionVarsSince(before)

		clauses[i] = ir.IfClause{Cond: cond, Body: body}
		if i == 0 {
			resultType = body.Type()
		} else {
			resultType = resultType.Union(body.Type())
		}
	}
	if !hasElse {
		resultType = resultType.WithUndefined()
	}
	return ir.NewIf(clauses, resultType, x.Span())
}

// compileBlockExprClause compiles an if/else branch body under a nested
// scope without re-wrapping it, matching compileBlockExpr's discipline.
func (c *compiler) compileBlockExprClause(b *ast.BlockExpr) ir.Node {
	return c.compileBlockExpr(b)
}

// compileForEach compiles `for_each(coll) -> |k, v| { body }`. The
// collection must be an array or object; the closure's two parameters
// bind to (index, value) for an array or (key, value) for an object.
// The loop's own value is always null (spec.md §4.2: for_each exists
// for its side effects), but its Fallible bit absorbs both the
// collection's and the body's. The body runs under the same
// conditional-execution discipline as compileIf/compileShortCircuit: an
// empty collection means the body never runs, so any outer variable it
// assigns is unioned with its pre-loop Kind rather than replaced by it.
func (c *compiler) compileForEach(x *ast.ForEachExpr) ir.Node {
	coll := c.compileExpr(x.Collection)
	ct := coll.Type()
	fallible := ct.Fallible
	if !ct.Kind.Has(value.ArrayKind | value.ObjectKind) {
		fallible = true
	}

	parent := c.scope
	before := c.snapshotVars()
	c.scope = newScope(parent)
	names := make([]string, len(x.Closure.Params))
	for i, p := range x.Closure.Params {
		names[i] = p.Name
		k := value.AnyKind
		if i == 0 {
			if ct.Kind.Is(value.ArrayKind) {
				k = value.IntegerKind
			} else {
				k = value.BytesKind
			}
		}
		c.scope.vars[p.Name] = value.Infallible(k)
	}
	body := c.compileBlock(x.Closure.Body.Exprs, x.Closure.Body.Span())
	c.scope = parent
	c.unionVarsSince(before)
	fallible = fallible || body.Type().Fallible

	closure := ir.NewClosureThunk(names, body, body.Type(), x.Closure.Span())
	out := value.TypeDef{Kind: value.NullKind, Fallible: fallible}
	return ir.NewForEach(coll, closure, out, x.Span())
}

func (c *compiler) compileReturn(x *ast.ReturnExpr) ir.Node {
	if x.Value == nil {
		return ir.NewReturn(nil, value.Infallible(value.NullKind), x.Span())
	}
	val := c.compileExpr(x.Value)
	return ir.NewReturn(val, val.Type(), x.Span())
}

// compileAbort compiles `abort expr?`. Its Kind is always Never and it
// is always Fallible, but it is exempted from the unhandled-fallible
// check (checkStatement): aborting is itself the terminal handling of a
// failure, not an unhandled one.
func (c *compiler) compileAbort(x *ast.AbortExpr) ir.Node {
	var msg ir.Node
	if x.Message != nil {
		msg = c.compileExpr(x.Message)
		if !msg.Type().Kind.Is(value.BytesKind) {
			c.errorf(errors.CodeInvalidArgumentType, x.Message.Span(),
				"abort message must be a string, got %s", msg.Type().Kind)
		}
	}
	return ir.NewAbort(msg, value.Never, x.Span())
}
