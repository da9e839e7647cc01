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

func (c *compiler) compileUnary(x *ast.UnaryExpr) ir.Node {
	operand := c.compileExpr(x.X)
	t := operand.Type()
	switch x.Op {
	case token.BANG:
		if !t.Kind.Is(value.BooleanKind) && t.Kind != value.NeverKind {
			c.errorf(errors.CodeNonBooleanNegation, x.Span(),
				"cannot negate non-boolean kind %s", t.Kind)
		}
		out := value.TypeDef{Kind: value.BooleanKind, Fallible: t.Fallible, Pure: t.Pure}
		return ir.NewUnaryOp(token.BANG, operand, out, x.Span())
	case token.SUB:
		fallible := t.Fallible
		if !t.Kind.Has(value.NumberKind) {
			fallible = true
		}
		out := value.TypeDef{Kind: t.Kind & value.NumberKind, Fallible: fallible, Pure: t.Pure}
		return ir.NewUnaryOp(token.SUB, operand, out, x.Span())
	}
	c.errorf(errors.CodeParseError, x.Span(), "unsupported unary operator %s", x.Op)
	return ir.NewUnaryOp(x.Op, operand, value.Never, x.Span())
}

// compileBinary implements the arithmetic, comparison, logical and
// coalesce tables of spec.md §4.3.
func (c *compiler) compileBinary(x *ast.BinaryExpr) ir.Node {
	switch x.Op {
	case token.AND, token.OR:
		return c.compileShortCircuit(x)
	case token.QUERY:
		return c.compileCoalesce(x)
	}

	left := c.compileExpr(x.X)
	right := c.compileExpr(x.Y)
	lt, rt := left.Type(), right.Type()

	var result value.TypeDef
	switch x.Op {
	case token.ADD:
		result = arithResult(lt, rt, addTable)
	case token.SUB:
		result = arithResult(lt, rt, subTable)
	case token.MUL:
		result = arithResult(lt, rt, mulTable)
	case token.QUO:
		if !lt.Kind.Has(value.NumberKind) || !rt.Kind.Has(value.NumberKind) {
			result = value.FallibleOf(value.FloatKind)
		} else {
			result = value.TypeDef{Kind: value.FloatKind, Fallible: true, Pure: true}
		}
	case token.REM:
		if lt.Kind.Is(value.IntegerKind) && rt.Kind.Is(value.IntegerKind) {
			result = value.TypeDef{Kind: value.IntegerKind, Fallible: true, Pure: true}
		} else {
			result = value.FallibleOf(value.IntegerKind)
		}
	case token.EQL, token.NEQ:
		result = value.Infallible(value.BooleanKind)
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		result = comparisonResult(lt, rt)
	case token.MATCH, token.NMATCH:
		fallible := !lt.Kind.Is(value.BytesKind) || !rt.Kind.Is(value.RegexKind)
		result = value.TypeDef{Kind: value.BooleanKind, Fallible: fallible, Pure: true}
	default:
		c.errorf(errors.CodeParseError, x.Span(), "unsupported binary operator %s", x.Op)
		result = value.Never
	}
	result.Fallible = result.Fallible || lt.Fallible || rt.Fallible
	result.Pure = result.Pure && lt.Pure && rt.Pure
	return ir.NewBinaryOp(x.Op, left, right, result, x.Span())
}

// compileShortCircuit compiles `&&`/`||`: result Kind is always boolean;
// the RHS's side effects on outer variables must still be unioned into
// those variables' post-Kinds even though the RHS may not execute at
// runtime (spec.md §4.3).
func (c *compiler) compileShortCircuit(x *ast.BinaryExpr) ir.Node {
	left := c.compileExpr(x.X)
	before := c.snapshotVars()
	right := c.compileExpr(x.Y)
	c.unionVarsSince(before)

	lt, rt := left.Type(), right.Type()
	out := value.TypeDef{
		Kind:     value.BooleanKind,
		Fallible: lt.Fallible || rt.Fallible,
		Pure:     lt.Pure && rt.Pure,
	}
	return ir.NewBinaryOp(x.Op, left, right, out, x.Span())
}

// compileCoalesce compiles `a ?? b`: fallible only if both sides are.
func (c *compiler) compileCoalesce(x *ast.BinaryExpr) ir.Node {
	left := c.compileExpr(x.X)
	right := c.compileExpr(x.Y)
	lt, rt := left.Type(), right.Type()
	out := value.TypeDef{
		Kind:       lt.Kind.Without(value.UndefinedKind) | rt.Kind,
		Refinement: value.MergeRefinement(lt.Refinement, rt.Refinement),
		Fallible:   lt.Fallible && rt.Fallible,
		Pure:       lt.Pure && rt.Pure,
	}
	return ir.NewBinaryOp(x.Op, left, right, out, x.Span())
}

// snapshotVars and unionVarsSince implement the "merge RHS side effects
// into enclosing scope" rule for &&/||, if/else and for_each bodies: a
// shallow copy of the current frame's variable Kinds is taken before
// compiling a conditionally executed sub-expression, then every
// variable the sub-expression touched has its post-Kind unioned back
// with its pre-Kind, since at runtime the sub-expression might not run.
func (c *compiler) snapshotVars() map[string]value.TypeDef {
	snap := make(map[string]value.TypeDef, len(c.scope.vars))
	for k, v := range c.scope.vars {
		snap[k] = v
	}
	return snap
}

func (c *compiler) unionVarsSince(before map[string]value.TypeDef) {
	for name, prior := range before {
		cur, ok := c.scope.vars[name]
		if !ok {
			continue
		}
		c.scope.vars[name] = prior.Union(cur)
	}
	for name, cur := range c.scope.vars {
		if _, existed := before[name]; !existed {
			// Freshly introduced inside the conditional branch: it may
			// not have run, so widen with undefined.
			c.scope.vars[name] = cur.WithUndefined()
		}
	}
}

type kindPair struct{ a, b value.Kind }

var addTable = map[kindPair]value.Kind{
	{value.IntegerKind, value.IntegerKind}:     value.IntegerKind,
	{value.FloatKind, value.FloatKind}:         value.FloatKind,
	{value.BytesKind, value.BytesKind}:         value.BytesKind,
	{value.BytesKind, value.NullKind}:          value.BytesKind,
	{value.NullKind, value.BytesKind}:          value.BytesKind,
	{value.ArrayKind, value.ArrayKind}:         value.ArrayKind,
	{value.TimestampKind, value.IntegerKind}:   value.TimestampKind,
}

var subTable = map[kindPair]value.Kind{
	{value.IntegerKind, value.IntegerKind}:     value.IntegerKind,
	{value.FloatKind, value.FloatKind}:         value.FloatKind,
	{value.TimestampKind, value.TimestampKind}: value.IntegerKind,
	{value.TimestampKind, value.IntegerKind}:   value.TimestampKind,
}

var mulTable = map[kindPair]value.Kind{
	{value.IntegerKind, value.IntegerKind}: value.IntegerKind,
	{value.FloatKind, value.FloatKind}:     value.FloatKind,
	{value.BytesKind, value.IntegerKind}:   value.BytesKind,
}

// arithResult looks up the exact-kind arithmetic table entry; any kind
// combination not present, exact or not, yields a fallible result rather
// than a compile-time error.
func arithResult(lt, rt value.TypeDef, table map[kindPair]value.Kind) value.TypeDef {
	if k, ok := table[kindPair{lt.Kind, rt.Kind}]; ok {
		return value.Infallible(k)
	}
	// Best-effort: if either side's Kind includes a table-eligible kind
	// alongside others (i.e. not yet narrowed), the result is merely
	// fallible rather than a hard rejection, matching "fallible
	// compile-time warning" for non-exact operand kinds.
	for pair, k := range table {
		if lt.Kind.Has(pair.a) && rt.Kind.Has(pair.b) {
			return value.FallibleOf(k)
		}
	}
	return value.FallibleOf(value.AnyKind)
}

func comparisonResult(lt, rt value.TypeDef) value.TypeDef {
	valid := map[value.Kind]bool{
		value.IntegerKind:   true,
		value.FloatKind:     true,
		value.BytesKind:     true,
		value.TimestampKind: true,
	}
	if lt.Kind == rt.Kind && valid[lt.Kind] {
		return value.Infallible(value.BooleanKind)
	}
	return value.FallibleOf(value.BooleanKind)
}
