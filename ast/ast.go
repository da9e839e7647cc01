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

// Package ast defines the abstract syntax tree produced by the parser,
// following the grammar of spec.md §4.2. Every node carries its own
// source Span so later passes (the compiler, diagnostics) never need to
// recompute positions.
package ast

import "github.com/vrl-lang/vrl/token"

// Node is any AST node.
type Node interface {
	Span() token.Span
}

// Expr is any expression node (spec.md grammar's `expression`).
type Expr interface {
	Node
	exprNode()
}

// Program is a sequence of expressions; its value is that of the last
// expression (spec.md §3.4).
type Program struct {
	Exprs []Expr
}

func (p *Program) Span() token.Span {
	if len(p.Exprs) == 0 {
		return token.NoSpan
	}
	return token.Span{Start: p.Exprs[0].Span().Start, End: p.Exprs[len(p.Exprs)-1].Span().End}
}

// Ident is a bare identifier, naming a local variable.
type Ident struct {
	NamePos token.Pos
	Name    string
}

func (x *Ident) Span() token.Span { return token.Span{Start: x.NamePos, End: x.NamePos.Add(len(x.Name))} }
func (*Ident) exprNode()          {}

// Underscore is the explicit-discard assignment target `_`.
type Underscore struct {
	Pos token.Pos
}

func (x *Underscore) Span() token.Span { return token.Span{Start: x.Pos, End: x.Pos.Add(1)} }
func (*Underscore) exprNode()          {}

// BasicLit is an integer, float, string, or raw-string literal.
type BasicLit struct {
	ValuePos token.Pos
	Kind     token.Token // INT, FLOAT, STRING, RAWSTRING
	Value    string      // literal text, escapes not yet decoded
}

func (x *BasicLit) Span() token.Span {
	return token.Span{Start: x.ValuePos, End: x.ValuePos.Add(len(x.Value))}
}
func (*BasicLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	ValuePos token.Pos
	Value    bool
}

func (x *BoolLit) Span() token.Span { return token.Span{Start: x.ValuePos, End: x.ValuePos.Add(5)} }
func (*BoolLit) exprNode()          {}

// NullLit is the `null` literal.
type NullLit struct {
	ValuePos token.Pos
}

func (x *NullLit) Span() token.Span { return token.Span{Start: x.ValuePos, End: x.ValuePos.Add(4)} }
func (*NullLit) exprNode()          {}

// RegexLit is a `r'...'flags` literal.
type RegexLit struct {
	Start   token.Pos
	Pattern string
	Flags   string
}

func (x *RegexLit) Span() token.Span {
	return token.Span{Start: x.Start, End: x.Start.Add(len(x.Pattern) + len(x.Flags) + 3)}
}
func (*RegexLit) exprNode() {}

// TimestampLit is a `t'...'` literal.
type TimestampLit struct {
	Start token.Pos
	Value string
}

func (x *TimestampLit) Span() token.Span {
	return token.Span{Start: x.Start, End: x.Start.Add(len(x.Value) + 3)}
}
func (*TimestampLit) exprNode() {}

// PathSegment is one parsed segment of a PathExpr.
type PathSegment struct {
	Pos   token.Pos
	Field string   // set for a field segment
	Index *Expr    // set for a computed index segment, e.g. .foo[i]
	Lit   *int     // set for a literal index segment, e.g. .foo[0]
	Alts  []string // set for a (deprecated) coalesce segment
}

// PathExpr is a path literal, introduced by a leading '.' (spec.md §3.3).
// An empty Segments slice denotes the root path `.`, addressing the whole
// target.
type PathExpr struct {
	Dot      token.Pos
	Segments []PathSegment
}

func (x *PathExpr) Span() token.Span {
	end := x.Dot.Add(1)
	if n := len(x.Segments); n > 0 {
		end = x.Segments[n-1].Pos.Add(1)
	}
	return token.Span{Start: x.Dot, End: end}
}
func (*PathExpr) exprNode() {}

// ArrayLit is an `[a, b, c]` array literal.
type ArrayLit struct {
	Lbrack, Rbrack token.Pos
	Elts           []Expr
}

func (x *ArrayLit) Span() token.Span { return token.Span{Start: x.Lbrack, End: x.Rbrack.Add(1)} }
func (*ArrayLit) exprNode()          {}

// ObjectField is one `key: value` entry of an ObjectLit.
type ObjectField struct {
	Key   string
	Value Expr
}

// ObjectLit is a `{key: value, ...}` object literal.
type ObjectLit struct {
	Lbrace, Rbrace token.Pos
	Fields         []ObjectField
}

func (x *ObjectLit) Span() token.Span { return token.Span{Start: x.Lbrace, End: x.Rbrace.Add(1)} }
func (*ObjectLit) exprNode()          {}

// ParenExpr is a parenthesized expression, kept to preserve spans for
// diagnostics even though it carries no distinct IR meaning.
type ParenExpr struct {
	Lparen, Rparen token.Pos
	X              Expr
}

func (x *ParenExpr) Span() token.Span { return token.Span{Start: x.Lparen, End: x.Rparen.Add(1)} }
func (*ParenExpr) exprNode()          {}

// UnaryExpr is `!x` or `-x`.
type UnaryExpr struct {
	OpPos token.Pos
	Op    token.Token
	X     Expr
}

func (x *UnaryExpr) Span() token.Span { return token.Span{Start: x.OpPos, End: x.X.Span().End} }
func (*UnaryExpr) exprNode()          {}

// BinaryExpr is any of the binary operators in the precedence table
// (spec.md §4.2), including the error-coalesce `??` operator.
type BinaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    token.Token
	Y     Expr
}

func (x *BinaryExpr) Span() token.Span { return token.Span{Start: x.X.Span().Start, End: x.Y.Span().End} }
func (*BinaryExpr) exprNode()          {}

// CallExpr is `fn(args...)` with an optional `!` infallibility
// assertion, written either `fn!(args...)` or `fn(args...)!`.
type CallExpr struct {
	Fun      *Ident
	Lparen   token.Pos
	Args     []Arg
	Rparen   token.Pos
	Bang     token.Pos // valid iff Assert is true
	Assert   bool
	Closure  *ClosureLit // non-nil when the call has a `-> |...| {...}` tail; for_each parses to ForEachExpr instead
}

// Arg is one call argument, optionally keyword-named (spec.md §4.5:
// "parameters; each has a keyword name").
type Arg struct {
	Name  string // "" for positional
	Value Expr
}

func (x *CallExpr) Span() token.Span {
	end := x.Rparen.Add(1)
	if x.Assert && x.Bang.Compare(x.Rparen) > 0 {
		end = x.Bang.Add(1)
	}
	return token.Span{Start: x.Fun.Span().Start, End: end}
}
func (*CallExpr) exprNode() {}

// ClosureLit is the `|ident, ident| block` tail of a closure-accepting
// call (spec.md §4.5).
type ClosureLit struct {
	Pipe1, Pipe2 token.Pos
	Params       []*Ident
	Body         *BlockExpr
}

func (x *ClosureLit) Span() token.Span { return token.Span{Start: x.Pipe1, End: x.Body.Span().End} }

// BlockExpr is a `{ expr* }` block; its value is that of its last
// expression.
type BlockExpr struct {
	Lbrace, Rbrace token.Pos
	Exprs          []Expr
}

func (x *BlockExpr) Span() token.Span { return token.Span{Start: x.Lbrace, End: x.Rbrace.Add(1)} }
func (*BlockExpr) exprNode()          {}

// IfClause is one `if cond block` or trailing `else block` arm.
type IfClause struct {
	IfPos token.Pos
	Cond  Expr // nil for the final unconditioned `else` arm
	Body  *BlockExpr
}

// IfExpr is `if cond {..} else if cond {..} else {..}` (spec.md §4.2).
type IfExpr struct {
	Clauses []IfClause
}

func (x *IfExpr) Span() token.Span {
	last := x.Clauses[len(x.Clauses)-1]
	return token.Span{Start: x.Clauses[0].IfPos, End: last.Body.Span().End}
}
func (*IfExpr) exprNode() {}

// ForEachExpr is `for_each(coll) -> |k, v| { body }` (spec.md §4.2).
type ForEachExpr struct {
	ForPos  token.Pos
	Collection Expr
	Arrow   token.Pos
	Closure *ClosureLit
}

func (x *ForEachExpr) Span() token.Span {
	return token.Span{Start: x.ForPos, End: x.Closure.Span().End}
}
func (*ForEachExpr) exprNode() {}

// ReturnExpr is `return expr?`.
type ReturnExpr struct {
	ReturnPos token.Pos
	Value     Expr // nil for a bare `return`
}

func (x *ReturnExpr) Span() token.Span {
	end := x.ReturnPos.Add(6)
	if x.Value != nil {
		end = x.Value.Span().End
	}
	return token.Span{Start: x.ReturnPos, End: end}
}
func (*ReturnExpr) exprNode() {}

// AbortExpr is `abort expr?`.
type AbortExpr struct {
	AbortPos token.Pos
	Message  Expr // nil for a bare `abort`
}

func (x *AbortExpr) Span() token.Span {
	end := x.AbortPos.Add(5)
	if x.Message != nil {
		end = x.Message.Span().End
	}
	return token.Span{Start: x.AbortPos, End: end}
}
func (*AbortExpr) exprNode() {}

// AssignTarget is the left-hand side of an AssignExpr: a path, a bare
// identifier, or the explicit-discard `_`.
type AssignTarget interface {
	Node
	targetNode()
}

func (*PathExpr) targetNode()   {}
func (*Ident) targetNode()      {}
func (*Underscore) targetNode() {}

// AssignOp distinguishes the three infallible assignment operators plus
// the fallible two-target form (spec.md §4.2).
type AssignOp int

const (
	AssignPlain    AssignOp = iota // '='
	AssignOr                       // '|='
	AssignCoalesce                 // '??='
)

// AssignExpr is `target = expr`, `target |= expr`, `target ??= expr`, or
// the fallible two-target form `value, err = expr`.
type AssignExpr struct {
	Target    AssignTarget
	ErrTarget AssignTarget // non-nil for the `value, err = expr` form
	Op        AssignOp
	OpPos     token.Pos
	Value     Expr
}

func (x *AssignExpr) Span() token.Span {
	return token.Span{Start: x.Target.Span().Start, End: x.Value.Span().End}
}
func (*AssignExpr) exprNode() {}
