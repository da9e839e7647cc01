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

// Package ir defines the typed intermediate representation produced by
// the compiler: every node carries the value.TypeDef computed for it
// during compilation, so the runtime never needs to re-derive kind or
// fallibility information while evaluating.
package ir

import (
	"github.com/vrl-lang/vrl/path"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

// Node is any IR node.
type Node interface {
	Type() value.TypeDef
	Span() token.Span
}

type base struct {
	typ  value.TypeDef
	span token.Span
}

func (b base) Type() value.TypeDef { return b.typ }
func (b base) Span() token.Span    { return b.span }

// Literal is a compile-time constant value.
type Literal struct {
	base
	Value value.Value
}

func NewLiteral(v value.Value, typ value.TypeDef, span token.Span) *Literal {
	return &Literal{base{typ, span}, v}
}

// PathGet reads a path from either the event target (Local == false) or
// a local variable's slot (Local == true, Name holds the root variable).
// The parser's grammar only ever produces target paths (Local == false);
// the field exists so a future local-variable path form has somewhere
// to land without changing the IR shape.
type PathGet struct {
	base
	Local bool
	Name  string
	Path  path.Path
}

func NewPathGet(p path.Path, typ value.TypeDef, span token.Span) *PathGet {
	return &PathGet{base: base{typ, span}, Path: p}
}

// PathSet writes a value at Path, either to the target or a local.
type PathSet struct {
	base
	Local bool
	Name  string
	Path  path.Path
	Value Node
}

func NewPathSet(p path.Path, val Node, typ value.TypeDef, span token.Span) *PathSet {
	return &PathSet{base: base{typ, span}, Path: p, Value: val}
}

// VariableGet reads the current value of a local variable.
type VariableGet struct {
	base
	Name string
}

func NewVariableGet(name string, typ value.TypeDef, span token.Span) *VariableGet {
	return &VariableGet{base: base{typ, span}, Name: name}
}

// VariableSet binds a local variable to a newly computed value.
type VariableSet struct {
	base
	Name  string
	Value Node
}

func NewVariableSet(name string, val Node, typ value.TypeDef, span token.Span) *VariableSet {
	return &VariableSet{base: base{typ, span}, Name: name, Value: val}
}

// BinaryOp is one of the binary operators from the precedence table,
// including the short-circuit `&&`/`||` forms and the error-coalesce `??`.
type BinaryOp struct {
	base
	Op   token.Token
	X, Y Node
}

func NewBinaryOp(op token.Token, x, y Node, typ value.TypeDef, span token.Span) *BinaryOp {
	return &BinaryOp{base: base{typ, span}, Op: op, X: x, Y: y}
}

// UnaryOp is `!x` or `-x`.
type UnaryOp struct {
	base
	Op token.Token
	X  Node
}

func NewUnaryOp(op token.Token, x Node, typ value.TypeDef, span token.Span) *UnaryOp {
	return &UnaryOp{base: base{typ, span}, Op: op, X: x}
}

// ArrayLiteral is a compiled `[a, b, c]` array literal.
type ArrayLiteral struct {
	base
	Elts []Node
}

func NewArrayLiteral(elts []Node, typ value.TypeDef, span token.Span) *ArrayLiteral {
	return &ArrayLiteral{base: base{typ, span}, Elts: elts}
}

// ObjectField is one compiled `key: value` entry of an ObjectLiteral.
type ObjectField struct {
	Key   string
	Value Node
}

// ObjectLiteral is a compiled `{key: value, ...}` object literal.
type ObjectLiteral struct {
	base
	Fields []ObjectField
}

func NewObjectLiteral(fields []ObjectField, typ value.TypeDef, span token.Span) *ObjectLiteral {
	return &ObjectLiteral{base: base{typ, span}, Fields: fields}
}

// Call invokes a compiled stdlib function. Closure is non-nil when the
// source call carried a closure tail; for_each lowers to ForEach instead.
type Call struct {
	base
	FuncName string
	Args     []Node
	ArgNames []string // parallel to Args; "" for positional
	Assert   bool // trailing `!`
	Closure  *ClosureThunk
}

func NewCall(name string, args []Node, argNames []string, assert bool, closure *ClosureThunk, typ value.TypeDef, span token.Span) *Call {
	return &Call{base: base{typ, span}, FuncName: name, Args: args, ArgNames: argNames, Assert: assert, Closure: closure}
}

// ClosureThunk is the compiled body of a `|params| { ... }` closure,
// capturing the names its parameters bind to within the body.
type ClosureThunk struct {
	base
	Params []string
	Body   Node
}

func NewClosureThunk(params []string, body Node, typ value.TypeDef, span token.Span) *ClosureThunk {
	return &ClosureThunk{base: base{typ, span}, Params: params, Body: body}
}

// If is a chain of conditional clauses; the final clause may have a nil
// Cond, representing an unconditioned `else`.
type If struct {
	base
	Clauses []IfClause
}

func NewIf(clauses []IfClause, typ value.TypeDef, span token.Span) *If {
	return &If{base: base{typ, span}, Clauses: clauses}
}

type IfClause struct {
	Cond Node // nil for the trailing else
	Body Node
}

// ForEach iterates Collection (array or object) binding Closure's
// parameters to (index,value) or (key,value) for each element.
type ForEach struct {
	base
	Collection Node
	Closure    *ClosureThunk
}

func NewForEach(coll Node, closure *ClosureThunk, typ value.TypeDef, span token.Span) *ForEach {
	return &ForEach{base: base{typ, span}, Collection: coll, Closure: closure}
}

// Block is a sequence of nodes; its value and Type are those of the
// last element.
type Block struct {
	base
	Exprs []Node
}

func NewBlock(exprs []Node, typ value.TypeDef, span token.Span) *Block {
	return &Block{base: base{typ, span}, Exprs: exprs}
}

// Return terminates the program early with Value's result (nil for a
// bare `return`).
type Return struct {
	base
	Value Node
}

func NewReturn(val Node, typ value.TypeDef, span token.Span) *Return {
	return &Return{base: base{typ, span}, Value: val}
}

// Abort terminates the program with a runtime failure, optionally
// carrying a message.
type Abort struct {
	base
	Message Node
}

func NewAbort(msg Node, typ value.TypeDef, span token.Span) *Abort {
	return &Abort{base: base{typ, span}, Message: msg}
}

// PathDelete removes the value at Path from the target, evaluating to
// the value that was removed (spec.md §8 example 1: `del(.size)`). It
// is a dedicated node rather than an ordinary Call because del needs
// the raw path, not an evaluated value, as its argument.
type PathDelete struct {
	base
	Path path.Path
}

func NewPathDelete(p path.Path, typ value.TypeDef, span token.Span) *PathDelete {
	return &PathDelete{base: base{typ, span}, Path: p}
}

// AssignTarget names where a PathSet/VariableSet/TwoTargetAssign writes:
// either a local variable slot (Local == true, Name set) or a path on
// the event target (Local == false, Path set).
type AssignTarget struct {
	Local bool
	Name  string
	Path  path.Path
}

// TwoTargetAssign is the fallible two-target assignment form
// `value, err = expr` (spec.md §4.3): Value is evaluated once, its
// success/fallure pair routed to ValueTarget and ErrTarget respectively.
// Unlike a plain PathSet/VariableSet, this form is never itself fallible:
// the error is captured rather than left to propagate.
type TwoTargetAssign struct {
	base
	Value       Node
	ValueTarget AssignTarget
	ErrTarget   AssignTarget
}

func NewTwoTargetAssign(val Node, valueTarget, errTarget AssignTarget, typ value.TypeDef, span token.Span) *TwoTargetAssign {
	return &TwoTargetAssign{base: base{typ, span}, Value: val, ValueTarget: valueTarget, ErrTarget: errTarget}
}

// Program is the root of a compiled unit: an ordered sequence of
// top-level IR nodes plus the inferred Type Definition of the whole
// program (the type of its final expression).
type Program struct {
	Exprs  []Node
	Result value.TypeDef
}
