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
	"sort"

	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/path"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

// compileAssign lowers the three single-target assignment operators and
// the fallible two-target `value, err = expr` form (spec.md §4.2, §4.3).
func (c *compiler) compileAssign(x *ast.AssignExpr) ir.Node {
	val := c.compileExpr(x.Value)

	if x.ErrTarget != nil {
		return c.compileTwoTargetAssign(x, val)
	}

	switch x.Op {
	case ast.AssignOr:
		return c.assignTo(x.Target, val, val.Type(), x.Span())
	case ast.AssignCoalesce:
		cur := c.targetType(x.Target)
		out := value.TypeDef{
			Kind:       cur.Kind.Without(value.UndefinedKind) | val.Type().Kind,
			Refinement: value.MergeRefinement(cur.Refinement, val.Type().Refinement),
			Fallible:   cur.Fallible && val.Type().Fallible,
		}
		return c.assignTo(x.Target, val, out, x.Span())
	default: // ast.AssignPlain
		return c.assignTo(x.Target, val, val.Type(), x.Span())
	}
}

// compileTwoTargetAssign decomposes `value, err = expr` per spec.md §4.3:
// the combined assignment is infallible regardless of expr's own
// fallibility, value widens to include null (the failure case) and err
// is always bytes|null.
func (c *compiler) compileTwoTargetAssign(x *ast.AssignExpr, val ir.Node) ir.Node {
	vt := val.Type()
	valueType := value.TypeDef{
		Kind:       vt.Kind.Without(value.UndefinedKind) | value.NullKind,
		Refinement: vt.Refinement,
	}
	errType := value.Infallible(value.BytesKind | value.NullKind)

	valueTarget := c.resolveTarget(x.Target, valueType)
	errTarget := c.resolveTarget(x.ErrTarget, errType)
	return ir.NewTwoTargetAssign(val, valueTarget, errTarget, valueType, x.Span())
}

// assignTo lowers a single assignment target, recording the new Kind
// both in the produced IR node and back into the compiler's tracked
// variable/target-shape state so later reads see it.
func (c *compiler) assignTo(target ast.AssignTarget, val ir.Node, typ value.TypeDef, span token.Span) ir.Node {
	switch t := target.(type) {
	case *ast.Underscore:
		// Explicit discard: evaluate for side effects, bind nothing.
		return ir.NewBlock([]ir.Node{val}, typ, span)
	case *ast.Ident:
		c.scope.assign(t.Name, typ)
		return ir.NewVariableSet(t.Name, val, typ, span)
	case *ast.PathExpr:
		p := c.buildPath(t)
		c.cfg.TargetType = setKindAtPath(c.cfg.TargetType, p, typ)
		return ir.NewPathSet(p, val, typ, span)
	}
	return val
}

// resolveTarget computes the ir.AssignTarget descriptor for a two-target
// assignment's Value/Err slot and records typ into the compiler's
// tracked state, mirroring assignTo but without needing a Value node of
// its own (the same expr.Value node feeds both slots at runtime).
func (c *compiler) resolveTarget(target ast.AssignTarget, typ value.TypeDef) ir.AssignTarget {
	switch t := target.(type) {
	case *ast.Underscore:
		return ir.AssignTarget{Local: true, Name: "_"}
	case *ast.Ident:
		c.scope.assign(t.Name, typ)
		return ir.AssignTarget{Local: true, Name: t.Name}
	case *ast.PathExpr:
		p := c.buildPath(t)
		c.cfg.TargetType = setKindAtPath(c.cfg.TargetType, p, typ)
		return ir.AssignTarget{Local: false, Path: p}
	}
	return ir.AssignTarget{}
}

// targetType computes the current statically known TypeDef of an
// assignment target without mutating any state, used by `??=` to read
// the pre-assignment Kind.
func (c *compiler) targetType(target ast.AssignTarget) value.TypeDef {
	switch t := target.(type) {
	case *ast.Underscore:
		return value.TypeDef{Kind: value.UndefinedKind, Pure: true}
	case *ast.Ident:
		if typ, ok := c.scope.lookup(t.Name); ok {
			return typ
		}
		return value.TypeDef{Kind: value.UndefinedKind, Pure: true}
	case *ast.PathExpr:
		typ := c.cfg.TargetType
		for _, seg := range c.buildPath(t) {
			switch seg.Kind {
			case path.Field:
				typ = typ.Field(seg.Field)
			case path.Index:
				typ = typ.Index(seg.Index)
			default:
				typ = typ.WithUndefined()
			}
		}
		return typ
	}
	return value.TypeDef{}
}

// setKindAtPath returns t with the Kind at path p replaced by newKind,
// synthesizing intermediate object/array Refinements as needed. Paths
// through a coalesce segment are too ambiguous to update precisely and
// only widen the root Kind.
func setKindAtPath(t value.TypeDef, p path.Path, newKind value.TypeDef) value.TypeDef {
	if len(p) == 0 {
		return newKind
	}
	seg, rest := p[0], p[1:]
	switch seg.Kind {
	case path.Field:
		t.Kind |= value.ObjectKind
		fields := map[string]value.Kind{}
		unknown := value.NeverKind
		if t.Refinement != nil {
			for _, f := range t.Refinement.Fields {
				fields[f] = t.Refinement.FieldKinds[f]
			}
			unknown = t.Refinement.UnknownKind
		}
		child := t.Field(seg.Field)
		fields[seg.Field] = setKindAtPath(child, rest, newKind).Kind
		t.Refinement = value.NewObjectRefinement(fields, unknown)
		return t
	case path.Index:
		t.Kind |= value.ArrayKind
		indices := map[int]value.Kind{}
		unknown := value.NeverKind
		if t.Refinement != nil {
			for _, i := range t.Refinement.Indices {
				indices[i] = t.Refinement.IndexKinds[i]
			}
			unknown = t.Refinement.UnknownKind
		}
		child := t.Index(seg.Index)
		indices[seg.Index] = setKindAtPath(child, rest, newKind).Kind
		idxList := make([]int, 0, len(indices))
		for i := range indices {
			idxList = append(idxList, i)
		}
		sort.Ints(idxList)
		t.Refinement = &value.Refinement{IndexKinds: indices, Indices: idxList, UnknownKind: unknown}
		return t
	default: // Coalesce
		t.Kind |= newKind.Kind
		return t
	}
}
