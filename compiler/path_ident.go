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
	"github.com/vrl-lang/vrl/path"
	"github.com/vrl-lang/vrl/value"
)

// buildPath assembles a path.Path from the parser's ast.PathSegment
// chain, reporting unsupported computed-index segments (the grammar
// only produces these via future extension; the current parser always
// yields literal indices).
func (c *compiler) buildPath(x *ast.PathExpr) path.Path {
	var p path.Path
	for _, seg := range x.Segments {
		switch {
		case seg.Field != "":
			p = p.Append(path.FieldSegment(seg.Field))
		case seg.Lit != nil:
			p = p.Append(path.IndexSegment(*seg.Lit))
		case len(seg.Alts) > 0:
			p = p.Append(path.CoalesceSegment(seg.Alts))
		case seg.Index != nil:
			c.errorf(errors.CodeParseError, x.Span(), "computed path indices are not supported")
		}
	}
	return p
}

// compilePath lowers a `.foo.bar[0]` path literal into a PathGet against
// the target, inferring its Kind by structural lookup into the
// compiler's TargetType (spec.md §4.3, "Path on target").
func (c *compiler) compilePath(x *ast.PathExpr) ir.Node {
	p := c.buildPath(x)
	typ := c.cfg.TargetType
	for _, seg := range p {
		switch seg.Kind {
		case path.Field:
			typ = typ.Field(seg.Field)
		case path.Index:
			typ = typ.Index(seg.Index)
		case path.Coalesce:
			// Any of the alternatives may be present; union their Kinds.
			var out value.TypeDef
			for i, alt := range seg.Alts {
				f := typ.Field(alt)
				if i == 0 {
					out = f
				} else {
					out = out.Union(f)
				}
			}
			typ = out
			c.errs.Add(errors.Warnf(errors.CodeDeprecatedCoalescePath, x.Span(),
				"coalesce path segments are deprecated"))
		}
	}
	typ.Pure = true
	return ir.NewPathGet(p, typ, x.Span())
}

func (c *compiler) compileIdent(x *ast.Ident) ir.Node {
	typ, ok := c.scope.lookup(x.Name)
	if !ok {
		c.errs.Add(errors.Newf(errors.CodeUnresolvedIdentifier, x.Span(),
			"undefined variable %q", x.Name))
		return ir.NewVariableGet(x.Name, value.Infallible(value.NullKind), x.Span())
	}
	return ir.NewVariableGet(x.Name, typ, x.Span())
}

func (c *compiler) compileArray(x *ast.ArrayLit) ir.Node {
	elts := make([]ir.Node, len(x.Elts))
	indexKinds := map[int]value.Kind{}
	var indices []int
	fallible, pure := false, true
	for i, e := range x.Elts {
		n := c.compileExpr(e)
		elts[i] = n
		t := n.Type()
		indexKinds[i] = t.Kind
		indices = append(indices, i)
		fallible = fallible || t.Fallible
		pure = pure && t.Pure
	}
	ref := &value.Refinement{IndexKinds: indexKinds, Indices: indices}
	typ := value.TypeDef{Kind: value.ArrayKind, Refinement: ref, Fallible: fallible, Pure: pure}
	return ir.NewArrayLiteral(elts, typ, x.Span())
}

func (c *compiler) compileObject(x *ast.ObjectLit) ir.Node {
	fields := make([]ir.ObjectField, len(x.Fields))
	fieldKinds := map[string]value.Kind{}
	fallible, pure := false, true
	for i, f := range x.Fields {
		n := c.compileExpr(f.Value)
		fields[i] = ir.ObjectField{Key: f.Key, Value: n}
		t := n.Type()
		fieldKinds[f.Key] = t.Kind
		fallible = fallible || t.Fallible
		pure = pure && t.Pure
	}
	ref := value.NewObjectRefinement(fieldKinds, value.NeverKind)
	typ := value.TypeDef{Kind: value.ObjectKind, Refinement: ref, Fallible: fallible, Pure: pure}
	return ir.NewObjectLiteral(fields, typ, x.Span())
}
