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

package ast

// Walk traverses an AST in depth-first order: it calls before(node) first;
// if before returns true (or is nil), Walk recurses into node's non-nil
// children, followed by a call to after (if non-nil).
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if node == nil {
		return
	}
	if before != nil && !before(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, e := range n.Exprs {
			Walk(e, before, after)
		}
	case *PathExpr:
		for _, seg := range n.Segments {
			if seg.Index != nil {
				Walk(*seg.Index, before, after)
			}
		}
	case *ArrayLit:
		for _, e := range n.Elts {
			Walk(e, before, after)
		}
	case *ObjectLit:
		for _, f := range n.Fields {
			Walk(f.Value, before, after)
		}
	case *ParenExpr:
		Walk(n.X, before, after)
	case *UnaryExpr:
		Walk(n.X, before, after)
	case *BinaryExpr:
		Walk(n.X, before, after)
		Walk(n.Y, before, after)
	case *CallExpr:
		Walk(n.Fun, before, after)
		for _, a := range n.Args {
			Walk(a.Value, before, after)
		}
		if n.Closure != nil {
			Walk(n.Closure, before, after)
		}
	case *ClosureLit:
		for _, p := range n.Params {
			Walk(p, before, after)
		}
		Walk(n.Body, before, after)
	case *BlockExpr:
		for _, e := range n.Exprs {
			Walk(e, before, after)
		}
	case *IfExpr:
		for _, c := range n.Clauses {
			if c.Cond != nil {
				Walk(c.Cond, before, after)
			}
			Walk(c.Body, before, after)
		}
	case *ForEachExpr:
		Walk(n.Collection, before, after)
		Walk(n.Closure, before, after)
	case *ReturnExpr:
		if n.Value != nil {
			Walk(n.Value, before, after)
		}
	case *AbortExpr:
		if n.Message != nil {
			Walk(n.Message, before, after)
		}
	case *AssignExpr:
		Walk(n.Target, before, after)
		if n.ErrTarget != nil {
			Walk(n.ErrTarget, before, after)
		}
		Walk(n.Value, before, after)
	}

	if after != nil {
		after(node)
	}
}
