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

package value

// TypeDef is the compile-time type of an expression: a Kind, a fallible
// bit (may raise a runtime error) and a purity bit (no observable side
// effect), per spec.md §3.2.
type TypeDef struct {
	Kind       Kind
	Refinement *Refinement
	Fallible   bool
	Pure       bool
}

// Infallible builds a TypeDef with Fallible = false.
func Infallible(k Kind) TypeDef { return TypeDef{Kind: k, Pure: true} }

// FallibleOf builds a TypeDef with Fallible = true.
func FallibleOf(k Kind) TypeDef { return TypeDef{Kind: k, Fallible: true, Pure: true} }

// Never is the TypeDef of an unreachable expression (e.g. the tail of an
// unconditional abort).
var Never = TypeDef{Kind: NeverKind, Fallible: true}

// Union computes the join of two TypeDefs at a branch point (e.g. the two
// arms of an if/else): Kind and Refinement union, Fallible is true if
// either side is fallible, Pure is true only if both sides are pure.
func (t TypeDef) Union(other TypeDef) TypeDef {
	return TypeDef{
		Kind:       t.Kind | other.Kind,
		Refinement: MergeRefinement(t.Refinement, other.Refinement),
		Fallible:   t.Fallible || other.Fallible,
		Pure:       t.Pure && other.Pure,
	}
}

// WithUndefined returns t with the Undefined modifier added to its Kind,
// used wherever a path's shape cannot prove presence (spec.md §4.3, Path
// on target rule).
func (t TypeDef) WithUndefined() TypeDef {
	t.Kind |= UndefinedKind
	return t
}

// MakeFallible returns t with Fallible forced true.
func (t TypeDef) MakeFallible() TypeDef {
	t.Fallible = true
	return t
}

// MakeInfallible returns t with Fallible forced false, as happens under the
// trailing `!` infallibility assertion (spec.md §4.2).
func (t TypeDef) MakeInfallible() TypeDef {
	t.Fallible = false
	return t
}

// Field returns the TypeDef of field name on a value of object Kind t,
// widening to Undefined whenever the field is not known to be present.
func (t TypeDef) Field(name string) TypeDef {
	k, known := t.Refinement.Field(name)
	if !known {
		k |= UndefinedKind
	}
	return TypeDef{Kind: k, Pure: true}
}

// Index returns the TypeDef of index i on a value of array Kind t.
func (t TypeDef) Index(i int) TypeDef {
	k, known := t.Refinement.Index(i)
	if !known {
		k |= UndefinedKind
	}
	return TypeDef{Kind: k, Pure: true}
}
