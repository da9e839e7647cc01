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

import (
	"sort"
	"strings"

	"github.com/mpvl/unique"
)

// Kind is the compile-time lattice over the primitive value categories an
// expression may produce (spec.md §3.2). It is a bitmask, following the
// teacher's legacy cue.Kind convention (cue/types.go: "BottomKind Kind = 1
// << iota") extended with the Undefined and Never modifiers VRL needs.
type Kind uint16

const (
	BytesKind Kind = 1 << iota
	IntegerKind
	FloatKind
	BooleanKind
	TimestampKind
	RegexKind
	NullKind
	ArrayKind
	ObjectKind

	// UndefinedKind marks that the value may be absent, e.g. reading a
	// missing field (spec.md §3.2).
	UndefinedKind
)

// NeverKind is the empty Kind: no value is producible. Used for unreachable
// branches (spec.md §3.2).
const NeverKind Kind = 0

// AnyKind is the union of every primitive kind, excluding Undefined.
const AnyKind = BytesKind | IntegerKind | FloatKind | BooleanKind | TimestampKind |
	RegexKind | NullKind | ArrayKind | ObjectKind

// NumberKind is the union of the two numeric kinds, used throughout the
// arithmetic table (spec.md §4.3).
const NumberKind = IntegerKind | FloatKind

var kindNames = []struct {
	k Kind
	s string
}{
	{BytesKind, "string"},
	{IntegerKind, "int"},
	{FloatKind, "float"},
	{BooleanKind, "bool"},
	{TimestampKind, "timestamp"},
	{RegexKind, "regex"},
	{NullKind, "null"},
	{ArrayKind, "array"},
	{ObjectKind, "object"},
	{UndefinedKind, "undefined"},
}

func (k Kind) String() string {
	if k == NeverKind {
		return "never"
	}
	var parts []string
	for _, kn := range kindNames {
		if k&kn.k != 0 {
			parts = append(parts, kn.s)
		}
	}
	if len(parts) == 0 {
		return "never"
	}
	return strings.Join(parts, "|")
}

// Is reports whether k contains every bit set in sub.
func (k Kind) Is(sub Kind) bool { return k&sub == sub }

// Has reports whether k and other share at least one primitive kind.
func (k Kind) Has(other Kind) bool { return k&other != 0 }

// Union returns the lattice join of k and other (spec.md §3.2: "union,
// intersection, and subtraction are defined").
func (k Kind) Union(other Kind) Kind { return k | other }

// Intersect returns the lattice meet of k and other.
func (k Kind) Intersect(other Kind) Kind { return k & other }

// Without returns k with every bit in other cleared.
func (k Kind) Without(other Kind) Kind { return k &^ other }

// IsConcrete reports whether k excludes Undefined and Never, i.e. every
// value of this Kind is guaranteed present.
func (k Kind) IsConcrete() bool { return k != NeverKind && k&UndefinedKind == 0 }

// Refinement carries structural detail beyond the coarse primitive bitmask:
// for ObjectKind, a (possibly partial) map from known field names to Kinds
// plus the Kind of any unknown field; for ArrayKind, the analogous map from
// known indices plus the Kind of unknown elements (spec.md §3.2: "this
// refinement propagates through operations so that `.user.id` has a more
// specific Kind than `.`").
type Refinement struct {
	// Object fields, sorted by name. nil if this Refinement
	// does not describe an object.
	Fields      []string
	FieldKinds  map[string]Kind
	UnknownKind Kind // Kind of fields/indices not named above

	// Array indices, keyed by position. nil if this Refinement does not
	// describe an array.
	Indices     []int
	IndexKinds  map[int]Kind
}

// NewObjectRefinement builds a Refinement describing a struct with exactly
// the given known fields.
func NewObjectRefinement(fields map[string]Kind, unknown Kind) *Refinement {
	r := &Refinement{FieldKinds: map[string]Kind{}, UnknownKind: unknown}
	for name, k := range fields {
		r.Fields = append(r.Fields, name)
		r.FieldKinds[name] = k
	}
	sort.Strings(r.Fields)
	return r
}

// Field returns the Kind known for field name, and whether it is known
// precisely (as opposed to falling back to UnknownKind).
func (r *Refinement) Field(name string) (Kind, bool) {
	if r == nil {
		return AnyKind | UndefinedKind, false
	}
	if k, ok := r.FieldKinds[name]; ok {
		return k, true
	}
	return r.UnknownKind, false
}

// Index returns the Kind known for array index i, and whether it is known
// precisely.
func (r *Refinement) Index(i int) (Kind, bool) {
	if r == nil {
		return AnyKind | UndefinedKind, false
	}
	if k, ok := r.IndexKinds[i]; ok {
		return k, true
	}
	return r.UnknownKind, false
}

// MergeRefinement computes the join of two Refinements as required at
// if/else branch joins and ??-coalesce joins: a field/index keeps its
// precise Kind only when both sides agree it is known, is widened to the
// union of the two sides' Kinds otherwise, and unknown fields on either
// side widen the result's UnknownKind. This must be commutative and
// associative (spec.md §9: "merging Kinds at branch joins must be
// commutative and associative").
func MergeRefinement(a, b *Refinement) *Refinement {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return widenAllUnknown(b)
	case b == nil:
		return widenAllUnknown(a)
	}
	out := &Refinement{
		FieldKinds: map[string]Kind{},
		IndexKinds: map[int]Kind{},
	}
	out.UnknownKind = a.UnknownKind | b.UnknownKind

	names := append(append([]string{}, a.Fields...), b.Fields...)
	unique.Strings(&names)
	for _, name := range names {
		ak, aok := a.FieldKinds[name]
		bk, bok := b.FieldKinds[name]
		switch {
		case aok && bok:
			out.FieldKinds[name] = ak | bk
		case aok:
			out.FieldKinds[name] = ak | a.UnknownKind | b.UnknownKind
		case bok:
			out.FieldKinds[name] = bk | a.UnknownKind | b.UnknownKind
		}
		out.Fields = append(out.Fields, name)
	}

	idxSet := map[int]bool{}
	for _, i := range a.Indices {
		idxSet[i] = true
	}
	for _, i := range b.Indices {
		idxSet[i] = true
	}
	for i := range idxSet {
		ak, aok := a.IndexKinds[i]
		bk, bok := b.IndexKinds[i]
		switch {
		case aok && bok:
			out.IndexKinds[i] = ak | bk
		case aok:
			out.IndexKinds[i] = ak | a.UnknownKind | b.UnknownKind
		case bok:
			out.IndexKinds[i] = bk | a.UnknownKind | b.UnknownKind
		}
		out.Indices = append(out.Indices, i)
	}
	sort.Strings(out.Fields)
	sort.Ints(out.Indices)
	return out
}

// widenAllUnknown is used when one side of a merge has no structural
// information at all: every known field/index on the other side must fold
// into the unknown bucket, since the "no information" side could hold
// anything there.
func widenAllUnknown(r *Refinement) *Refinement {
	out := &Refinement{UnknownKind: r.UnknownKind}
	for name, k := range r.FieldKinds {
		out.UnknownKind |= k
		_ = name
	}
	for _, k := range r.IndexKinds {
		out.UnknownKind |= k
	}
	return out
}
