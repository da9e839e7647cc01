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

import "testing"

func TestKindLattice(t *testing.T) {
	ib := IntegerKind | BooleanKind
	if !ib.Is(IntegerKind) {
		t.Errorf("%s.Is(IntegerKind) = false, want true", ib)
	}
	if ib.Is(FloatKind) {
		t.Errorf("%s.Is(FloatKind) = true, want false", ib)
	}
	if !ib.Has(BooleanKind) {
		t.Errorf("%s.Has(BooleanKind) = false, want true", ib)
	}

	if got := ib.Without(BooleanKind); got != IntegerKind {
		t.Errorf("Without(BooleanKind) = %s, want %s", got, IntegerKind)
	}
	if got := IntegerKind.Union(FloatKind); got != NumberKind {
		t.Errorf("Union = %s, want %s", got, NumberKind)
	}
	if got := NumberKind.Intersect(IntegerKind); got != IntegerKind {
		t.Errorf("Intersect = %s, want %s", got, IntegerKind)
	}

	if NeverKind.String() != "never" {
		t.Errorf("NeverKind.String() = %q, want never", NeverKind.String())
	}
	if !IntegerKind.IsConcrete() {
		t.Errorf("IntegerKind.IsConcrete() = false, want true")
	}
	if (IntegerKind | UndefinedKind).IsConcrete() {
		t.Errorf("(int|undefined).IsConcrete() = true, want false")
	}
	if NeverKind.IsConcrete() {
		t.Errorf("NeverKind.IsConcrete() = true, want false")
	}
}

func TestKindUnionCommutativeAssociative(t *testing.T) {
	a, b, c := BytesKind, IntegerKind, BooleanKind
	if a.Union(b) != b.Union(a) {
		t.Errorf("Union not commutative")
	}
	if a.Union(b).Union(c) != a.Union(b.Union(c)) {
		t.Errorf("Union not associative")
	}
}

func TestMergeRefinementCommutative(t *testing.T) {
	a := NewObjectRefinement(map[string]Kind{"id": IntegerKind}, NeverKind)
	b := NewObjectRefinement(map[string]Kind{"id": BytesKind, "name": BytesKind}, NeverKind)

	ab := MergeRefinement(a, b)
	ba := MergeRefinement(b, a)

	for _, name := range []string{"id", "name"} {
		k1, _ := ab.Field(name)
		k2, _ := ba.Field(name)
		if k1 != k2 {
			t.Errorf("MergeRefinement not commutative for field %q: %s vs %s", name, k1, k2)
		}
	}
}

func TestMergeRefinementWidensUnknownOnAsymmetricJoin(t *testing.T) {
	a := NewObjectRefinement(map[string]Kind{"id": IntegerKind}, NeverKind)
	merged := MergeRefinement(a, nil)

	// The nil side carries no structural information at all, so every
	// known field on the other side must widen into the unknown bucket
	// rather than keep its precise Kind.
	if k, known := merged.Field("id"); known {
		t.Errorf("Field(%q) = (%s, known), want unknown after merging with nil", "id", k)
	}
}

func TestMergeRefinementKeepsPreciseFieldWhenBothAgree(t *testing.T) {
	a := NewObjectRefinement(map[string]Kind{"id": IntegerKind}, NeverKind)
	b := NewObjectRefinement(map[string]Kind{"id": IntegerKind}, NeverKind)

	merged := MergeRefinement(a, b)
	k, known := merged.Field("id")
	if !known || k != IntegerKind {
		t.Errorf("Field(\"id\") = (%s, %v), want (%s, true)", k, known, IntegerKind)
	}
}

func TestRefinementFieldFallsBackToUnknown(t *testing.T) {
	var r *Refinement
	k, known := r.Field("anything")
	if known {
		t.Errorf("nil Refinement.Field reported known")
	}
	if k != AnyKind|UndefinedKind {
		t.Errorf("nil Refinement.Field = %s, want %s", k, AnyKind|UndefinedKind)
	}
}
