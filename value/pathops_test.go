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
	"testing"

	"github.com/vrl-lang/vrl/path"
)

func newTestTarget() *Object {
	root := NewObject()
	root.Set("log", Bytes("hello"))
	nested := NewObject()
	nested.Set("id", Integer(7))
	root.Set("user", nested)
	return root
}

// TestInsertThenGetRoundTrips covers spec.md §3.3's idempotence property:
// get(insert(target, p, v), p) == v.
func TestInsertThenGetRoundTrips(t *testing.T) {
	root := Value(newTestTarget())
	p := path.Path{path.FieldSegment("user"), path.FieldSegment("name")}

	newRoot, err := Insert(root, p, Bytes("ana"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok := Get(newRoot, p)
	if !ok {
		t.Fatalf("Get after Insert: not found")
	}
	if !got.Equal(Bytes("ana")) {
		t.Fatalf("Get after Insert = %v, want ana", got)
	}
}

// TestSetGetIdempotence covers the other half: writing back a value read
// from a path leaves the target unchanged.
func TestSetGetIdempotence(t *testing.T) {
	root := newTestTarget()
	p := path.Path{path.FieldSegment("user"), path.FieldSegment("id")}

	v, ok := Get(root, p)
	if !ok {
		t.Fatalf("Get: not found")
	}
	newRoot, err := Insert(root, p, v)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !newRoot.Equal(root) {
		t.Fatalf("set(get(target, p), p) != target: got %v, want %v", newRoot, root)
	}
}

func TestInsertAutoCreatesIntermediateObjects(t *testing.T) {
	root := NewObject()
	p := path.Path{path.FieldSegment("a"), path.FieldSegment("b"), path.FieldSegment("c")}

	newRoot, err := Insert(Value(root), p, Integer(1))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, ok := Get(newRoot, p)
	if !ok || !got.Equal(Integer(1)) {
		t.Fatalf("Get = (%v, %v), want (1, true)", got, ok)
	}
}

func TestInsertThroughNonObjectIsRuntimeError(t *testing.T) {
	root := NewObject()
	root.Set("size", Integer(42))
	p := path.Path{path.FieldSegment("size"), path.FieldSegment("bytes")}

	if _, err := Insert(Value(root), p, Integer(1)); err == nil {
		t.Fatalf("Insert through a non-object parent: want an error, got none")
	}
}

func TestRemoveReturnsRemovedValue(t *testing.T) {
	root := newTestTarget()
	p := path.Path{path.FieldSegment("log")}

	newRoot, removed, ok := Remove(Value(root), p, false)
	if !ok {
		t.Fatalf("Remove: not found")
	}
	if !removed.Equal(Bytes("hello")) {
		t.Fatalf("removed = %v, want hello", removed)
	}
	if _, stillThere := Get(newRoot, p); stillThere {
		t.Fatalf("field still present after Remove")
	}
}

func TestRemovePrunesEmptyParent(t *testing.T) {
	root := NewObject()
	nested := NewObject()
	nested.Set("only", Integer(1))
	root.Set("nested", nested)
	p := path.Path{path.FieldSegment("nested"), path.FieldSegment("only")}

	newRoot, _, ok := Remove(Value(root), p, true)
	if !ok {
		t.Fatalf("Remove: not found")
	}
	if _, stillThere := Get(newRoot, path.Path{path.FieldSegment("nested")}); stillThere {
		t.Fatalf("emptied parent was not pruned")
	}
}

func TestGetCoalesceTriesEachAlternativeInOrder(t *testing.T) {
	root := NewObject()
	root.Set("msg", Bytes("fallback"))
	p := path.Path{path.CoalesceSegment([]string{"message", "msg"})}

	got, ok := Get(Value(root), p)
	if !ok || !got.Equal(Bytes("fallback")) {
		t.Fatalf("Get coalesce = (%v, %v), want (fallback, true)", got, ok)
	}
}

func TestGetUndefinedForMissingField(t *testing.T) {
	root := newTestTarget()
	_, ok := Get(Value(root), path.Path{path.FieldSegment("missing")})
	if ok {
		t.Fatalf("Get(missing field) reported found")
	}
}
