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

// Package runtime evaluates compiled internal/ir programs against a
// Target (the event) and a Context (clock, timezone, side-stores),
// following internal/core/eval's tree-walking shape and
// internal/core/runtime's Runtime/Context plain-struct pattern.
package runtime

import (
	"github.com/vrl-lang/vrl/path"
	"github.com/vrl-lang/vrl/value"
)

// Target is the interface the embedder implements so the language can
// read and write events (spec.md §4.6). Implementations must preserve
// object key insertion order. The interpreter holds exclusive access to
// a Target for the duration of one program's evaluation (spec.md §7,
// "Ownership of the Target during a program").
type Target interface {
	Get(p path.Path) (value.Value, bool)
	Insert(p path.Path, v value.Value) error
	Remove(p path.Path, pruneEmpties bool) (value.Value, bool)
}

// ObjectTarget is the in-memory Target backed directly by a *value.Object
// (spec.md §2.9: "an in-memory object (an Object Value)").
type ObjectTarget struct {
	Root *value.Object
}

// NewObjectTarget wraps root as a Target. A nil root is treated as an
// empty object.
func NewObjectTarget(root *value.Object) *ObjectTarget {
	if root == nil {
		root = value.NewObject()
	}
	return &ObjectTarget{Root: root}
}

func (t *ObjectTarget) Get(p path.Path) (value.Value, bool) {
	return value.Get(t.Root, p)
}

func (t *ObjectTarget) Insert(p path.Path, v value.Value) error {
	newRoot, err := value.Insert(t.Root, p, v)
	if err != nil {
		return err
	}
	obj, ok := newRoot.(*value.Object)
	if !ok {
		return errRootNotObject
	}
	t.Root = obj
	return nil
}

func (t *ObjectTarget) Remove(p path.Path, pruneEmpties bool) (value.Value, bool) {
	newRoot, removed, ok := value.Remove(t.Root, p, pruneEmpties)
	if !ok {
		return value.Undefined{}, false
	}
	if obj, isObj := newRoot.(*value.Object); isObj {
		t.Root = obj
	}
	return removed, true
}

var errRootNotObject = targetError("assigning the root path requires an object value")

type targetError string

func (e targetError) Error() string { return string(e) }
