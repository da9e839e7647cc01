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
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an insertion-order-preserving mapping from bytes keys to
// Values, keys unique (spec.md §3.1). It is backed by
// github.com/wk8/go-ordered-map/v2 rather than a hand-rolled slice+map
// pair, the same way the rest of the domain stack prefers an ecosystem
// data structure over reimplementing one.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

// ObjectOf builds an Object from an explicit key order, preserving it.
func ObjectOf(keys []string, values map[string]Value) *Object {
	o := NewObject()
	for _, k := range keys {
		o.Set(k, values[k])
	}
	return o
}

func (*Object) Kind() Kind { return ObjectKind }

// Clone deep-copies the object, preserving key order.
func (o *Object) Clone() Value {
	out := NewObject()
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Clone())
	}
	return out
}

// Equal reports structural equality: same keys, in any order, with equal
// values (key order is significant for iteration, not for equality).
func (o *Object) Equal(v Value) bool {
	other, ok := v.(*Object)
	if !ok || o.Len() != other.Len() {
		return false
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		ov, ok := other.Get(pair.Key)
		if !ok || !pair.Value.Equal(ov) {
			return false
		}
	}
	return true
}

func (o *Object) String() string {
	s := "{"
	first := true
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			s += ", "
		}
		first = false
		s += pair.Key + ": " + pair.Value.String()
	}
	return s + "}"
}

// Len reports the number of fields.
func (o *Object) Len() int { return o.m.Len() }

// Get returns the field's value and whether it is present.
func (o *Object) Get(key string) (Value, bool) { return o.m.Get(key) }

// Set inserts or updates key, preserving its original insertion position
// on update.
func (o *Object) Set(key string, v Value) { o.m.Set(key, v) }

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	_, present := o.m.Delete(key)
	return present
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, 0, o.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Range calls f for every field in insertion order, stopping early if f
// returns false. This backs spec.md §4.4's for_each iteration order
// guarantee ("for_each iterates ... objects in insertion order").
func (o *Object) Range(f func(key string, v Value) bool) {
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !f(pair.Key, pair.Value) {
			return
		}
	}
}
