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

package runtime

import (
	"sort"

	"github.com/vrl-lang/vrl/path"
	"github.com/vrl-lang/vrl/value"
)

// MapTarget adapts a map[string]any-shaped embedder event (the common
// shape of a JSON-decoded log line) to the Target interface, converting
// to and from value.Value only at the boundary (spec.md §2.9: "a thin
// adapter over a map[string]any-shaped embedder event, demonstrating
// the adapter seam without depending on any specific embedder").
type MapTarget struct {
	root *value.Object
}

// NewMapTarget builds a MapTarget from an embedder-native event map.
func NewMapTarget(m map[string]any) *MapTarget {
	return &MapTarget{root: objectFromMap(m)}
}

// Map renders the current target back into a map[string]any, the
// inverse of NewMapTarget.
func (t *MapTarget) Map() map[string]any {
	return mapFromObject(t.root)
}

func (t *MapTarget) Get(p path.Path) (value.Value, bool) {
	return value.Get(t.root, p)
}

func (t *MapTarget) Insert(p path.Path, v value.Value) error {
	newRoot, err := value.Insert(t.root, p, v)
	if err != nil {
		return err
	}
	if obj, ok := newRoot.(*value.Object); ok {
		t.root = obj
	}
	return nil
}

func (t *MapTarget) Remove(p path.Path, pruneEmpties bool) (value.Value, bool) {
	newRoot, removed, ok := value.Remove(t.root, p, pruneEmpties)
	if !ok {
		return value.Undefined{}, false
	}
	if obj, isObj := newRoot.(*value.Object); isObj {
		t.root = obj
	}
	return removed, true
}

// objectFromMap inserts m's keys in sorted order, since a Go map has no
// key order of its own.
func objectFromMap(m map[string]any) *value.Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := value.NewObject()
	for _, k := range keys {
		obj.Set(k, valueFromAny(m[k]))
	}
	return obj
}

func valueFromAny(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Boolean(t)
	case int:
		return value.Integer(t)
	case int64:
		return value.Integer(t)
	case float64:
		return value.Float(t)
	case string:
		return value.Bytes(t)
	case []any:
		out := make(value.Array, len(t))
		for i, e := range t {
			out[i] = valueFromAny(e)
		}
		return out
	case map[string]any:
		return objectFromMap(t)
	}
	return value.Null{}
}

func mapFromObject(o *value.Object) map[string]any {
	out := map[string]any{}
	o.Range(func(k string, v value.Value) bool {
		out[k] = anyFromValue(v)
		return true
	})
	return out
}

func anyFromValue(v value.Value) any {
	switch t := v.(type) {
	case value.Null, value.Undefined:
		return nil
	case value.Boolean:
		return bool(t)
	case value.Integer:
		return int64(t)
	case value.Float:
		return float64(t)
	case value.Bytes:
		return string(t)
	case value.Timestamp:
		return t.Time
	case value.Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = anyFromValue(e)
		}
		return out
	case *value.Object:
		return mapFromObject(t)
	}
	return nil
}
