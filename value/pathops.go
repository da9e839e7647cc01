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
	"fmt"

	"github.com/vrl-lang/vrl/path"
)

// Get walks root following p, returning Undefined for any segment that
// does not resolve, and trying coalesce alternatives in order (spec.md
// §4.4: "Path get: absent fields on an object return a distinguished
// undefined ... Coalesce segments try each alternative in order").
func Get(root Value, p path.Path) (Value, bool) {
	cur := root
	for _, seg := range p {
		switch seg.Kind {
		case path.Field:
			obj, ok := cur.(*Object)
			if !ok {
				return Undefined{}, false
			}
			v, ok := obj.Get(seg.Field)
			if !ok {
				return Undefined{}, false
			}
			cur = v
		case path.Index:
			arr, ok := cur.(Array)
			if !ok {
				return Undefined{}, false
			}
			v, ok := arr.At(seg.Index)
			if !ok {
				return Undefined{}, false
			}
			cur = v
		case path.Coalesce:
			obj, ok := cur.(*Object)
			if !ok {
				return Undefined{}, false
			}
			found := false
			for _, alt := range seg.Alts {
				if v, ok := obj.Get(alt); ok {
					cur = v
					found = true
					break
				}
			}
			if !found {
				return Undefined{}, false
			}
		}
	}
	return cur, true
}

// Insert writes v at p within root, auto-creating intermediate objects
// wherever the parent is undefined, and returns the (possibly new) root.
// Setting through a path whose parent is a non-object, non-array value is
// a runtime error (spec.md §4.4: "Path set auto-creates intermediate
// objects when the parent is undefined; setting through a path whose
// parent is a non-object non-array is a runtime error").
func Insert(root Value, p path.Path, v Value) (Value, error) {
	if len(p) == 0 {
		return v, nil
	}
	return insert(root, p, v)
}

func insert(cur Value, p path.Path, v Value) (Value, error) {
	seg := p[0]
	rest := p[1:]

	switch seg.Kind {
	case path.Field:
		obj, ok := cur.(*Object)
		if !ok {
			if _, isUndef := cur.(Undefined); !isUndef && cur != nil {
				if _, isNull := cur.(Null); !isNull {
					return nil, fmt.Errorf("cannot set field %q: parent is not an object", seg.Field)
				}
			}
			obj = NewObject()
		}
		child, _ := obj.Get(seg.Field)
		if len(rest) == 0 {
			obj.Set(seg.Field, v)
			return obj, nil
		}
		newChild, err := insert(child, rest, v)
		if err != nil {
			return nil, err
		}
		obj.Set(seg.Field, newChild)
		return obj, nil

	case path.Index:
		arr, ok := cur.(Array)
		if !ok {
			if _, isUndef := cur.(Undefined); !isUndef && cur != nil {
				if _, isNull := cur.(Null); !isNull {
					return nil, fmt.Errorf("cannot set index %d: parent is not an array", seg.Index)
				}
			}
			arr = Array{}
		}
		idx := seg.Index
		if idx < 0 {
			idx += len(arr)
			if idx < 0 {
				return nil, fmt.Errorf("index %d out of range", seg.Index)
			}
		}
		for len(arr) <= idx {
			arr = append(arr, Null{})
		}
		if len(rest) == 0 {
			arr[idx] = v
			return arr, nil
		}
		newChild, err := insert(arr[idx], rest, v)
		if err != nil {
			return nil, err
		}
		arr[idx] = newChild
		return arr, nil

	default: // Coalesce: sets through the first alternative, matching read semantics
		obj, ok := cur.(*Object)
		if !ok {
			obj = NewObject()
		}
		name := seg.Alts[0]
		for _, alt := range seg.Alts {
			if _, ok := obj.Get(alt); ok {
				name = alt
				break
			}
		}
		child, _ := obj.Get(name)
		if len(rest) == 0 {
			obj.Set(name, v)
			return obj, nil
		}
		newChild, err := insert(child, rest, v)
		if err != nil {
			return nil, err
		}
		obj.Set(name, newChild)
		return obj, nil
	}
}

// Remove deletes the value at p within root, optionally pruning any
// ancestor object/array that becomes empty as a result, and returns the
// new root together with the removed value.
func Remove(root Value, p path.Path, pruneEmpties bool) (newRoot Value, removed Value, ok bool) {
	if len(p) == 0 {
		return root, root, true
	}
	return remove(root, p, pruneEmpties)
}

func remove(cur Value, p path.Path, prune bool) (Value, Value, bool) {
	seg := p[0]
	rest := p[1:]

	switch seg.Kind {
	case path.Field:
		obj, ok := cur.(*Object)
		if !ok {
			return cur, Undefined{}, false
		}
		if len(rest) == 0 {
			v, existed := obj.Get(seg.Field)
			if !existed {
				return cur, Undefined{}, false
			}
			obj.Delete(seg.Field)
			return cur, v, true
		}
		child, existed := obj.Get(seg.Field)
		if !existed {
			return cur, Undefined{}, false
		}
		newChild, removed, ok := remove(child, rest, prune)
		if !ok {
			return cur, Undefined{}, false
		}
		if prune && isEmpty(newChild) {
			obj.Delete(seg.Field)
		} else {
			obj.Set(seg.Field, newChild)
		}
		return cur, removed, true

	case path.Index:
		arr, ok := cur.(Array)
		if !ok {
			return cur, Undefined{}, false
		}
		idx := seg.Index
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			return cur, Undefined{}, false
		}
		if len(rest) == 0 {
			v := arr[idx]
			arr = append(arr[:idx], arr[idx+1:]...)
			return arr, v, true
		}
		newChild, removed, ok := remove(arr[idx], rest, prune)
		if !ok {
			return cur, Undefined{}, false
		}
		if prune && isEmpty(newChild) {
			arr = append(arr[:idx], arr[idx+1:]...)
		} else {
			arr[idx] = newChild
		}
		return arr, removed, true

	default:
		obj, ok := cur.(*Object)
		if !ok {
			return cur, Undefined{}, false
		}
		for _, alt := range seg.Alts {
			if _, ok := obj.Get(alt); ok {
				return remove(cur, append(path.Path{path.FieldSegment(alt)}, rest...), prune)
			}
		}
		return cur, Undefined{}, false
	}
}

func isEmpty(v Value) bool {
	switch t := v.(type) {
	case *Object:
		return t.Len() == 0
	case Array:
		return len(t) == 0
	}
	return false
}
