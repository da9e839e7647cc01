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

// Package value defines VRL's runtime value universe (spec.md §3.1) and
// its compile-time Kind lattice (§3.2, see kind.go).
package value

import (
	"bytes"
	"fmt"
	"regexp"
	"time"
)

// Value is the tagged union of everything a VRL expression can evaluate
// to. Every concrete type below implements it. Values are deeply
// cloneable (Clone) and compared structurally (Equal); there is no cyclic
// Value (spec.md §3.1).
type Value interface {
	Kind() Kind
	Clone() Value
	Equal(Value) bool
	String() string
}

// Undefined is the distinguished result of reading an absent path
// (spec.md §3.3, §4.4). It is not itself a member of the nine primitive
// kinds; most stdlib functions convert it to Null.
type Undefined struct{}

func (Undefined) Kind() Kind        { return UndefinedKind }
func (Undefined) Clone() Value      { return Undefined{} }
func (Undefined) Equal(v Value) bool { _, ok := v.(Undefined); return ok }
func (Undefined) String() string    { return "<undefined>" }

// Null is VRL's null value.
type Null struct{}

func (Null) Kind() Kind        { return NullKind }
func (Null) Clone() Value      { return Null{} }
func (Null) Equal(v Value) bool { _, ok := v.(Null); return ok }
func (Null) String() string    { return "null" }

// Bytes is an immutable byte string. It is not required to be valid UTF-8
// (spec.md §3.1) but VRL source-level string literals always produce
// valid UTF-8 bytes.
type Bytes []byte

func (b Bytes) Kind() Kind   { return BytesKind }
func (b Bytes) Clone() Value { return append(Bytes(nil), b...) }
func (b Bytes) Equal(v Value) bool {
	o, ok := v.(Bytes)
	return ok && bytes.Equal(b, o)
}
func (b Bytes) String() string { return string(b) }

// Integer is a 64-bit signed integer. Arithmetic wraps on overflow
// (spec.md §4.3: "Integer arithmetic wraps on overflow (all builds)").
type Integer int64

func (Integer) Kind() Kind        { return IntegerKind }
func (i Integer) Clone() Value    { return i }
func (i Integer) Equal(v Value) bool {
	o, ok := v.(Integer)
	return ok && i == o
}
func (i Integer) String() string { return fmt.Sprintf("%d", int64(i)) }

// Float is a 64-bit IEEE float with NaN forbidden: total ordering is
// required, and arithmetic that would produce NaN is a runtime error
// instead (spec.md §3.1).
type Float float64

func (Float) Kind() Kind     { return FloatKind }
func (f Float) Clone() Value { return f }
func (f Float) Equal(v Value) bool {
	o, ok := v.(Float)
	return ok && f == o
}
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }

// Boolean is a VRL boolean.
type Boolean bool

func (Boolean) Kind() Kind     { return BooleanKind }
func (b Boolean) Clone() Value { return b }
func (b Boolean) Equal(v Value) bool {
	o, ok := v.(Boolean)
	return ok && b == o
}
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Timestamp is an instant with nanosecond precision and a timezone
// (spec.md §3.1).
type Timestamp struct {
	Time time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (Timestamp) Kind() Kind     { return TimestampKind }
func (t Timestamp) Clone() Value { return Timestamp{Time: t.Time} }
func (t Timestamp) Equal(v Value) bool {
	o, ok := v.(Timestamp)
	return ok && t.Time.Equal(o.Time)
}
func (t Timestamp) String() string { return t.Time.Format(time.RFC3339Nano) }

// Regex pairs a compiled regular expression with its original source
// pattern, since `~=` and stdlib capture-group functions both need the
// pattern text for diagnostics (spec.md §3.1, §4.4).
type Regex struct {
	Pattern string
	Flags   string
	Re      *regexp.Regexp
}

// NewRegex compiles pattern under the given VRL flag letters ("i" case
// insensitive, "m" multi-line, "x" extended/ignore-whitespace — the
// subset Go's regexp/syntax supports via inline flag groups) and returns
// the resulting Regex value.
func NewRegex(pattern, flags string) (Regex, error) {
	expr := pattern
	if flags != "" {
		expr = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Regex{}, err
	}
	return Regex{Pattern: pattern, Flags: flags, Re: re}, nil
}

func (Regex) Kind() Kind     { return RegexKind }
func (r Regex) Clone() Value { return r } // compiled regexes are immutable
func (r Regex) Equal(v Value) bool {
	o, ok := v.(Regex)
	return ok && r.Pattern == o.Pattern && r.Flags == o.Flags
}
func (r Regex) String() string { return "r'" + r.Pattern + "'" + r.Flags }

// Array is an ordered, zero-indexed sequence of Values (spec.md §3.1).
type Array []Value

func (Array) Kind() Kind { return ArrayKind }
func (a Array) Clone() Value {
	out := make(Array, len(a))
	for i, v := range a {
		out[i] = v.Clone()
	}
	return out
}
func (a Array) Equal(v Value) bool {
	o, ok := v.(Array)
	if !ok || len(a) != len(o) {
		return false
	}
	for i := range a {
		if !a[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
func (a Array) String() string {
	s := "["
	for i, v := range a {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + "]"
}

// At returns the element at the given VRL index (negative indexes from
// the end, per spec.md §3.3) and whether it exists.
func (a Array) At(i int) (Value, bool) {
	if i < 0 {
		i += len(a)
	}
	if i < 0 || i >= len(a) {
		return Undefined{}, false
	}
	return a[i], true
}
