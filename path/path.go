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

// Package path implements VRL's structured path model (spec.md §3.3): an
// ordered sequence of segments addressing either the event target (prefix
// ".") or a local variable (bare identifier).
package path

import "strings"

// SegmentKind distinguishes the three segment forms.
type SegmentKind int

const (
	Field SegmentKind = iota
	Index
	Coalesce // deprecated: first-extant-wins alternative field names
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Field string   // valid when Kind == Field
	Index int      // valid when Kind == Index; negative indexes from the end
	Alts  []string // valid when Kind == Coalesce; non-empty
}

func FieldSegment(name string) Segment { return Segment{Kind: Field, Field: name} }
func IndexSegment(i int) Segment       { return Segment{Kind: Index, Index: i} }
func CoalesceSegment(alts []string) Segment {
	return Segment{Kind: Coalesce, Alts: alts}
}

func (s Segment) String() string {
	switch s.Kind {
	case Field:
		if isPlainIdent(s.Field) {
			return "." + s.Field
		}
		return `."` + s.Field + `"`
	case Index:
		return "[" + itoa(s.Index) + "]"
	default:
		return ".(" + strings.Join(s.Alts, "|") + ")"
	}
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Path is an ordered sequence of Segments, first-class both as a data
// structure and (via the parser's path-literal grammar) a syntactic
// construct (spec.md §3.3).
type Path []Segment

// Root is the empty path, addressing the whole target.
var Root = Path{}

func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// HasCoalesce reports whether p contains a (deprecated) coalesce segment.
// The compiler's deprecation diagnostic is emitted from the parsed path
// segments and does not call this.
func (p Path) HasCoalesce() bool {
	for _, s := range p {
		if s.Kind == Coalesce {
			return true
		}
	}
	return false
}

// Append returns a new Path with seg appended.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns all but the last segment of p, and that last segment.
// ok is false for the root path.
func (p Path) Parent() (parent Path, last Segment, ok bool) {
	if len(p) == 0 {
		return nil, Segment{}, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}
