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

// Package errors defines VRL's diagnostic model: lex, parse, compile and
// runtime errors are all data (a Diagnostic), not strings. The record is
// the machine-readable contract; Print renders it for humans.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vrl-lang/vrl/token"
)

// Code is a stable, documented diagnostic identifier, e.g. E103.
type Code string

// Codes referenced directly by spec.md §4.7 and the test suite.
const (
	CodeUnhandledFallibleAssignment Code = "E103"
	CodeInvalidArgumentType         Code = "E110"
	CodeInvalidFunctionArgument     Code = "E403"
	CodeFunctionCompileError        Code = "E610"
	CodeNonBooleanNegation          Code = "E660"

	CodeLexError              Code = "E001"
	CodeParseError             Code = "E002"
	CodeUnresolvedIdentifier   Code = "E201"
	CodeArityMismatch          Code = "E404"
	CodeDeprecatedCoalescePath Code = "E900"
	CodeUnusedExpression       Code = "E901"
)

// DocsBase is the stable base URL diagnostics reference for a Code. It is
// data, not a literal string baked into messages, so embedders can link to
// their own mirrored documentation.
var DocsBase = "https://vrl.dev/errors/"

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

// Label attaches explanatory text to a secondary span within a Diagnostic.
type Label struct {
	Span token.Span
	Text string
}

// Diagnostic is the data record behind every lex, parse, compile and
// runtime error. It never carries a pre-formatted human string as its
// primary representation; Error() renders one on demand.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     token.Span
	Message  string
	Labels   []Label
	Notes    []string
	Path     []string // target path the diagnostic pertains to, if any

	// ProgramID correlates diagnostics back to the compiled Program that
	// produced them, mirroring how log aggregation joins on a request ID.
	// The compiler in this module leaves it empty.
	ProgramID string
}

// Error implements the error interface by rendering the primary message
// together with its position, matching cue/errors' "position: message"
// shape.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Span.IsValid() {
		b.WriteString(d.Span.String())
		b.WriteString(": ")
	}
	b.WriteString(string(d.Code))
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Position returns the diagnostic's primary source position.
func (d *Diagnostic) Position() token.Pos { return d.Span.Start }

// URL returns the stable documentation link for this diagnostic's Code.
func (d *Diagnostic) URL() string { return DocsBase + string(d.Code) }

// Newf builds a Diagnostic at the given span with a formatted message.
func Newf(code Code, span token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: Error,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning-severity Diagnostic, used for deprecations and the
// unused-expression check (spec.md §4.3).
func Warnf(code Code, span token.Span, format string, args ...any) *Diagnostic {
	d := Newf(code, span, format, args...)
	d.Severity = Warning
	return d
}

// WithNote appends a human-readable note (e.g. a suggested fix) and returns
// the same Diagnostic for chaining.
func (d *Diagnostic) WithNote(note string) *Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithLabel attaches a secondary labeled span and returns the Diagnostic.
func (d *Diagnostic) WithLabel(span token.Span, text string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Text: text})
	return d
}

// List aggregates Diagnostics produced during a single lex/parse/compile
// pass, mirroring cue/errors.List.
type List []*Diagnostic

// Error implements error by joining every diagnostic's rendered form.
func (l List) Error() string {
	var lines []string
	for _, d := range l {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}

// Add appends a Diagnostic to the list.
func (l *List) Add(d *Diagnostic) { *l = append(*l, d) }

// Addf appends a new Diagnostic built from the given code, span and message.
func (l *List) Addf(code Code, span token.Span, format string, args ...any) {
	l.Add(Newf(code, span, format, args...))
}

// HasErrors reports whether the list contains any Error-severity entries.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Sorted returns a copy of l ordered by source position, matching
// cue/errors.Positions' "primary position first, stable otherwise"
// convention.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Compare(out[j].Span.Start) < 0
	})
	return out
}

// Print renders every diagnostic in l as a human-readable line, including
// labels and notes. This is the minimal renderer; a full diagnostic
// formatter is out of scope (spec.md §1) and is an external collaborator.
func Print(l List) string {
	var b strings.Builder
	for _, d := range l.Sorted() {
		fmt.Fprintf(&b, "%s: %s [%s]\n", d.Severity, d.Error(), d.URL())
		for _, lbl := range d.Labels {
			fmt.Fprintf(&b, "    %s: %s\n", lbl.Span, lbl.Text)
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "    note: %s\n", n)
		}
	}
	return b.String()
}
