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

package scanner

import (
	"testing"

	"github.com/vrl-lang/vrl/token"
)

type scanResult struct {
	tok token.Token
	lit string
}

func scanAll(t *testing.T, src string) []scanResult {
	t.Helper()
	file := token.NewFile("", len(src))
	var errs []string
	var s Scanner
	s.Init(file, []byte(src), func(span token.Span, msg string) {
		errs = append(errs, msg)
	})

	var out []scanResult
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		out = append(out, scanResult{tok, lit})
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected scan errors for %q: %v", src, errs)
	}
	return out
}

func TestScanTokenStream(t *testing.T) {
	got := scanAll(t, `.total_bytes = del(.size) ?? 0`)
	want := []scanResult{
		{token.PERIOD, ""},
		{token.IDENT, "total_bytes"},
		{token.ASSIGN, ""},
		{token.IDENT, "del"},
		{token.LPAREN, ""},
		{token.PERIOD, ""},
		{token.IDENT, "size"},
		{token.RPAREN, ""},
		{token.QUERY, ""},
		{token.INT, "0"},
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: got %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("token[%d] = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	got := scanAll(t, `"hello world"`)
	if len(got) != 1 || got[0].tok != token.STRING {
		t.Fatalf("got %+v, want a single STRING token", got)
	}
}

func TestScanArrowAndOperators(t *testing.T) {
	got := scanAll(t, `-> && || == != <= >=`)
	want := []token.Token{
		token.ARROW, token.AND, token.OR, token.EQL, token.NEQ, token.LEQ, token.GEQ,
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].tok != w {
			t.Errorf("token[%d] = %s, want %s", i, got[i].tok, w)
		}
	}
}
