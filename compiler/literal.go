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

package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

func (c *compiler) compileBasicLit(x *ast.BasicLit) ir.Node {
	switch x.Kind {
	case token.INT:
		n, err := strconv.ParseInt(x.Value, 10, 64)
		if err != nil {
			c.errorf(errors.CodeParseError, x.Span(), "invalid integer literal %q", x.Value)
		}
		return ir.NewLiteral(value.Integer(n), value.Infallible(value.IntegerKind), x.Span())
	case token.FLOAT:
		f, err := strconv.ParseFloat(x.Value, 64)
		if err != nil {
			c.errorf(errors.CodeParseError, x.Span(), "invalid float literal %q", x.Value)
		}
		return ir.NewLiteral(value.Float(f), value.Infallible(value.FloatKind), x.Span())
	default: // token.STRING
		s, err := unquote(x.Value)
		if err != nil {
			c.errorf(errors.CodeParseError, x.Span(), "invalid string literal: %v", err)
		}
		return ir.NewLiteral(value.Bytes(s), value.Infallible(value.BytesKind), x.Span())
	}
}

// unquote decodes the escape sequences validated by scanner.scanEscape
// (\n \t \" \\ \0 \xHH \u{...}), matching the scanner's own notion of
// what is a legal escape (spec.md §4.1).
func unquote(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '\\':
			b.WriteByte('\\')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("truncated \\x escape")
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", err
			}
			b.WriteByte(byte(n))
			i += 2
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 || i+1 >= len(s) || s[i+1] != '{' {
				return "", fmt.Errorf("malformed \\u escape")
			}
			hex := s[i+2 : i+end]
			n, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return "", err
			}
			b.WriteRune(rune(n))
			i += end
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return b.String(), nil
}

func (c *compiler) compileTimestampLit(x *ast.TimestampLit) ir.Node {
	t, err := time.Parse(time.RFC3339Nano, x.Value)
	if err != nil {
		c.errorf(errors.CodeParseError, x.Span(), "invalid timestamp literal %q: %v", x.Value, err)
		return ir.NewLiteral(value.Null{}, value.Never, x.Span())
	}
	return ir.NewLiteral(value.NewTimestamp(t), value.Infallible(value.TimestampKind), x.Span())
}
