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

// Package scanner implements a lexer for VRL source text. It takes a []byte
// and tokenizes it through repeated calls to Scan. It does not recover from
// lex errors: the caller observes an ILLEGAL token and the error handler is
// invoked with a source span (spec.md §4.1).
package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/vrl-lang/vrl/token"
)

// Handler receives one diagnostic per lexical error encountered.
type Handler func(span token.Span, msg string)

const bom = 0xFEFF

// Scanner holds lexer state while tokenizing a single source file.
type Scanner struct {
	file *token.File
	src  []byte
	err  Handler

	ch       rune
	offset   int
	rdOffset int

	ErrorCount int
}

// Init prepares s to scan src, whose size must equal file.Size().
func (s *Scanner) Init(file *token.File, src []byte, err Handler) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = err
	s.ch = ' '
	s.offset = 0
	s.rdOffset = 0
	s.ErrorCount = 0

	s.next()
	if s.ch == bom {
		s.next()
	}
}

func (s *Scanner) next() {
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		if s.ch == '\n' {
			s.file.AddLine(s.offset)
		}
		r, w := rune(s.src[s.rdOffset]), 1
		switch {
		case r == 0:
			s.error(s.offset, "illegal character NUL")
		case r >= utf8.RuneSelf:
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
			if r == utf8.RuneError && w == 1 {
				s.error(s.offset, "illegal UTF-8 encoding")
			}
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = len(s.src)
		if s.ch == '\n' {
			s.file.AddLine(s.offset)
		}
		s.ch = -1
	}
}

func (s *Scanner) peek() byte {
	if s.rdOffset < len(s.src) {
		return s.src[s.rdOffset]
	}
	return 0
}

func (s *Scanner) error(offs int, msg string) {
	if s.err != nil {
		pos := s.file.Pos(offs)
		s.err(token.Span{Start: pos, End: pos.Add(1)}, msg)
	}
	s.ErrorCount++
}

func (s *Scanner) span(start int) token.Span {
	return token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch) || ('0' <= ch && ch <= '9')
}

func (s *Scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' {
		s.next()
	}
}

// Scan returns the next token, its position and, for literal-producing
// tokens, its literal text.
func (s *Scanner) Scan() (pos token.Pos, tok token.Token, lit string) {
	s.skipWhitespace()
	pos = s.file.Pos(s.offset)

	switch ch := s.ch; {
	case isLetter(ch):
		lit = s.scanIdentifier()
		switch {
		case lit == "_":
			return pos, token.UNDERSCORE, ""
		default:
			if kw, ok := token.Lookup(lit); ok {
				tok = kw
			} else {
				tok = token.IDENT
			}
		}
		return pos, tok, lit
	case isDigit(ch):
		tok, lit = s.scanNumber()
		return pos, tok, lit
	default:
		s.next()
		switch ch {
		case -1:
			return pos, token.EOF, ""
		case '#':
			for s.ch != '\n' && s.ch >= 0 {
				s.next()
			}
			return s.Scan()
		case '"':
			return pos, token.STRING, s.scanString(pos.Offset())
		case '\'':
			return pos, token.STRING, s.scanSingleQuoted(pos.Offset())
		case '.':
			return pos, token.PERIOD, ""
		case ',':
			return pos, token.COMMA, ""
		case ';':
			return pos, token.SEMI, ""
		case '(':
			return pos, token.LPAREN, ""
		case ')':
			return pos, token.RPAREN, ""
		case '{':
			return pos, token.LBRACE, ""
		case '}':
			return pos, token.RBRACE, ""
		case '[':
			return pos, token.LBRACK, ""
		case ']':
			return pos, token.RBRACK, ""
		case ':':
			return pos, token.COLON, ""
		case '+':
			if s.ch == '=' {
				s.next()
				return pos, token.ADD_ASSIGN, ""
			}
			return pos, token.ADD, ""
		case '-':
			if s.ch == '>' {
				s.next()
				return pos, token.ARROW, ""
			}
			return pos, token.SUB, ""
		case '*':
			return pos, token.MUL, ""
		case '/':
			return pos, token.QUO, ""
		case '%':
			return pos, token.REM, ""
		case '=':
			if s.ch == '=' {
				s.next()
				return pos, token.EQL, ""
			}
			return pos, token.ASSIGN, ""
		case '!':
			if s.ch == '=' {
				s.next()
				return pos, token.NEQ, ""
			}
			if s.ch == '~' {
				s.next()
				if s.ch == '=' {
					s.next()
					return pos, token.NMATCH, ""
				}
				s.error(s.offset, "expected '=' after '!~'")
				return pos, token.ILLEGAL, ""
			}
			return pos, token.BANG, ""
		case '<':
			if s.ch == '=' {
				s.next()
				return pos, token.LEQ, ""
			}
			return pos, token.LSS, ""
		case '>':
			if s.ch == '=' {
				s.next()
				return pos, token.GEQ, ""
			}
			return pos, token.GTR, ""
		case '~':
			if s.ch == '=' {
				s.next()
				return pos, token.MATCH, ""
			}
			s.error(s.offset, "expected '=' after '~'")
			return pos, token.ILLEGAL, ""
		case '?':
			if s.ch == '?' {
				s.next()
				if s.ch == '=' {
					s.next()
					return pos, token.QUERY_ASSIGN, ""
				}
				return pos, token.QUERY, ""
			}
			s.error(s.offset, "expected '?' after '?'")
			return pos, token.ILLEGAL, ""
		case '&':
			if s.ch == '&' {
				s.next()
				return pos, token.AND, ""
			}
			s.error(s.offset, "expected '&' after '&'")
			return pos, token.ILLEGAL, ""
		case '|':
			if s.ch == '|' {
				s.next()
				return pos, token.OR, ""
			}
			if s.ch == '=' {
				s.next()
				return pos, token.OR_ASSIGN, ""
			}
			return pos, token.PIPE, ""
		default:
			s.error(pos.Offset(), fmt.Sprintf("illegal character %#U", ch))
			return pos, token.ILLEGAL, ""
		}
	}
}

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for isLetter(s.ch) || isDigit(s.ch) {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

// scanNumber scans a plain int or float literal: digits, an optional
// fraction and an optional exponent. Regex and timestamp literals are
// scanned by ScanRaw instead.
func (s *Scanner) scanNumber() (token.Token, string) {
	offs := s.offset
	tok := token.INT
	for isDigit(s.ch) {
		s.next()
	}
	if s.ch == '.' && isDigit(rune(s.peek())) {
		tok = token.FLOAT
		s.next()
		for isDigit(s.ch) {
			s.next()
		}
	}
	if s.ch == 'e' || s.ch == 'E' {
		tok = token.FLOAT
		s.next()
		if s.ch == '+' || s.ch == '-' {
			s.next()
		}
		for isDigit(s.ch) {
			s.next()
		}
	}
	return tok, string(s.src[offs:s.offset])
}

// ScanRaw is invoked by the parser once it has
// seen an identifier "r" or "t" directly followed by a quote, since regex
// and timestamp delimiters are contextual rather than purely lexical
// (spec.md §4.1: "regex literal (delimited by r'…' ... timestamp literal
// (delimited by t'…')").
func (s *Scanner) ScanRaw(delim rune) (lit string, flags string, ok bool) {
	if s.ch != delim {
		return "", "", false
	}
	s.next()
	offs := s.offset
	for s.ch != delim && s.ch >= 0 {
		if s.ch == '\\' {
			s.next()
		}
		s.next()
	}
	if s.ch < 0 {
		s.error(offs, "unterminated literal")
		return string(s.src[offs:s.offset]), "", true
	}
	lit = string(s.src[offs:s.offset])
	s.next() // consume closing delimiter
	fstart := s.offset
	for isLetter(s.ch) {
		s.next()
	}
	flags = string(s.src[fstart:s.offset])
	return lit, flags, true
}

func (s *Scanner) scanString(startOffset int) string {
	offs := s.offset
	for s.ch != '"' {
		ch := s.ch
		if ch < 0 || ch == '\n' {
			s.error(startOffset, "string literal not terminated")
			break
		}
		s.next()
		if ch == '\\' {
			s.scanEscape('"')
		}
	}
	lit := string(s.src[offs:s.offset])
	s.next() // consume closing quote
	return lit
}

func (s *Scanner) scanSingleQuoted(startOffset int) string {
	offs := s.offset
	for s.ch != '\'' {
		if s.ch < 0 {
			s.error(startOffset, "string literal not terminated")
			break
		}
		s.next()
	}
	lit := string(s.src[offs:s.offset])
	s.next()
	return lit
}

// scanEscape validates (but does not decode — that is the job of unquote
// in compiler/literal.go) one of the escape sequences from spec.md §4.1: \n \t \" \\ \0 \xHH
// \u{...}.
func (s *Scanner) scanEscape(quote rune) {
	offs := s.offset
	switch s.ch {
	case 'n', 't', '"', '\\', '0', '\'':
		s.next()
	case 'x':
		s.next()
		for i := 0; i < 2; i++ {
			if !isHex(s.ch) {
				s.error(offs, "illegal hex escape")
				return
			}
			s.next()
		}
	case 'u':
		s.next()
		if s.ch != '{' {
			s.error(offs, "expected '{' after \\u")
			return
		}
		s.next()
		for s.ch != '}' {
			if !isHex(s.ch) {
				s.error(offs, "illegal unicode escape")
				return
			}
			s.next()
		}
		s.next()
	default:
		s.error(offs, "unknown escape sequence")
	}
}

func isHex(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

// StripBOM removes a single leading UTF-8 byte-order mark, per spec.md §6.
func StripBOM(src []byte) []byte {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		return src[3:]
	}
	return src
}
