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

// Package parser implements a hand-written recursive-descent parser for
// VRL source, producing the ast.Program defined by spec.md §4.2. It
// follows the shape of cue/parser: a parser struct holding one token of
// look-ahead, an errors.List collecting diagnostics, and an
// expect/advance discipline with no error recovery beyond returning what
// was parsed so far.
//
// Statement separation: unlike cue/scanner, this lexer performs no
// automatic semicolon insertion and emits no newline token. Sequential
// top-level and block expressions may be separated by ';' or by a
// newline: an expression ends where the next token cannot continue it,
// and a following ';' is consumed if present.
package parser

import (
	"strconv"

	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/scanner"
	"github.com/vrl-lang/vrl/token"
)

type parser struct {
	file *token.File
	sc   scanner.Scanner
	errs errors.List

	pos token.Pos
	tok token.Token
	lit string
}

// ParseFile parses a complete VRL program from src.
func ParseFile(filename string, src []byte) (*ast.Program, errors.List) {
	src = scanner.StripBOM(src)
	p := &parser{file: token.NewFile(filename, len(src))}
	p.sc.Init(p.file, src, func(span token.Span, msg string) {
		p.errs.Addf(errors.CodeLexError, span, "%s", msg)
	})
	p.next()

	prog := &ast.Program{}
	for p.tok != token.EOF {
		if p.tok == token.SEMI {
			p.next()
			continue
		}
		e := p.parseExpr()
		if e != nil {
			prog.Exprs = append(prog.Exprs, e)
		}
		if p.tok == token.SEMI {
			p.next()
		}
	}
	return prog, p.errs
}

// ParseExpr parses a single standalone expression, useful for tooling
// and tests that do not need a whole program.
func ParseExpr(src string) (ast.Expr, errors.List) {
	p := &parser{file: token.NewFile("", len(src))}
	p.sc.Init(p.file, []byte(src), func(span token.Span, msg string) {
		p.errs.Addf(errors.CodeLexError, span, "%s", msg)
	})
	p.next()
	e := p.parseExpr()
	return e, p.errs
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.sc.Scan()
}

func (p *parser) span(start token.Pos) token.Span {
	return token.Span{Start: start, End: p.pos}
}

func (p *parser) errorf(span token.Span, format string, args ...any) {
	p.errs.Addf(errors.CodeParseError, span, format, args...)
}

func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf(token.Span{Start: p.pos, End: p.pos.Add(1)},
			"expected %s, found %s", tok, p.tok)
	} else {
		p.next()
	}
	return pos
}

// parseExpr parses one top-level expression: an assignment, control-flow
// form, or a bare predicate expression, per the `expression` production
// of spec.md §4.2.
func (p *parser) parseExpr() ast.Expr {
	switch p.tok {
	case token.IF:
		return p.parseIf()
	case token.FOR_EACH:
		return p.parseForEach()
	case token.RETURN:
		return p.parseReturn()
	case token.ABORT:
		return p.parseAbort()
	case token.LBRACE:
		return p.parseBlock()
	}
	return p.parseAssignOrPredicate()
}

// parseAssignOrPredicate handles both assignment forms (spec.md §4.2:
// "target = expr", "target, target = expr") and falls through to a bare
// predicate when no assignment operator follows.
func (p *parser) parseAssignOrPredicate() ast.Expr {
	start := p.pos
	lhs, isTarget := p.tryParseTarget()
	if isTarget {
		switch p.tok {
		case token.ASSIGN, token.OR_ASSIGN, token.QUERY_ASSIGN:
			op := map[token.Token]ast.AssignOp{
				token.ASSIGN:       ast.AssignPlain,
				token.OR_ASSIGN:    ast.AssignOr,
				token.QUERY_ASSIGN: ast.AssignCoalesce,
			}[p.tok]
			opPos := p.pos
			p.next()
			val := p.parsePredicate()
			return &ast.AssignExpr{Target: lhs, Op: op, OpPos: opPos, Value: val}
		case token.COMMA:
			p.next()
			errTarget, ok := p.tryParseTarget()
			if !ok {
				p.errorf(p.span(start), "expected assignment target after ','")
			}
			p.expect(token.ASSIGN)
			val := p.parsePredicate()
			return &ast.AssignExpr{Target: lhs, ErrTarget: errTarget, Op: ast.AssignPlain, Value: val}
		}
		// Not actually an assignment: lhs was a path/ident used as a
		// plain expression. Fall through treating lhs as the primary
		// already consumed, continuing precedence climbing from there.
		return p.continueFromPrimary(lhs.(ast.Expr))
	}
	return p.parsePredicate()
}

// tryParseTarget speculatively parses a path, identifier, or underscore
// as a potential assignment target. Call sites that discover it was not
// followed by an assignment operator continue parsing it as an ordinary
// primary expression via continueFromPrimary.
func (p *parser) tryParseTarget() (ast.AssignTarget, bool) {
	switch p.tok {
	case token.PERIOD:
		return p.parsePath(), true
	case token.IDENT:
		id := &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.next()
		return id, true
	case token.UNDERSCORE:
		u := &ast.Underscore{Pos: p.pos}
		p.next()
		return u, true
	}
	return nil, false
}

// continueFromPrimary resumes the precedence-climbing expression parser
// having already consumed `lhs` as the left operand.
func (p *parser) continueFromPrimary(lhs ast.Expr) ast.Expr {
	lhs = p.maybeCall(lhs)
	lhs = p.parseBinaryRHS(0, lhs)
	return lhs
}

func (p *parser) parsePredicate() ast.Expr {
	return p.parseBinaryRHS(0, p.parseUnary())
}

// parseBinaryRHS implements operator-precedence climbing over the table
// in spec.md §4.2 ("?? < || < && < comparisons < additive <
// multiplicative"); right-associative for `??`, left-associative
// elsewhere.
func (p *parser) parseBinaryRHS(minPrec int, lhs ast.Expr) ast.Expr {
	for {
		prec := p.tok.Precedence()
		if prec == 0 || prec < minPrec {
			return lhs
		}
		op := p.tok
		opPos := p.pos
		p.next()
		rhs := p.parseUnary()
		nextMin := prec + 1
		if op == token.QUERY { // right-associative
			nextMin = prec
		}
		for {
			nextPrec := p.tok.Precedence()
			if nextPrec == 0 || nextPrec < nextMin {
				break
			}
			rhs = p.parseBinaryRHS(nextPrec, rhs)
		}
		lhs = &ast.BinaryExpr{X: lhs, OpPos: opPos, Op: op, Y: rhs}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok == token.BANG || p.tok == token.SUB {
		opPos, op := p.pos, p.tok
		p.next()
		x := p.parseUnary()
		return &ast.UnaryExpr{OpPos: opPos, Op: op, X: x}
	}
	return p.maybeCall(p.parsePrimary())
}

// maybeCall wraps a just-parsed identifier primary in a CallExpr if
// followed by '(' and/or a '!' assertion, written either as `fn!(args)`
// or as a trailing `fn(args)!`.
func (p *parser) maybeCall(x ast.Expr) ast.Expr {
	id, ok := x.(*ast.Ident)
	if !ok {
		return x
	}
	// `fn!(args)`: the token after '!' is scanned on a copy of the
	// scanner, so a '!' not followed by '(' is left unconsumed.
	var bang token.Pos
	if p.tok == token.BANG {
		sc := p.sc
		if _, next, _ := sc.Scan(); next == token.LPAREN {
			bang = p.pos
			p.next()
		}
	}
	if p.tok != token.LPAREN {
		return x
	}
	lparen := p.pos
	p.next()
	var args []ast.Arg
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseArg())
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	rparen := p.expect(token.RPAREN)
	call := &ast.CallExpr{Fun: id, Lparen: lparen, Args: args, Rparen: rparen}
	if bang.IsValid() {
		call.Bang = bang
		call.Assert = true
	}
	if p.tok == token.ARROW {
		p.next()
		call.Closure = p.parseClosure()
	}
	if p.tok == token.BANG {
		call.Bang = p.pos
		call.Assert = true
		p.next()
	}
	return call
}

// parseArg parses one call argument, which may be positional or carry an
// explicit `name: value` keyword form (spec.md §4.5). A bare identifier
// immediately followed by ':' is unambiguously a keyword-argument name,
// since that position never accepts a standalone identifier expression
// followed by a colon otherwise.
func (p *parser) parseArg() ast.Arg {
	if p.tok == token.IDENT {
		name := p.lit
		namePos := p.pos
		p.next()
		if p.tok == token.COLON {
			p.next()
			return ast.Arg{Name: name, Value: p.parsePredicate()}
		}
		id := &ast.Ident{NamePos: namePos, Name: name}
		return ast.Arg{Value: p.continueFromPrimary(id)}
	}
	return ast.Arg{Value: p.parsePredicate()}
}

func (p *parser) parseClosure() *ast.ClosureLit {
	pipe1 := p.expect(token.PIPE)
	var params []*ast.Ident
	for p.tok != token.PIPE && p.tok != token.EOF {
		if p.tok == token.IDENT {
			params = append(params, &ast.Ident{NamePos: p.pos, Name: p.lit})
			p.next()
		} else if p.tok == token.UNDERSCORE {
			params = append(params, &ast.Ident{NamePos: p.pos, Name: "_"})
			p.next()
		}
		if p.tok == token.COMMA {
			p.next()
		}
	}
	pipe2 := p.expect(token.PIPE)
	body := p.parseBlock()
	return &ast.ClosureLit{Pipe1: pipe1, Pipe2: pipe2, Params: params, Body: body}
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: token.INT, Value: p.lit}
		p.next()
		return lit
	case token.FLOAT:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: token.FLOAT, Value: p.lit}
		p.next()
		return lit
	case token.STRING:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: token.STRING, Value: p.lit}
		p.next()
		return p.maybeRegexOrTimestamp(lit)
	case token.TRUE, token.FALSE:
		lit := &ast.BoolLit{ValuePos: p.pos, Value: p.tok == token.TRUE}
		p.next()
		return lit
	case token.NULL:
		lit := &ast.NullLit{ValuePos: p.pos}
		p.next()
		return lit
	case token.PERIOD:
		return p.parsePath()
	case token.IDENT:
		switch p.lit {
		case "r":
			if re := p.tryScanDelimited('r'); re != nil {
				return re
			}
		case "t":
			if ts := p.tryScanDelimited('t'); ts != nil {
				return ts
			}
		}
		id := &ast.Ident{NamePos: p.pos, Name: p.lit}
		p.next()
		return id
	case token.UNDERSCORE:
		u := &ast.Underscore{Pos: p.pos}
		p.next()
		return u
	case token.LPAREN:
		lparen := p.pos
		p.next()
		x := p.parsePredicate()
		rparen := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: lparen, Rparen: rparen, X: x}
	case token.LBRACK:
		return p.parseArray()
	case token.LBRACE:
		// `{}` and `{key: ...}` open an object literal; any other '{'
		// opens a block. The two tokens after '{' are scanned on a copy
		// of the scanner.
		sc := p.sc
		_, t1, _ := sc.Scan()
		_, t2, _ := sc.Scan()
		if t1 != token.RBRACE && !((t1 == token.IDENT || t1 == token.STRING) && t2 == token.COLON) {
			return p.parseBlock()
		}
		return p.parseObject()
	default:
		p.errorf(token.Span{Start: p.pos, End: p.pos.Add(1)}, "unexpected token %s", p.tok)
		pos := p.pos
		p.next()
		return &ast.NullLit{ValuePos: pos}
	}
}

// tryScanDelimited handles the contextual r'...' and t'...' literal forms:
// an identifier "r" or "t" immediately followed, with no intervening
// space, by a quote (spec.md §4.1). Returns nil if the identifier was not
// actually followed by a delimiter, in which case the caller falls back
// to treating it as a plain identifier.
func (p *parser) tryScanDelimited(kind byte) ast.Expr {
	start := p.pos
	lit, flags, ok := p.sc.ScanRaw('\'')
	if !ok {
		return nil
	}
	if kind == 'r' {
		p.next()
		return &ast.RegexLit{Start: start, Pattern: lit, Flags: flags}
	}
	p.next()
	return &ast.TimestampLit{Start: start, Value: lit}
}

// maybeRegexOrTimestamp is a defensive no-op placeholder: regex/timestamp
// literals are only reachable via the r'/t' contextual path above, since
// our scanner emits ordinary STRING tokens for a bare '"'-quoted literal.
func (p *parser) maybeRegexOrTimestamp(lit *ast.BasicLit) ast.Expr { return lit }

func (p *parser) parseArray() ast.Expr {
	lbrack := p.expect(token.LBRACK)
	var elts []ast.Expr
	for p.tok != token.RBRACK && p.tok != token.EOF {
		elts = append(elts, p.parsePredicate())
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	rbrack := p.expect(token.RBRACK)
	return &ast.ArrayLit{Lbrack: lbrack, Rbrack: rbrack, Elts: elts}
}

func (p *parser) parseObject() *ast.ObjectLit {
	lbrace := p.expect(token.LBRACE)
	var fields []ast.ObjectField
	for p.tok != token.RBRACE && p.tok != token.EOF {
		var key string
		switch p.tok {
		case token.IDENT:
			key = p.lit
			p.next()
		case token.STRING:
			key = p.lit
			p.next()
		default:
			p.errorf(token.Span{Start: p.pos, End: p.pos.Add(1)}, "expected object key")
		}
		p.expect(token.COLON)
		val := p.parsePredicate()
		fields = append(fields, ast.ObjectField{Key: key, Value: val})
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.ObjectLit{Lbrace: lbrace, Rbrace: rbrace, Fields: fields}
}

// parsePath assembles a Path AST node from a leading '.' followed by a
// chain of field, index, and (deprecated) coalesce segments (spec.md
// §3.3). Path segments are built in the parser rather than the lexer,
// since their grammar (bracketed indices, parenthesized alternatives)
// needs expression-level recursion.
func (p *parser) parsePath() *ast.PathExpr {
	dot := p.expect(token.PERIOD)
	px := &ast.PathExpr{Dot: dot}
	for {
		switch p.tok {
		case token.IDENT:
			px.Segments = append(px.Segments, ast.PathSegment{Pos: p.pos, Field: p.lit})
			p.next()
		case token.LPAREN: // coalesce segment: .(a|b|c)
			lparenPos := p.pos
			p.next()
			var alts []string
			for p.tok != token.RPAREN && p.tok != token.EOF {
				if p.tok == token.IDENT {
					alts = append(alts, p.lit)
					p.next()
				}
				if p.tok == token.PIPE {
					p.next()
				} else {
					break
				}
			}
			p.expect(token.RPAREN)
			px.Segments = append(px.Segments, ast.PathSegment{Pos: lparenPos, Alts: alts})
		case token.LBRACK:
			p.parseIndexSegment(px)
		default:
			return px
		}
		// A field segment must be followed by '.' to introduce the next
		// one; an index segment chains directly, e.g. `.foo[0][1]`.
		if p.tok == token.PERIOD {
			p.next()
			continue
		}
		if p.tok != token.LBRACK {
			return px
		}
	}
}

func (p *parser) parseIndexSegment(px *ast.PathExpr) {
	lbrack := p.pos
	p.expect(token.LBRACK)
	neg := false
	if p.tok == token.SUB {
		neg = true
		p.next()
	}
	n, _ := strconv.Atoi(p.lit)
	if neg {
		n = -n
	}
	if p.tok == token.INT {
		p.next()
	}
	p.expect(token.RBRACK)
	px.Segments = append(px.Segments, ast.PathSegment{Pos: lbrack, Lit: &n})
}

func (p *parser) parseBlock() *ast.BlockExpr {
	lbrace := p.expect(token.LBRACE)
	blk := &ast.BlockExpr{Lbrace: lbrace}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.SEMI {
			p.next()
			continue
		}
		blk.Exprs = append(blk.Exprs, p.parseExpr())
		if p.tok == token.SEMI {
			p.next()
		}
	}
	blk.Rbrace = p.expect(token.RBRACE)
	return blk
}

func (p *parser) parseIf() ast.Expr {
	ifExpr := &ast.IfExpr{}
	for {
		ifPos := p.expect(token.IF)
		cond := p.parsePredicate()
		body := p.parseBlock()
		ifExpr.Clauses = append(ifExpr.Clauses, ast.IfClause{IfPos: ifPos, Cond: cond, Body: body})
		if p.tok != token.ELSE {
			break
		}
		p.next()
		if p.tok == token.IF {
			continue
		}
		elseBody := p.parseBlock()
		ifExpr.Clauses = append(ifExpr.Clauses, ast.IfClause{Body: elseBody})
		break
	}
	return ifExpr
}

func (p *parser) parseForEach() ast.Expr {
	forPos := p.expect(token.FOR_EACH)
	p.expect(token.LPAREN)
	coll := p.parsePredicate()
	p.expect(token.RPAREN)
	arrow := p.expect(token.ARROW)
	closure := p.parseClosure()
	return &ast.ForEachExpr{ForPos: forPos, Collection: coll, Arrow: arrow, Closure: closure}
}

func (p *parser) parseReturn() ast.Expr {
	pos := p.expect(token.RETURN)
	if p.tok == token.SEMI || p.tok == token.RBRACE || p.tok == token.EOF {
		return &ast.ReturnExpr{ReturnPos: pos}
	}
	return &ast.ReturnExpr{ReturnPos: pos, Value: p.parsePredicate()}
}

func (p *parser) parseAbort() ast.Expr {
	pos := p.expect(token.ABORT)
	if p.tok == token.SEMI || p.tok == token.RBRACE || p.tok == token.EOF {
		return &ast.AbortExpr{AbortPos: pos}
	}
	return &ast.AbortExpr{AbortPos: pos, Message: p.parsePredicate()}
}
