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
	"github.com/vrl-lang/vrl/ast"
	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/value"
)

// compileCall resolves x.Fun against the configured function registry,
// compiles each argument, and asks the Function to statically determine
// the call's result type (spec.md §4.5).
func (c *compiler) compileCall(x *ast.CallExpr) ir.Node {
	if x.Fun.Name == "del" {
		return c.compileDel(x)
	}
	if x.Fun.Name == "type_def" {
		return c.compileTypeDef(x)
	}

	fn, ok := c.cfg.Functions.Get(x.Fun.Name)
	if !ok {
		c.errs.Add(errors.Newf(errors.CodeUnresolvedIdentifier, x.Span(),
			"undefined function %q", x.Fun.Name))
		return ir.NewCall(x.Fun.Name, nil, nil, x.Assert, nil, value.Never, x.Span())
	}

	args := make([]ir.Node, len(x.Args))
	argNames := make([]string, len(x.Args))
	callArgs := make([]function.Arg, len(x.Args))
	fallible, pure := false, true
	for i, a := range x.Args {
		n := c.compileExpr(a.Value)
		args[i] = n
		argNames[i] = a.Name
		callArgs[i] = function.Arg{Name: a.Name, Type: n.Type()}
		fallible = fallible || n.Type().Fallible
		pure = pure && n.Type().Pure
	}

	var closure *ir.ClosureThunk
	if x.Closure != nil {
		if !fn.ClosureAccepting() {
			c.errorf(errors.CodeInvalidFunctionArgument, x.Closure.Span(),
				"%s does not accept a closure", x.Fun.Name)
		}
		closure = c.compileClosure(x.Closure)
		fallible = fallible || closure.Body.Type().Fallible
		pure = pure && closure.Body.Type().Pure
	} else if fn.ClosureAccepting() {
		c.errorf(errors.CodeArityMismatch, x.Span(), "%s requires a closure", x.Fun.Name)
	}

	result, err := fn.Compile(callArgs)
	if err != nil {
		c.errs.Add(errors.Newf(errors.CodeFunctionCompileError, x.Span(), "%v", err))
		return ir.NewCall(x.Fun.Name, args, argNames, x.Assert, closure, value.Never, x.Span())
	}

	typ := result.Result
	typ.Fallible = typ.Fallible || fallible
	typ.Pure = typ.Pure && pure

	if x.Assert {
		typ = typ.MakeInfallible()
	}
	return ir.NewCall(x.Fun.Name, args, argNames, x.Assert, closure, typ, x.Span())
}

// compileDel compiles `del(.path)`: unlike an ordinary builtin, del
// takes a raw path rather than an evaluated value, so it is recognized
// here rather than routed through the function.Registry (spec.md §8
// example 1).
func (c *compiler) compileDel(x *ast.CallExpr) ir.Node {
	if len(x.Args) != 1 {
		c.errorf(errors.CodeArityMismatch, x.Span(), "del: expected 1 argument, got %d", len(x.Args))
		return ir.NewPathDelete(nil, value.Never, x.Span())
	}
	px, ok := x.Args[0].Value.(*ast.PathExpr)
	if !ok {
		c.errorf(errors.CodeInvalidFunctionArgument, x.Args[0].Value.Span(),
			"del: argument must be a path literal")
		return ir.NewPathDelete(nil, value.Never, x.Span())
	}
	p := c.buildPath(px)
	prior := c.targetType(px)
	c.cfg.TargetType = setKindAtPath(c.cfg.TargetType, p, value.TypeDef{Kind: value.UndefinedKind, Pure: true})

	typ := value.TypeDef{Kind: prior.Kind | value.UndefinedKind}
	if x.Assert {
		typ = typ.MakeInfallible()
	}
	return ir.NewPathDelete(p, typ, x.Span())
}

// compileTypeDef compiles `type_def(expr)` (spec.md §8 example 3): its
// result depends on expr's *compile-time* TypeDef rather than on any
// runtime value, so like del it bypasses the function.Registry and is
// lowered straight to a constant describing the statically inferred
// Kind — "string|bool" for a TypeDef whose Kind unions Boolean and
// Bytes, matching value.Kind.String()'s rendering.
func (c *compiler) compileTypeDef(x *ast.CallExpr) ir.Node {
	if len(x.Args) != 1 {
		c.errorf(errors.CodeArityMismatch, x.Span(), "type_def: expected 1 argument, got %d", len(x.Args))
		return ir.NewLiteral(value.Bytes(""), value.Infallible(value.BytesKind), x.Span())
	}
	argType := c.compileExpr(x.Args[0].Value).Type()
	return ir.NewLiteral(value.Bytes(argType.Kind.String()), value.Infallible(value.BytesKind), x.Span())
}

// compileClosure compiles a `|params| { body }` tail under a fresh
// nested scope, binding each parameter to AnyKind|UndefinedKind (the interpreter
// supplies the concrete per-element value at runtime; the Function ABI
// does not currently expose a narrower per-parameter Kind to the
// compiler, matching the ABI's deliberately minimal Compile contract).
func (c *compiler) compileClosure(x *ast.ClosureLit) *ir.ClosureThunk {
	parent := c.scope
	c.scope = newScope(parent)
	names := make([]string, len(x.Params))
	for i, p := range x.Params {
		names[i] = p.Name
		c.scope.vars[p.Name] = value.Infallible(value.AnyKind | value.UndefinedKind)
	}
	body := c.compileBlock(x.Body.Exprs, x.Body.Span())
	c.scope = parent
	return ir.NewClosureThunk(names, body, body.Type(), x.Span())
}
