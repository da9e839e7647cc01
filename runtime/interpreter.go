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
	"fmt"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

// returnSignal unwinds evaluation up to Resolve on a `return` statement;
// it is not itself a program failure.
type returnSignal struct{ Value value.Value }

func (returnSignal) Error() string { return "return" }

// abortError unwinds evaluation up to Resolve on an `abort` statement,
// becoming the program's final failure.
type abortError struct{ Message string }

func (a abortError) Error() string {
	if a.Message == "" {
		return "aborted"
	}
	return a.Message
}

func isControlSignal(err error) bool {
	switch err.(type) {
	case returnSignal, abortError:
		return true
	}
	return false
}

// interp holds the state threaded through one Resolve call, mirroring
// internal/core/eval's single-use evaluator struct.
type interp struct {
	target    Target
	ctx       *Context
	functions *function.Registry
}

// Resolve evaluates prog against target under ctx, returning the value
// of the program's final expression (or the value passed to `return`),
// and any runtime failure (an `abort`, an asserted `!` call that erred,
// or an unhandled runtime error) that terminated it early (spec.md §4.4).
func Resolve(prog *ir.Program, target Target, ctx *Context, functions *function.Registry) (value.Value, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	it := &interp{target: target, ctx: ctx, functions: functions}
	e := newEnv(nil)
	v, err := it.evalExprs(prog.Exprs, e)
	if err != nil {
		if rs, ok := err.(returnSignal); ok {
			return rs.Value, nil
		}
		return nil, err
	}
	return v, nil
}

func (it *interp) evalExprs(exprs []ir.Node, e *env) (value.Value, error) {
	var last value.Value = value.Null{}
	for _, n := range exprs {
		v, err := it.eval(n, e)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (it *interp) eval(n ir.Node, e *env) (value.Value, error) {
	switch x := n.(type) {
	case *ir.Literal:
		return x.Value, nil
	case *ir.PathGet:
		return it.evalPathGet(x)
	case *ir.PathSet:
		return it.evalPathSet(x, e)
	case *ir.VariableGet:
		v, ok := e.get(x.Name)
		if !ok {
			return value.Undefined{}, nil
		}
		return v, nil
	case *ir.VariableSet:
		v, err := it.eval(x.Value, e)
		if err != nil {
			return nil, err
		}
		e.set(x.Name, v)
		return v, nil
	case *ir.UnaryOp:
		return it.evalUnary(x, e)
	case *ir.BinaryOp:
		return it.evalBinary(x, e)
	case *ir.ArrayLiteral:
		return it.evalArray(x, e)
	case *ir.ObjectLiteral:
		return it.evalObject(x, e)
	case *ir.Call:
		return it.evalCall(x, e)
	case *ir.If:
		return it.evalIf(x, e)
	case *ir.ForEach:
		return it.evalForEach(x, e)
	case *ir.Block:
		return it.evalExprs(x.Exprs, e)
	case *ir.Return:
		var v value.Value = value.Null{}
		if x.Value != nil {
			rv, err := it.eval(x.Value, e)
			if err != nil {
				return nil, err
			}
			v = rv
		}
		return nil, returnSignal{Value: v}
	case *ir.Abort:
		msg := ""
		if x.Message != nil {
			mv, err := it.eval(x.Message, e)
			if err != nil {
				return nil, err
			}
			if b, ok := mv.(value.Bytes); ok {
				msg = string(b)
			}
		}
		return nil, abortError{Message: msg}
	case *ir.PathDelete:
		removed, ok := it.target.Remove(x.Path, true)
		if !ok {
			return value.Undefined{}, nil
		}
		return removed, nil
	case *ir.TwoTargetAssign:
		return it.evalTwoTargetAssign(x, e)
	}
	return nil, fmt.Errorf("runtime: unhandled ir node %T", n)
}

func (it *interp) evalPathGet(x *ir.PathGet) (value.Value, error) {
	v, ok := it.target.Get(x.Path)
	if !ok {
		return value.Undefined{}, nil
	}
	return v, nil
}

func (it *interp) evalPathSet(x *ir.PathSet, e *env) (value.Value, error) {
	v, err := it.eval(x.Value, e)
	if err != nil {
		return nil, err
	}
	if err := it.target.Insert(x.Path, v); err != nil {
		return nil, fmt.Errorf("assigning %s: %w", x.Path, err)
	}
	return v, nil
}

func (it *interp) assignOne(t ir.AssignTarget, v value.Value, e *env) error {
	if t.Local {
		e.set(t.Name, v)
		return nil
	}
	return it.target.Insert(t.Path, v)
}

func (it *interp) evalTwoTargetAssign(x *ir.TwoTargetAssign, e *env) (value.Value, error) {
	v, err := it.eval(x.Value, e)
	if err != nil {
		if isControlSignal(err) {
			return nil, err
		}
		if aerr := it.assignOne(x.ValueTarget, value.Null{}, e); aerr != nil {
			return nil, aerr
		}
		if aerr := it.assignOne(x.ErrTarget, value.Bytes(err.Error()), e); aerr != nil {
			return nil, aerr
		}
		return value.Null{}, nil
	}
	if aerr := it.assignOne(x.ValueTarget, v, e); aerr != nil {
		return nil, aerr
	}
	if aerr := it.assignOne(x.ErrTarget, value.Null{}, e); aerr != nil {
		return nil, aerr
	}
	return v, nil
}

func (it *interp) evalArray(x *ir.ArrayLiteral, e *env) (value.Value, error) {
	out := make(value.Array, len(x.Elts))
	for i, elt := range x.Elts {
		v, err := it.eval(elt, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (it *interp) evalObject(x *ir.ObjectLiteral, e *env) (value.Value, error) {
	obj := value.NewObject()
	for _, f := range x.Fields {
		v, err := it.eval(f.Value, e)
		if err != nil {
			return nil, err
		}
		obj.Set(f.Key, v)
	}
	return obj, nil
}

func (it *interp) evalIf(x *ir.If, e *env) (value.Value, error) {
	for _, cl := range x.Clauses {
		if cl.Cond != nil {
			cv, err := it.eval(cl.Cond, e)
			if err != nil {
				return nil, err
			}
			b, ok := cv.(value.Boolean)
			if !ok || !bool(b) {
				continue
			}
		}
		return it.eval(cl.Body, e)
	}
	return value.Undefined{}, nil
}

func (it *interp) evalForEach(x *ir.ForEach, e *env) (value.Value, error) {
	cv, err := it.eval(x.Collection, e)
	if err != nil {
		return nil, err
	}
	switch coll := cv.(type) {
	case value.Array:
		for i, elem := range coll {
			if err := it.runClosureBody(x.Closure, e, value.Integer(i), elem); err != nil {
				return nil, err
			}
		}
	case *value.Object:
		var loopErr error
		coll.Range(func(k string, v value.Value) bool {
			loopErr = it.runClosureBody(x.Closure, e, value.Bytes(k), v)
			return loopErr == nil
		})
		if loopErr != nil {
			return nil, loopErr
		}
	default:
		return nil, fmt.Errorf("for_each: %s is not a collection", cv.Kind())
	}
	return value.Null{}, nil
}

func (it *interp) runClosureBody(c *ir.ClosureThunk, parent *env, first, second value.Value) error {
	body := newEnv(parent)
	if len(c.Params) > 0 {
		body.vars[c.Params[0]] = first
	}
	if len(c.Params) > 1 {
		body.vars[c.Params[1]] = second
	}
	_, err := it.eval(c.Body, body)
	return err
}

func (it *interp) evalUnary(x *ir.UnaryOp, e *env) (value.Value, error) {
	v, err := it.eval(x.X, e)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case token.BANG:
		b, ok := v.(value.Boolean)
		if !ok {
			return nil, fmt.Errorf("cannot negate non-boolean value %s", v.Kind())
		}
		return value.Boolean(!b), nil
	case token.SUB:
		switch n := v.(type) {
		case value.Integer:
			return -n, nil
		case value.Float:
			return -n, nil
		}
		return nil, fmt.Errorf("cannot negate non-numeric value %s", v.Kind())
	}
	return nil, fmt.Errorf("runtime: unsupported unary operator %s", x.Op)
}
