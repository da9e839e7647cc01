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
	"time"

	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/token"
	"github.com/vrl-lang/vrl/value"
)

func (it *interp) evalBinary(x *ir.BinaryOp, e *env) (value.Value, error) {
	switch x.Op {
	case token.AND:
		lv, err := it.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		lb, ok := lv.(value.Boolean)
		if !ok {
			return nil, fmt.Errorf("&&: left operand is not a boolean")
		}
		if !bool(lb) {
			return value.Boolean(false), nil
		}
		rv, err := it.eval(x.Y, e)
		if err != nil {
			return nil, err
		}
		rb, ok := rv.(value.Boolean)
		if !ok {
			return nil, fmt.Errorf("&&: right operand is not a boolean")
		}
		return rb, nil
	case token.OR:
		lv, err := it.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		lb, ok := lv.(value.Boolean)
		if ok && bool(lb) {
			return value.Boolean(true), nil
		}
		rv, err := it.eval(x.Y, e)
		if err != nil {
			return nil, err
		}
		rb, ok := rv.(value.Boolean)
		if !ok {
			return nil, fmt.Errorf("||: right operand is not a boolean")
		}
		return rb, nil
	case token.QUERY:
		lv, err := it.eval(x.X, e)
		if err == nil {
			// A captured `value, err = fallible()` binding resolves its
			// value slot to Null on failure (spec.md §4.3's `v, err = e`
			// row); that Null no longer carries the raise, so `??`
			// chained onto the captured value must still fall through to
			// the alternative for the handled-fallible idiom in spec.md
			// §8 example 2 to hold.
			if _, isNull := lv.(value.Null); !isNull {
				return lv, nil
			}
		} else if isControlSignal(err) {
			return nil, err
		}
		return it.eval(x.Y, e)
	}

	left, err := it.eval(x.X, e)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(x.Y, e)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case token.ADD:
		return addValues(left, right)
	case token.SUB:
		return subValues(left, right)
	case token.MUL:
		return mulValues(left, right)
	case token.QUO:
		return divValues(left, right)
	case token.REM:
		return remValues(left, right)
	case token.EQL:
		return value.Boolean(left.Equal(right)), nil
	case token.NEQ:
		return value.Boolean(!left.Equal(right)), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return compareValues(x.Op, left, right)
	case token.MATCH, token.NMATCH:
		return matchValues(x.Op, left, right)
	}
	return nil, fmt.Errorf("runtime: unsupported binary operator %s", x.Op)
}

func addValues(l, r value.Value) (value.Value, error) {
	switch lv := l.(type) {
	case value.Integer:
		if rv, ok := r.(value.Integer); ok {
			return lv + rv, nil
		}
	case value.Float:
		if rv, ok := r.(value.Float); ok {
			return lv + rv, nil
		}
	case value.Bytes:
		switch rv := r.(type) {
		case value.Bytes:
			return append(append(value.Bytes(nil), lv...), rv...), nil
		case value.Null:
			return lv, nil
		}
	case value.Null:
		if rv, ok := r.(value.Bytes); ok {
			return rv, nil
		}
	case value.Array:
		if rv, ok := r.(value.Array); ok {
			out := make(value.Array, 0, len(lv)+len(rv))
			out = append(out, lv...)
			out = append(out, rv...)
			return out, nil
		}
	case value.Timestamp:
		if rv, ok := r.(value.Integer); ok {
			return value.NewTimestamp(lv.Time.Add(time.Duration(rv) * time.Second)), nil
		}
	}
	return nil, fmt.Errorf("+: unsupported operand kinds %s and %s", l.Kind(), r.Kind())
}

func subValues(l, r value.Value) (value.Value, error) {
	switch lv := l.(type) {
	case value.Integer:
		if rv, ok := r.(value.Integer); ok {
			return lv - rv, nil
		}
	case value.Float:
		if rv, ok := r.(value.Float); ok {
			return lv - rv, nil
		}
	case value.Timestamp:
		switch rv := r.(type) {
		case value.Timestamp:
			return value.Integer(lv.Time.Sub(rv.Time) / time.Second), nil
		case value.Integer:
			return value.NewTimestamp(lv.Time.Add(-time.Duration(rv) * time.Second)), nil
		}
	}
	return nil, fmt.Errorf("-: unsupported operand kinds %s and %s", l.Kind(), r.Kind())
}

func mulValues(l, r value.Value) (value.Value, error) {
	switch lv := l.(type) {
	case value.Integer:
		if rv, ok := r.(value.Integer); ok {
			return lv * rv, nil
		}
	case value.Float:
		if rv, ok := r.(value.Float); ok {
			return lv * rv, nil
		}
	case value.Bytes:
		if rv, ok := r.(value.Integer); ok {
			if rv < 0 {
				return nil, fmt.Errorf("*: cannot repeat a string a negative number of times")
			}
			out := make(value.Bytes, 0, len(lv)*int(rv))
			for i := int64(0); i < int64(rv); i++ {
				out = append(out, lv...)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("*: unsupported operand kinds %s and %s", l.Kind(), r.Kind())
}

func divValues(l, r value.Value) (value.Value, error) {
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("/: unsupported operand kinds %s and %s", l.Kind(), r.Kind())
	}
	if rf == 0 {
		return nil, fmt.Errorf("/: division by zero")
	}
	result := lf / rf
	if result != result { // NaN forbidden, spec.md §3.1
		return nil, fmt.Errorf("/: result is not a number")
	}
	return value.Float(result), nil
}

func remValues(l, r value.Value) (value.Value, error) {
	li, lok := l.(value.Integer)
	ri, rok := r.(value.Integer)
	if !lok || !rok {
		return nil, fmt.Errorf("%%: unsupported operand kinds %s and %s", l.Kind(), r.Kind())
	}
	if ri == 0 {
		return nil, fmt.Errorf("%%: division by zero")
	}
	return li % ri, nil
}

func asFloat(v value.Value) (float64, bool) {
	switch t := v.(type) {
	case value.Integer:
		return float64(t), true
	case value.Float:
		return float64(t), true
	}
	return 0, false
}

func compareValues(op token.Token, l, r value.Value) (value.Value, error) {
	var cmp int
	switch lv := l.(type) {
	case value.Integer:
		rv, ok := r.(value.Integer)
		if !ok {
			return nil, fmt.Errorf("%s: unsupported operand kinds %s and %s", op, l.Kind(), r.Kind())
		}
		cmp = cmpInt64(int64(lv), int64(rv))
	case value.Float:
		rv, ok := r.(value.Float)
		if !ok {
			return nil, fmt.Errorf("%s: unsupported operand kinds %s and %s", op, l.Kind(), r.Kind())
		}
		cmp = cmpFloat64(float64(lv), float64(rv))
	case value.Bytes:
		rv, ok := r.(value.Bytes)
		if !ok {
			return nil, fmt.Errorf("%s: unsupported operand kinds %s and %s", op, l.Kind(), r.Kind())
		}
		cmp = cmpBytes(lv, rv)
	case value.Timestamp:
		rv, ok := r.(value.Timestamp)
		if !ok {
			return nil, fmt.Errorf("%s: unsupported operand kinds %s and %s", op, l.Kind(), r.Kind())
		}
		cmp = cmpTime(lv, rv)
	default:
		return nil, fmt.Errorf("%s: unsupported operand kinds %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case token.LSS:
		return value.Boolean(cmp < 0), nil
	case token.LEQ:
		return value.Boolean(cmp <= 0), nil
	case token.GTR:
		return value.Boolean(cmp > 0), nil
	case token.GEQ:
		return value.Boolean(cmp >= 0), nil
	}
	return nil, fmt.Errorf("runtime: unsupported comparison operator %s", op)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBytes(a, b value.Bytes) int {
	switch {
	case string(a) < string(b):
		return -1
	case string(a) > string(b):
		return 1
	default:
		return 0
	}
}

func cmpTime(a, b value.Timestamp) int {
	switch {
	case a.Time.Before(b.Time):
		return -1
	case a.Time.After(b.Time):
		return 1
	default:
		return 0
	}
}

func matchValues(op token.Token, l, r value.Value) (value.Value, error) {
	b, ok := l.(value.Bytes)
	if !ok {
		return nil, fmt.Errorf("%s: left operand is not a string", op)
	}
	re, ok := r.(value.Regex)
	if !ok {
		return nil, fmt.Errorf("%s: right operand is not a regex", op)
	}
	matched := re.Re.Match(b)
	if op == token.NMATCH {
		matched = !matched
	}
	return value.Boolean(matched), nil
}
