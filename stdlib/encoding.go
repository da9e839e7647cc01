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

package stdlib

import (
	"encoding/json"
	"fmt"

	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/value"
)

func registerEncoding(r *function.Registry) {
	r.Register(parseJSONFn{})
	r.Register(encodeJSONFn{})
}

// parseJSONFn implements `parse_json(string)`, decoding arbitrary JSON
// into the value.Value universe. JSON has no third-party competitor in
// the pack the way YAML does (cue/pkg/encoding/yaml wraps gopkg.in/yaml.v3,
// reserved here for the enrichment side-store instead); encoding/json
// is the idiomatic choice even in the teacher's own pkg/encoding tree.
type parseJSONFn struct{}

func (parseJSONFn) Identifier() string { return "parse_json" }

func (parseJSONFn) Parameters() []function.Param {
	return []function.Param{{Name: "value", Kind: value.BytesKind, Required: true}}
}

func (parseJSONFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 1 {
		return function.CompileResult{}, function.ErrWrongParamCount("parse_json", 1, len(args))
	}
	return function.CompileResult{Result: value.FallibleOf(value.AnyKind)}, nil
}

func (parseJSONFn) ClosureAccepting() bool { return false }

func (parseJSONFn) Call(args []value.Value) (value.Value, error) {
	b, ok := args[0].(value.Bytes)
	if !ok {
		return nil, fmt.Errorf("parse_json: argument is not a string")
	}
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, fmt.Errorf("parse_json: %w", err)
	}
	return fromJSON(decoded), nil
}

func (parseJSONFn) Examples() []function.Example {
	return []function.Example{{Source: `parse_json("{\"a\":1}")`, Result: `{a: 1}`}}
}

func fromJSON(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Boolean(t)
	case float64:
		if t == float64(int64(t)) {
			return value.Integer(int64(t))
		}
		return value.Float(t)
	case string:
		return value.Bytes(t)
	case []any:
		out := make(value.Array, len(t))
		for i, e := range t {
			out[i] = fromJSON(e)
		}
		return out
	case map[string]any:
		obj := value.NewObject()
		for k, e := range t {
			obj.Set(k, fromJSON(e))
		}
		return obj
	}
	return value.Null{}
}

// encodeJSONFn implements `encode_json(value)`, the inverse of
// parse_json.
type encodeJSONFn struct{}

func (encodeJSONFn) Identifier() string { return "encode_json" }

func (encodeJSONFn) Parameters() []function.Param {
	return []function.Param{{Name: "value", Kind: value.AnyKind, Required: true}}
}

func (encodeJSONFn) Compile(args []function.Arg) (function.CompileResult, error) {
	if len(args) != 1 {
		return function.CompileResult{}, function.ErrWrongParamCount("encode_json", 1, len(args))
	}
	return function.CompileResult{Result: value.Infallible(value.BytesKind)}, nil
}

func (encodeJSONFn) ClosureAccepting() bool { return false }

func (encodeJSONFn) Call(args []value.Value) (value.Value, error) {
	b, err := json.Marshal(toJSON(args[0]))
	if err != nil {
		return nil, fmt.Errorf("encode_json: %w", err)
	}
	return value.Bytes(b), nil
}

func (encodeJSONFn) Examples() []function.Example {
	return []function.Example{{Source: `encode_json({"a": 1})`, Result: `"{\"a\":1}"`}}
}

func toJSON(v value.Value) any {
	switch t := v.(type) {
	case value.Null, value.Undefined:
		return nil
	case value.Boolean:
		return bool(t)
	case value.Integer:
		return int64(t)
	case value.Float:
		return float64(t)
	case value.Bytes:
		return string(t)
	case value.Timestamp:
		return t.String()
	case value.Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toJSON(e)
		}
		return out
	case *value.Object:
		out := map[string]any{}
		t.Range(func(k string, fv value.Value) bool {
			out[k] = toJSON(fv)
			return true
		})
		return out
	}
	return nil
}
