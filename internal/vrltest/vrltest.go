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

// Package vrltest is a txtar golden-fixture harness for end-to-end VRL
// programs, grounded on internal/cuetxtar: each ".txtar" file under a
// root directory holds a "source" file (the VRL program), an optional
// "target" file (the JSON event to resolve against) and a golden "out"
// file that this package compares the actual compile/resolve outcome
// against. Set VRL_UPDATE=1 to rewrite the golden files in place, the
// same escape hatch cuetxtar offers via CUE_UPDATE.
package vrltest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogpeppe/go-internal/txtar"

	"github.com/vrl-lang/vrl/runtime"
	"github.com/vrl-lang/vrl/value"
	"github.com/vrl-lang/vrl/vrl"
)

// TxTarTest runs every ".txtar" file under Root as a subtest.
type TxTarTest struct {
	// Root is the directory (and its subdirectories) to scan for
	// ".txtar" files.
	Root string

	// Skip maps a test name to a reason to skip it.
	Skip map[string]string
}

// Test is the state handed to the callback for a single ".txtar" file.
// It embeds *testing.T so failures report against the right subtest.
type Test struct {
	*testing.T

	Archive *txtar.Archive

	// Source is the contents of the "source" file: the VRL program.
	Source string

	ctx *vrl.Context

	fullpath string
	update   bool
}

func fileContent(a *txtar.Archive, name string) (string, bool) {
	for _, f := range a.Files {
		if f.Name == name {
			return string(f.Data), true
		}
	}
	return "", false
}

// Target parses the "target" file (defaulting to "{}") as JSON and
// returns it as a *runtime.MapTarget ready to Resolve against.
func (t *Test) Target() *runtime.MapTarget {
	t.Helper()
	src, ok := fileContent(t.Archive, "target")
	if !ok {
		src = "{}"
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("invalid target JSON: %v", err)
	}
	return runtime.NewMapTarget(m)
}

// Context returns the vrl.Context every program in this archive is
// compiled against. Defaults to vrl.New() (full stdlib, no extra
// builtins) the first time it's called.
func (t *Test) Context() *vrl.Context {
	if t.ctx == nil {
		t.ctx = vrl.New()
	}
	return t.ctx
}

// Run compiles t.Source and resolves it against Target(), then checks
// a human-readable summary of the outcome (the final value as JSON, or
// the diagnostics/runtime error) against the archive's golden "out"
// file, updating it in place when VRL_UPDATE is set.
func (t *Test) Run() {
	t.Helper()

	prog, errs := t.Context().Compile(t.Source, vrl.TargetType(value.TypeDef{Kind: value.ObjectKind}))
	if errs.HasErrors() {
		t.Golden("compile error:\n" + errs.Error() + "\n")
		return
	}

	target := t.Target()
	result, err := prog.Resolve(target, nil)
	if err != nil {
		t.Golden("runtime error: " + err.Error() + "\n")
		return
	}

	targetJSON, err := json.Marshal(target.Map())
	if err != nil {
		t.Fatalf("marshaling resolved target: %v", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "result: %s\n", renderJSON(result))
	fmt.Fprintf(&buf, "target: %s\n", targetJSON)
	t.Golden(buf.String())
}

func renderJSON(v value.Value) string {
	b, err := json.Marshal(jsonOf(v))
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	return string(b)
}

func jsonOf(v value.Value) any {
	switch x := v.(type) {
	case value.Undefined:
		return nil
	case value.Null:
		return nil
	case value.Boolean:
		return bool(x)
	case value.Integer:
		return int64(x)
	case value.Float:
		return float64(x)
	case value.Bytes:
		return string(x)
	case value.Array:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonOf(e)
		}
		return out
	case *value.Object:
		out := map[string]any{}
		x.Range(func(k string, v value.Value) bool {
			out[k] = jsonOf(v)
			return true
		})
		return out
	default:
		return x.String()
	}
}

// Golden compares the text built by Run (or any other writer that set
// it) against the archive's "out" file, updating it in place when
// VRL_UPDATE is set.
func (t *Test) Golden(got string) {
	t.Helper()

	want, _ := fileContent(t.Archive, "out")
	if got == want {
		return
	}

	if os.Getenv("VRL_UPDATE") != "" {
		t.update = true
		setFile(t.Archive, "out", got)
		return
	}

	t.Errorf("result differs (-want +got):\n%s", cmp.Diff(want, got))
}

func setFile(a *txtar.Archive, name, data string) {
	for i, f := range a.Files {
		if f.Name == name {
			a.Files[i].Data = []byte(data)
			return
		}
	}
	a.Files = append(a.Files, txtar.File{Name: name, Data: []byte(data)})
}

// Run walks x.Root for ".txtar" files and invokes f once per file with
// Source and Archive populated, then checks the result produced by
// Test.Run against the golden "out" file.
func (x *TxTarTest) Run(t *testing.T, f func(tc *Test)) {
	t.Helper()

	err := filepath.WalkDir(x.Root, func(fullpath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(fullpath) != ".txtar" {
			return nil
		}

		rel, _ := filepath.Rel(x.Root, fullpath)
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".txtar")

		t.Run(name, func(t *testing.T) {
			if msg, ok := x.Skip[name]; ok {
				t.Skip(msg)
			}

			a, err := txtar.ParseFile(fullpath)
			if err != nil {
				t.Fatalf("parsing txtar file: %v", err)
			}
			source, ok := fileContent(a, "source")
			if !ok {
				t.Fatalf("txtar file has no \"source\" section")
			}

			tc := &Test{T: t, Archive: a, Source: source, fullpath: fullpath}
			f(tc)

			if tc.update {
				if err := os.WriteFile(fullpath, txtar.Format(a), 0o644); err != nil {
					t.Fatal(err)
				}
			}
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
