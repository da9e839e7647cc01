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

// Package vrl is the embedder-facing entry point (spec.md §4.8): a
// Context compiles source into a Program, which is then Resolved
// against as many (Target, runtime.Context) pairs as the embedder likes.
// It follows cue/cuecontext's shape, where cuecontext.New() hands back a
// long-lived *cue.Context that CompileString reuses across many inputs.
package vrl

import (
	"github.com/vrl-lang/vrl/compiler"
	"github.com/vrl-lang/vrl/errors"
	"github.com/vrl-lang/vrl/function"
	"github.com/vrl-lang/vrl/internal/ir"
	"github.com/vrl-lang/vrl/parser"
	"github.com/vrl-lang/vrl/runtime"
	"github.com/vrl-lang/vrl/stdlib"
	"github.com/vrl-lang/vrl/value"
)

// Context is a long-lived compilation context: the registry of stdlib
// functions available to every program it compiles. Embedders construct
// one Context at startup and reuse it, the way a *cue.Context is reused
// across many CompileString calls.
type Context struct {
	functions *function.Registry
}

// New returns a Context with the full stdlib registered.
func New() *Context {
	r := function.NewRegistry()
	stdlib.Register(r)
	return &Context{functions: r}
}

// Functions exposes the Context's function registry, e.g. so an
// embedder can Register additional domain-specific builtins before
// compiling.
func (c *Context) Functions() *function.Registry { return c.functions }

// Option configures a single Compile call.
type Option struct {
	apply func(*compiler.Config)
}

// TargetType declares the static shape of the event the program will be
// resolved against, sharpening compile-time Kind inference for every
// path read from the target (spec.md §4.3).
func TargetType(t value.TypeDef) Option {
	return Option{apply: func(cfg *compiler.Config) { cfg.TargetType = t }}
}

// Compile parses and type-checks src, returning a Program ready to
// Resolve, or the accumulated diagnostics if compilation failed.
// Warnings are returned alongside a valid Program; only errors prevent
// one (spec.md §4.7, Severity).
func (c *Context) Compile(src string, opts ...Option) (*Program, errors.List) {
	prog, errs := parser.ParseFile("", []byte(src))
	if errs.HasErrors() {
		return nil, errs
	}

	cfg := compiler.Config{
		Functions:  c.functions,
		TargetType: value.TypeDef{Kind: value.ObjectKind},
	}
	for _, o := range opts {
		o.apply(&cfg)
	}

	out, cerrs := compiler.Compile(prog, cfg)
	errs = append(errs, cerrs...)
	if errs.HasErrors() {
		return nil, errs
	}
	return &Program{ir: out, functions: c.functions}, errs
}

// Program is a compiled, type-checked VRL program.
type Program struct {
	ir        *ir.Program
	functions *function.Registry
}

// TypeInfo reports the statically inferred TypeDef of the program's
// final expression, the same information the compiler used to reject
// unhandled fallibility.
func (p *Program) TypeInfo() value.TypeDef { return p.ir.Result }

// Resolve evaluates the program against target under ctx (spec.md
// §4.4). A nil ctx resolves against runtime.NewContext()'s defaults
// (system clock, UTC, random UUIDs).
func (p *Program) Resolve(target runtime.Target, ctx *runtime.Context) (value.Value, error) {
	return runtime.Resolve(p.ir, target, ctx, p.functions)
}

// Trace renders the program's compiled node tree for debugging.
func (p *Program) Trace() string { return runtime.TraceProgram(p.ir) }
