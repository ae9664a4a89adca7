/*
 * Copyright 2024 Iotalang Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package iotac compiles the iota teaching language to Marvin assembly. The
// front end lowers source through JVM-style bytecode; the back end rebuilds
// structured control flow from it, constructs an SSA-style HIR, lowers to a
// virtual-register LIR, allocates the sixteen Marvin registers and links a
// textual .marv program image.
package iotac

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iotalang/iotac/internal/classfile"
	"github.com/iotalang/iotac/internal/pgen"
	"github.com/iotalang/iotac/internal/ssa"
	"github.com/iotalang/iotac/internal/syntax"
)

// Compile compiles one .iota source file and writes the .marv image into the
// chosen output directory. It returns the output path.
func Compile(sourceFile string, opt Options) (string, error) {
	src, err := os.ReadFile(sourceFile)
	if err != nil {
		return "", err
	}

	emitter, err := CompileSource(filepath.Base(sourceFile), src, opt)
	if err != nil {
		return "", err
	}

	outName := strings.TrimSuffix(filepath.Base(sourceFile), ".iota") + ".marv"
	outFile := filepath.Join(opt.OutputDir, outName)
	f, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	emitter.WriteTo(f, outName)
	if err := f.Close(); err != nil {
		return "", err
	}
	return outFile, nil
}

// CompileSource runs the whole pipeline over in-memory source text and
// returns the linked program emitter.
func CompileSource(name string, src []byte, opt Options) (*pgen.Emitter, error) {
	unit, err := syntax.Parse(name, src)
	if err != nil {
		return nil, SyntaxError{File: name, Err: err}
	}
	if err := syntax.Analyze(unit); err != nil {
		return nil, SemanticError{File: name, Err: err}
	}
	return CompileClassFile(syntax.Codegen(unit), opt)
}

// CompileClassFile runs the back end over an already-assembled class file.
// Builtin methods are skipped; every other method runs the per-method
// pipeline and links into the returned emitter.
func CompileClassFile(file *classfile.File, opt Options) (emitter *pgen.Emitter, err error) {
	emitter = pgen.NewEmitter()
	for _, m := range file.Methods {
		if m.IsBuiltin() {
			continue
		}
		if err = compileMethod(emitter, file, m, opt); err != nil {
			return nil, err
		}
	}
	return emitter, nil
}

/* compileMethod isolates one method's pipeline; an invariant violation in a
 * pass surfaces as an EmitterError instead of tearing the process down */
func compileMethod(emitter *pgen.Emitter, file *classfile.File, m *classfile.Method, opt Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = EmitterError{Method: m.Key(), Reason: fmt.Sprint(r)}
		}
	}()

	cfg := ssa.Compile(file.Pool, m, opt.Allocator == "graph")
	if opt.Verbose && opt.DumpWriter != nil {
		fmt.Fprintf(opt.DumpWriter, ">>> %s%s\n\n", cfg.Name, cfg.Desc)
		cfg.DumpTuples(opt.DumpWriter)
		cfg.DumpHir(opt.DumpWriter)
		cfg.DumpLir(opt.DumpWriter)
		cfg.DumpLiveness(opt.DumpWriter)
		cfg.DumpIntervals(opt.DumpWriter)
		fmt.Fprintln(opt.DumpWriter)
	}
	emitter.AddMethod(cfg)
	return nil
}
