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

// Package ssa reconstructs structured control flow from a method's flat
// bytecode, builds an SSA-style HIR, lowers it to a virtual-register LIR, and
// allocates the Marvin register file. Each pass attaches its results to the
// CFG; no pass mutates the inputs of an earlier one.
package ssa

import (
    `github.com/iotalang/iotac/internal/classfile`
)

// Pass is one stage of the per-method pipeline.
type Pass interface {
    Name() string
    Apply(*CFG)
}

// Passes is the fixed pass sequence up to register allocation. The allocator
// itself is appended per the compile options.
var Passes = [...]Pass {
    PhiElim{},
    Lower{},
    PhiResolve{},
    Renumber{},
    Liveness{},
}

// Compile runs the whole back-end pipeline for one method and returns its
// CFG, ready for instruction selection. With graphAlloc set the coloring
// allocator replaces the naive circular one.
func Compile(pool *classfile.ConstantPool, method *classfile.Method, graphAlloc bool) *CFG {
    cfg := buildCFG(pool, method)
    if len(cfg.Blocks) == 0 {
        return cfg
    }
    buildHir(cfg)

    for _, p := range Passes {
        p.Apply(cfg)
    }
    if graphAlloc {
        GraphRegAlloc{}.Apply(cfg)
    } else {
        RegAlloc{}.Apply(cfg)
    }
    return cfg
}
