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

package ssa

import (
    `sort`
)

// PhiResolve takes the CFG out of SSA form: every phi argument becomes a copy
// into the phi's register, inserted at the tail of the corresponding
// predecessor. If the predecessor ends in a goto or conditional branch the
// copy goes right before it, so it executes on the way out; otherwise,
// including after a return, the copy is appended.
type PhiResolve struct{}

func (PhiResolve) Name() string {
    return "Phi Resolution"
}

func (PhiResolve) Apply(cfg *CFG) {
    ids := make([]int, 0, len(cfg.HirMap))
    for id := range cfg.HirMap {
        ids = append(ids, id)
    }
    sort.Ints(ids)

    seen := make(map[*HirPhi]bool)
    for _, id := range ids {
        phi, ok := cfg.HirMap[id].(*HirPhi)
        if !ok || seen[phi] || LirOf(phi) == nil {
            continue
        }
        seen[phi] = true

        for i, arg := range phi.Args {
            if arg == nil {
                continue
            }

            /* re-resolve the argument: cleanup may have rewired its id */
            src := cfg.Lookup(arg.base().Id)
            if src == nil || LirOf(src) == nil {
                continue
            }

            pred := phi.Block.Preds[i]
            cp := &LirCopy { LirBase: LirBase { Block: pred, Id: cfg.nextLirId(), Mnemonic: "copy" } }
            cp.Reads = []Reg { LirOf(src).base().Write }
            cp.setWrite(LirOf(phi).base().Write)

            /* before a terminating jump, otherwise at the end; a block of
             * pure load/store tuples has no HIR at all and just appends */
            var last Hir
            if len(pred.Hir) != 0 {
                last = cfg.Lookup(pred.Hir[len(pred.Hir) - 1].base().Id)
            }
            if _, jump := last.(*HirJump); jump {
                n := len(pred.Lir)
                pred.Lir = append(pred.Lir, nil)
                copy(pred.Lir[n:], pred.Lir[n - 1:])
                pred.Lir[n - 1] = cp
            } else {
                pred.Lir = append(pred.Lir, cp)
            }
        }
    }
}

// Renumber assigns fresh LIR ids 0, 5, 10, ... in program order across
// blocks, leaving gaps for the spill stores and reloads the allocator may
// need to insert.
type Renumber struct{}

func (Renumber) Name() string {
    return "LIR Renumbering"
}

func (Renumber) Apply(cfg *CFG) {
    next := 0
    for _, b := range cfg.Blocks {
        for _, ins := range b.Lir {
            ins.base().Id = next
            next += 5
        }
    }
}
