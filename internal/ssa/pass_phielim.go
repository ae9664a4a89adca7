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

// PhiElim removes redundant phi functions: outside loop heads, a phi whose
// arguments all agree; in a loop head, a phi whose back-edge argument (index 1)
// is the phi itself.
// Because every use resolves through the CFG's id map, replacing the map entry
// for the phi's id rewires all users at once; no user is ever rewritten.
type PhiElim struct{}

func (PhiElim) Name() string {
    return "Phi Cleanup"
}

func (PhiElim) Apply(cfg *CFG) {
    ids := make([]int, 0, len(cfg.HirMap))
    for id := range cfg.HirMap {
        ids = append(ids, id)
    }
    sort.Ints(ids)

    for _, id := range ids {
        phi, ok := cfg.HirMap[id].(*HirPhi)
        if !ok || phi.Index == -1 {
            /* return-value phis have no bound local; nothing to clean up */
            continue
        }

        /* resolve any "?" argument against the predecessor's state vector;
         * back-edge predecessors were processed after the phi was created */
        for i, pred := range phi.Block.Preds {
            if pred.Locals != nil {
                phi.Args[i] = pred.Locals[phi.Index]
            }
        }

        /* a loop-head phi is redundant when the back edge feeds it with
         * itself; elsewhere, when all arguments agree */
        redundant := true
        if phi.Block.IsLoopHead {
            if phi.Args[1] == nil || phi.Args[1].base().Id != phi.Id {
                redundant = false
            }
        } else {
            first := phi.Args[0]
            for _, arg := range phi.Args[1:] {
                if arg != nil && (first == nil || arg.base().Id != first.base().Id) {
                    redundant = false
                }
            }
        }
        if !redundant || phi.Args[0] == nil {
            continue
        }

        /* rewire all users through the id map and drop the phi */
        hir := phi.Block.Hir[:0]
        for _, ins := range phi.Block.Hir {
            if ins != Hir(phi) {
                hir = append(hir, ins)
            }
        }
        phi.Block.Hir = hir
        cfg.HirMap[phi.Id] = phi.Args[0]
    }
}
