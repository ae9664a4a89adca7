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
    `github.com/oleiade/lane`
)

// RegAlloc maps every virtual register to one of the twelve temporaries
// R0..R11, spilling to SP-relative slots when they run out. This is the naive
// circular scheme: the oldest allocated virtual register gives up its
// physical register when a fresh one is needed.
type RegAlloc struct{}

func (RegAlloc) Name() string {
    return "Register Allocation (naive)"
}

func (self RegAlloc) Apply(cfg *CFG) {
    pRegId := 0
    offset := 0
    allocated := lane.NewQueue()

    for _, b := range cfg.Blocks {
        for _, ins := range b.Lir {
            if write, ok := ins.base().Write.(*VirtReg); ok && write.Phys == nil {
                if pRegId < MaxTempRegs {
                    write.Phys = RegInfo[pRegId]
                    pRegId++
                } else {
                    /* all temporaries taken: evict the oldest allocation,
                     * spill it if it is not spilled already, and share its
                     * register; the newcomer spills too */
                    reg := allocated.Dequeue().(*VirtReg)
                    if !reg.Spill {
                        reg.Spill = true
                        reg.Offset = offset
                        offset++
                    }
                    write.Phys = reg.Phys
                    write.Spill = true
                    write.Offset = offset
                    offset++
                }
                usePhysReg(cfg, write.Phys)
                allocated.Enqueue(write)
            }
            disambiguateReads(cfg, ins)
        }
    }

    materializeSpills(cfg)
}

func usePhysReg(cfg *CFG, p *PhysReg) {
    for _, q := range cfg.PRegisters {
        if q == p {
            return
        }
    }
    cfg.PRegisters = append(cfg.PRegisters, p)
}

/* Marvin arithmetic needs three distinct operand slots: two different virtual
 * registers read by one instruction must not share a physical register, so
 * one of them rotates to the next temporary. */
func disambiguateReads(cfg *CFG, ins Lir) {
    reads := ins.base().Reads
    if len(reads) != 2 {
        return
    }
    r1, ok1 := reads[0].(*VirtReg)
    r2, ok2 := reads[1].(*VirtReg)
    if !ok1 || !ok2 || r1.Number() == r2.Number() {
        return
    }
    if r1.Phys != nil && r2.Phys != nil && r1.Phys.Number() == r2.Phys.Number() {
        r2.Phys = RegInfo[(r2.Phys.Number() + 1) % MaxTempRegs]
        usePhysReg(cfg, r2.Phys)
    }
}

/* materializeSpills inserts the memory traffic the spill decisions imply: a
 * store right after every write of a spilled register, a load right before
 * every read of one. The stride-5 id gaps hold the inserted instructions. */
func materializeSpills(cfg *CFG) {
    for _, b := range cfg.Blocks {
        newLir := make([]Lir, 0, len(b.Lir))
        for _, ins := range b.Lir {
            reads := ins.base().Reads
            for i, r := range reads {
                if read, ok := r.(*VirtReg); ok && read.Spill {
                    load := &LirLoad {
                        LirBase : LirBase { Block: b, Id: ins.base().Id - (len(reads) - i), Mnemonic: "load" },
                        N       : read.Offset,
                    }
                    load.Reads = []Reg { RegInfo[SP] }
                    load.Write = read.Phys
                    newLir = append(newLir, load)
                }
            }
            newLir = append(newLir, ins)
            if write, ok := ins.base().Write.(*VirtReg); ok && write.Spill {
                store := &LirStore {
                    LirBase : LirBase { Block: b, Id: ins.base().Id + 1, Mnemonic: "store" },
                    N       : write.Offset,
                }
                store.Reads = []Reg { write.Phys, RegInfo[SP] }
                newLir = append(newLir, store)
            }
        }
        b.Lir = newLir
    }
}
