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

package pgen

import (
    `fmt`

    `github.com/iotalang/iotac/internal/ssa`
)

var lir2marvin = map[string]string {
    "call"   : "calln",
    "jeq"    : "jeqn",
    "jge"    : "jgen",
    "jgt"    : "jgtn",
    "jle"    : "jlen",
    "jlt"    : "jltn",
    "jne"    : "jnen",
    "jump"   : "jumpn",
    "load"   : "loadn",
    "pop"    : "popr",
    "push"   : "pushr",
    "return" : "jumpn",
    "store"  : "storen",
}

// Block is the Marvin rendering of one basic block.
type Block struct {
    Name   string
    Source *ssa.BasicBlock
    Code   []Instr
}

// Method is the Marvin rendering of one compiled method: one Block per CFG
// block, plus the synthetic epilogue block at the end.
type Method struct {
    Cfg    *ssa.CFG
    Blocks []*Block
}

/* selectInstr expands one LIR instruction; the expansion is mechanical since
 * allocation already mapped every operand to a physical register. */
func selectInstr(p ssa.Lir, code []Instr) []Instr {
    switch ins := p.(type) {
        default: {
            panic(fmt.Sprintf("pgen: cannot select %T", p))
        }

        case *ssa.LirArith: {
            return append(code, &Arith {
                InstrBase : InstrBase { Mnemonic: ins.Mnemonic },
                RX        : ssa.PhysOf(ins.Write),
                RY        : ssa.PhysOf(ins.Reads[0]),
                RZ        : ssa.PhysOf(ins.Reads[1]),
            })
        }

        case *ssa.LirCall: {
            return append(code, &Call {
                InstrBase : InstrBase { Mnemonic: lir2marvin[ins.Mnemonic] },
                Name      : ins.Name,
                Desc      : ins.Desc,
                RX        : ssa.RegInfo[ssa.RA],
                N         : -1,
            })
        }

        case *ssa.LirCopy: {
            return append(code, &Copy {
                InstrBase : InstrBase { Mnemonic: "copy" },
                RX        : ssa.PhysOf(ins.Write),
                RY        : ssa.PhysOf(ins.Reads[0]),
            })
        }

        case *ssa.LirIConst: {
            return append(code, newIConst(ssa.PhysOf(ins.Write), ins.N))
        }

        case *ssa.LirInc: {
            return append(code, &Inc {
                InstrBase : InstrBase { Mnemonic: "addn" },
                RX        : ssa.PhysOf(ins.Write),
                N         : ins.N,
            })
        }

        case *ssa.LirJump: {
            if ins.TrueBlock == nil && ins.FalseBlock == nil {
                /* return from the method; the target resolves to the
                 * epilogue block during linking */
                return append(code, &Jump {
                    InstrBase        : InstrBase { Mnemonic: lir2marvin[ins.Mnemonic] },
                    ReturnFromMethod : true,
                    N                : -1,
                })
            }
            if ins.FalseBlock == nil {
                return append(code, &Jump {
                    InstrBase : InstrBase { Mnemonic: lir2marvin[ins.Mnemonic] },
                    TrueBlock : ins.TrueBlock,
                    N         : -1,
                })
            }
            return append(code, &Jump {
                InstrBase  : InstrBase { Mnemonic: lir2marvin[ins.Mnemonic] },
                RX         : ssa.PhysOf(ins.Reads[0]),
                RY         : ssa.PhysOf(ins.Reads[1]),
                TrueBlock  : ins.TrueBlock,
                FalseBlock : ins.FalseBlock,
                N          : -1,
            })
        }

        case *ssa.LirLoad: {
            return append(code, &Load {
                InstrBase : InstrBase { Mnemonic: lir2marvin[ins.Mnemonic] },
                RX        : ssa.PhysOf(ins.Write),
                RY        : ssa.PhysOf(ins.Reads[0]),
                N         : ins.N,
            })
        }

        case *ssa.LirStore: {
            return append(code, &Store {
                InstrBase : InstrBase { Mnemonic: lir2marvin[ins.Mnemonic] },
                RX        : ssa.PhysOf(ins.Reads[0]),
                RY        : ssa.PhysOf(ins.Reads[1]),
                N         : ins.N,
            })
        }

        case *ssa.LirRead: {
            return append(code, &Read {
                InstrBase : InstrBase { Mnemonic: "read" },
                RX        : ssa.PhysOf(ins.Write),
            })
        }

        case *ssa.LirWrite: {
            return append(code, &Write {
                InstrBase : InstrBase { Mnemonic: "write" },
                RX        : ssa.PhysOf(ins.Reads[0]),
            })
        }
    }
}

// selectMethod lowers every block's LIR and synthesizes the frame code: the
// prologue saves RA, FP and the used temporaries at the front of the entry
// block, the epilogue block restores them in reverse and jumps through RA.
func selectMethod(cfg *ssa.CFG) *Method {
    m := &Method { Cfg: cfg }

    for i, b := range cfg.Blocks {
        suffix := ""
        if i == 0 {
            suffix = " (entry)"
        }
        block := &Block { Name: b.Name() + suffix, Source: b }
        for _, ins := range b.Lir {
            block.Code = selectInstr(ins, block.Code)
        }
        m.Blocks = append(m.Blocks, block)
    }

    /* prologue */
    sp := ssa.RegInfo[ssa.SP]
    var prologue []Instr
    prologue = append(prologue, &Store { InstrBase: InstrBase { Mnemonic: "pushr" }, RX: ssa.RegInfo[ssa.RA], RY: sp })
    prologue = append(prologue, &Store { InstrBase: InstrBase { Mnemonic: "pushr" }, RX: ssa.RegInfo[ssa.FP], RY: sp })
    prologue = append(prologue, &Copy { InstrBase: InstrBase { Mnemonic: "copy" }, RX: ssa.RegInfo[ssa.FP], RY: sp })
    for _, p := range cfg.PRegisters {
        prologue = append(prologue, &Store { InstrBase: InstrBase { Mnemonic: "pushr" }, RX: p, RY: sp })
    }
    entry := m.Blocks[0]
    entry.Code = append(prologue, entry.Code...)

    /* epilogue */
    exit := &Block { Name: fmt.Sprintf("B%d (exit)", len(cfg.Blocks)) }
    for i := len(cfg.PRegisters) - 1; i >= 0; i-- {
        exit.Code = append(exit.Code, &Load { InstrBase: InstrBase { Mnemonic: "popr" }, RX: cfg.PRegisters[i], RY: sp })
    }
    exit.Code = append(exit.Code, &Load { InstrBase: InstrBase { Mnemonic: "popr" }, RX: ssa.RegInfo[ssa.FP], RY: sp })
    exit.Code = append(exit.Code, &Load { InstrBase: InstrBase { Mnemonic: "popr" }, RX: ssa.RegInfo[ssa.RA], RY: sp })
    exit.Code = append(exit.Code, &Jump { InstrBase: InstrBase { Mnemonic: "jumpr" }, RX: ssa.RegInfo[ssa.RA] })
    m.Blocks = append(m.Blocks, exit)

    return m
}

/* firstPC returns the pc of the first instruction of the given source block,
 * falling through to the next non-empty block if it emitted no code. */
func (self *Method) firstPC(bb *ssa.BasicBlock) int {
    found := false
    for _, block := range self.Blocks {
        if block.Source == bb {
            found = true
        }
        if found && len(block.Code) != 0 {
            return block.Code[0].base().PC
        }
    }
    panic(fmt.Sprintf("pgen: %s%s: no code for %s", self.Cfg.Name, self.Cfg.Desc, bb.Name()))
}

/* exitPC returns the pc of the first epilogue instruction. */
func (self *Method) exitPC() int {
    exit := self.Blocks[len(self.Blocks) - 1]
    return exit.Code[0].base().PC
}
