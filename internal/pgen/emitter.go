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

// Package pgen turns allocated per-method CFGs into a linked Marvin program:
// instruction selection, frame synthesis, program-wide address assignment,
// jump and call fixup, and the textual .marv image.
package pgen

import (
    `fmt`
    `io`

    `github.com/iotalang/iotac/internal/ssa`
)

// Emitter links compiled methods into one program image. Addresses 0 and 1
// hold the trampoline that calls main()V and halts.
type Emitter struct {
    pc      int
    methods []*Method
    addrs   map[string]int
}

// NewEmitter creates an emitter with the trampoline addresses reserved.
func NewEmitter() *Emitter {
    return &Emitter { pc: 2, addrs: make(map[string]int) }
}

// AddMethod selects and links one method: Marvin code is generated, global
// pcs assigned, and intra-method jumps resolved. Calls resolve later, once
// every method has an address.
func (self *Emitter) AddMethod(cfg *ssa.CFG) {
    m := selectMethod(cfg)

    /* assign a global pc to every instruction */
    for _, block := range m.Blocks {
        for _, ins := range block.Code {
            ins.base().PC = self.pc
            self.pc++
        }
    }
    self.addrs[cfg.Name + cfg.Desc] = m.Blocks[0].Code[0].base().PC

    /* resolve jumps: an unconditional jump with the return flag goes to the
     * epilogue, any other jumpn/j**n goes to its target block; jumpr needs
     * no fixup */
    for _, block := range m.Blocks {
        for _, ins := range block.Code {
            jump, ok := ins.(*Jump)
            if !ok || jump.Mnemonic == "jumpr" {
                continue
            }
            if jump.Mnemonic == "jumpn" {
                if jump.ReturnFromMethod {
                    jump.N = m.exitPC()
                } else {
                    jump.N = m.firstPC(jump.TrueBlock)
                }
            } else {
                jump.N = m.firstPC(jump.TrueBlock)
            }
        }
    }

    self.methods = append(self.methods, m)
}

// MethodAddress returns the starting pc of the named method.
func (self *Emitter) MethodAddress(key string) (int, bool) {
    pc, ok := self.addrs[key]
    return pc, ok
}

/* every calln is patched with the callee's starting address */
func (self *Emitter) resolveCalls() {
    for _, m := range self.methods {
        for _, block := range m.Blocks {
            for _, ins := range block.Code {
                if call, ok := ins.(*Call); ok {
                    pc, found := self.addrs[call.Name + call.Desc]
                    if !found {
                        panic(fmt.Sprintf("pgen: %s%s: call to unknown method %s%s",
                            m.Cfg.Name, m.Cfg.Desc, call.Name, call.Desc))
                    }
                    call.N = pc
                }
            }
        }
    }
}

/* the two-instruction header: call main()V, then halt */
func (self *Emitter) header() []Instr {
    main, ok := self.addrs["main()V"]
    if !ok {
        panic("pgen: program has no main()V")
    }
    call := &Call { InstrBase: InstrBase { PC: 0, Mnemonic: "calln" }, Name: "main", Desc: "()V", RX: ssa.RegInfo[ssa.RA], N: main }
    halt := &Halt { InstrBase: InstrBase { PC: 1, Mnemonic: "halt" } }
    return []Instr { call, halt }
}

// Program returns the linked image as a pc-indexed instruction slice,
// trampoline included. The emulator executes this directly.
func (self *Emitter) Program() []Instr {
    self.resolveCalls()
    prog := make([]Instr, self.pc)
    for i, ins := range self.header() {
        prog[i] = ins
    }
    for _, m := range self.methods {
        for _, block := range m.Blocks {
            for _, ins := range block.Code {
                prog[ins.base().PC] = ins
            }
        }
    }
    return prog
}

// WriteTo writes the .marv text image: the trampoline header, then each
// method in declaration order with per-method and per-block comment headers.
func (self *Emitter) WriteTo(w io.Writer, sourceName string) {
    self.resolveCalls()

    fmt.Fprintf(w, "# %s\n\n", sourceName)
    for _, ins := range self.header() {
        ins.Emit(w)
    }
    fmt.Fprintln(w)

    for _, m := range self.methods {
        fmt.Fprintf(w, "# %s%s\n\n", m.Cfg.Name, m.Cfg.Desc)
        for _, block := range m.Blocks {
            fmt.Fprintf(w, "# %s\n", block.Name)
            for _, ins := range block.Code {
                ins.Emit(w)
            }
            fmt.Fprintln(w)
        }
        fmt.Fprintln(w)
    }
}
