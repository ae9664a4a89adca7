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
    `io`

    `github.com/iotalang/iotac/internal/ssa`
)

var mnemonic2op = map[string]string {
    "add"  : "+",
    "div"  : "/",
    "mul"  : "*",
    "mod"  : "%",
    "sub"  : "-",
    "jeqn" : "==",
    "jgen" : ">=",
    "jgtn" : ">",
    "jlen" : "<=",
    "jltn" : "<",
    "jnen" : "!=",
}

// Instr is one Marvin instruction. Every instruction gets a global program
// counter during linking; Emit writes the instruction's text line.
type Instr interface {
    base() *InstrBase
    Emit(w io.Writer)
}

// InstrBase carries the program counter and mnemonic every variant shares.
type InstrBase struct {
    PC       int
    Mnemonic string
}

func (self *InstrBase) base() *InstrBase { return self }

func emitLine(w io.Writer, pc int, mnemonic string, a interface{}, b interface{}, c interface{}, comment string) {
    fmt.Fprintf(w, "%-6d%-8s%-8v%-8v%-8v# %s\n", pc, mnemonic, a, b, c, comment)
}

/* Arith is "rX = rY op rZ". */
type Arith struct {
    InstrBase
    RX *ssa.PhysReg
    RY *ssa.PhysReg
    RZ *ssa.PhysReg
}

func (self *Arith) Emit(w io.Writer) {
    comment := fmt.Sprintf("%s = %s %s %s", self.RX, self.RY, mnemonic2op[self.Mnemonic], self.RZ)
    emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, self.RZ, comment)
}

/* Call stores the return address in RX and jumps to absolute address N. */
type Call struct {
    InstrBase
    Name string
    Desc string
    RX   *ssa.PhysReg
    N    int
}

func (self *Call) Emit(w io.Writer) {
    emitLine(w, self.PC, self.Mnemonic, self.RX, self.N, "", fmt.Sprintf("call method @%d", self.N))
}

/* Copy is "rX = rY". */
type Copy struct {
    InstrBase
    RX *ssa.PhysReg
    RY *ssa.PhysReg
}

func (self *Copy) Emit(w io.Writer) {
    emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, "", fmt.Sprintf("%s = %s", self.RX, self.RY))
}

/* IConst loads the constant N; 0 and 1 have dedicated one-operand forms. */
type IConst struct {
    InstrBase
    RX *ssa.PhysReg
    N  int
}

func newIConst(rx *ssa.PhysReg, n int) *IConst {
    mnemonic := "setn"
    if n == 0 { mnemonic = "set0" }
    if n == 1 { mnemonic = "set1" }
    return &IConst { InstrBase: InstrBase { Mnemonic: mnemonic }, RX: rx, N: n }
}

func (self *IConst) Emit(w io.Writer) {
    comment := fmt.Sprintf("%s = %d", self.RX, self.N)
    if self.Mnemonic == "setn" {
        emitLine(w, self.PC, self.Mnemonic, self.RX, self.N, "", comment)
    } else {
        emitLine(w, self.PC, self.Mnemonic, self.RX, "", "", comment)
    }
}

/* Inc is "rX += N". */
type Inc struct {
    InstrBase
    RX *ssa.PhysReg
    N  int
}

func (self *Inc) Emit(w io.Writer) {
    emitLine(w, self.PC, self.Mnemonic, self.RX, self.N, "", fmt.Sprintf("%s += %d", self.RX, self.N))
}

/* Jump covers the register-indirect "jumpr", the absolute "jumpn" and the
 * conditional "j**n" forms. N is patched during linking. */
type Jump struct {
    InstrBase
    RX               *ssa.PhysReg
    RY               *ssa.PhysReg
    TrueBlock        *ssa.BasicBlock
    FalseBlock       *ssa.BasicBlock
    ReturnFromMethod bool
    N                int
}

func (self *Jump) Emit(w io.Writer) {
    switch self.Mnemonic {
        case "jumpr":
            emitLine(w, self.PC, self.Mnemonic, self.RX, "", "", fmt.Sprintf("jump to %s", self.RX))
        case "jumpn":
            emitLine(w, self.PC, self.Mnemonic, self.N, "", "", fmt.Sprintf("jump to %d", self.N))
        default:
            comment := fmt.Sprintf("if %s %s %s jump to %d", self.RX, mnemonic2op[self.Mnemonic], self.RY, self.N)
            emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, self.N, comment)
    }
}

/* Load is "rX = mem[rY + N]" ("loadn") or a stack pop ("popr"). */
type Load struct {
    InstrBase
    RX *ssa.PhysReg
    RY *ssa.PhysReg
    N  int
}

func (self *Load) Emit(w io.Writer) {
    if self.Mnemonic == "loadn" {
        comment := fmt.Sprintf("%s = mem[%s + %d]", self.RX, self.RY, self.N)
        emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, self.N, comment)
    } else {
        comment := fmt.Sprintf("%s = mem[--%s]", self.RX, self.RY)
        emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, "", comment)
    }
}

/* Store is "mem[rY + N] = rX" ("storen") or a stack push ("pushr"). */
type Store struct {
    InstrBase
    RX *ssa.PhysReg
    RY *ssa.PhysReg
    N  int
}

func (self *Store) Emit(w io.Writer) {
    if self.Mnemonic == "storen" {
        comment := fmt.Sprintf("mem[%s + %d] = %s", self.RY, self.N, self.RX)
        emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, self.N, comment)
    } else {
        comment := fmt.Sprintf("mem[%s++] = %s", self.RY, self.RX)
        emitLine(w, self.PC, self.Mnemonic, self.RX, self.RY, "", comment)
    }
}

/* Read reads an integer from standard input into RX. */
type Read struct {
    InstrBase
    RX *ssa.PhysReg
}

func (self *Read) Emit(w io.Writer) {
    emitLine(w, self.PC, self.Mnemonic, self.RX, "", "", fmt.Sprintf("%s = read()", self.RX))
}

/* Write writes the integer in RX to standard output. */
type Write struct {
    InstrBase
    RX *ssa.PhysReg
}

func (self *Write) Emit(w io.Writer) {
    emitLine(w, self.PC, self.Mnemonic, self.RX, "", "", fmt.Sprintf("write(%s)", self.RX))
}

/* Halt stops the machine; only the program header emits one. */
type Halt struct {
    InstrBase
}

func (self *Halt) Emit(w io.Writer) {
    emitLine(w, self.PC, self.Mnemonic, "", "", "", "halt the machine")
}
