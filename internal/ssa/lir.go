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
    `fmt`
)

// Lir is one register-transfer instruction over the unbounded virtual
// register file. It is nearly isomorphic to Marvin except for virtual
// registers and symbolic jump targets.
type Lir interface {
    base() *LirBase
    String() string
}

// LirBase carries the fields shared by all LIR variants.
type LirBase struct {
    Block    *BasicBlock
    Id       int
    Mnemonic string
    Reads    []Reg
    Write    Reg
}

func (self *LirBase) base() *LirBase { return self }

func (self *LirBase) setWrite(r Reg) {
    self.Write = r
    self.Block.Cfg.trackRegister(r)
}

/* LirIConst sets a register to a constant. */
type LirIConst struct {
    LirBase
    N int
}

/* LirArith is a three-operand arithmetic instruction. */
type LirArith struct {
    LirBase
}

/* LirCopy copies one register into another. */
type LirCopy struct {
    LirBase
}

/* LirInc adjusts a register by a constant. */
type LirInc struct {
    LirBase
    N int
}

/* LirJump is a conditional jump, an unconditional jump, or (with
 * ReturnFromMethod set and both blocks nil) a return. */
type LirJump struct {
    LirBase
    TrueBlock        *BasicBlock
    FalseBlock       *BasicBlock
    ReturnFromMethod bool
}

/* LirLoad loads from memory: "load" at a base+offset, "pop" from the stack. */
type LirLoad struct {
    LirBase
    N int
}

/* LirStore stores to memory: "store" at a base+offset, "push" onto the stack. */
type LirStore struct {
    LirBase
    N int
}

/* LirCall transfers control to a named method; the return value, if any,
 * arrives in RV. */
type LirCall struct {
    LirBase
    Name string
    Desc string
}

/* LirRead reads an integer from standard input. */
type LirRead struct {
    LirBase
}

/* LirWrite writes an integer to standard output. */
type LirWrite struct {
    LirBase
}

/* LirPhi is a placeholder owning the phi's result register. It is never
 * inserted into a block's LIR list. */
type LirPhi struct {
    LirBase
}

func (self *LirIConst) String() string {
    return fmt.Sprintf("%d: %s %s %d", self.Id, self.Mnemonic, self.Write, self.N)
}

func (self *LirArith) String() string {
    return fmt.Sprintf("%d: %s %s %s %s", self.Id, self.Mnemonic, self.Write, self.Reads[0], self.Reads[1])
}

func (self *LirCopy) String() string {
    return fmt.Sprintf("%d: %s %s %s", self.Id, self.Mnemonic, self.Write, self.Reads[0])
}

func (self *LirInc) String() string {
    return fmt.Sprintf("%d: %s %s %d", self.Id, self.Mnemonic, self.Write, self.N)
}

func (self *LirJump) String() string {
    if self.TrueBlock == nil && self.FalseBlock == nil {
        return fmt.Sprintf("%d: %s", self.Id, self.Mnemonic)
    }
    if self.FalseBlock == nil {
        return fmt.Sprintf("%d: %s %s", self.Id, self.Mnemonic, self.TrueBlock.Name())
    }
    return fmt.Sprintf("%d: %s %s %s %s %s", self.Id, self.Mnemonic, self.Reads[0], self.Reads[1],
        self.TrueBlock.Name(), self.FalseBlock.Name())
}

func (self *LirLoad) String() string {
    if self.Mnemonic == "pop" {
        return fmt.Sprintf("%d: %s %s %s", self.Id, self.Mnemonic, self.Write, self.Reads[0])
    }
    return fmt.Sprintf("%d: %s %s %s %d", self.Id, self.Mnemonic, self.Write, self.Reads[0], self.N)
}

func (self *LirStore) String() string {
    if self.Mnemonic == "push" {
        return fmt.Sprintf("%d: %s %s %s", self.Id, self.Mnemonic, self.Reads[0], self.Reads[1])
    }
    return fmt.Sprintf("%d: %s %s %s %d", self.Id, self.Mnemonic, self.Reads[0], self.Reads[1], self.N)
}

func (self *LirCall) String() string {
    if self.Write != nil {
        return fmt.Sprintf("%d: %s %s %s%s", self.Id, self.Write, self.Mnemonic, self.Name, self.Desc)
    }
    return fmt.Sprintf("%d: %s %s%s", self.Id, self.Mnemonic, self.Name, self.Desc)
}

func (self *LirRead) String() string {
    return fmt.Sprintf("%d: %s %s", self.Id, self.Mnemonic, self.Write)
}

func (self *LirWrite) String() string {
    return fmt.Sprintf("%d: %s %s", self.Id, self.Mnemonic, self.Reads[0])
}

func (self *LirPhi) String() string {
    return fmt.Sprintf("%d: %s %s", self.Id, self.Mnemonic, self.Write)
}
