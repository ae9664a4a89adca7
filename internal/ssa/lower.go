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

/* Each HIR value lowers itself to one or more LIR instructions, remembers the
 * last one produced and returns it; repeated calls return the cached LIR
 * without re-emitting, so operands shared between values lower exactly once. */

func (self *HirBase) cfg() *CFG {
    return self.Block.Cfg
}

func (self *HirBase) lirBase(mnemonic string) LirBase {
    return LirBase { Block: self.Block, Id: self.cfg().nextLirId(), Mnemonic: mnemonic }
}

func (self *HirBase) emit(p Lir) Lir {
    self.Block.Lir = append(self.Block.Lir, p)
    self.lir = p
    return p
}

func (self *HirBase) lowerOperand(id int) Lir {
    return self.cfg().Lookup(id).toLir()
}

func (self *HirIConst) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }
    ins := &LirIConst { LirBase: self.lirBase(hir2lir[self.Mnemonic]), N: self.N }
    ins.setWrite(self.cfg().newVirtReg())
    return self.emit(ins)
}

func (self *HirLoadParam) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }

    /* parameter k lives at FP - (k + 3): below the saved RA, the saved FP and
     * the slot FP itself points at */
    ins := &LirLoad { LirBase: self.lirBase("load"), N: -(self.Index + 3) }
    ins.Reads = []Reg { RegInfo[FP] }
    ins.setWrite(self.cfg().newVirtReg())
    return self.emit(ins)
}

func (self *HirArith) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }
    lhs := self.lowerOperand(self.Lhs)
    rhs := self.lowerOperand(self.Rhs)
    ins := &LirArith { LirBase: self.lirBase(hir2lir[self.Mnemonic]) }
    ins.Reads = []Reg { lhs.base().Write, rhs.base().Write }
    ins.setWrite(self.cfg().newVirtReg())
    return self.emit(ins)
}

func (self *HirJump) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }
    if self.FalseBlock == nil {
        ins := &LirJump { LirBase: self.lirBase(hir2lir[self.Mnemonic]), TrueBlock: self.TrueBlock }
        return self.emit(ins)
    }
    lhs := self.lowerOperand(self.Lhs)
    rhs := self.lowerOperand(self.Rhs)
    ins := &LirJump {
        LirBase    : self.lirBase(hir2lir[self.Mnemonic]),
        TrueBlock  : self.TrueBlock,
        FalseBlock : self.FalseBlock,
    }
    ins.Reads = []Reg { lhs.base().Write, rhs.base().Write }
    return self.emit(ins)
}

func (self *HirCall) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }
    cfg := self.cfg()

    /* read()I and write(I)V are machine IO, not calls */
    if self.IsIO && self.Name == "read" {
        ins := &LirRead { LirBase: self.lirBase("read") }
        ins.setWrite(cfg.newVirtReg())
        return self.emit(ins)
    }
    if self.IsIO && self.Name == "write" {
        arg := self.lowerOperand(self.Args[0])
        ins := &LirWrite { LirBase: self.lirBase("write") }
        ins.Reads = []Reg { arg.base().Write }
        return self.emit(ins)
    }

    /* arguments are pushed right to left; the callee addresses them through
     * its frame pointer */
    for i := len(self.Args) - 1; i >= 0; i-- {
        arg := self.lowerOperand(self.Args[i])
        push := &LirStore { LirBase: self.lirBase("push") }
        push.Reads = []Reg { arg.base().Write, RegInfo[SP] }
        self.emit(push)
    }

    call := &LirCall { LirBase: self.lirBase(hir2lir[self.Mnemonic]), Name: self.Name, Desc: self.Desc }
    if self.Type != "V" {
        call.setWrite(RegInfo[RV])
    }
    cfg.trackRegister(RegInfo[RA])
    self.emit(call)

    /* drop the argument slots */
    inc := &LirInc { LirBase: self.lirBase("inc"), N: -len(self.Args) }
    inc.setWrite(RegInfo[SP])
    self.emit(inc)

    /* the return value moves from RV into a virtual register of its own */
    if self.Type != "V" {
        cp := &LirCopy { LirBase: self.lirBase("copy") }
        cp.Reads = []Reg { RegInfo[RV] }
        cp.setWrite(cfg.newVirtReg())
        self.emit(cp)
    }
    return self.lir
}

func (self *HirPhi) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }

    /* the placeholder exists to own the phi's result register; it is not
     * appended to any block's LIR list */
    ins := &LirPhi { LirBase: self.lirBase(hir2lir[self.Mnemonic]) }
    ins.setWrite(self.cfg().newVirtReg())
    self.lir = ins
    return ins
}

func (self *HirReturn) toLir() Lir {
    if self.lir != nil {
        return self.lir
    }
    if self.Value != -1 {
        result := self.lowerOperand(self.Value)
        cp := &LirCopy { LirBase: self.lirBase("copy") }
        cp.Reads = []Reg { result.base().Write }
        cp.setWrite(RegInfo[RV])
        self.emit(cp)
    }
    ins := &LirJump { LirBase: self.lirBase(hir2lir[self.Mnemonic]), ReturnFromMethod: true }
    return self.emit(ins)
}

// Lower converts the HIR of every block, in block order, to LIR.
type Lower struct{}

func (Lower) Name() string {
    return "HIR to LIR Lowering"
}

func (Lower) Apply(cfg *CFG) {
    cfg.lirId = 0
    cfg.regId = 16
    cfg.Registers = make([]Reg, 16)

    for _, b := range cfg.Blocks {
        for _, ins := range b.Hir {
            ins.toLir()
        }
    }
}
