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

    `github.com/iotalang/iotac/internal/classfile`
    `github.com/oleiade/lane`
)

// hirBuilder interprets each block's tuples over an emulated JVM operand
// stack, materializing HIR values and phi functions at merges. Blocks are
// visited breadth-first from the entry; the per-block Locals vector carries
// the reaching definition of every local slot.
type hirBuilder struct {
    cfg   *CFG
    stack []int
}

func (self *hirBuilder) push(id int) {
    self.stack = append(self.stack, id)
}

func (self *hirBuilder) pop() int {
    n := len(self.stack)
    if n == 0 {
        panic(fmt.Sprintf("ssa: %s%s: operand stack underflow", self.cfg.Name, self.cfg.Desc))
    }
    id := self.stack[n - 1]
    self.stack = self.stack[:n - 1]
    return id
}

func (self *hirBuilder) install(b *BasicBlock, h Hir) Hir {
    b.Hir = append(b.Hir, h)
    self.cfg.HirMap[h.base().Id] = h
    return h
}

func (self *hirBuilder) hirBase(b *BasicBlock, mnemonic string, typ string) HirBase {
    return HirBase { Block: b, Id: self.cfg.nextHirId(), Mnemonic: mnemonic, Type: typ }
}

/* The state vectors of the block's predecessors merge into a phi function per
 * local slot. Arguments of predecessors that have not been visited yet stay
 * nil and are resolved during phi cleanup. */
func (self *hirBuilder) mergeLocals(b *BasicBlock) {
    locals := make([]Hir, self.cfg.NumLocals)
    for i := range locals {
        args := make([]Hir, 0, len(b.Preds))
        for _, pred := range b.Preds {
            if pred.Locals == nil {
                args = append(args, nil)
            } else {
                args = append(args, pred.Locals[i])
            }
        }
        phi := &HirPhi { HirBase: self.hirBase(b, "phi", "I"), Args: args, Index: i }
        self.install(b, phi)
        locals[i] = phi
    }
    b.Locals = locals
}

func (self *hirBuilder) buildBlock(b *BasicBlock) {
    cfg := self.cfg

    /* the block inherits a single predecessor's state vector, or merges
     * several through phi functions */
    if len(b.Preds) == 1 {
        b.Locals = append([]Hir(nil), b.Preds[0].Locals...)
    } else if len(b.Preds) > 1 {
        self.mergeLocals(b)
    }

    for _, t := range b.Tuples {
        switch t.Opcode {
            default: {
                panic(fmt.Sprintf("ssa: %s%s: unexpected opcode %#02x at pc %d", cfg.Name, cfg.Desc, t.Opcode, t.Pc))
            }

            case classfile.ICONST_0, classfile.ICONST_1, classfile.LDC: {
                v := t.Value
                if t.Opcode == classfile.ICONST_0 { v = 0 }
                if t.Opcode == classfile.ICONST_1 { v = 1 }
                ins := &HirIConst { HirBase: self.hirBase(b, "ldc", "I"), N: v }
                self.install(b, ins)
                self.push(ins.Id)
            }

            case classfile.ILOAD: {
                self.push(b.Locals[t.Index].base().Id)
            }

            case classfile.ISTORE: {
                b.Locals[t.Index] = cfg.Lookup(self.pop())
            }

            case classfile.DUP: {
                self.push(self.stack[len(self.stack) - 1])
            }

            case classfile.POP: {
                self.pop()
            }

            /* -x rewrites as -1 * x */
            case classfile.INEG: {
                m1 := &HirIConst { HirBase: self.hirBase(b, "ldc", "I"), N: -1 }
                rhs := self.pop()
                ins := &HirArith { HirBase: self.hirBase(b, jvm2hir[classfile.IMUL], "I"), Lhs: m1.Id, Rhs: rhs }
                self.install(b, m1)
                self.install(b, ins)
                self.push(ins.Id)
            }

            case classfile.IADD, classfile.IDIV, classfile.IMUL, classfile.IREM, classfile.ISUB: {
                rhs := self.pop()
                lhs := self.pop()
                ins := &HirArith { HirBase: self.hirBase(b, jvm2hir[t.Opcode], "I"), Lhs: lhs, Rhs: rhs }
                self.install(b, ins)
                self.push(ins.Id)
            }

            case classfile.GOTO: {
                ins := &HirJump { HirBase: self.hirBase(b, "goto", ""), Lhs: -1, Rhs: -1, TrueBlock: cfg.pcToBlock[t.Target] }
                self.install(b, ins)
            }

            /* ifeq/ifne rewrite as a comparison against zero */
            case classfile.IFEQ, classfile.IFNE: {
                zero := &HirIConst { HirBase: self.hirBase(b, "ldc", "I"), N: 0 }
                lhs := self.pop()
                op := classfile.IF_ICMPEQ
                if t.Opcode == classfile.IFNE {
                    op = classfile.IF_ICMPNE
                }
                ins := &HirJump {
                    HirBase    : self.hirBase(b, jvm2hir[op], ""),
                    Lhs        : lhs,
                    Rhs        : zero.Id,
                    TrueBlock  : cfg.pcToBlock[t.Target],
                    FalseBlock : cfg.pcToBlock[t.Pc + 3],
                }
                self.install(b, zero)
                self.install(b, ins)
            }

            case classfile.IF_ICMPEQ, classfile.IF_ICMPGE, classfile.IF_ICMPGT,
                 classfile.IF_ICMPLE, classfile.IF_ICMPLT, classfile.IF_ICMPNE: {
                rhs := self.pop()
                lhs := self.pop()
                ins := &HirJump {
                    HirBase    : self.hirBase(b, jvm2hir[t.Opcode], ""),
                    Lhs        : lhs,
                    Rhs        : rhs,
                    TrueBlock  : cfg.pcToBlock[t.Target],
                    FalseBlock : cfg.pcToBlock[t.Pc + 3],
                }
                self.install(b, ins)
            }

            case classfile.INVOKESTATIC: {
                nargs := classfile.ArgCount(t.Desc)
                args := make([]int, nargs)
                for i := nargs - 1; i >= 0; i-- {
                    args[i] = self.pop()
                }
                ret := classfile.ReturnType(t.Desc)
                isIO := (t.Name == "read" && t.Desc == "()I") || (t.Name == "write" && t.Desc == "(I)V")
                ins := &HirCall {
                    HirBase : self.hirBase(b, "invoke", ret),
                    Name    : t.Name,
                    Desc    : t.Desc,
                    Args    : args,
                    IsIO    : isIO,
                }
                self.install(b, ins)
                if ret != "V" {
                    self.push(ins.Id)
                }
            }

            case classfile.RETURN: {
                ins := &HirReturn { HirBase: self.hirBase(b, "return", ""), Value: -1 }
                self.install(b, ins)
                if len(self.stack) != 0 {
                    panic(fmt.Sprintf("ssa: %s%s: operand stack not empty at return", cfg.Name, cfg.Desc))
                }
            }

            case classfile.IRETURN: {
                var value int
                if len(self.stack) > 1 {
                    /* the return value is one of several still on the stack;
                     * a phi over them (bottom to top) captures the choice */
                    args := make([]Hir, len(self.stack))
                    for i := len(self.stack) - 1; i >= 0; i-- {
                        args[i] = cfg.Lookup(self.pop())
                    }
                    phi := &HirPhi { HirBase: self.hirBase(b, "phi", "I"), Args: args, Index: -1 }
                    self.install(b, phi)
                    value = phi.Id
                } else {
                    value = self.pop()
                }
                ins := &HirReturn { HirBase: self.hirBase(b, "ireturn", "I"), Value: value }
                self.install(b, ins)
            }
        }
    }
}

// buildHir converts every block's tuples to HIR, breadth-first from the entry.
func buildHir(cfg *CFG) {
    b := &hirBuilder { cfg: cfg }

    /* the entry block loads every declared formal parameter */
    source := cfg.Entry()
    locals := make([]Hir, cfg.NumLocals)
    for i := range classfile.ArgTypes(cfg.Desc) {
        ins := &HirLoadParam { HirBase: b.hirBase(source, "ldparam", "I"), Index: i }
        b.install(source, ins)
        locals[i] = ins
    }
    source.Locals = locals

    for _, block := range cfg.Blocks {
        block.isVisited = false
    }

    q := lane.NewQueue()
    source.isVisited = true
    for q.Enqueue(source); !q.Empty(); {
        block := q.Dequeue().(*BasicBlock)
        for _, succ := range block.Succs {
            if !succ.isVisited {
                succ.isVisited = true
                q.Enqueue(succ)
            }
        }
        b.buildBlock(block)
    }
}
