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
)

// Tuple is the positional decoding of one bytecode instruction, keyed by its
// bytecode pc. The CFG builder sets IsLeader; everything else is immutable
// after decoding.
type Tuple struct {
    Pc       int
    Opcode   int
    IsLeader bool

    /* constant-load operand (LDC) */
    Value int

    /* local slot operand (ILOAD / ISTORE) */
    Index int

    /* absolute branch target pc (GOTO / IF*) */
    Target int

    /* resolved callee (INVOKESTATIC) */
    Name string
    Desc string
}

func (self *Tuple) isBranch() bool {
    switch self.Opcode {
        case classfile.GOTO,
             classfile.IFEQ, classfile.IFNE,
             classfile.IF_ICMPEQ, classfile.IF_ICMPNE,
             classfile.IF_ICMPLT, classfile.IF_ICMPGE,
             classfile.IF_ICMPGT, classfile.IF_ICMPLE:
            return true
    }
    return false
}

func (self *Tuple) String() string {
    mn := classfile.Mnemonic(self.Opcode)
    switch self.Opcode {
        case classfile.LDC                             : return fmt.Sprintf("%d: %s %d", self.Pc, mn, self.Value)
        case classfile.ILOAD, classfile.ISTORE         : return fmt.Sprintf("%d: %s %d", self.Pc, mn, self.Index)
        case classfile.INVOKESTATIC                    : return fmt.Sprintf("%d: %s %s%s", self.Pc, mn, self.Name, self.Desc)
        default:
            if self.isBranch() {
                return fmt.Sprintf("%d: %s %d", self.Pc, mn, self.Target)
            }
            return fmt.Sprintf("%d: %s", self.Pc, mn)
    }
}

// decodeTuples walks the linear bytecode and emits one tuple per instruction.
// Branch offsets are 16-bit signed and folded into absolute target pcs here;
// callee descriptors are normalized so booleans read as integers. Malformed
// bytecode fails loudly: it can only come from a broken front end.
func decodeTuples(pool *classfile.ConstantPool, code []byte) []*Tuple {
    var tuples []*Tuple

    /* walk the bytecode, consuming each opcode's operand bytes */
    for i := 0; i < len(code); i++ {
        pc := i
        op := int(code[i])

        /* decode by opcode category */
        switch op {
            default: {
                panic(fmt.Sprintf("ssa: unexpected opcode %#02x at pc %d", op, pc))
            }

            /* no operands */
            case classfile.DUP,
                 classfile.POP,
                 classfile.IADD,
                 classfile.ISUB,
                 classfile.IMUL,
                 classfile.IDIV,
                 classfile.IREM,
                 classfile.INEG,
                 classfile.ICONST_0,
                 classfile.ICONST_1,
                 classfile.IRETURN,
                 classfile.RETURN: {
                tuples = append(tuples, &Tuple { Pc: pc, Opcode: op })
            }

            /* one-byte constant pool index */
            case classfile.LDC: {
                i++
                v := pool.Int(int(code[i]))
                tuples = append(tuples, &Tuple { Pc: pc, Opcode: op, Value: v })
            }

            /* one-byte local slot index */
            case classfile.ILOAD, classfile.ISTORE: {
                i++
                tuples = append(tuples, &Tuple { Pc: pc, Opcode: op, Index: int(code[i]) })
            }

            /* two-byte signed branch offset, relative to the branch pc */
            case classfile.GOTO,
                 classfile.IFEQ, classfile.IFNE,
                 classfile.IF_ICMPEQ, classfile.IF_ICMPNE,
                 classfile.IF_ICMPLT, classfile.IF_ICMPGE,
                 classfile.IF_ICMPGT, classfile.IF_ICMPLE: {
                off := int16(uint16(code[i + 1]) << 8 | uint16(code[i + 2]))
                i += 2
                tuples = append(tuples, &Tuple { Pc: pc, Opcode: op, Target: pc + int(off) })
            }

            /* two-byte constant pool index of a methodref */
            case classfile.INVOKESTATIC: {
                index := int(code[i + 1]) << 8 | int(code[i + 2])
                i += 2
                name, desc := pool.Methodref(index)
                desc = classfile.NormalizeDesc(desc)
                tuples = append(tuples, &Tuple { Pc: pc, Opcode: op, Name: name, Desc: desc })
            }
        }
    }
    return tuples
}
