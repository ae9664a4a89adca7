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
    `strings`

    `github.com/iotalang/iotac/internal/classfile`
)

var jvm2hir = map[int]string {
    classfile.LDC       : "ldc",
    classfile.IADD      : "+",
    classfile.IDIV      : "/",
    classfile.IMUL      : "*",
    classfile.IREM      : "%",
    classfile.ISUB      : "-",
    classfile.GOTO      : "goto",
    classfile.IF_ICMPEQ : "==",
    classfile.IF_ICMPGE : ">=",
    classfile.IF_ICMPGT : ">",
    classfile.IF_ICMPLE : "<=",
    classfile.IF_ICMPLT : "<",
    classfile.IF_ICMPNE : "!=",
}

var hir2lir = map[string]string {
    "phi"     : "phi",
    "ldc"     : "set",
    "+"       : "add",
    "/"       : "div",
    "*"       : "mul",
    "%"       : "mod",
    "-"       : "sub",
    "goto"    : "jump",
    "=="      : "jeq",
    ">="      : "jge",
    ">"       : "jgt",
    "<="      : "jle",
    "<"       : "jlt",
    "!="      : "jne",
    "invoke"  : "call",
    "return"  : "return",
    "ireturn" : "return",
}

// Hir is one SSA value. Every value has a unique id and every use is by id,
// resolved through the owning CFG's HirMap.
type Hir interface {
    base() *HirBase
    String() string
    toLir() Lir
}

// HirBase carries the fields shared by all HIR variants.
type HirBase struct {
    Block    *BasicBlock
    Id       int
    Mnemonic string

    /* "I" for int values, "V" for void calls, "" for no type */
    Type string

    /* the last LIR instruction produced when this value was lowered */
    lir Lir
}

func (self *HirBase) base() *HirBase { return self }

// Ref returns the value's display id, e.g. "I7".
func (self *HirBase) Ref() string {
    return self.Type + itoa(self.Id)
}

// LirOf returns the LIR node a lowered HIR value is backed by.
func LirOf(h Hir) Lir {
    return h.base().lir
}

func (self *HirBase) lookup(id int) Hir {
    return self.Block.Cfg.Lookup(id)
}

/* HirIConst is an integer constant. */
type HirIConst struct {
    HirBase
    N int
}

/* HirLoadParam loads formal parameter Index. */
type HirLoadParam struct {
    HirBase
    Index int
}

/* HirArith is a two-operand integer arithmetic value. */
type HirArith struct {
    HirBase
    Lhs int
    Rhs int
}

/* HirJump is a conditional or unconditional jump. Lhs/Rhs are -1 and
 * FalseBlock nil for the unconditional form. */
type HirJump struct {
    HirBase
    Lhs        int
    Rhs        int
    TrueBlock  *BasicBlock
    FalseBlock *BasicBlock
}

/* HirCall is a static method call; IsIO marks the read()/write() builtins
 * which lower to machine IO instead of a call sequence. */
type HirCall struct {
    HirBase
    Name string
    Desc string
    Args []int
    IsIO bool
}

/* HirPhi merges one value per predecessor; Args is indexed in lockstep with
 * the owning block's predecessor list. Index is the local-variable slot the
 * phi is bound to, or -1 for the return-value phi. */
type HirPhi struct {
    HirBase
    Args  []Hir
    Index int
}

/* HirReturn leaves the method, optionally with value id Value (-1 if none). */
type HirReturn struct {
    HirBase
    Value int
}

func (self *HirIConst) String() string {
    return fmt.Sprintf("%s: %s %d", self.Ref(), self.Mnemonic, self.N)
}

func (self *HirLoadParam) String() string {
    return fmt.Sprintf("%s: %s %d", self.Ref(), self.Mnemonic, self.Index)
}

func (self *HirArith) String() string {
    return fmt.Sprintf("%s: %s %s %s", self.Ref(), self.lookup(self.Lhs).base().Ref(), self.Mnemonic, self.lookup(self.Rhs).base().Ref())
}

func (self *HirJump) String() string {
    if self.FalseBlock == nil {
        return fmt.Sprintf("%s: %s %s", self.Ref(), self.Mnemonic, self.TrueBlock.Name())
    }
    return fmt.Sprintf("%s: if %s %s %s then %s else %s", self.Ref(),
        self.lookup(self.Lhs).base().Ref(), self.Mnemonic, self.lookup(self.Rhs).base().Ref(),
        self.TrueBlock.Name(), self.FalseBlock.Name())
}

func (self *HirCall) String() string {
    args := make([]string, 0, len(self.Args))
    for _, a := range self.Args {
        args = append(args, self.lookup(a).base().Ref())
    }
    return fmt.Sprintf("%s: %s %s(%s)", self.Ref(), self.Mnemonic, self.Name, strings.Join(args, ", "))
}

func (self *HirPhi) String() string {
    args := make([]string, 0, len(self.Args))
    for _, a := range self.Args {
        if a == nil {
            args = append(args, "?")
        } else {
            args = append(args, a.base().Ref())
        }
    }
    return fmt.Sprintf("%s: %s(%s)", self.Ref(), self.Mnemonic, strings.Join(args, ", "))
}

func (self *HirReturn) String() string {
    if self.Value == -1 {
        return fmt.Sprintf("%s: %s", self.Ref(), self.Mnemonic)
    }
    return fmt.Sprintf("%s: %s %s", self.Ref(), self.Mnemonic, self.lookup(self.Value).base().Ref())
}
