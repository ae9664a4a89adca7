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

// BasicBlock is a maximal straight-line tuple sequence with a single entry and
// a single exit. Predecessor and successor lists are ordered: a phi function's
// argument at index i belongs to Preds[i].
type BasicBlock struct {
    Id  int
    Cfg *CFG

    Tuples []*Tuple
    Preds  []*BasicBlock
    Succs  []*BasicBlock

    IsLoopHead bool
    IsLoopTail bool

    /* traversal state, transient */
    isVisited bool
    isActive  bool

    /* which HIR value holds local i on entry to this block */
    Locals []Hir

    /* the three IR lists, populated in pipeline order */
    Hir []Hir
    Lir []Lir

    /* liveness sets, indexed by register number */
    LiveUse *BitSet
    LiveDef *BitSet
    LiveIn  *BitSet
    LiveOut *BitSet
}

func newBasicBlock(cfg *CFG, id int) *BasicBlock {
    return &BasicBlock { Id: id, Cfg: cfg }
}

// Name returns the block's display name, e.g. "B2".
func (self *BasicBlock) Name() string {
    return "B" + itoa(self.Id)
}

func (self *BasicBlock) String() string {
    return self.Name()
}

func (self *BasicBlock) addEdge(succ *BasicBlock) {
    self.Succs = append(self.Succs, succ)
    succ.Preds = append(succ.Preds, self)
}

// CFG is the per-method control flow graph and the owner of everything the
// pipeline attaches to it: blocks, the id-addressed HIR map, the register
// catalog and the liveness intervals.
type CFG struct {
    Name string
    Desc string

    Blocks    []*BasicBlock
    NumLocals int

    /* monotonic id counters; register numbers 0..15 are reserved for the
     * physical registers */
    hirId int
    lirId int
    regId int

    /* id-addressed HIR values. All uses resolve through this map, so phi
     * cleanup can rewire every user by replacing one entry. */
    HirMap map[int]Hir

    /* register catalog: slots 0..15 are physical, 16+ virtual */
    Registers []Reg

    /* physical registers the method actually uses, in allocation order;
     * drives the prologue/epilogue save list */
    PRegisters []*PhysReg

    /* per-register liveness intervals, indexed by register number */
    Intervals []*Interval

    pcToBlock map[int]*BasicBlock
}

func newCFG(name string, desc string) *CFG {
    return &CFG {
        Name      : name,
        Desc      : desc,
        HirMap    : make(map[int]Hir),
        pcToBlock : make(map[int]*BasicBlock),
    }
}

// Entry returns the synthetic entry block B0.
func (self *CFG) Entry() *BasicBlock {
    return self.Blocks[0]
}

// Exit returns the last block. After frame synthesis this is the unique
// epilogue block.
func (self *CFG) Exit() *BasicBlock {
    return self.Blocks[len(self.Blocks) - 1]
}

func (self *CFG) nextHirId() int {
    id := self.hirId
    self.hirId++
    return id
}

func (self *CFG) nextLirId() int {
    id := self.lirId
    self.lirId++
    return id
}

func (self *CFG) newVirtReg() *VirtReg {
    r := newVirtReg(self.regId)
    self.regId++
    self.Registers = append(self.Registers, r)
    return r
}

// Lookup resolves an HIR id to its current value through the indirection map.
func (self *CFG) Lookup(id int) Hir {
    return self.HirMap[id]
}

func (self *CFG) trackRegister(r Reg) {
    if p, ok := r.(*PhysReg); ok {
        self.Registers[p.Number()] = p
    }
}
