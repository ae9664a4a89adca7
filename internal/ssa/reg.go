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

/* Marvin has sixteen physical registers. R0..R11 are temporaries available to
 * the allocator; the remaining four are permanently assigned. */
const (
    R0 = iota
    R1
    R2
    R3
    R4
    R5
    R6
    R7
    R8
    R9
    R10
    R11
    RA  // return address
    RV  // return value
    FP  // frame pointer
    SP  // stack pointer
)

// MaxTempRegs is the number of temporary registers available for allocation.
const MaxTempRegs = 12

// Reg is a register operand of an LIR instruction, either physical or virtual.
type Reg interface {
    Number() int
    String() string
}

// PhysReg is one of the sixteen Marvin registers.
type PhysReg struct {
    number int
    name   string
}

func (self *PhysReg) Number() int    { return self.number }
func (self *PhysReg) String() string { return self.name }

// RegInfo maps a physical register number to its singleton representation.
var RegInfo = [16]*PhysReg {
    {R0, "r0"},   {R1, "r1"},   {R2, "r2"},   {R3, "r3"},
    {R4, "r4"},   {R5, "r5"},   {R6, "r6"},   {R7, "r7"},
    {R8, "r8"},   {R9, "r9"},   {R10, "r10"}, {R11, "r11"},
    {RA, "r12"},  {RV, "r13"},  {FP, "r14"},  {SP, "r15"},
}

// VirtReg is a virtual register awaiting assignment of a physical one.
// Numbers start at 16 so that physical and virtual registers share one
// numbering space.
type VirtReg struct {
    number int

    /* filled in by register allocation */
    Phys   *PhysReg
    Spill  bool
    Offset int
}

func newVirtReg(number int) *VirtReg {
    return &VirtReg { number: number, Offset: -1 }
}

func (self *VirtReg) Number() int    { return self.number }
func (self *VirtReg) String() string { return "v" + itoa(self.number) }

// PhysOf returns the physical register backing r.
func PhysOf(r Reg) *PhysReg {
    if p, ok := r.(*PhysReg); ok {
        return p
    }
    return r.(*VirtReg).Phys
}
