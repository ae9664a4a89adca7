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

package classfile

import (
	"fmt"
)

// Assembler builds the bytecode of one method. Branch targets are symbolic
// labels resolved to signed 16-bit offsets (relative to the branch opcode's
// pc) when the method is sealed.
type Assembler struct {
	file      *File
	method    *Method
	code      []byte
	labels    map[string]int
	patches   []patch
	nextLabel int
}

type patch struct {
	pc    int
	label string
}

// NewAssembler creates an assembler emitting into the given file.
func NewAssembler(file *File) *Assembler {
	return &Assembler{file: file, labels: make(map[string]int)}
}

// StartMethod begins a new method record.
func (self *Assembler) StartMethod(name string, desc string) {
	self.method = &Method{Name: name, Desc: desc}
	self.code = self.code[:0]
	self.labels = make(map[string]int)
	self.patches = self.patches[:0]
}

// EndMethod resolves labels, attaches the bytecode and appends the method to
// the file. maxLocals is the number of local slots (parameters included).
func (self *Assembler) EndMethod(maxLocals int) {
	for _, p := range self.patches {
		target, ok := self.labels[p.label]
		if !ok {
			panic(fmt.Sprintf("classfile: unresolved label %q in %s", p.label, self.method.Key()))
		}
		off := target - p.pc
		self.code[p.pc+1] = byte(uint16(int16(off)) >> 8)
		self.code[p.pc+2] = byte(uint16(int16(off)))
	}
	self.method.MaxLocals = maxLocals
	self.method.Code = append([]byte(nil), self.code...)
	self.file.Methods = append(self.file.Methods, self.method)
	self.method = nil
}

// CreateLabel returns a fresh unique label name.
func (self *Assembler) CreateLabel() string {
	self.nextLabel++
	return fmt.Sprintf("L%d", self.nextLabel)
}

// AddLabel binds the given label to the current pc.
func (self *Assembler) AddLabel(label string) {
	self.labels[label] = len(self.code)
}

// AddNoArg emits an operand-less instruction.
func (self *Assembler) AddNoArg(op int) {
	self.code = append(self.code, byte(op))
}

// AddLDC emits an LDC of the given integer, interning it in the pool. Small
// constants 0 and 1 use their dedicated opcodes.
func (self *Assembler) AddLDC(v int) {
	switch v {
	case 0:
		self.AddNoArg(ICONST_0)
	case 1:
		self.AddNoArg(ICONST_1)
	default:
		index := self.file.Pool.AddInt(v)
		if index > 0xff {
			panic(fmt.Sprintf("classfile: constant pool overflow in %s", self.method.Key()))
		}
		self.code = append(self.code, LDC, byte(index))
	}
}

// AddLoadStore emits an ILOAD or ISTORE of the given local slot.
func (self *Assembler) AddLoadStore(op int, index int) {
	self.code = append(self.code, byte(op), byte(index))
}

// AddBranch emits a branch instruction targeting a label.
func (self *Assembler) AddBranch(op int, label string) {
	self.patches = append(self.patches, patch{pc: len(self.code), label: label})
	self.code = append(self.code, byte(op), 0, 0)
}

// AddInvoke emits an INVOKESTATIC of the named method.
func (self *Assembler) AddInvoke(name string, desc string) {
	index := self.file.Pool.AddMethodref(name, desc)
	self.code = append(self.code, INVOKESTATIC, byte(index>>8), byte(index))
}
