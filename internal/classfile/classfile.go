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

// Package classfile holds the in-memory class-file-like structure the iota
// front end produces and the back end consumes: a constant pool, a list of
// method records with linear bytecode, and the descriptor utilities shared by
// both ends of the pipeline.
package classfile

import (
	"fmt"
)

// File is the unit of compilation handed to the back end.
type File struct {
	Pool    *ConstantPool
	Methods []*Method
}

// Method is one static method: its name, descriptor, local-slot count and
// linear bytecode.
type Method struct {
	Name      string
	Desc      string
	MaxLocals int
	Code      []byte
}

// Key returns the name+descriptor identifier used to address the method.
func (self *Method) Key() string {
	return self.Name + self.Desc
}

// IsBuiltin reports whether the method is one of the iota IO builtins, whose
// bodies are provided by the machine and never compiled.
func (self *Method) IsBuiltin() bool {
	switch self.Key() {
	case "read()I", "write(I)V", "write(Z)V":
		return true
	}
	return false
}

// ConstantPool is a reduced pool holding only what iota needs: integer
// constants (for LDC) and method references (for INVOKESTATIC).
type ConstantPool struct {
	items []poolItem
}

type poolItem struct {
	value  int
	name   string
	desc   string
	method bool
}

// NewConstantPool creates an empty pool. Index 0 is reserved and never handed
// out, matching the JVM convention.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{items: make([]poolItem, 1)}
}

// AddInt interns an integer constant and returns its pool index.
func (self *ConstantPool) AddInt(v int) int {
	for i, it := range self.items[1:] {
		if !it.method && it.value == v {
			return i + 1
		}
	}
	self.items = append(self.items, poolItem{value: v})
	return len(self.items) - 1
}

// AddMethodref interns a method reference and returns its pool index.
func (self *ConstantPool) AddMethodref(name string, desc string) int {
	for i, it := range self.items[1:] {
		if it.method && it.name == name && it.desc == desc {
			return i + 1
		}
	}
	self.items = append(self.items, poolItem{name: name, desc: desc, method: true})
	return len(self.items) - 1
}

// Int returns the integer constant at the given pool index.
func (self *ConstantPool) Int(index int) int {
	if index <= 0 || index >= len(self.items) || self.items[index].method {
		panic(fmt.Sprintf("classfile: pool index %d is not an integer constant", index))
	}
	return self.items[index].value
}

// Methodref returns the (name, descriptor) pair at the given pool index.
func (self *ConstantPool) Methodref(index int) (string, string) {
	if index <= 0 || index >= len(self.items) || !self.items[index].method {
		panic(fmt.Sprintf("classfile: pool index %d is not a methodref", index))
	}
	return self.items[index].name, self.items[index].desc
}
