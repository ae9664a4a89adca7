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

// Package emu is a small Marvin machine: sixteen registers, a memory-mapped
// stack growing toward higher addresses, and the instruction set pgen emits.
// It executes a linked program image so tests can observe compiled programs
// end to end.
package emu

import (
    `errors`
    `fmt`

    `github.com/iotalang/iotac/internal/pgen`
    `github.com/iotalang/iotac/internal/ssa`
)

// MemSize is the size of the emulated data memory, in words.
const MemSize = 1 << 16

// MaxSteps bounds execution so runaway programs fail instead of hanging.
const MaxSteps = 1 << 22

// ErrNoHalt reports that the program ran for MaxSteps without halting.
var ErrNoHalt = errors.New("emu: program did not halt")

// Machine is one Marvin instance. Input feeds read instructions; Output
// collects what write instructions produce.
type Machine struct {
    Regs   [16]int
    Mem    []int
    Input  []int
    Output []int

    prog []pgen.Instr
}

// NewMachine loads a linked program image.
func NewMachine(prog []pgen.Instr, input []int) *Machine {
    return &Machine {
        Mem   : make([]int, MemSize),
        Input : input,
        prog  : prog,
    }
}

func (self *Machine) reg(r *ssa.PhysReg) *int {
    return &self.Regs[r.Number()]
}

// Run executes from pc 0 until the halt instruction.
func (self *Machine) Run() error {
    pc := 0
    for steps := 0; steps < MaxSteps; steps++ {
        if pc < 0 || pc >= len(self.prog) || self.prog[pc] == nil {
            return fmt.Errorf("emu: pc %d outside the text segment", pc)
        }

        switch ins := self.prog[pc].(type) {
            default: {
                return fmt.Errorf("emu: cannot execute %T at pc %d", ins, pc)
            }

            case *pgen.Halt: {
                return nil
            }

            case *pgen.Arith: {
                x, y := *self.reg(ins.RY), *self.reg(ins.RZ)
                switch ins.Mnemonic {
                    case "add": *self.reg(ins.RX) = x + y
                    case "sub": *self.reg(ins.RX) = x - y
                    case "mul": *self.reg(ins.RX) = x * y
                    case "div":
                        if y == 0 {
                            return fmt.Errorf("emu: division by zero at pc %d", pc)
                        }
                        *self.reg(ins.RX) = x / y
                    case "mod":
                        if y == 0 {
                            return fmt.Errorf("emu: division by zero at pc %d", pc)
                        }
                        *self.reg(ins.RX) = x % y
                }
                pc++
            }

            case *pgen.Copy: {
                *self.reg(ins.RX) = *self.reg(ins.RY)
                pc++
            }

            case *pgen.IConst: {
                *self.reg(ins.RX) = ins.N
                pc++
            }

            case *pgen.Inc: {
                *self.reg(ins.RX) += ins.N
                pc++
            }

            case *pgen.Call: {
                *self.reg(ins.RX) = pc + 1
                pc = ins.N
            }

            case *pgen.Jump: {
                switch ins.Mnemonic {
                    case "jumpr": pc = *self.reg(ins.RX)
                    case "jumpn": pc = ins.N
                    default:
                        x, y := *self.reg(ins.RX), *self.reg(ins.RY)
                        taken := false
                        switch ins.Mnemonic {
                            case "jeqn": taken = x == y
                            case "jnen": taken = x != y
                            case "jltn": taken = x < y
                            case "jlen": taken = x <= y
                            case "jgtn": taken = x > y
                            case "jgen": taken = x >= y
                        }
                        if taken {
                            pc = ins.N
                        } else {
                            pc++
                        }
                }
            }

            /* the stack pointer points one past the top; pushes grow toward
             * higher addresses */
            case *pgen.Store: {
                if ins.Mnemonic == "pushr" {
                    sp := self.reg(ins.RY)
                    self.Mem[*sp] = *self.reg(ins.RX)
                    *sp = *sp + 1
                } else {
                    self.Mem[*self.reg(ins.RY) + ins.N] = *self.reg(ins.RX)
                }
                pc++
            }

            case *pgen.Load: {
                if ins.Mnemonic == "popr" {
                    sp := self.reg(ins.RY)
                    *sp = *sp - 1
                    *self.reg(ins.RX) = self.Mem[*sp]
                } else {
                    *self.reg(ins.RX) = self.Mem[*self.reg(ins.RY) + ins.N]
                }
                pc++
            }

            case *pgen.Read: {
                if len(self.Input) == 0 {
                    return fmt.Errorf("emu: read past end of input at pc %d", pc)
                }
                *self.reg(ins.RX) = self.Input[0]
                self.Input = self.Input[1:]
                pc++
            }

            case *pgen.Write: {
                self.Output = append(self.Output, *self.reg(ins.RX))
                pc++
            }
        }
    }
    return ErrNoHalt
}
