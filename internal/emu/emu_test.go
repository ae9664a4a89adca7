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

package emu

import (
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/iotalang/iotac/internal/pgen`
    `github.com/iotalang/iotac/internal/ssa`
)

func r(n int) *ssa.PhysReg {
    return ssa.RegInfo[n]
}

func TestMachine_ArithmeticAndIO(t *testing.T) {
    prog := []pgen.Instr {
        &pgen.Read  { InstrBase: pgen.InstrBase { PC: 0, Mnemonic: "read" }, RX: r(0) },
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 1, Mnemonic: "setn" }, RX: r(1), N: 10 },
        &pgen.Arith { InstrBase: pgen.InstrBase { PC: 2, Mnemonic: "mul" }, RX: r(2), RY: r(0), RZ: r(1) },
        &pgen.Write { InstrBase: pgen.InstrBase { PC: 3, Mnemonic: "write" }, RX: r(2) },
        &pgen.Halt  { InstrBase: pgen.InstrBase { PC: 4, Mnemonic: "halt" } },
    }
    m := NewMachine(prog, []int { 7 })
    require.NoError(t, m.Run())
    require.Equal(t, []int { 70 }, m.Output)
}

func TestMachine_StackDiscipline(t *testing.T) {
    prog := []pgen.Instr {
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 0, Mnemonic: "setn" }, RX: r(0), N: 41 },
        &pgen.Store { InstrBase: pgen.InstrBase { PC: 1, Mnemonic: "pushr" }, RX: r(0), RY: r(ssa.SP) },
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 2, Mnemonic: "set0" }, RX: r(0), N: 0 },
        &pgen.Load { InstrBase: pgen.InstrBase { PC: 3, Mnemonic: "popr" }, RX: r(1), RY: r(ssa.SP) },
        &pgen.Write { InstrBase: pgen.InstrBase { PC: 4, Mnemonic: "write" }, RX: r(1) },
        &pgen.Halt { InstrBase: pgen.InstrBase { PC: 5, Mnemonic: "halt" } },
    }
    m := NewMachine(prog, nil)
    require.NoError(t, m.Run())
    require.Equal(t, []int { 41 }, m.Output)
    require.Zero(t, m.Regs[ssa.SP], "push/pop must balance the stack pointer")
}

func TestMachine_ConditionalJumps(t *testing.T) {
    /* writes 1 when r0 < r1, else 0 */
    prog := []pgen.Instr {
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 0, Mnemonic: "set1" }, RX: r(0), N: 1 },
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 1, Mnemonic: "setn" }, RX: r(1), N: 2 },
        &pgen.Jump { InstrBase: pgen.InstrBase { PC: 2, Mnemonic: "jltn" }, RX: r(0), RY: r(1), N: 5 },
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 3, Mnemonic: "set0" }, RX: r(2), N: 0 },
        &pgen.Jump { InstrBase: pgen.InstrBase { PC: 4, Mnemonic: "jumpn" }, N: 6 },
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 5, Mnemonic: "set1" }, RX: r(2), N: 1 },
        &pgen.Write { InstrBase: pgen.InstrBase { PC: 6, Mnemonic: "write" }, RX: r(2) },
        &pgen.Halt { InstrBase: pgen.InstrBase { PC: 7, Mnemonic: "halt" } },
    }
    m := NewMachine(prog, nil)
    require.NoError(t, m.Run())
    require.Equal(t, []int { 1 }, m.Output)
}

func TestMachine_CallAndReturn(t *testing.T) {
    /* calln saves the return address; jumpr returns through it */
    prog := []pgen.Instr {
        &pgen.Call { InstrBase: pgen.InstrBase { PC: 0, Mnemonic: "calln" }, RX: r(ssa.RA), N: 3 },
        &pgen.Write { InstrBase: pgen.InstrBase { PC: 1, Mnemonic: "write" }, RX: r(ssa.RV) },
        &pgen.Halt { InstrBase: pgen.InstrBase { PC: 2, Mnemonic: "halt" } },
        &pgen.IConst { InstrBase: pgen.InstrBase { PC: 3, Mnemonic: "setn" }, RX: r(ssa.RV), N: 99 },
        &pgen.Jump { InstrBase: pgen.InstrBase { PC: 4, Mnemonic: "jumpr" }, RX: r(ssa.RA) },
    }
    m := NewMachine(prog, nil)
    require.NoError(t, m.Run())
    require.Equal(t, []int { 99 }, m.Output)
}

func TestMachine_Faults(t *testing.T) {
    read := &pgen.Read { InstrBase: pgen.InstrBase { PC: 0, Mnemonic: "read" }, RX: r(0) }
    m := NewMachine([]pgen.Instr { read }, nil)
    require.Error(t, m.Run(), "read past end of input")

    loop := &pgen.Jump { InstrBase: pgen.InstrBase { PC: 0, Mnemonic: "jumpn" }, N: 0 }
    m = NewMachine([]pgen.Instr { loop }, nil)
    require.ErrorIs(t, m.Run(), ErrNoHalt)
}
