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
    `testing`

    `github.com/stretchr/testify/require`
)

/* spillSrc keeps more than twelve values live at once: every local is read
 * into its own register up front and summed only afterwards */
func spillSrc() string {
    var b strings.Builder
    b.WriteString("void main() {\n")
    for i := 0; i < 14; i++ {
        fmt.Fprintf(&b, "    int x%d = read();\n", i)
    }
    b.WriteString("    write(x0")
    for i := 1; i < 14; i++ {
        fmt.Fprintf(&b, " + x%d", i)
    }
    b.WriteString(");\n}\n")
    return b.String()
}

func allocated(t *testing.T, src string, name string, graph bool) *CFG {
    t.Helper()
    cfg := lowered(t, src, name)
    Liveness{}.Apply(cfg)
    if graph {
        GraphRegAlloc{}.Apply(cfg)
    } else {
        RegAlloc{}.Apply(cfg)
    }
    return cfg
}

func checkTotality(t *testing.T, cfg *CFG) {
    t.Helper()
    for _, b := range cfg.Blocks {
        for _, ins := range b.Lir {
            if w, ok := ins.base().Write.(*VirtReg); ok {
                require.NotNil(t, w.Phys, "unassigned write %s in %s", w, ins)
            }
            for _, r := range ins.base().Reads {
                if vr, ok := r.(*VirtReg); ok {
                    require.NotNil(t, vr.Phys, "unassigned read %s in %s", vr, ins)
                }
            }
        }
    }
}

func checkDistinctReadPairs(t *testing.T, cfg *CFG) {
    t.Helper()
    for _, b := range cfg.Blocks {
        for _, ins := range b.Lir {
            reads := ins.base().Reads
            if len(reads) != 2 {
                continue
            }
            r1, ok1 := reads[0].(*VirtReg)
            r2, ok2 := reads[1].(*VirtReg)
            if ok1 && ok2 && r1.Number() != r2.Number() {
                require.NotEqual(t, r1.Phys.Number(), r2.Phys.Number(),
                    "reads of %s share %s", ins, r1.Phys)
            }
        }
    }
}

/* spilled reads reload in the id gap before the instruction, spilled writes
 * store in the gap after it */
func checkSpillPlacement(t *testing.T, cfg *CFG) {
    t.Helper()
    for _, b := range cfg.Blocks {
        for i, ins := range b.Lir {
            switch p := ins.(type) {
            case *LirLoad:
                if p.Mnemonic == "load" && i + 1 < len(b.Lir) && p.Reads[0].Number() == SP {
                    next := b.Lir[i + 1].base().Id
                    require.Less(t, p.Id, next, "reload %s not before its use", p)
                }
            case *LirStore:
                if p.Mnemonic == "store" && i > 0 {
                    prev := b.Lir[i - 1].base().Id
                    require.Greater(t, p.Id, prev, "spill store %s not after its def", p)
                }
            }
        }
    }
}

func TestRegAlloc_NoSpillStraightLine(t *testing.T) {
    cfg := allocated(t, `void main() { write(1 + 2); }`, "main", false)
    checkTotality(t, cfg)
    checkDistinctReadPairs(t, cfg)

    for _, r := range cfg.Registers[len(RegInfo):] {
        if vr, ok := r.(*VirtReg); ok {
            require.False(t, vr.Spill, "%s spilled in a three-register program", vr)
        }
    }
}

func TestRegAlloc_SpillsUnderPressure(t *testing.T) {
    cfg := allocated(t, spillSrc(), "main", false)
    checkTotality(t, cfg)
    checkDistinctReadPairs(t, cfg)
    checkSpillPlacement(t, cfg)

    spills := 0
    for _, r := range cfg.Registers[len(RegInfo):] {
        if vr, ok := r.(*VirtReg); ok && vr.Spill {
            spills++
            require.GreaterOrEqual(t, vr.Offset, 0)
        }
    }
    require.NotZero(t, spills, "fourteen live values fit in twelve registers?")

    /* every temporary was touched, so the prologue saves all twelve */
    require.Len(t, cfg.PRegisters, MaxTempRegs)
}

func TestRegAlloc_GraphColoring(t *testing.T) {
    cfg := allocated(t, sumSrc, "sum", true)
    checkTotality(t, cfg)
    checkDistinctReadPairs(t, cfg)

    /* interfering registers got different colors (unless one spilled) */
    for i := len(RegInfo); i < len(cfg.Registers); i++ {
        for j := i + 1; j < len(cfg.Registers); j++ {
            a, ok1 := cfg.Registers[i].(*VirtReg)
            b, ok2 := cfg.Registers[j].(*VirtReg)
            if !ok1 || !ok2 || a.Spill || b.Spill {
                continue
            }
            if cfg.Intervals[i].Intersects(cfg.Intervals[j]) {
                require.NotEqual(t, a.Phys.Number(), b.Phys.Number(),
                    "interfering v%d and v%d share %s", i, j, a.Phys)
            }
        }
    }
}

func TestRegAlloc_GraphColoringUnderPressure(t *testing.T) {
    cfg := allocated(t, spillSrc(), "main", true)
    checkTotality(t, cfg)
    checkDistinctReadPairs(t, cfg)
    checkSpillPlacement(t, cfg)
}
