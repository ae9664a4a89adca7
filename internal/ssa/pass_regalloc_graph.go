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
    `sort`

    `gonum.org/v1/gonum/graph/simple`
)

// GraphRegAlloc colors an interference graph instead of rotating through the
// temporaries. Two virtual registers interfere iff their liveness intervals
// intersect. Chaitin-style simplify/select with twelve colors; nodes that
// cannot be colored take an SP-relative spill slot. The observable contract
// is the same as the naive allocator's: every virtual register ends up with a
// physical register, spilled ones also with an offset.
type GraphRegAlloc struct{}

func (GraphRegAlloc) Name() string {
    return "Register Allocation (graph)"
}

func (self GraphRegAlloc) Apply(cfg *CFG) {
    g := simple.NewUndirectedGraph()
    var vregs []*VirtReg

    /* one node per virtual register that is live at all */
    for i := len(RegInfo); i < len(cfg.Registers); i++ {
        r, ok := cfg.Registers[i].(*VirtReg)
        if !ok || len(cfg.Intervals[i].Ranges) == 0 {
            continue
        }
        vregs = append(vregs, r)
        g.AddNode(simple.Node(r.Number()))
    }

    /* intersecting intervals interfere */
    for i := 0; i < len(vregs); i++ {
        for j := i + 1; j < len(vregs); j++ {
            a, b := vregs[i], vregs[j]
            if cfg.Intervals[a.Number()].Intersects(cfg.Intervals[b.Number()]) {
                g.SetEdge(simple.Edge { F: simple.Node(a.Number()), T: simple.Node(b.Number()) })
            }
        }
    }

    degree := func(id int64, gone map[int64]bool) int {
        d := 0
        it := g.From(id)
        for it.Next() {
            if !gone[it.Node().ID()] {
                d++
            }
        }
        return d
    }

    /* simplify: peel off low-degree nodes; when stuck, optimistically push
     * the highest-degree node as a spill candidate */
    gone := make(map[int64]bool, len(vregs))
    stack := make([]*VirtReg, 0, len(vregs))
    remain := append([]*VirtReg(nil), vregs...)
    for len(remain) != 0 {
        pick := -1
        for i, r := range remain {
            if degree(int64(r.Number()), gone) < MaxTempRegs {
                pick = i
                break
            }
        }
        if pick == -1 {
            worst := 0
            for i, r := range remain {
                if degree(int64(r.Number()), gone) > degree(int64(remain[worst].Number()), gone) {
                    worst = i
                }
            }
            pick = worst
        }
        r := remain[pick]
        remain = append(remain[:pick], remain[pick + 1:]...)
        gone[int64(r.Number())] = true
        stack = append(stack, r)
    }

    /* select: pop and take the lowest color free among colored neighbours */
    offset := 0
    colorOf := make(map[int64]int, len(vregs))
    for i := len(stack) - 1; i >= 0; i-- {
        r := stack[i]
        id := int64(r.Number())
        var taken [MaxTempRegs]bool
        it := g.From(id)
        for it.Next() {
            if c, ok := colorOf[it.Node().ID()]; ok {
                taken[c] = true
            }
        }
        color := -1
        for c := 0; c < MaxTempRegs; c++ {
            if !taken[c] {
                color = c
                break
            }
        }
        if color == -1 {
            /* uncolorable: spill, and keep a register for the reloads */
            r.Spill = true
            r.Offset = offset
            offset++
            r.Phys = RegInfo[r.Offset % MaxTempRegs]
        } else {
            colorOf[id] = color
            r.Phys = RegInfo[color]
        }
        usePhysReg(cfg, r.Phys)
    }

    /* registers created after liveness ran (there are none today, but a
     * dead-value vreg has an empty interval) still need a home */
    for _, r := range cfg.Registers[len(RegInfo):] {
        if vr, ok := r.(*VirtReg); ok && vr.Phys == nil {
            vr.Phys = RegInfo[0]
            usePhysReg(cfg, vr.Phys)
        }
    }

    /* stable prologue order regardless of coloring order */
    sort.Slice(cfg.PRegisters, func(i int, j int) bool {
        return cfg.PRegisters[i].Number() < cfg.PRegisters[j].Number()
    })

    for _, b := range cfg.Blocks {
        for _, ins := range b.Lir {
            disambiguateReads(cfg, ins)
        }
    }
    materializeSpills(cfg)
}
