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
    `io`
    `os`
    `strings`

    `github.com/davecgh/go-spew/spew`
)

func blockFlags(b *BasicBlock) string {
    s := ""
    if b.IsLoopHead { s += ", LH" }
    if b.IsLoopTail { s += ", LT" }
    return s
}

func blockHeader(b *BasicBlock) string {
    preds := make([]string, 0, len(b.Preds))
    succs := make([]string, 0, len(b.Succs))
    for _, p := range b.Preds { preds = append(preds, p.Name()) }
    for _, s := range b.Succs { succs = append(succs, s.Name()) }
    return fmt.Sprintf("%s (pred: [%s], succ: [%s]%s)",
        b.Name(), strings.Join(preds, ", "), strings.Join(succs, ", "), blockFlags(b))
}

// DumpTuples writes every block's tuples to w.
func (self *CFG) DumpTuples(w io.Writer) {
    fmt.Fprintf(w, "[[ TUPLES ]]\n\n")
    for _, b := range self.Blocks {
        fmt.Fprintf(w, "%s:\n", blockHeader(b))
        for _, t := range b.Tuples {
            fmt.Fprintf(w, "  %s\n", t)
        }
        fmt.Fprintln(w)
    }
}

// DumpHir writes every block's HIR, with its locals vector, to w.
func (self *CFG) DumpHir(w io.Writer) {
    fmt.Fprintf(w, "[[ HIR ]]\n\n")
    for _, b := range self.Blocks {
        locals := make([]string, 0, len(b.Locals))
        for _, l := range b.Locals {
            if l == nil {
                locals = append(locals, "?")
            } else {
                locals = append(locals, self.Lookup(l.base().Id).base().Ref())
            }
        }
        fmt.Fprintf(w, "%s (locals: [%s]):\n", blockHeader(b), strings.Join(locals, ", "))
        for _, ins := range b.Hir {
            fmt.Fprintf(w, "  %s\n", self.Lookup(ins.base().Id))
        }
        fmt.Fprintln(w)
    }
}

// DumpLir writes every block's LIR to w.
func (self *CFG) DumpLir(w io.Writer) {
    fmt.Fprintf(w, "[[ LIR ]]\n\n")
    for _, b := range self.Blocks {
        fmt.Fprintf(w, "%s:\n", blockHeader(b))
        for _, ins := range b.Lir {
            fmt.Fprintf(w, "  %s\n", ins)
        }
        fmt.Fprintln(w)
    }
}

func dumpSet(w io.Writer, name string, set *BitSet) {
    var regs []string
    set.ForEach(func(i int) {
        if i < len(RegInfo) {
            regs = append(regs, RegInfo[i].String())
        } else {
            regs = append(regs, "v" + itoa(i))
        }
    })
    fmt.Fprintf(w, "  %s: {%s}\n", name, strings.Join(regs, ", "))
}

// DumpLiveness writes the per-block liveness sets to w.
func (self *CFG) DumpLiveness(w io.Writer) {
    fmt.Fprintf(w, "[[ Liveness Sets ]]\n\n")
    for _, b := range self.Blocks {
        fmt.Fprintf(w, "%s:\n", b.Name())
        dumpSet(w, "liveUse", b.LiveUse)
        dumpSet(w, "liveDef", b.LiveDef)
        dumpSet(w, "liveIn", b.LiveIn)
        dumpSet(w, "liveOut", b.LiveOut)
        fmt.Fprintln(w)
    }
}

// DumpIntervals writes the liveness intervals and register assignments to w.
func (self *CFG) DumpIntervals(w io.Writer) {
    fmt.Fprintf(w, "[[ Liveness Intervals ]]\n\n")
    for _, interval := range self.Intervals {
        if len(interval.Ranges) == 0 {
            continue
        }
        if reg, ok := self.Registers[interval.RegId].(*VirtReg); ok {
            if reg.Spill {
                fmt.Fprintf(w, "  v%d: %s -> %s:%d\n", interval.RegId, interval, reg.Phys, reg.Offset)
            } else {
                fmt.Fprintf(w, "  v%d: %s -> %s\n", interval.RegId, interval, reg.Phys)
            }
        } else {
            fmt.Fprintf(w, "  r%d: %s\n", interval.RegId, interval)
        }
    }
}

// DebugDump spews the full register catalog and intervals to stderr; used
// when chasing allocator bugs.
func (self *CFG) DebugDump() {
    spew.Config.SortKeys = true
    spew.Fdump(os.Stderr, self.Registers, self.Intervals)
}
