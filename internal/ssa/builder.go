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

    `github.com/iotalang/iotac/internal/classfile`
)

// graphBuilder partitions a method's tuples into basic blocks and wires the
// control flow edges between them.
type graphBuilder struct {
    cfg       *CFG
    pcToTuple map[int]*Tuple
}

func newGraphBuilder(cfg *CFG) *graphBuilder {
    return &graphBuilder { cfg: cfg, pcToTuple: make(map[int]*Tuple) }
}

/* The first tuple leads. For every branch, the target tuple and the tuple
 * following the branch (if any) lead. */
func (self *graphBuilder) findLeaders(tuples []*Tuple) {
    for _, t := range tuples {
        self.pcToTuple[t.Pc] = t
    }
    for i, t := range tuples {
        if i == 0 {
            t.IsLeader = true
        }
        if t.isBranch() {
            target := self.pcToTuple[t.Target]
            if target == nil {
                panic(fmt.Sprintf("ssa: branch at pc %d targets no instruction (pc %d)", t.Pc, t.Target))
            }
            target.IsLeader = true
            if i < len(tuples) - 1 {
                tuples[i + 1].IsLeader = true
            }
        }
    }
}

/* Split the tuple list at leaders. Block 0 is a synthetic empty entry; the
 * block holding the first tuple is block 1. */
func (self *graphBuilder) buildBlocks(tuples []*Tuple) {
    cfg := self.cfg
    block := newBasicBlock(cfg, 0)

    for _, t := range tuples {
        if t.IsLeader {
            cfg.Blocks = append(cfg.Blocks, block)
            block = newBasicBlock(cfg, len(cfg.Blocks))
        }
        block.Tuples = append(block.Tuples, t)
    }
    cfg.Blocks = append(cfg.Blocks, block)

    for _, b := range cfg.Blocks {
        if len(b.Tuples) != 0 {
            cfg.pcToBlock[b.Tuples[0].Pc] = b
        }
    }
}

/* Wire edges: the entry block falls into block 1; a GOTO jumps to its target
 * only; a conditional branch falls through and jumps; anything else falls
 * through. Fall-through edges are added before branch edges, matching the
 * original successor ordering. */
func (self *graphBuilder) buildEdges() {
    cfg := self.cfg
    cfg.Blocks[0].addEdge(cfg.Blocks[1])

    for i, b := range cfg.Blocks {
        if len(b.Tuples) == 0 {
            continue
        }
        last := b.Tuples[len(b.Tuples) - 1]
        if last.isBranch() {
            target := cfg.pcToBlock[last.Target]
            if target == nil {
                panic(fmt.Sprintf("ssa: %s%s: branch target pc %d starts no block", cfg.Name, cfg.Desc, last.Target))
            }
            if last.Opcode != classfile.GOTO && i < len(cfg.Blocks) - 1 {
                b.addEdge(cfg.Blocks[i + 1])
            }
            b.addEdge(target)
        } else if i < len(cfg.Blocks) - 1 {
            b.addEdge(cfg.Blocks[i + 1])
        }
    }
}

// buildCFG decodes the method's bytecode and constructs its control flow
// graph, with loop heads marked and unreachable blocks pruned.
func buildCFG(pool *classfile.ConstantPool, method *classfile.Method) *CFG {
    cfg := newCFG(method.Name, classfile.NormalizeDesc(method.Desc))
    cfg.NumLocals = method.MaxLocals

    tuples := decodeTuples(pool, method.Code)
    if len(tuples) == 0 {
        return cfg
    }

    b := newGraphBuilder(cfg)
    b.findLeaders(tuples)
    b.buildBlocks(tuples)
    b.buildEdges()

    detectLoops(cfg.Entry(), nil)
    removeUnreachable(cfg)
    return cfg
}
