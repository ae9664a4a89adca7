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

/* detectLoops is a depth-first walk marking back edges: reaching a block that
 * is still on the recursion stack makes it a loop head and the block we came
 * from a loop tail. It does not build a nesting hierarchy. As a side effect
 * every reachable block ends up with isVisited set, which reachability
 * pruning consumes. */
func detectLoops(block *BasicBlock, pred *BasicBlock) {
    if !block.isVisited {
        block.isVisited = true
        block.isActive = true
        for _, succ := range block.Succs {
            detectLoops(succ, block)
        }
        block.isActive = false
    } else if block.isActive {
        block.IsLoopHead = true
        pred.IsLoopTail = true
    }
}

/* removeUnreachable drops every block the loop DFS never reached and strips
 * dangling predecessor references to them. */
func removeUnreachable(cfg *CFG) {
    var dead []*BasicBlock
    for _, b := range cfg.Blocks {
        if !b.isVisited {
            dead = append(dead, b)
        }
    }
    if len(dead) == 0 {
        return
    }

    drop := make(map[*BasicBlock]bool, len(dead))
    for _, b := range dead {
        drop[b] = true
    }

    /* strip edges from surviving blocks */
    for _, b := range cfg.Blocks {
        preds := b.Preds[:0]
        for _, p := range b.Preds {
            if !drop[p] {
                preds = append(preds, p)
            }
        }
        b.Preds = preds
    }

    /* compact the block list */
    blocks := cfg.Blocks[:0]
    for _, b := range cfg.Blocks {
        if !drop[b] {
            blocks = append(blocks, b)
        }
    }
    cfg.Blocks = blocks
}
