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

// Liveness computes per-block liveUse/liveDef sets, iterates liveIn/liveOut
// to a fixed point, and derives per-register live intervals with use
// positions. Interval endpoints are LIR ids, so they stay totally ordered
// under the stride-5 numbering.
type Liveness struct{}

func (Liveness) Name() string {
    return "Liveness Analysis"
}

func (Liveness) Apply(cfg *CFG) {
    computeLocalSets(cfg)
    computeGlobalSets(cfg)
    computeIntervals(cfg)
}

/* a register read before the block defines it is live-use; every written
 * register is live-def */
func computeLocalSets(cfg *CFG) {
    n := len(cfg.Registers)
    for _, b := range cfg.Blocks {
        b.LiveUse = NewBitSet(n)
        b.LiveDef = NewBitSet(n)
        for _, ins := range b.Lir {
            for _, r := range ins.base().Reads {
                if !b.LiveDef.Get(r.Number()) {
                    b.LiveUse.Set(r.Number())
                }
            }
            if w := ins.base().Write; w != nil {
                b.LiveDef.Set(w.Number())
            }
        }
    }
}

/* liveOut(b) = union of liveIn over successors;
 * liveIn(b) = (liveOut(b) - liveDef(b)) + liveUse(b);
 * iterate backwards until nothing changes */
func computeGlobalSets(cfg *CFG) {
    n := len(cfg.Registers)
    for _, b := range cfg.Blocks {
        b.LiveIn = NewBitSet(n)
        b.LiveOut = NewBitSet(n)
    }
    for changed := true; changed; {
        changed = false
        for i := len(cfg.Blocks) - 1; i >= 0; i-- {
            b := cfg.Blocks[i]
            out := NewBitSet(n)
            for _, s := range b.Succs {
                out.Or(s.LiveIn)
            }
            if !b.LiveOut.Equal(out) {
                b.LiveOut = out
                changed = true
            }
            in := b.LiveOut.Clone()
            in.AndNot(b.LiveDef)
            in.Or(b.LiveUse)
            b.LiveIn = in
        }
    }
}

/* walk blocks and instructions in reverse: live-out registers span the whole
 * block; a write clips the current range at its definition, a read extends
 * the range back to the block start */
func computeIntervals(cfg *CFG) {
    cfg.Intervals = make([]*Interval, len(cfg.Registers))
    for i := range cfg.Intervals {
        cfg.Intervals[i] = NewInterval(i)
    }

    for i := len(cfg.Blocks) - 1; i >= 0; i-- {
        b := cfg.Blocks[i]
        if len(b.Lir) == 0 {
            continue
        }
        bStart := b.Lir[0].base().Id
        bEnd := b.Lir[len(b.Lir) - 1].base().Id

        b.LiveOut.ForEach(func(r int) {
            cfg.Intervals[r].AddRange(&Range { Start: bStart, Stop: bEnd })
        })

        for j := len(b.Lir) - 1; j >= 0; j-- {
            ins := b.Lir[j].base()
            if w := ins.Write; w != nil {
                cfg.Intervals[w.Number()].FirstRangeFrom(ins.Id)
                cfg.Intervals[w.Number()].AddUsePosition(ins.Id, UseWrite)
            }
            for _, r := range ins.Reads {
                cfg.Intervals[r.Number()].AddRange(&Range { Start: bStart, Stop: ins.Id })
                cfg.Intervals[r.Number()].AddUsePosition(ins.Id, UseRead)
            }
        }
    }
}
