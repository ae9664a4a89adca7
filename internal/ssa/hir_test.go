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
    `testing`

    `github.com/stretchr/testify/require`
)

const sumSrc = `
    int sum(int n) {
        int i = 0;
        int s = 0;
        while (i < n) {
            s = s + i;
            i = i + 1;
        }
        return s;
    }
    void main() { write(sum(5)); }
`

/* buildHirOnly stops right after HIR construction */
func buildHirOnly(t *testing.T, src string, name string) *CFG {
    t.Helper()
    cfg := buildOnly(t, src, name)
    buildHir(cfg)
    return cfg
}

func livePhis(cfg *CFG) []*HirPhi {
    var phis []*HirPhi
    for _, b := range cfg.Blocks {
        for _, ins := range b.Hir {
            if phi, ok := ins.(*HirPhi); ok {
                phis = append(phis, phi)
            }
        }
    }
    return phis
}

func TestHir_SSAUniqueDefinitions(t *testing.T) {
    cfg := buildHirOnly(t, sumSrc, "sum")

    seen := make(map[int]bool)
    for _, b := range cfg.Blocks {
        for _, ins := range b.Hir {
            id := ins.base().Id
            require.False(t, seen[id], "HIR id %d defined twice", id)
            seen[id] = true
        }
    }
}

func TestHir_PhiShape(t *testing.T) {
    cfg := buildHirOnly(t, sumSrc, "sum")
    PhiElim{}.Apply(cfg)

    for _, phi := range livePhis(cfg) {
        require.Len(t, phi.Args, len(phi.Block.Preds), "phi %s", phi)
        for i, arg := range phi.Args {
            pred := phi.Block.Preds[i]
            require.NotNil(t, arg)
            require.Equal(t, pred.Locals[phi.Index].base().Id, arg.base().Id,
                "phi %s arg %d does not match pred %s", phi, i, pred)
        }
    }
}

func TestHir_LoopCarriedPhisSurviveCleanup(t *testing.T) {
    cfg := buildHirOnly(t, sumSrc, "sum")
    PhiElim{}.Apply(cfg)

    /* i and s are loop-carried: their phis stay; the phi for n is fed by
     * itself along the back edge and goes away */
    phis := livePhis(cfg)
    require.Len(t, phis, 2)
    for _, phi := range phis {
        require.True(t, phi.Block.IsLoopHead)
    }
}

func TestHir_TrivialPhiRemoved(t *testing.T) {
    cfg := buildHirOnly(t, `
        int f(int x) {
            if (x == 0) { return 1; } else { return 2; }
        }
        void main() { write(f(0)); }
    `, "f")
    PhiElim{}.Apply(cfg)

    /* the merge block sees the same x on both paths */
    require.Empty(t, livePhis(cfg))
}

func TestHir_NoReturnPhiForSingleValue(t *testing.T) {
    cfg := buildHirOnly(t, `
        int f(int x) {
            if (x == 0) { return 1; } else { return 2; }
        }
        void main() { write(f(0)); }
    `, "f")

    for _, phi := range livePhis(cfg) {
        require.NotEqual(t, -1, phi.Index, "unexpected return-value phi %s", phi)
    }
}

func TestHir_ReturnPhiOverStackValues(t *testing.T) {
    /* a boolean in return position materializes 1/0 in two blocks; the
     * return sees both on the operand stack and merges them with a phi */
    cfg := buildHirOnly(t, `
        boolean f(int x) { return x == 0; }
        void main() { write(f(0)); }
    `, "f")

    found := false
    for _, phi := range livePhis(cfg) {
        if phi.Index == -1 {
            found = true
            require.Len(t, phi.Args, 2)
        }
    }
    require.True(t, found, "missing return-value phi")
}

func TestHir_PhiResolutionInsertsCopies(t *testing.T) {
    cfg := buildHirOnly(t, sumSrc, "sum")
    PhiElim{}.Apply(cfg)
    Lower{}.Apply(cfg)
    PhiResolve{}.Apply(cfg)

    var head *BasicBlock
    for _, b := range cfg.Blocks {
        if b.IsLoopHead {
            head = b
        }
    }
    require.NotNil(t, head)

    /* both predecessors of the loop head end with copies into the two phi
     * registers */
    for _, phi := range livePhis(cfg) {
        dst := LirOf(phi).base().Write
        for _, pred := range head.Preds {
            found := false
            for _, ins := range pred.Lir {
                if cp, ok := ins.(*LirCopy); ok && cp.Write == dst {
                    found = true
                }
            }
            require.True(t, found, "no copy into %s in %s", dst, pred)
        }
    }

    /* copies come before a terminating jump */
    for _, pred := range head.Preds {
        if len(pred.Lir) == 0 {
            continue
        }
        last := len(pred.Lir) - 1
        if jump, ok := pred.Lir[last].(*LirJump); ok && !jump.ReturnFromMethod {
            last--
        }
        require.GreaterOrEqual(t, last, 0)
        _, isCopy := pred.Lir[last].(*LirCopy)
        require.True(t, isCopy)
    }
}
