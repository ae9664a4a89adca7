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

package pgen

import (
    `bytes`
    `strings`
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/iotalang/iotac/internal/ssa`
    `github.com/iotalang/iotac/internal/syntax`
)

func link(t *testing.T, src string) *Emitter {
    t.Helper()
    unit, err := syntax.Parse("test.iota", []byte(src))
    require.NoError(t, err)
    require.NoError(t, syntax.Analyze(unit))
    file := syntax.Codegen(unit)

    emitter := NewEmitter()
    for _, m := range file.Methods {
        if m.IsBuiltin() {
            continue
        }
        emitter.AddMethod(ssa.Compile(file.Pool, m, false))
    }
    return emitter
}

func TestEmitter_StraightLine(t *testing.T) {
    emitter := link(t, `void main() { write(1 + 2); }`)
    prog := emitter.Program()

    /* trampoline: call main()V, then halt */
    call, ok := prog[0].(*Call)
    require.True(t, ok)
    require.Equal(t, "main", call.Name)
    main, found := emitter.MethodAddress("main()V")
    require.True(t, found)
    require.Equal(t, main, call.N)
    _, ok = prog[1].(*Halt)
    require.True(t, ok)

    /* prologue: pushr ra, pushr fp, copy fp sp */
    push, ok := prog[main].(*Store)
    require.True(t, ok)
    require.Equal(t, "pushr", push.Mnemonic)
    require.Equal(t, ssa.RA, push.RX.Number())
    push, ok = prog[main + 1].(*Store)
    require.True(t, ok)
    require.Equal(t, ssa.FP, push.RX.Number())
    cp, ok := prog[main + 2].(*Copy)
    require.True(t, ok)
    require.Equal(t, ssa.FP, cp.RX.Number())
    require.Equal(t, ssa.SP, cp.RY.Number())

    /* body: two constants, an add, a write */
    var mnemonics []string
    for _, ins := range prog[2:] {
        mnemonics = append(mnemonics, ins.base().Mnemonic)
    }
    joined := strings.Join(mnemonics, " ")
    require.Contains(t, joined, "set1 setn add write")

    /* epilogue: popr fp, popr ra, jumpr ra at the very end */
    last := prog[len(prog) - 1].(*Jump)
    require.Equal(t, "jumpr", last.Mnemonic)
    require.Equal(t, ssa.RA, last.RX.Number())
}

func TestEmitter_EveryPCAssigned(t *testing.T) {
    emitter := link(t, `
        int g(int a) { return a + a; }
        void main() { write(g(3)); }
    `)
    prog := emitter.Program()

    for pc, ins := range prog {
        require.NotNil(t, ins, "hole in the text segment at pc %d", pc)
        require.Equal(t, pc, ins.base().PC)
    }
}

func TestEmitter_CallFixup(t *testing.T) {
    emitter := link(t, `
        int g(int a) { return a + a; }
        void main() { write(g(3)); }
    `)
    prog := emitter.Program()

    gAddr, found := emitter.MethodAddress("g(I)I")
    require.True(t, found)

    sawCall := false
    for _, ins := range prog[2:] {
        if call, ok := ins.(*Call); ok && call.Name == "g" {
            sawCall = true
            require.Equal(t, gAddr, call.N)
        }
    }
    require.True(t, sawCall)
}

func TestEmitter_JumpFixup(t *testing.T) {
    emitter := link(t, `
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
    `)
    prog := emitter.Program()

    for _, ins := range prog[2:] {
        jump, ok := ins.(*Jump)
        if !ok || jump.Mnemonic == "jumpr" {
            continue
        }
        require.GreaterOrEqual(t, jump.N, 2, "unresolved jump %v", jump)
        require.Less(t, jump.N, len(prog))

        /* conditional jumps and gotos land on their target block's first
         * instruction */
        if jump.TrueBlock != nil {
            want := -1
            for _, m := range emitter.methods {
                for _, block := range m.Blocks {
                    if block.Source == jump.TrueBlock {
                        want = m.firstPC(jump.TrueBlock)
                    }
                }
            }
            require.Equal(t, want, jump.N)
        }
    }
}

func TestEmitter_CallerArgumentProtocol(t *testing.T) {
    emitter := link(t, `
        int g(int a) { return a + a; }
        void main() { write(g(3)); }
    `)

    var buf bytes.Buffer
    emitter.WriteTo(&buf, "test.marv")
    text := buf.String()

    /* the caller pushes the argument, calls, and drops one slot */
    require.Contains(t, text, "pushr")
    require.Contains(t, text, "calln")
    require.Contains(t, text, "addn    r15     -1")

    /* the callee reads its parameter at FP - 3 */
    require.Contains(t, text, "loadn")
    require.Contains(t, text, "r14     -3")

    /* headers for both methods and the entry/exit blocks */
    require.Contains(t, text, "# g(I)I")
    require.Contains(t, text, "# main()V")
    require.Contains(t, text, "(entry)")
    require.Contains(t, text, "(exit)")
}
