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

package iotac

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/iotalang/iotac/internal/emu"
	"github.com/iotalang/iotac/internal/ssa"
)

/* run compiles the source and executes the linked image on the emulator */
func run(t *testing.T, src string, input []int, opt Options) []int {
	t.Helper()
	emitter, err := CompileSource("test.iota", []byte(src), opt)
	require.NoError(t, err)

	m := emu.NewMachine(emitter.Program(), input)
	require.NoError(t, m.Run())

	/* frames balance: every push has its pop, so SP ends where it began */
	require.Zero(t, m.Regs[ssa.SP], "stack pointer did not return to zero")
	return m.Output
}

func marv(t *testing.T, src string, opt Options) string {
	t.Helper()
	emitter, err := CompileSource("test.iota", []byte(src), opt)
	require.NoError(t, err)

	var buf bytes.Buffer
	emitter.WriteTo(&buf, "test.marv")
	return buf.String()
}

func TestCompile_StraightLine(t *testing.T) {
	out := run(t, `void main() { write(1 + 2); }`, nil, Options{})
	require.Equal(t, []int{3}, out)
}

func TestCompile_Arithmetic(t *testing.T) {
	out := run(t, `
		void main() {
			write(7 * 6);
			write(17 / 5);
			write(17 % 5);
			write(-(3 + 4));
		}
	`, nil, Options{})
	require.Equal(t, []int{42, 3, 2, -7}, out)
}

func TestCompile_Conditional(t *testing.T) {
	src := `
		int f(int x) {
			if (x == 0) { return 1; } else { return 2; }
		}
		void main() {
			write(f(0));
			write(f(5));
		}
	`
	require.Equal(t, []int{1, 2}, run(t, src, nil, Options{}))
}

func TestCompile_LoopWithCarriedValues(t *testing.T) {
	src := `
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
	require.Equal(t, []int{10}, run(t, src, nil, Options{}))
}

func TestCompile_CallWithReturn(t *testing.T) {
	src := `
		int g(int a) { return a + a; }
		void main() { write(g(3)); }
	`
	require.Equal(t, []int{6}, run(t, src, nil, Options{}))
}

func TestCompile_MultipleArguments(t *testing.T) {
	src := `
		int sub(int a, int b) { return a - b; }
		void main() { write(sub(10, 4)); }
	`
	require.Equal(t, []int{6}, run(t, src, nil, Options{}))
}

func TestCompile_NestedCalls(t *testing.T) {
	src := `
		int inc(int a) { return a + 1; }
		int twice(int a) { return inc(inc(a)); }
		void main() { write(twice(40)); }
	`
	require.Equal(t, []int{42}, run(t, src, nil, Options{}))
}

func TestCompile_Recursion(t *testing.T) {
	src := `
		int fact(int n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		void main() { write(fact(6)); }
	`
	require.Equal(t, []int{720}, run(t, src, nil, Options{}))
}

func TestCompile_ReadWrite(t *testing.T) {
	src := `
		void main() {
			int a = read();
			int b = read();
			write(a * b);
		}
	`
	require.Equal(t, []int{56}, run(t, src, []int{7, 8}, Options{}))
}

func TestCompile_Booleans(t *testing.T) {
	src := `
		void main() {
			int a = read();
			int b = read();
			if (a < b && b < 10) { write(1); } else { write(0); }
			if (a > b || !(b == 8)) { write(1); } else { write(0); }
		}
	`
	require.Equal(t, []int{1, 0}, run(t, src, []int{7, 8}, Options{}))
}

func TestCompile_BooleanReturn(t *testing.T) {
	src := `
		boolean isZero(int x) { return x == 0; }
		void main() {
			write(isZero(0));
			write(isZero(3));
		}
	`
	require.Equal(t, []int{1, 0}, run(t, src, nil, Options{}))
}

func TestCompile_AssignmentOnlyBranch(t *testing.T) {
	src := `
		void main() {
			int x = 0;
			int y = 5;
			if (read() == 1) { x = y; }
			write(x);
		}
	`
	require.Equal(t, []int{5}, run(t, src, []int{1}, Options{}))
	require.Equal(t, []int{0}, run(t, src, []int{2}, Options{}))
}

func TestCompile_DeadCodeEliminated(t *testing.T) {
	src := `
		void main() {
			while (false) { write(99); }
			write(1);
		}
	`
	require.Equal(t, []int{1}, run(t, src, nil, Options{}))
	require.NotContains(t, marv(t, src, Options{}), "99")
}

func TestCompile_SpillUnderPressure(t *testing.T) {
	var b strings.Builder
	b.WriteString("void main() {\n")
	for i := 0; i < 14; i++ {
		fmt.Fprintf(&b, "	int x%d = read();\n", i)
	}
	b.WriteString("	write(x0")
	for i := 1; i < 14; i++ {
		fmt.Fprintf(&b, " + x%d", i)
	}
	b.WriteString(");\n}\n")

	/* more than twelve simultaneously live values force saves in the
	 * prologue and spill traffic in the body */
	text := marv(t, b.String(), Options{})
	require.Contains(t, text, "pushr   r11")
	require.Contains(t, text, "popr    r11")
	require.Contains(t, text, "storen")
	require.Contains(t, text, "loadn")
}

func TestCompile_GraphAllocator(t *testing.T) {
	src := `
		int sum(int n) {
			int i = 0;
			int s = 0;
			while (i < n) {
				s = s + i;
				i = i + 1;
			}
			return s;
		}
		void main() { write(sum(10)); }
	`
	require.Equal(t, []int{45}, run(t, src, nil, Options{Allocator: "graph"}))
}

func TestCompile_VerboseDumps(t *testing.T) {
	var dumps bytes.Buffer
	opt := Options{Verbose: true, DumpWriter: &dumps}
	_, err := CompileSource("test.iota", []byte(`void main() { write(1); }`), opt)
	require.NoError(t, err)

	text := dumps.String()
	require.Contains(t, text, "[[ TUPLES ]]")
	require.Contains(t, text, "[[ HIR ]]")
	require.Contains(t, text, "[[ LIR ]]")
	require.Contains(t, text, "[[ Liveness Sets ]]")
	require.Contains(t, text, "[[ Liveness Intervals ]]")
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := CompileSource("bad.iota", []byte(`void main() { write(1) }`), Options{})
	require.Error(t, err)
	require.IsType(t, SyntaxError{}, err)
}

func TestCompile_SemanticError(t *testing.T) {
	_, err := CompileSource("bad.iota", []byte(`void main() { write(y); }`), Options{})
	require.Error(t, err)
	require.IsType(t, SemanticError{}, err)
}

func TestCompile_RandomizedExpressions(t *testing.T) {
	gofakeit.Seed(451)
	for i := 0; i < 32; i++ {
		a := gofakeit.Number(-100, 100)
		b := gofakeit.Number(1, 100)
		src := fmt.Sprintf(`
			void main() {
				write(%d + %d);
				write(%d * %d);
				write(%d / %d);
			}
		`, a, b, a, b, a, b)
		want := []int{a + b, a * b, a / b}
		require.Equal(t, want, run(t, src, nil, Options{}), "a=%d b=%d", a, b)
	}
}
