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

package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Tokens(t *testing.T) {
	src := `int f(int x) { // comment
		return x <= 10 && x != 0; /* block
		comment */
	}`
	tokens, err := NewScanner([]byte(src)).ScanAll()
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		KwInt, IDENT, LParen, KwInt, IDENT, RParen, LCurly,
		KwReturn, IDENT, Le, NUMBER, LAnd, IDENT, Ne, NUMBER, Semi,
		RCurly, EOF,
	}, kinds)
}

func TestScanner_InvalidCharacter(t *testing.T) {
	_, err := NewScanner([]byte("int a @")).ScanAll()
	require.Error(t, err)
}

func TestScanner_UnterminatedComment(t *testing.T) {
	_, err := NewScanner([]byte("/* never closed")).ScanAll()
	require.Error(t, err)
}

func TestParser_MethodShapes(t *testing.T) {
	unit, err := Parse("t.iota", []byte(`
		int max(int a, int b) {
			if (a > b) { return a; }
			return b;
		}
		void main() { write(max(3, 4)); }
	`))
	require.NoError(t, err)
	require.Len(t, unit.Methods, 2)

	max := unit.Methods[0]
	assert.Equal(t, "max", max.Name)
	assert.Equal(t, "(II)I", max.Descriptor())
	require.Len(t, max.Params, 2)

	main := unit.Methods[1]
	assert.Equal(t, "()V", main.Descriptor())
}

func TestParser_Precedence(t *testing.T) {
	unit, err := Parse("t.iota", []byte(`void main() { write(1 + 2 * 3); }`))
	require.NoError(t, err)

	call := unit.Methods[0].Body.Stmts[0].(*ExprStmt).Expr.(*CallExpr)
	add := call.Args[0].(*BinaryExpr)
	require.Equal(t, "+", add.Op)
	mul := add.Rhs.(*BinaryExpr)
	require.Equal(t, "*", mul.Op)
}

func TestParser_Errors(t *testing.T) {
	for _, src := range []string{
		`void main() { write(1) }`,  // missing semicolon
		`void main() { write(1; }`,  // missing paren
		`void main( { }`,            // broken parameter list
		`void main() { 1 = 2; }`,    // bad assignment target
		`int f() { return 1; `,      // unterminated block
	} {
		_, err := Parse("t.iota", []byte(src))
		assert.Error(t, err, "source %q", src)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	for _, src := range []string{
		`void main() { write(y); }`,                   // undefined variable
		`void main() { int x = true; }`,               // type mismatch
		`void main() { if (1) { } }`,                  // non-boolean condition
		`void main() { int x = 1; int x = 2; }`,       // redeclaration
		`void main() { foo(); }`,                      // undefined method
		`int f() { }  void main() { write(f()); }`,    // missing return
		`void f() { return 1; } void main() { f(); }`, // value from void
		`void main() { 1 + 2; }`,                      // no side effect
		`int main(int x) { return x; }`,               // no main()V
	} {
		unit, err := Parse("t.iota", []byte(src))
		require.NoError(t, err, "source %q", src)
		assert.Error(t, Analyze(unit), "source %q", src)
	}
}

func TestAnalyze_SlotAssignment(t *testing.T) {
	unit, err := Parse("t.iota", []byte(`
		int f(int a, int b) {
			int c = a + b;
			{ int d = c; return d; }
		}
		void main() { write(f(1, 2)); }
	`))
	require.NoError(t, err)
	require.NoError(t, Analyze(unit))

	/* parameters take the first slots, declarations follow in order */
	f := unit.Methods[0]
	assert.Equal(t, 4, f.maxLocals)

	c := f.Body.Stmts[0].(*VarDecl)
	assert.Equal(t, 2, c.sym.slot)
	d := f.Body.Stmts[1].(*Block).Stmts[0].(*VarDecl)
	assert.Equal(t, 3, d.sym.slot)
}

func TestAnalyze_BlockScoping(t *testing.T) {
	unit, err := Parse("t.iota", []byte(`
		void main() {
			{ int x = 1; write(x); }
			int x = 2;
			write(x);
		}
	`))
	require.NoError(t, err)
	require.NoError(t, Analyze(unit))
}
