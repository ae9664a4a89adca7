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
	"fmt"
)

// SemError is a semantic (type or name) error at a source line.
type SemError struct {
	Line   int
	Reason string
}

func (self *SemError) Error() string {
	return fmt.Sprintf("line %d: %s", self.Line, self.Reason)
}

type localVar struct {
	name string
	typ  Type
	slot int
}

type methodSym struct {
	name    string
	params  []Type
	ret     Type
	builtin bool
}

func (self *methodSym) descriptor() string {
	desc := "("
	for _, p := range self.params {
		desc += p.Code()
	}
	return desc + ")" + self.ret.Code()
}

// analyzer walks the AST, resolving names, checking types and assigning local
// variable slots.
type analyzer struct {
	methods []*methodSym
	scopes  []map[string]*localVar
	current *MethodDecl
	nextVar int
}

// Analyze type-checks the unit in place. The builtins read()I, write(I)V and
// write(Z)V are implicitly declared.
func Analyze(unit *CompilationUnit) error {
	a := &analyzer{
		methods: []*methodSym{
			{name: "read", ret: TypeInt, builtin: true},
			{name: "write", params: []Type{TypeInt}, ret: TypeVoid, builtin: true},
			{name: "write", params: []Type{TypeBoolean}, ret: TypeVoid, builtin: true},
		},
	}

	/* declare every method before analyzing bodies, so calls resolve
	 * regardless of declaration order */
	hasMain := false
	for _, m := range unit.Methods {
		sym := &methodSym{name: m.Name, ret: m.Return}
		for _, p := range m.Params {
			sym.params = append(sym.params, p.Type)
		}
		if prev := a.resolveMethod(m.Name, sym.params); prev != nil {
			return &SemError{Line: m.stmtLine(), Reason: fmt.Sprintf("method %s%s redeclared", m.Name, sym.descriptor())}
		}
		a.methods = append(a.methods, sym)
		if m.Name == "main" && m.Return == TypeVoid && len(m.Params) == 0 {
			hasMain = true
		}
	}
	if !hasMain {
		return &SemError{Line: 1, Reason: "program has no main() method"}
	}

	for _, m := range unit.Methods {
		if err := a.method(m); err != nil {
			return err
		}
	}
	return nil
}

func (self *analyzer) resolveMethod(name string, args []Type) *methodSym {
	for _, m := range self.methods {
		if m.name != name || len(m.params) != len(args) {
			continue
		}
		match := true
		for i, p := range m.params {
			if p != args[i] {
				match = false
			}
		}
		if match {
			return m
		}
	}
	return nil
}

func (self *analyzer) pushScope() {
	self.scopes = append(self.scopes, make(map[string]*localVar))
}

func (self *analyzer) popScope() {
	self.scopes = self.scopes[:len(self.scopes)-1]
}

func (self *analyzer) declare(line int, name string, typ Type) (*localVar, error) {
	scope := self.scopes[len(self.scopes)-1]
	if _, dup := scope[name]; dup {
		return nil, &SemError{Line: line, Reason: fmt.Sprintf("variable %s redeclared", name)}
	}
	v := &localVar{name: name, typ: typ, slot: self.nextVar}
	self.nextVar++
	scope[name] = v
	return v, nil
}

func (self *analyzer) resolveVar(name string) *localVar {
	for i := len(self.scopes) - 1; i >= 0; i-- {
		if v, ok := self.scopes[i][name]; ok {
			return v
		}
	}
	return nil
}

func (self *analyzer) method(m *MethodDecl) error {
	self.current = m
	self.nextVar = 0
	self.pushScope()
	defer self.popScope()

	for _, p := range m.Params {
		if _, err := self.declare(m.stmtLine(), p.Name, p.Type); err != nil {
			return err
		}
	}
	if err := self.stmt(m.Body); err != nil {
		return err
	}
	m.maxLocals = self.nextVar

	if m.Return != TypeVoid && !alwaysReturns(m.Body) {
		return &SemError{Line: m.stmtLine(), Reason: fmt.Sprintf("method %s does not return on all paths", m.Name)}
	}
	return nil
}

/* a conservative syntactic check: a block returns if its last statement
 * does; an if returns only when both arms do */
func alwaysReturns(s Stmt) bool {
	switch t := s.(type) {
	case *ReturnStmt:
		return true
	case *Block:
		if len(t.Stmts) == 0 {
			return false
		}
		return alwaysReturns(t.Stmts[len(t.Stmts)-1])
	case *IfStmt:
		return t.Else != nil && alwaysReturns(t.Then) && alwaysReturns(t.Else)
	}
	return false
}

func (self *analyzer) stmt(s Stmt) error {
	switch t := s.(type) {
	default:
		panic(fmt.Sprintf("syntax: unexpected statement %T", s))

	case *Block:
		self.pushScope()
		defer self.popScope()
		for _, inner := range t.Stmts {
			if err := self.stmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *VarDecl:
		if t.Init != nil {
			typ, err := self.expr(t.Init)
			if err != nil {
				return err
			}
			if typ != t.Type {
				return &SemError{Line: t.stmtLine(), Reason: fmt.Sprintf("cannot initialize %s %s with %s", t.Type, t.Name, typ)}
			}
		}
		sym, err := self.declare(t.stmtLine(), t.Name, t.Type)
		if err != nil {
			return err
		}
		t.sym = sym
		return nil

	case *IfStmt:
		if err := self.condition(t.Cond); err != nil {
			return err
		}
		if err := self.stmt(t.Then); err != nil {
			return err
		}
		if t.Else != nil {
			return self.stmt(t.Else)
		}
		return nil

	case *WhileStmt:
		if err := self.condition(t.Cond); err != nil {
			return err
		}
		return self.stmt(t.Body)

	case *ReturnStmt:
		if t.Value == nil {
			if self.current.Return != TypeVoid {
				return &SemError{Line: t.stmtLine(), Reason: fmt.Sprintf("method %s must return a %s", self.current.Name, self.current.Return)}
			}
			return nil
		}
		typ, err := self.expr(t.Value)
		if err != nil {
			return err
		}
		if self.current.Return == TypeVoid {
			return &SemError{Line: t.stmtLine(), Reason: fmt.Sprintf("void method %s cannot return a value", self.current.Name)}
		}
		if typ != self.current.Return {
			return &SemError{Line: t.stmtLine(), Reason: fmt.Sprintf("method %s returns %s, not %s", self.current.Name, self.current.Return, typ)}
		}
		return nil

	case *ExprStmt:
		switch t.Expr.(type) {
		case *AssignExpr, *CallExpr:
			_, err := self.expr(t.Expr)
			return err
		}
		return &SemError{Line: t.stmtLine(), Reason: "invalid statement expression; it does not have a side effect"}
	}
}

func (self *analyzer) condition(e Expr) error {
	typ, err := self.expr(e)
	if err != nil {
		return err
	}
	if typ != TypeBoolean {
		return &SemError{Line: e.exprLine(), Reason: fmt.Sprintf("condition must be boolean, found %s", typ)}
	}
	return nil
}

func (self *analyzer) expr(e Expr) (Type, error) {
	switch t := e.(type) {
	default:
		panic(fmt.Sprintf("syntax: unexpected expression %T", e))

	case *Literal:
		return TypeInt, nil

	case *BoolLiteral:
		return TypeBoolean, nil

	case *VarExpr:
		sym := self.resolveVar(t.Name)
		if sym == nil {
			return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("undefined variable %s", t.Name)}
		}
		t.sym = sym
		return sym.typ, nil

	case *AssignExpr:
		rhs, err := self.expr(t.Rhs)
		if err != nil {
			return TypeVoid, err
		}
		lhs, err := self.expr(t.Target)
		if err != nil {
			return TypeVoid, err
		}
		if lhs != rhs {
			return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("cannot assign %s to %s %s", rhs, lhs, t.Target.Name)}
		}
		t.typ = lhs
		return lhs, nil

	case *UnaryExpr:
		typ, err := self.expr(t.Operand)
		if err != nil {
			return TypeVoid, err
		}
		if t.Op == "-" {
			if typ != TypeInt {
				return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("operand of - must be int, found %s", typ)}
			}
			t.typ = TypeInt
		} else {
			if typ != TypeBoolean {
				return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("operand of ! must be boolean, found %s", typ)}
			}
			t.typ = TypeBoolean
		}
		return t.typ, nil

	case *BinaryExpr:
		lhs, err := self.expr(t.Lhs)
		if err != nil {
			return TypeVoid, err
		}
		rhs, err := self.expr(t.Rhs)
		if err != nil {
			return TypeVoid, err
		}
		switch t.Op {
		case "+", "-", "*", "/", "%":
			if lhs != TypeInt || rhs != TypeInt {
				return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("operands of %s must be int", t.Op)}
			}
			t.typ = TypeInt
		case "<", "<=", ">", ">=":
			if lhs != TypeInt || rhs != TypeInt {
				return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("operands of %s must be int", t.Op)}
			}
			t.typ = TypeBoolean
		case "==", "!=":
			if lhs != rhs {
				return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("operands of %s must have the same type", t.Op)}
			}
			t.typ = TypeBoolean
		case "&&", "||":
			if lhs != TypeBoolean || rhs != TypeBoolean {
				return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("operands of %s must be boolean", t.Op)}
			}
			t.typ = TypeBoolean
		}
		return t.typ, nil

	case *CallExpr:
		args := make([]Type, 0, len(t.Args))
		for _, arg := range t.Args {
			typ, err := self.expr(arg)
			if err != nil {
				return TypeVoid, err
			}
			args = append(args, typ)
		}
		sym := self.resolveMethod(t.Name, args)
		if sym == nil {
			return TypeVoid, &SemError{Line: t.exprLine(), Reason: fmt.Sprintf("undefined method %s", t.Name)}
		}
		t.method = sym
		return sym.ret, nil
	}
}
