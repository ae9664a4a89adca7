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

	"github.com/iotalang/iotac/internal/classfile"
)

// Codegen emits the analyzed unit into an in-memory class file. Boolean
// expressions compile through a branch-polarity scheme: branch emits a jump
// to the target label taken when the expression's value equals onTrue, and
// value contexts materialize booleans as 1/0 through the same scheme.
func Codegen(unit *CompilationUnit) *classfile.File {
	file := &classfile.File{Pool: classfile.NewConstantPool()}
	asm := classfile.NewAssembler(file)

	for _, m := range unit.Methods {
		g := &generator{asm: asm}
		asm.StartMethod(m.Name, m.Descriptor())
		g.stmt(m.Body)
		if !alwaysReturns(m.Body) {
			asm.AddNoArg(classfile.RETURN)
		}
		asm.EndMethod(m.maxLocals)
	}
	return file
}

type generator struct {
	asm *classfile.Assembler
}

func (self *generator) stmt(s Stmt) {
	switch t := s.(type) {
	default:
		panic(fmt.Sprintf("syntax: cannot generate %T", s))

	case *Block:
		for _, inner := range t.Stmts {
			self.stmt(inner)
		}

	case *VarDecl:
		if t.Init != nil {
			self.expr(t.Init)
			self.asm.AddLoadStore(classfile.ISTORE, t.sym.slot)
		}

	case *IfStmt:
		elseLabel := self.asm.CreateLabel()
		endLabel := self.asm.CreateLabel()
		self.branch(t.Cond, elseLabel, false)
		self.stmt(t.Then)

		/* no join jump when the then arm cannot fall out of the if; a goto
		 * there would target past the end of the method when the else arm
		 * returns too */
		join := t.Else != nil && !alwaysReturns(t.Then)
		if join {
			self.asm.AddBranch(classfile.GOTO, endLabel)
		}
		self.asm.AddLabel(elseLabel)
		if t.Else != nil {
			self.stmt(t.Else)
			if join {
				self.asm.AddLabel(endLabel)
			}
		}

	case *WhileStmt:
		testLabel := self.asm.CreateLabel()
		endLabel := self.asm.CreateLabel()
		self.asm.AddLabel(testLabel)
		self.branch(t.Cond, endLabel, false)
		self.stmt(t.Body)
		self.asm.AddBranch(classfile.GOTO, testLabel)
		self.asm.AddLabel(endLabel)

	case *ReturnStmt:
		if t.Value == nil {
			self.asm.AddNoArg(classfile.RETURN)
		} else {
			self.expr(t.Value)
			self.asm.AddNoArg(classfile.IRETURN)
		}

	case *ExprStmt:
		switch e := t.Expr.(type) {
		case *AssignExpr:
			/* no DUP in statement position; the value is not needed */
			self.expr(e.Rhs)
			self.asm.AddLoadStore(classfile.ISTORE, e.Target.sym.slot)
		case *CallExpr:
			self.expr(e)
			if e.method.ret != TypeVoid {
				self.asm.AddNoArg(classfile.POP)
			}
		}
	}
}

func (self *generator) expr(e Expr) {
	switch t := e.(type) {
	default:
		panic(fmt.Sprintf("syntax: cannot generate %T", e))

	case *Literal:
		self.asm.AddLDC(t.Value)

	case *BoolLiteral:
		if t.Value {
			self.asm.AddNoArg(classfile.ICONST_1)
		} else {
			self.asm.AddNoArg(classfile.ICONST_0)
		}

	case *VarExpr:
		self.asm.AddLoadStore(classfile.ILOAD, t.sym.slot)

	case *AssignExpr:
		self.expr(t.Rhs)
		self.asm.AddNoArg(classfile.DUP)
		self.asm.AddLoadStore(classfile.ISTORE, t.Target.sym.slot)

	case *UnaryExpr:
		if t.Op == "-" {
			self.expr(t.Operand)
			self.asm.AddNoArg(classfile.INEG)
		} else {
			self.materialize(t)
		}

	case *BinaryExpr:
		switch t.Op {
		case "+":
			self.arith(t, classfile.IADD)
		case "-":
			self.arith(t, classfile.ISUB)
		case "*":
			self.arith(t, classfile.IMUL)
		case "/":
			self.arith(t, classfile.IDIV)
		case "%":
			self.arith(t, classfile.IREM)
		default:
			self.materialize(t)
		}

	case *CallExpr:
		for _, arg := range t.Args {
			self.expr(arg)
		}
		self.asm.AddInvoke(t.method.name, t.method.descriptor())
	}
}

func (self *generator) arith(t *BinaryExpr, op int) {
	self.expr(t.Lhs)
	self.expr(t.Rhs)
	self.asm.AddNoArg(op)
}

/* a boolean expression in value position becomes 1 or 0 */
func (self *generator) materialize(e Expr) {
	falseLabel := self.asm.CreateLabel()
	trueLabel := self.asm.CreateLabel()
	self.branch(e, falseLabel, false)
	self.asm.AddNoArg(classfile.ICONST_1)
	self.asm.AddBranch(classfile.GOTO, trueLabel)
	self.asm.AddLabel(falseLabel)
	self.asm.AddNoArg(classfile.ICONST_0)
	self.asm.AddLabel(trueLabel)
}

var cmpOnTrue = map[string]int{
	"==": classfile.IF_ICMPEQ,
	"!=": classfile.IF_ICMPNE,
	"<":  classfile.IF_ICMPLT,
	"<=": classfile.IF_ICMPLE,
	">":  classfile.IF_ICMPGT,
	">=": classfile.IF_ICMPGE,
}

var cmpOnFalse = map[string]int{
	"==": classfile.IF_ICMPNE,
	"!=": classfile.IF_ICMPEQ,
	"<":  classfile.IF_ICMPGE,
	"<=": classfile.IF_ICMPGT,
	">":  classfile.IF_ICMPLE,
	">=": classfile.IF_ICMPLT,
}

/* branch emits a jump to target taken when e evaluates to onTrue */
func (self *generator) branch(e Expr, target string, onTrue bool) {
	switch t := e.(type) {
	case *BoolLiteral:
		if t.Value == onTrue {
			self.asm.AddBranch(classfile.GOTO, target)
		}
		return

	case *UnaryExpr:
		if t.Op == "!" {
			self.branch(t.Operand, target, !onTrue)
			return
		}

	case *BinaryExpr:
		switch t.Op {
		case "==", "!=", "<", "<=", ">", ">=":
			self.expr(t.Lhs)
			self.expr(t.Rhs)
			if onTrue {
				self.asm.AddBranch(cmpOnTrue[t.Op], target)
			} else {
				self.asm.AddBranch(cmpOnFalse[t.Op], target)
			}
			return

		case "&&":
			if onTrue {
				skip := self.asm.CreateLabel()
				self.branch(t.Lhs, skip, false)
				self.branch(t.Rhs, target, true)
				self.asm.AddLabel(skip)
			} else {
				self.branch(t.Lhs, target, false)
				self.branch(t.Rhs, target, false)
			}
			return

		case "||":
			if onTrue {
				self.branch(t.Lhs, target, true)
				self.branch(t.Rhs, target, true)
			} else {
				skip := self.asm.CreateLabel()
				self.branch(t.Lhs, skip, true)
				self.branch(t.Rhs, target, false)
				self.asm.AddLabel(skip)
			}
			return
		}
	}

	/* any other boolean-valued expression: evaluate and compare against 0 */
	self.expr(e)
	if onTrue {
		self.asm.AddBranch(classfile.IFNE, target)
	} else {
		self.asm.AddBranch(classfile.IFEQ, target)
	}
}
