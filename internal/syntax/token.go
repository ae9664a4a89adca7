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

// Kind enumerates the iota token kinds.
type Kind int

const (
	EOF Kind = iota
	IDENT
	NUMBER

	// keywords
	KwBoolean
	KwElse
	KwFalse
	KwIf
	KwInt
	KwReturn
	KwTrue
	KwVoid
	KwWhile

	// punctuation and operators
	LParen
	RParen
	LCurly
	RCurly
	Comma
	Semi
	Assign
	LOr
	LAnd
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Plus
	Minus
	Star
	Slash
	Percent
	Not
)

var kindNames = map[Kind]string{
	EOF:       "<EOF>",
	IDENT:     "identifier",
	NUMBER:    "number",
	KwBoolean: "boolean",
	KwElse:    "else",
	KwFalse:   "false",
	KwIf:      "if",
	KwInt:     "int",
	KwReturn:  "return",
	KwTrue:    "true",
	KwVoid:    "void",
	KwWhile:   "while",
	LParen:    "(",
	RParen:    ")",
	LCurly:    "{",
	RCurly:    "}",
	Comma:     ",",
	Semi:      ";",
	Assign:    "=",
	LOr:       "||",
	LAnd:      "&&",
	Eq:        "==",
	Ne:        "!=",
	Lt:        "<",
	Le:        "<=",
	Gt:        ">",
	Ge:        ">=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Not:       "!",
}

func (k Kind) String() string {
	return kindNames[k]
}

var keywords = map[string]Kind{
	"boolean": KwBoolean,
	"else":    KwElse,
	"false":   KwFalse,
	"if":      KwIf,
	"int":     KwInt,
	"return":  KwReturn,
	"true":    KwTrue,
	"void":    KwVoid,
	"while":   KwWhile,
}

// Token is one lexeme with its source line.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, NUMBER:
		return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}

// Error is a scan or parse error at a source line.
type Error struct {
	Line   int
	Reason string
}

func (self *Error) Error() string {
	return fmt.Sprintf("line %d: %s", self.Line, self.Reason)
}
