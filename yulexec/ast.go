// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package yulexec

import (
	"github.com/holiman/uint256"
)

// Program is a parsed piece of code: top-level statements plus every function definition
// found anywhere in it. Function names share one global namespace.
type Program struct {
	Functions map[string]*FunctionDef
	Body      []Statement
}

type FunctionDef struct {
	Name    string
	Params  []string
	Returns []string
	Body    []Statement
}

type Statement interface {
	isStatement()
}

type Expression interface {
	isExpression()
}

type (
	// LetStatement declares variables, zero initialized unless Value is set.
	LetStatement struct {
		Names []string
		Value Expression
	}

	AssignStatement struct {
		Names []string
		Value Expression
	}

	ExpressionStatement struct {
		Call *CallExpression
	}

	SwitchStatement struct {
		Value      Expression
		Cases      []SwitchCase
		Default    []Statement
		HasDefault bool
	}

	IfStatement struct {
		Condition Expression
		Body      []Statement
	}

	BlockStatement struct {
		Body []Statement
	}
)

type SwitchCase struct {
	Value *uint256.Int
	Body  []Statement
}

type (
	Literal struct {
		Value *uint256.Int
	}

	Identifier struct {
		Name string
	}

	CallExpression struct {
		Name string
		Args []Expression
	}
)

func (*LetStatement) isStatement()        {}
func (*AssignStatement) isStatement()     {}
func (*ExpressionStatement) isStatement() {}
func (*SwitchStatement) isStatement()     {}
func (*IfStatement) isStatement()         {}
func (*BlockStatement) isStatement()      {}

func (*Literal) isExpression()        {}
func (*Identifier) isExpression()     {}
func (*CallExpression) isExpression() {}
