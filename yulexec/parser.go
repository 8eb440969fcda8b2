// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package yulexec

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

type parser struct {
	tokens    []token
	pos       int
	functions map[string]*FunctionDef
}

// Parse parses source code into a Program.
//
// The source may be a sequence of statements, a single braced block or a mix of function
// definitions and statements, which covers both the drained function bodies and the code
// blocks produced by the tuple encoder.
func Parse(src string) (*Program, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{
		tokens:    tokens,
		functions: make(map[string]*FunctionDef),
	}

	body := []Statement{}
	for p.peek().kind != tokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}

	return &Program{
		Functions: p.functions,
		Body:      body,
	}, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isPunct(text string) bool {
	tok := p.peek()
	return tok.kind == tokenPunct && tok.text == text
}

func (p *parser) isKeyword(text string) bool {
	tok := p.peek()
	return tok.kind == tokenIdent && tok.text == text
}

func (p *parser) expectPunct(text string) error {
	tok := p.next()
	if tok.kind != tokenPunct || tok.text != text {
		return fmt.Errorf("expected '%s', got %v", text, tok)
	}
	return nil
}

func (p *parser) expectIdent() (string, error) {
	tok := p.next()
	if tok.kind != tokenIdent {
		return "", fmt.Errorf("expected identifier, got %v", tok)
	}
	return tok.text, nil
}

func (p *parser) parseBlock() ([]Statement, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	body := []Statement{}
	for !p.isPunct("}") {
		if p.peek().kind == tokenEOF {
			return nil, fmt.Errorf("unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.next()

	return body, nil
}

// parseStatement returns nil for function definitions, which are hoisted into the program.
func (p *parser) parseStatement() (Statement, error) {
	tok := p.peek()

	switch {
	case tok.kind == tokenPunct && tok.text == "{":
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Body: body}, nil

	case tok.kind != tokenIdent:
		return nil, fmt.Errorf("unexpected %v", tok)

	case tok.text == "function":
		return nil, p.parseFunction()

	case tok.text == "let":
		p.next()
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		stmt := &LetStatement{Names: names}
		if p.isPunct(":=") {
			p.next()
			if stmt.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case tok.text == "switch":
		return p.parseSwitch()

	case tok.text == "if":
		p.next()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &IfStatement{Condition: cond, Body: body}, nil
	}

	next := p.peekAt(1)
	if next.kind == tokenPunct && next.text == "(" {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Call: expr.(*CallExpression)}, nil
	}

	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":="); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &AssignStatement{Names: names, Value: value}, nil
}

func (p *parser) parseNameList() ([]string, error) {
	names := []string{}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.isPunct(",") {
			return names, nil
		}
		p.next()
	}
}

func (p *parser) parseFunction() error {
	p.next() // function

	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, exists := p.functions[name]; exists {
		return fmt.Errorf("duplicate function definition '%s'", name)
	}

	def := &FunctionDef{Name: name}

	if err := p.expectPunct("("); err != nil {
		return err
	}
	if !p.isPunct(")") {
		if def.Params, err = p.parseNameList(); err != nil {
			return err
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return err
	}

	if p.isPunct("->") {
		p.next()
		if def.Returns, err = p.parseNameList(); err != nil {
			return err
		}
	}

	if def.Body, err = p.parseBlock(); err != nil {
		return err
	}

	p.functions[name] = def
	return nil
}

func (p *parser) parseSwitch() (Statement, error) {
	p.next() // switch

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &SwitchStatement{Value: value}

	for p.isKeyword("case") {
		p.next()
		tok := p.next()
		if tok.kind != tokenNumber {
			return nil, fmt.Errorf("expected case literal, got %v", tok)
		}
		caseValue, err := parseNumber(tok.text)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Cases = append(stmt.Cases, SwitchCase{Value: caseValue, Body: body})
	}

	if p.isKeyword("default") {
		p.next()
		if stmt.Default, err = p.parseBlock(); err != nil {
			return nil, err
		}
		stmt.HasDefault = true
	}

	if len(stmt.Cases) == 0 && !stmt.HasDefault {
		return nil, fmt.Errorf("switch without cases")
	}
	return stmt, nil
}

func (p *parser) parseExpression() (Expression, error) {
	tok := p.next()

	switch tok.kind {
	case tokenNumber:
		value, err := parseNumber(tok.text)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: value}, nil

	case tokenIdent:
		if !p.isPunct("(") {
			return &Identifier{Name: tok.text}, nil
		}
		p.next()

		call := &CallExpression{Name: tok.text}
		for !p.isPunct(")") {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return call, nil
	}

	return nil, fmt.Errorf("expected expression, got %v", tok)
}

func parseNumber(text string) (*uint256.Int, error) {
	base := 10
	digits := text
	if len(text) > 2 && text[:2] == "0x" {
		base = 16
		digits = text[2:]
	}

	bigValue, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid number literal '%s'", text)
	}
	value, overflow := uint256.FromBig(bigValue)
	if overflow {
		return nil, fmt.Errorf("number literal '%s' exceeds 256 bits", text)
	}
	return value, nil
}
