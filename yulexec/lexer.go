// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

// Package yulexec evaluates the subset of Yul emitted by the encoder generator.
//
// It is a reference evaluator for tests and tooling: 256-bit words, a flat byte-addressed
// memory, user defined functions, let/assignment, switch/if blocks and the builtins the
// generated encoders rely on. Gas, storage, calls and events are not modelled.
package yulexec

import (
	"fmt"
)

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenPunct // { } ( ) , := ->
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s' (line %d)", t.text, t.line)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// tokenize splits source code into tokens, dropping whitespace and comments.
func tokenize(src string) ([]token, error) {
	tokens := make([]token, 0, len(src)/4)
	line := 1
	pos := 0

	for pos < len(src) {
		c := src[pos]
		switch {
		case c == '\n':
			line++
			pos++
		case c == ' ' || c == '\t' || c == '\r':
			pos++
		case c == '/' && pos+1 < len(src) && src[pos+1] == '/':
			for pos < len(src) && src[pos] != '\n' {
				pos++
			}
		case c == '/' && pos+1 < len(src) && src[pos+1] == '*':
			end := pos + 2
			for end+1 < len(src) && !(src[end] == '*' && src[end+1] == '/') {
				if src[end] == '\n' {
					line++
				}
				end++
			}
			if end+1 >= len(src) {
				return nil, fmt.Errorf("unterminated comment at line %d", line)
			}
			pos = end + 2
		case isIdentStart(c):
			start := pos
			for pos < len(src) && isIdentPart(src[pos]) {
				pos++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: src[start:pos], line: line})
		case c >= '0' && c <= '9':
			start := pos
			if c == '0' && pos+1 < len(src) && src[pos+1] == 'x' {
				pos += 2
				for pos < len(src) && isHexDigit(src[pos]) {
					pos++
				}
			} else {
				for pos < len(src) && src[pos] >= '0' && src[pos] <= '9' {
					pos++
				}
			}
			tokens = append(tokens, token{kind: tokenNumber, text: src[start:pos], line: line})
		case c == ':' && pos+1 < len(src) && src[pos+1] == '=':
			tokens = append(tokens, token{kind: tokenPunct, text: ":=", line: line})
			pos += 2
		case c == '-' && pos+1 < len(src) && src[pos+1] == '>':
			tokens = append(tokens, token{kind: tokenPunct, text: "->", line: line})
			pos += 2
		case c == '{' || c == '}' || c == '(' || c == ')' || c == ',':
			tokens = append(tokens, token{kind: tokenPunct, text: string(c), line: line})
			pos++
		default:
			return nil, fmt.Errorf("unexpected character '%c' at line %d", c, line)
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, line: line})
	return tokens, nil
}
