// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package yulexec

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	ErrRevert             = errors.New("execution reverted")
	ErrInvalid            = errors.New("invalid opcode")
	ErrUnknownFunction    = errors.New("unknown function")
	ErrUndefinedVariable  = errors.New("undefined variable")
	ErrArgumentCount      = errors.New("argument count mismatch")
	ErrMemoryLimit        = errors.New("memory limit exceeded")
	ErrCallDepthExceeded  = errors.New("call depth exceeded")
	ErrRedeclaredVariable = errors.New("variable redeclared")
)

const (
	defaultMemoryLimit = 1 << 20
	maxCallDepth       = 1024
)

// Interpreter executes a parsed Program against a private memory.
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	program     *Program
	memory      []byte
	memoryLimit uint64
	depth       int
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithMemoryLimit caps the highest addressable memory byte.
func WithMemoryLimit(limit uint64) InterpreterOption {
	return func(in *Interpreter) {
		in.memoryLimit = limit
	}
}

// NewInterpreter creates an interpreter for the given program with an empty memory.
func NewInterpreter(program *Program, options ...InterpreterOption) *Interpreter {
	in := &Interpreter{
		program:     program,
		memoryLimit: defaultMemoryLimit,
	}
	for _, option := range options {
		option(in)
	}
	return in
}

type scope struct {
	vars map[string]*uint256.Int
}

func newScope() *scope {
	return &scope{vars: make(map[string]*uint256.Int)}
}

func (s *scope) declare(name string, value *uint256.Int) error {
	if _, exists := s.vars[name]; exists {
		return fmt.Errorf("%w: %s", ErrRedeclaredVariable, name)
	}
	s.vars[name] = value
	return nil
}

func (s *scope) assign(name string, value *uint256.Int) error {
	if _, exists := s.vars[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
	}
	s.vars[name] = value
	return nil
}

func (s *scope) lookup(name string) (*uint256.Int, error) {
	value, exists := s.vars[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
	}
	return value, nil
}

// Call invokes a user defined function and returns its return variables in order.
func (in *Interpreter) Call(name string, args ...*uint256.Int) ([]*uint256.Int, error) {
	def, exists := in.program.Functions[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return in.callFunction(def, args)
}

// Run executes the top-level statements of the program.
//
// vars provides variables visible to the code. Their final values are written back to the
// map, so assignments made by the code can be inspected by the caller. Variables declared
// by the code itself are added to the map as well.
func (in *Interpreter) Run(vars map[string]*uint256.Int) error {
	sc := newScope()
	for name, value := range vars {
		sc.vars[name] = new(uint256.Int).Set(value)
	}

	err := in.execBlock(sc, in.program.Body)

	if vars != nil {
		for name, value := range sc.vars {
			vars[name] = value
		}
	}
	return err
}

// Memory returns a copy of the touched memory region.
func (in *Interpreter) Memory() []byte {
	return append([]byte(nil), in.memory...)
}

// MemoryWord reads the 32 byte word at offset without growing memory.
func (in *Interpreter) MemoryWord(offset uint64) *uint256.Int {
	var word [32]byte
	if offset < uint64(len(in.memory)) {
		copy(word[:], in.memory[offset:])
	}
	return new(uint256.Int).SetBytes32(word[:])
}

func (in *Interpreter) callFunction(def *FunctionDef, args []*uint256.Int) ([]*uint256.Int, error) {
	if len(args) != len(def.Params) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrArgumentCount, def.Name, len(def.Params), len(args))
	}
	if in.depth >= maxCallDepth {
		return nil, ErrCallDepthExceeded
	}
	in.depth++
	defer func() { in.depth-- }()

	sc := newScope()
	for i, param := range def.Params {
		if err := sc.declare(param, new(uint256.Int).Set(args[i])); err != nil {
			return nil, err
		}
	}
	for _, ret := range def.Returns {
		if err := sc.declare(ret, new(uint256.Int)); err != nil {
			return nil, err
		}
	}

	if err := in.execBlock(sc, def.Body); err != nil {
		return nil, err
	}

	results := make([]*uint256.Int, len(def.Returns))
	for i, ret := range def.Returns {
		results[i] = sc.vars[ret]
	}
	return results, nil
}

func (in *Interpreter) execBlock(sc *scope, body []Statement) error {
	for _, stmt := range body {
		if err := in.execStatement(sc, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execStatement(sc *scope, stmt Statement) error {
	switch s := stmt.(type) {
	case *LetStatement:
		values := make([]*uint256.Int, len(s.Names))
		if s.Value != nil {
			results, err := in.evalMulti(sc, s.Value, len(s.Names))
			if err != nil {
				return err
			}
			values = results
		}
		for i, name := range s.Names {
			value := values[i]
			if value == nil {
				value = new(uint256.Int)
			}
			if err := sc.declare(name, value); err != nil {
				return err
			}
		}
		return nil

	case *AssignStatement:
		results, err := in.evalMulti(sc, s.Value, len(s.Names))
		if err != nil {
			return err
		}
		for i, name := range s.Names {
			if err := sc.assign(name, results[i]); err != nil {
				return err
			}
		}
		return nil

	case *ExpressionStatement:
		results, err := in.evalCall(sc, s.Call)
		if err != nil {
			return err
		}
		if len(results) != 0 {
			return fmt.Errorf("%w: result of %s discarded", ErrArgumentCount, s.Call.Name)
		}
		return nil

	case *SwitchStatement:
		value, err := in.eval(sc, s.Value)
		if err != nil {
			return err
		}
		for _, c := range s.Cases {
			if c.Value.Eq(value) {
				return in.execBlock(sc, c.Body)
			}
		}
		if s.HasDefault {
			return in.execBlock(sc, s.Default)
		}
		return nil

	case *IfStatement:
		cond, err := in.eval(sc, s.Condition)
		if err != nil {
			return err
		}
		if !cond.IsZero() {
			return in.execBlock(sc, s.Body)
		}
		return nil

	case *BlockStatement:
		return in.execBlock(sc, s.Body)
	}

	return fmt.Errorf("unsupported statement %T", stmt)
}

func (in *Interpreter) evalMulti(sc *scope, expr Expression, count int) ([]*uint256.Int, error) {
	if call, ok := expr.(*CallExpression); ok {
		results, err := in.evalCall(sc, call)
		if err != nil {
			return nil, err
		}
		if len(results) != count {
			return nil, fmt.Errorf("%w: %s returns %d values, expected %d", ErrArgumentCount, call.Name, len(results), count)
		}
		return results, nil
	}

	if count != 1 {
		return nil, fmt.Errorf("%w: single value assigned to %d variables", ErrArgumentCount, count)
	}
	value, err := in.eval(sc, expr)
	if err != nil {
		return nil, err
	}
	return []*uint256.Int{value}, nil
}

func (in *Interpreter) eval(sc *scope, expr Expression) (*uint256.Int, error) {
	switch e := expr.(type) {
	case *Literal:
		return new(uint256.Int).Set(e.Value), nil
	case *Identifier:
		value, err := sc.lookup(e.Name)
		if err != nil {
			return nil, err
		}
		return new(uint256.Int).Set(value), nil
	case *CallExpression:
		results, err := in.evalCall(sc, e)
		if err != nil {
			return nil, err
		}
		if len(results) != 1 {
			return nil, fmt.Errorf("%w: %s returns %d values in expression", ErrArgumentCount, e.Name, len(results))
		}
		return results[0], nil
	}
	return nil, fmt.Errorf("unsupported expression %T", expr)
}

func (in *Interpreter) evalCall(sc *scope, call *CallExpression) ([]*uint256.Int, error) {
	// arguments are evaluated right to left
	args := make([]*uint256.Int, len(call.Args))
	for i := len(call.Args) - 1; i >= 0; i-- {
		value, err := in.eval(sc, call.Args[i])
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	if def, exists := in.program.Functions[call.Name]; exists {
		return in.callFunction(def, args)
	}
	if builtin, exists := builtins[call.Name]; exists {
		if len(args) != builtin.args {
			return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrArgumentCount, call.Name, builtin.args, len(args))
		}
		return builtin.fn(in, args)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, call.Name)
}
