// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package yulexec

import (
	"fmt"

	"github.com/holiman/uint256"
)

type builtinFunc struct {
	args int
	fn   func(in *Interpreter, args []*uint256.Int) ([]*uint256.Int, error)
}

func single(value *uint256.Int) ([]*uint256.Int, error) {
	return []*uint256.Int{value}, nil
}

func boolWord(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

func binary(op func(z, x, y *uint256.Int) *uint256.Int) builtinFunc {
	return builtinFunc{args: 2, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
		return single(op(new(uint256.Int), args[0], args[1]))
	}}
}

func compare(op func(x, y *uint256.Int) bool) builtinFunc {
	return builtinFunc{args: 2, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
		return single(boolWord(op(args[0], args[1])))
	}}
}

// shift amounts of 256 and above clear the word, except for sar which sign fills.
func shift(op func(z, x *uint256.Int, n uint) *uint256.Int, fill func(x *uint256.Int) *uint256.Int) builtinFunc {
	return builtinFunc{args: 2, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
		if !args[0].IsUint64() || args[0].Uint64() >= 256 {
			return single(fill(args[1]))
		}
		return single(op(new(uint256.Int), args[1], uint(args[0].Uint64())))
	}}
}

func zeroFill(*uint256.Int) *uint256.Int {
	return new(uint256.Int)
}

func signFill(x *uint256.Int) *uint256.Int {
	if x.Sign() < 0 {
		return new(uint256.Int).SetAllOne()
	}
	return new(uint256.Int)
}

var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"add": binary((*uint256.Int).Add),
		"sub": binary((*uint256.Int).Sub),
		"mul": binary((*uint256.Int).Mul),
		"div": binary((*uint256.Int).Div),
		"mod": binary((*uint256.Int).Mod),
		"and": binary((*uint256.Int).And),
		"or":  binary((*uint256.Int).Or),
		"xor": binary((*uint256.Int).Xor),
		"not": {args: 1, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			return single(new(uint256.Int).Not(args[0]))
		}},
		"iszero": {args: 1, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			return single(boolWord(args[0].IsZero()))
		}},
		"eq":  compare((*uint256.Int).Eq),
		"lt":  compare((*uint256.Int).Lt),
		"gt":  compare((*uint256.Int).Gt),
		"slt": compare((*uint256.Int).Slt),
		"sgt": compare((*uint256.Int).Sgt),
		"shl": shift((*uint256.Int).Lsh, zeroFill),
		"shr": shift((*uint256.Int).Rsh, zeroFill),
		"sar": shift((*uint256.Int).SRsh, signFill),
		"signextend": {args: 2, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			return single(new(uint256.Int).ExtendSign(args[1], args[0]))
		}},
		"byte": {args: 2, fn: func(_ *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			return single(new(uint256.Int).Set(args[1]).Byte(args[0]))
		}},
		"mstore": {args: 2, fn: func(in *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			offset, err := in.expandMemory(args[0], 32)
			if err != nil {
				return nil, err
			}
			word := args[1].Bytes32()
			copy(in.memory[offset:offset+32], word[:])
			return nil, nil
		}},
		"mstore8": {args: 2, fn: func(in *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			offset, err := in.expandMemory(args[0], 1)
			if err != nil {
				return nil, err
			}
			in.memory[offset] = byte(args[1].Uint64())
			return nil, nil
		}},
		"mload": {args: 1, fn: func(in *Interpreter, args []*uint256.Int) ([]*uint256.Int, error) {
			offset, err := in.expandMemory(args[0], 32)
			if err != nil {
				return nil, err
			}
			return single(new(uint256.Int).SetBytes32(in.memory[offset : offset+32]))
		}},
		"revert": {args: 2, fn: func(*Interpreter, []*uint256.Int) ([]*uint256.Int, error) {
			return nil, ErrRevert
		}},
		"invalid": {args: 0, fn: func(*Interpreter, []*uint256.Int) ([]*uint256.Int, error) {
			return nil, ErrInvalid
		}},
	}
}

// expandMemory grows memory to cover [offset, offset+size) and returns the offset.
func (in *Interpreter) expandMemory(offsetWord *uint256.Int, size uint64) (uint64, error) {
	if !offsetWord.IsUint64() {
		return 0, fmt.Errorf("%w: offset %s", ErrMemoryLimit, offsetWord.Hex())
	}
	offset := offsetWord.Uint64()
	end := offset + size
	if end < offset || end > in.memoryLimit {
		return 0, fmt.Errorf("%w: offset %d", ErrMemoryLimit, offset)
	}
	if end > uint64(len(in.memory)) {
		// round up to full words
		newSize := (end + 31) / 32 * 32
		grown := make([]byte, newSize)
		copy(grown, in.memory)
		in.memory = grown
	}
	return offset, nil
}
