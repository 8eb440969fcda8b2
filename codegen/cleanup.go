// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/abiutils"
	"github.com/pk910/dynamic-abi/codegen/tmpl"
)

// CleanupFunctionName returns the registry name of the cleanup function for a type.
func CleanupFunctionName(t abitypes.Type, revertOnFailure bool) string {
	mode := "assert"
	if revertOnFailure {
		mode = "revert"
	}
	return "cleanup_" + mode + "_" + t.Identifier()
}

// CleanupFunction requests a function that normalizes a stack value of type t to its
// canonical representation, and returns its name.
//
// Values out of range for enums abort at runtime with revert(0, 0) if revertOnFailure is set,
// invalid() otherwise. Other categories never fail at runtime.
func (g *EncoderGenerator) CleanupFunction(t abitypes.Type, revertOnFailure bool) (string, error) {
	name := CleanupFunctionName(t, revertOnFailure)
	return g.registry.RequestFunction(name, func() (string, error) {
		body, err := g.cleanupBody(t, revertOnFailure)
		if err != nil {
			return "", err
		}
		return renderTemplate("tmpl/functions.tmpl", "cleanup_function", tmpl.CleanupFunction{
			Name: name,
			Body: body,
		})
	})
}

func (g *EncoderGenerator) cleanupBody(t abitypes.Type, revertOnFailure bool) ([]string, error) {
	switch t.Category() {
	case abitypes.CategoryInteger:
		bits := t.NumBits()
		switch {
		case bits == 0 || bits > 256:
			return nil, abiutils.Internal("cleanup", t.Identifier(), "invalid integer width %d", bits)
		case bits == 256:
			return []string{"cleaned := value"}, nil
		case t.IsSigned():
			return []string{fmt.Sprintf("cleaned := signextend(%d, value)", bits/8-1)}, nil
		default:
			return []string{fmt.Sprintf("cleaned := and(value, %s)", lowBitsMask(uint(bits)).Hex())}, nil
		}

	case abitypes.CategoryBool:
		return []string{"cleaned := iszero(iszero(value))"}, nil

	case abitypes.CategoryFixedPoint:
		return nil, abiutils.Unimplemented("cleanup", t.Identifier(), "fixed point types")

	case abitypes.CategoryArray:
		return nil, abiutils.Internal("cleanup", t.Identifier(), "array cleanup requested")

	case abitypes.CategoryStruct:
		return nil, abiutils.Internal("cleanup", t.Identifier(), "struct cleanup requested")

	case abitypes.CategoryFixedBytes:
		size := t.NumBytes()
		switch {
		case size == 0 || size > 32:
			return nil, abiutils.Internal("cleanup", t.Identifier(), "invalid fixed bytes size %d", size)
		case size == 32:
			return []string{"cleaned := value"}, nil
		default:
			return []string{fmt.Sprintf("cleaned := and(value, %s)", highBitsMask(uint(size)*8).Hex())}, nil
		}

	case abitypes.CategoryContract:
		// contracts are cleaned like their address width, always failing with assert semantics
		delegate, err := g.CleanupFunction(g.contract, false)
		if err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("cleaned := %s(value)", delegate)}, nil

	case abitypes.CategoryEnum:
		failure := "invalid()"
		if revertOnFailure {
			failure = "revert(0, 0)"
		}
		return []string{
			"cleaned := value",
			fmt.Sprintf("switch lt(value, %d)", t.NumMembers()),
			fmt.Sprintf("case 0 { %s }", failure),
		}, nil
	}

	return nil, abiutils.Internal("cleanup", t.Identifier(), "cleanup of %v requested", t.Category())
}

// lowBitsMask returns (1 << bits) - 1.
func lowBitsMask(bits uint) *uint256.Int {
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), bits)
	return mask.SubUint64(mask, 1)
}

// highBitsMask returns a mask with the upper bits of a 256 bit word set.
func highBitsMask(bits uint) *uint256.Int {
	mask := lowBitsMask(bits)
	return mask.Lsh(mask, 256-bits)
}
