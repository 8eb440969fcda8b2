// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

// Package dynabi generates ABI encoding code for Yul with spec dependent type sizes.
//
// A DynAbi instance bundles the pieces a generation pass needs: a type cache that turns
// textual type names into descriptors, and a set of specification values that type names
// may reference (e.g. "uint<ADDRESS_BITS>" or "bytes32[MAX_ITEMS]").
//
// Example usage:
//
//	specs := map[string]any{
//	    "ADDRESS_BITS": uint64(160),
//	}
//	da := dynabi.NewDynAbi(specs)
//
//	code, functions, err := da.EncodeTuple(
//	    []string{"uint<ADDRESS_BITS>", "bool"},
//	    []string{"uint<ADDRESS_BITS>", "bool"},
//	    false,
//	)
package dynabi

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/codegen"
)

// DynAbi holds the type cache and specification values of a code generation setup.
// It is safe for concurrent use; the generators it creates are not.
type DynAbi struct {
	typeCache      *abitypes.TypeCache
	specValues     map[string]any
	specValueCache map[string]*cachedSpecValue
	specValueMutex sync.Mutex
	logger         *zap.Logger
	options        *DynAbiOptions
}

// NewDynAbi creates a new instance with the given specification values. specs may be nil.
func NewDynAbi(specs map[string]any, options ...DynAbiOption) *DynAbi {
	specValues := make(map[string]any, len(specs))
	for name, value := range specs {
		// govaluate only does arithmetic on float64
		if number, ok := specNumber(value); ok {
			value = number
		}
		specValues[name] = value
	}

	opts := &DynAbiOptions{}
	for _, option := range options {
		option(opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dynabi := &DynAbi{
		specValues:     specValues,
		specValueCache: map[string]*cachedSpecValue{},
		logger:         logger,
		options:        opts,
	}
	dynabi.typeCache = abitypes.NewTypeCache(dynabi)

	return dynabi
}

// GetTypeCache returns the type cache of this instance.
func (d *DynAbi) GetTypeCache() *abitypes.TypeCache {
	return d.typeCache
}

// GetTypes resolves type names into types, preserving order.
func (d *DynAbi) GetTypes(typeNames ...string) ([]abitypes.Type, error) {
	descs, err := d.typeCache.GetTypeDescriptors(typeNames)
	if err != nil {
		return nil, err
	}

	types := make([]abitypes.Type, len(descs))
	for i, desc := range descs {
		types[i] = desc
	}
	return types, nil
}

func (d *DynAbi) generatorOptions(opts []codegen.CodeGeneratorOption) ([]codegen.CodeGeneratorOption, error) {
	base := []codegen.CodeGeneratorOption{codegen.WithLogger(d.logger)}
	if d.options.ContractCleanupBits != "" {
		bits, err := d.contractCleanupBits()
		if err != nil {
			return nil, fmt.Errorf("contract cleanup width: %w", err)
		}
		base = append(base, codegen.WithContractCleanupBits(bits))
	}
	return append(base, opts...), nil
}

func (d *DynAbi) contractCleanupBits() (uint16, error) {
	ok, value, err := d.ResolveSpecValue(d.options.ContractCleanupBits)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("unresolved spec expression '%v'", d.options.ContractCleanupBits)
	}
	if value == 0 || value > 256 || value%8 != 0 {
		return 0, fmt.Errorf("invalid integer width %d", value)
	}
	return uint16(value), nil
}

// NewEncoderGenerator starts a new generation pass using the logger of this instance.
// It fails if the configured contract cleanup width does not resolve to a valid integer width.
func (d *DynAbi) NewEncoderGenerator(opts ...codegen.CodeGeneratorOption) (*codegen.EncoderGenerator, error) {
	options, err := d.generatorOptions(opts)
	if err != nil {
		return nil, err
	}
	return codegen.NewEncoderGenerator(options...), nil
}

// NewCodeGenerator creates a batch generator resolving type names through this instance.
func (d *DynAbi) NewCodeGenerator(opts ...codegen.CodeGeneratorOption) (*codegen.CodeGenerator, error) {
	options, err := d.generatorOptions(opts)
	if err != nil {
		return nil, err
	}
	return codegen.NewCodeGenerator(d.typeCache, options...), nil
}

// EncodeTuple generates a single tuple encoding in its own pass and returns the tuple block
// together with the helper functions it calls.
func (d *DynAbi) EncodeTuple(givenTypes, targetTypes []string, library bool) (string, string, error) {
	given, err := d.GetTypes(givenTypes...)
	if err != nil {
		return "", "", fmt.Errorf("source %w", err)
	}
	target, err := d.GetTypes(targetTypes...)
	if err != nil {
		return "", "", fmt.Errorf("target %w", err)
	}

	generator, err := d.NewEncoderGenerator()
	if err != nil {
		return "", "", err
	}
	code, err := generator.TupleEncoder(given, target, library)
	if err != nil {
		return "", "", err
	}

	functions := generator.RequestedFunctions()
	if err := generator.Close(); err != nil {
		return "", "", err
	}
	return code, functions, nil
}
