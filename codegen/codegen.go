// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

// Package codegen generates Yul functions that encode stack values into the ABI head/tail
// layout.
//
// An EncoderGenerator owns one generation pass. Helper functions (cleanups, per-type
// encoders) are requested through its FunctionRegistry and emitted once per pass, no matter
// how many tuple encodings reference them. Callers collect them with RequestedFunctions and
// must do so before calling Close.
package codegen

import (
	"go.uber.org/zap"

	"github.com/pk910/dynamic-abi/abitypes"
)

// CodeGeneratorOption configures an EncoderGenerator.
type CodeGeneratorOption func(*CodeGeneratorOptions)

// CodeGeneratorOptions holds the settings applied by CodeGeneratorOption funcs.
type CodeGeneratorOptions struct {
	Logger *zap.Logger

	// ContractCleanupBits is the width of the integer cleanup contract values delegate to.
	ContractCleanupBits uint16
}

// WithLogger sets the logger used for debug output of the generation pass.
func WithLogger(logger *zap.Logger) CodeGeneratorOption {
	return func(opts *CodeGeneratorOptions) {
		opts.Logger = logger
	}
}

// WithContractCleanupBits overrides the integer width used to clean contract values.
func WithContractCleanupBits(bits uint16) CodeGeneratorOption {
	return func(opts *CodeGeneratorOptions) {
		opts.ContractCleanupBits = bits
	}
}

// EncoderGenerator generates ABI encoding code for one pass.
// It is not safe for concurrent use; independent passes use independent generators.
type EncoderGenerator struct {
	options  *CodeGeneratorOptions
	logger   *zap.Logger
	registry *FunctionRegistry
	contract abitypes.Type
}

// NewEncoderGenerator creates a generator with an empty function registry.
func NewEncoderGenerator(opts ...CodeGeneratorOption) *EncoderGenerator {
	options := &CodeGeneratorOptions{
		ContractCleanupBits: 120,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EncoderGenerator{
		options:  options,
		logger:   logger,
		registry: NewFunctionRegistry(logger),
		contract: abitypes.NewIntegerType(options.ContractCleanupBits, false),
	}
}

// Registry exposes the function registry of this pass.
func (g *EncoderGenerator) Registry() *FunctionRegistry {
	return g.registry
}

// RequestedFunctions returns the text of all functions requested since the last call, in
// ascending name order, and clears the registry.
func (g *EncoderGenerator) RequestedFunctions() string {
	return g.registry.Drain()
}

// Close ends the generation pass. It fails if requested functions were never collected.
func (g *EncoderGenerator) Close() error {
	return g.registry.Close()
}
