// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package dynabi

import (
	"go.uber.org/zap"
)

// DynAbiOption configures a DynAbi instance.
type DynAbiOption func(*DynAbiOptions)

// DynAbiOptions holds the settings applied by DynAbiOption funcs.
type DynAbiOptions struct {
	Logger *zap.Logger

	// ContractCleanupBits is a spec expression for the integer width contract values are
	// cleaned to. Empty keeps the generator default.
	ContractCleanupBits string
}

// WithLogger sets the logger passed to every generator created by the instance.
func WithLogger(logger *zap.Logger) DynAbiOption {
	return func(opts *DynAbiOptions) {
		opts.Logger = logger
	}
}

// WithContractCleanupBits sets the spec expression for the contract cleanup width,
// e.g. "ADDRESS_BITS".
func WithContractCleanupBits(expression string) DynAbiOption {
	return func(opts *DynAbiOptions) {
		opts.ContractCleanupBits = expression
	}
}
