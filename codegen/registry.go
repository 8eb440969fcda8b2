// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pk910/dynamic-abi/abiutils"
)

// FunctionGenerator renders the complete text of a requested function.
type FunctionGenerator func() (string, error)

// FunctionRegistry deduplicates generated helper functions by name for one generation pass.
//
// The first request for a name runs its generator and stores the result; later requests for
// the same name return immediately. Generators may request further functions while running.
// A registry is not safe for concurrent use.
type FunctionRegistry struct {
	functions map[string]string
	pending   map[string]bool
	logger    *zap.Logger
}

// NewFunctionRegistry creates an empty registry. logger may be nil.
func NewFunctionRegistry(logger *zap.Logger) *FunctionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FunctionRegistry{
		functions: make(map[string]string),
		pending:   make(map[string]bool),
		logger:    logger,
	}
}

// RequestFunction returns name, generating and storing the function body on first request.
//
// If the generator fails, nothing is stored and the error is returned. A generator that
// requests its own name before returning is reported as an internal fault.
func (r *FunctionRegistry) RequestFunction(name string, generator FunctionGenerator) (string, error) {
	if _, exists := r.functions[name]; exists {
		r.logger.Debug("reusing generated function", zap.String("name", name))
		return name, nil
	}
	if r.pending[name] {
		return "", abiutils.Internal("requestFunction", "", "recursive request for %s", name)
	}

	r.pending[name] = true
	body, err := generator()
	delete(r.pending, name)
	if err != nil {
		return "", err
	}

	r.functions[name] = body
	r.logger.Debug("registered generated function", zap.String("name", name), zap.Int("size", len(body)))
	return name, nil
}

// Has reports whether a function with the given name was generated and not drained yet.
func (r *FunctionRegistry) Has(name string) bool {
	_, exists := r.functions[name]
	return exists
}

// Len returns the number of stored functions.
func (r *FunctionRegistry) Len() int {
	return len(r.functions)
}

// Names returns the stored function names in ascending order.
func (r *FunctionRegistry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drain returns all stored function bodies concatenated in ascending name order and empties
// the registry. Draining an empty registry returns an empty string.
func (r *FunctionRegistry) Drain() string {
	if len(r.functions) == 0 {
		return ""
	}

	codeBuf := strings.Builder{}
	for _, name := range r.Names() {
		codeBuf.WriteString(r.functions[name])
	}

	r.logger.Debug("drained generated functions", zap.Int("count", len(r.functions)))
	r.functions = make(map[string]string)
	return codeBuf.String()
}

// Close verifies that every generated function has been drained.
func (r *FunctionRegistry) Close() error {
	if len(r.functions) > 0 {
		return fmt.Errorf("%w: %s", abiutils.ErrUndrainedFunctions, strings.Join(r.Names(), ", "))
	}
	return nil
}
