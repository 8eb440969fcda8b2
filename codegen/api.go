// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/codegen/tmpl"
)

// TupleRequest represents a request to generate one tuple encoding.
type TupleRequest struct {
	Name    string
	Given   []abitypes.Type
	Target  []abitypes.Type
	Library bool
}

// GeneratedTuple is the encoder block generated for a TupleRequest.
type GeneratedTuple struct {
	Request *TupleRequest
	Code    string
}

// GenerationResult holds the output of a batch generation pass.
type GenerationResult struct {
	Tuples    []*GeneratedTuple
	Functions string // drained helper functions shared by all tuples
}

// CodeGenerator manages batch generation of several tuple encodings in one pass, so helper
// functions shared between them are emitted once.
type CodeGenerator struct {
	requests  []*TupleRequest
	names     map[string]bool
	typeCache *abitypes.TypeCache
	options   []CodeGeneratorOption
}

// NewCodeGenerator creates a new batch generator. typeCache is used to resolve type names in
// BuildTuple and may be nil if only AddTuple is used.
func NewCodeGenerator(typeCache *abitypes.TypeCache, opts ...CodeGeneratorOption) *CodeGenerator {
	return &CodeGenerator{
		requests:  make([]*TupleRequest, 0),
		names:     make(map[string]bool),
		typeCache: typeCache,
		options:   opts,
	}
}

// BuildTuple adds a tuple encoding given by textual type names.
func (cg *CodeGenerator) BuildTuple(name string, givenTypes, targetTypes []string, library bool) error {
	if cg.typeCache == nil {
		return fmt.Errorf("tuple %s: no type cache available", name)
	}

	given, err := cg.typeCache.GetTypeDescriptors(givenTypes)
	if err != nil {
		return fmt.Errorf("tuple %s: source %w", name, err)
	}
	target, err := cg.typeCache.GetTypeDescriptors(targetTypes)
	if err != nil {
		return fmt.Errorf("tuple %s: target %w", name, err)
	}

	return cg.AddTuple(name, toTypes(given), toTypes(target), library)
}

// AddTuple adds a tuple encoding for already resolved types.
func (cg *CodeGenerator) AddTuple(name string, given, target []abitypes.Type, library bool) error {
	if name == "" {
		return fmt.Errorf("tuple name must not be empty")
	}
	if cg.names[name] {
		return fmt.Errorf("tuple %s requested twice", name)
	}

	cg.names[name] = true
	cg.requests = append(cg.requests, &TupleRequest{
		Name:    name,
		Given:   given,
		Target:  target,
		Library: library,
	})
	return nil
}

// Requests returns the tuple requests in insertion order.
func (cg *CodeGenerator) Requests() []*TupleRequest {
	return cg.requests
}

// GenerateToResult generates all requested tuple encodings in a single pass.
func (cg *CodeGenerator) GenerateToResult() (*GenerationResult, error) {
	if len(cg.requests) == 0 {
		return nil, fmt.Errorf("no tuples requested for generation")
	}

	generator := NewEncoderGenerator(cg.options...)
	result := &GenerationResult{
		Tuples: make([]*GeneratedTuple, 0, len(cg.requests)),
	}

	for _, req := range cg.requests {
		code, err := generator.TupleEncoder(req.Given, req.Target, req.Library)
		if err != nil {
			return nil, fmt.Errorf("failed to generate tuple %s: %w", req.Name, err)
		}
		result.Tuples = append(result.Tuples, &GeneratedTuple{
			Request: req,
			Code:    code,
		})
	}

	result.Functions = generator.RequestedFunctions()
	if err := generator.Close(); err != nil {
		return nil, err
	}

	return result, nil
}

// GenerateToString generates all requested tuple encodings and renders them into one file.
func (cg *CodeGenerator) GenerateToString() (string, error) {
	result, err := cg.GenerateToResult()
	if err != nil {
		return "", err
	}
	return RenderResult(result)
}

// Generate writes the rendered output to fileName, creating parent directories as needed.
func (cg *CodeGenerator) Generate(fileName string) error {
	code, err := cg.GenerateToString()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	dir := filepath.Dir(fileName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(fileName, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write code to file %s: %w", fileName, err)
	}
	return nil
}

// RenderResult renders a generation result with the output header.
func RenderResult(result *GenerationResult) (string, error) {
	model := tmpl.Output{
		Version:   Version,
		Tuples:    make([]tmpl.OutputTuple, 0, len(result.Tuples)),
		Functions: result.Functions,
	}
	for _, tuple := range result.Tuples {
		model.Tuples = append(model.Tuples, tmpl.OutputTuple{
			Name: tuple.Request.Name,
			Code: tuple.Code,
		})
	}

	code, err := renderTemplate("tmpl/output.tmpl", "output", model)
	if err != nil {
		return "", fmt.Errorf("failed to render output: %w", err)
	}
	return strings.TrimLeft(code, "\n"), nil
}

func toTypes(descs []*abitypes.TypeDescriptor) []abitypes.Type {
	types := make([]abitypes.Type, len(descs))
	for i, desc := range descs {
		types[i] = desc
	}
	return types
}
