// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package main

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/pk910/dynamic-abi/codegen"
	"github.com/pk910/dynamic-abi/yulexec"
)

// runResult is the memory written by one tuple encoding.
type runResult struct {
	HeadStart uint64
	End       uint64
	Words     []*uint256.Int
}

func parseWord(value string) (*uint256.Int, error) {
	bigValue, ok := new(big.Int).SetString(value, 0)
	if !ok || bigValue.Sign() < 0 {
		return nil, fmt.Errorf("invalid sample value '%s'", value)
	}
	word, overflow := uint256.FromBig(bigValue)
	if overflow {
		return nil, fmt.Errorf("sample value '%s' exceeds 256 bits", value)
	}
	return word, nil
}

// runTuple executes a generated tuple block with the sample values of its manifest entry.
func runTuple(tuple *codegen.GeneratedTuple, functions string, values []string, headStart uint64) (*runResult, error) {
	program, err := yulexec.Parse(functions + "\n" + tuple.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated code: %w", err)
	}

	vars := map[string]*uint256.Int{
		"$headStart": uint256.NewInt(headStart),
	}
	for i, value := range values {
		word, err := parseWord(value)
		if err != nil {
			return nil, err
		}
		vars[fmt.Sprintf("$value%d", i)] = word
	}

	in := yulexec.NewInterpreter(program)
	if err := in.Run(vars); err != nil {
		return nil, err
	}

	end := vars["$value0"]
	if !end.IsUint64() || end.Uint64() < headStart {
		return nil, fmt.Errorf("encoding returned invalid end pointer %s", end.Hex())
	}

	result := &runResult{
		HeadStart: headStart,
		End:       end.Uint64(),
	}
	for offset := headStart; offset < result.End; offset += 32 {
		result.Words = append(result.Words, in.MemoryWord(offset))
	}
	return result, nil
}

func runTuples(logger *zap.Logger, result *codegen.GenerationResult, manifest *Manifest, headStart uint64) error {
	samples := make(map[string][]string, len(manifest.Tuples))
	for _, tuple := range manifest.Tuples {
		samples[tuple.Name] = tuple.Values
	}

	for _, tuple := range result.Tuples {
		values := samples[tuple.Request.Name]
		if len(values) == 0 {
			logger.Info("skipping tuple without sample values", zap.String("tuple", tuple.Request.Name))
			continue
		}

		res, err := runTuple(tuple, result.Functions, values, headStart)
		if err != nil {
			return fmt.Errorf("tuple %s: %w", tuple.Request.Name, err)
		}

		for i, word := range res.Words {
			logger.Info("encoded head word",
				zap.String("tuple", tuple.Request.Name),
				zap.Uint64("offset", uint64(i)*32),
				zap.String("word", word.Hex()),
			)
		}
		logger.Info("tuple encoded",
			zap.String("tuple", tuple.Request.Name),
			zap.Uint64("size", res.End-res.HeadStart),
		)
	}
	return nil
}
