// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/abiutils"
)

// parseTupleCase reads "source -> target" lines, with an optional leading "library" line.
func parseTupleCase(t *testing.T, data string) (given, target []string, library bool) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "library" {
			library = true
			continue
		}
		source, dest, ok := strings.Cut(line, "->")
		require.True(t, ok, "invalid case line %q", line)
		given = append(given, strings.TrimSpace(source))
		target = append(target, strings.TrimSpace(dest))
	}
	return given, target, library
}

func TestGoldenTuples(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/tuples.txtar")
	require.NoError(t, err)

	files := make(map[string]string, len(archive.Files))
	for _, file := range archive.Files {
		files[file.Name] = string(file.Data)
	}

	cases := 0
	for _, file := range archive.Files {
		caseName, isInput := strings.CutSuffix(file.Name, ".in")
		if !isInput {
			continue
		}
		cases++

		t.Run(caseName, func(t *testing.T) {
			expected, exists := files[caseName+".yul"]
			require.True(t, exists, "missing expected output for %s", caseName)

			given, target, library := parseTupleCase(t, string(file.Data))
			typeCache := abitypes.NewTypeCache(nil)
			givenTypes, err := typeCache.GetTypeDescriptors(given)
			require.NoError(t, err)
			targetTypes, err := typeCache.GetTypeDescriptors(target)
			require.NoError(t, err)

			generator := NewEncoderGenerator()
			code, err := generator.TupleEncoder(toTypes(givenTypes), toTypes(targetTypes), library)
			require.NoError(t, err)
			code += generator.RequestedFunctions()
			require.NoError(t, generator.Close())

			require.Equal(t, expected, code)
		})
	}
	require.Equal(t, 3, cases)
}

func TestCodeGeneratorBatch(t *testing.T) {
	cg := NewCodeGenerator(abitypes.NewTypeCache(nil))

	require.NoError(t, cg.BuildTuple("pair", []string{"uint256", "uint256"}, []string{"uint256", "uint256"}, false))
	require.NoError(t, cg.BuildTuple("flag", []string{"bool", "uint256"}, []string{"bool", "uint256"}, false))
	require.Error(t, cg.BuildTuple("pair", []string{"bool"}, []string{"bool"}, false), "duplicate names are rejected")
	require.Error(t, cg.BuildTuple("broken", []string{"uint7"}, []string{"uint8"}, false))
	require.Len(t, cg.Requests(), 2)

	result, err := cg.GenerateToResult()
	require.NoError(t, err)
	require.Len(t, result.Tuples, 2)
	require.Equal(t, twoWordTuple, result.Tuples[0].Code)
	require.Equal(t, 4, strings.Count(result.Functions, "function "))

	output, err := RenderResult(result)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(output, "// Code generated by abigen. DO NOT EDIT.\n"))
	require.Contains(t, output, "\n// tuple pair\n{\n\tlet dynFree := add($headStart, 64)\n")
	require.Contains(t, output, "\n// tuple flag\n{\n")
	require.Contains(t, output, "\n// requested functions\nfunction abi_encode_t_bool_to_t_bool(")
	require.True(t, strings.HasSuffix(output, "}\n"))
}

func TestCodeGeneratorErrors(t *testing.T) {
	t.Run("NoRequests", func(t *testing.T) {
		_, err := NewCodeGenerator(nil).GenerateToString()
		require.Error(t, err)
	})

	t.Run("NoTypeCache", func(t *testing.T) {
		require.Error(t, NewCodeGenerator(nil).BuildTuple("x", []string{"bool"}, []string{"bool"}, false))
	})

	t.Run("EmptyName", func(t *testing.T) {
		uint256Type := abitypes.NewUint256Type()
		require.Error(t, NewCodeGenerator(nil).AddTuple("", typeList(uint256Type), typeList(uint256Type), false))
	})

	t.Run("GenerationFault", func(t *testing.T) {
		cg := NewCodeGenerator(abitypes.NewTypeCache(nil))
		require.NoError(t, cg.BuildTuple("dynamic", []string{"string"}, []string{"string"}, false))
		_, err := cg.GenerateToString()
		require.ErrorIs(t, err, abiutils.ErrUnimplemented)
	})
}

func TestCodeGeneratorWritesFile(t *testing.T) {
	cg := NewCodeGenerator(abitypes.NewTypeCache(nil))
	require.NoError(t, cg.BuildTuple("pair", []string{"uint256", "uint256"}, []string{"uint256", "uint256"}, false))

	fileName := filepath.Join(t.TempDir(), "out", "encoders.yul")
	require.NoError(t, cg.Generate(fileName))

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	require.Contains(t, string(data), "// tuple pair")
}
