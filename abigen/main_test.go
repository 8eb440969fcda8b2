// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testManifest = `
specs:
  ADDRESS_BITS: 160
tuples:
  - name: transfer
    source: ["uint<ADDRESS_BITS>", uint256]
    values: ["0x1ffffffffffffffffffffffffffffffffffffffff", "1000"]
  - name: flags
    source: [bool, "enum Mode{Off, On}"]
    target: [bool, "enum Mode{Off, On}"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))
	return fileName
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest, err := loadManifest(writeFile(t, dir, "manifest.yaml", testManifest))
	require.NoError(t, err)
	require.Len(t, manifest.Tuples, 2)
	require.Equal(t, manifest.Tuples[0].Source, manifest.Tuples[0].Target, "target defaults to source")

	invalid := map[string]string{
		"empty.yaml":     "tuples: []\n",
		"noname.yaml":    "tuples:\n  - source: [bool]\n",
		"samples.yaml":   "tuples:\n  - name: x\n    source: [bool, bool]\n    values: [\"1\"]\n",
		"malformed.yaml": "tuples: {\n",
	}
	for name, content := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := loadManifest(writeFile(t, dir, name, content))
			require.Error(t, err)
		})
	}

	_, err = loadManifest(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.InfoLevel)

	cfg := &config{
		manifestFile: writeFile(t, dir, "manifest.yaml", testManifest),
		presetFile:   writeFile(t, dir, "preset.yaml", "ADDRESS_BITS: 120\n"),
		outputFile:   filepath.Join(dir, "encoders.yul"),
		run:          true,
		headStart:    0x80,
	}
	require.NoError(t, run(zap.New(core), cfg))

	data, err := os.ReadFile(cfg.outputFile)
	require.NoError(t, err)
	output := string(data)

	// the preset overrides the manifest spec value
	require.Contains(t, output, "abi_encode_t_uint120_to_t_uint120")
	require.Contains(t, output, "// tuple transfer\n")
	require.Contains(t, output, "// tuple flags\n")
	require.Equal(t, 1, strings.Count(output, "function cleanup_assert_t_uint256("))

	words := logs.FilterMessage("encoded head word").All()
	require.Len(t, words, 2)
	require.Equal(t, "0xffffffffffffffffffffffffffffff", words[0].ContextMap()["word"])
	require.Equal(t, "0x3e8", words[1].ContextMap()["word"])
	require.Equal(t, 1, logs.FilterMessage("skipping tuple without sample values").Len())
}

func TestRunTupleErrors(t *testing.T) {
	dir := t.TempDir()

	badSample := "tuples:\n  - name: x\n    source: [\"enum E{A, B}\"]\n    values: [\"2\"]\n"
	err := run(zap.NewNop(), &config{
		manifestFile: writeFile(t, dir, "enum.yaml", badSample),
		outputFile:   filepath.Join(dir, "enum.yul"),
		run:          true,
	})
	require.ErrorContains(t, err, "invalid opcode")

	unsupported := "tuples:\n  - name: x\n    source: [string]\n"
	err = run(zap.NewNop(), &config{
		manifestFile: writeFile(t, dir, "string.yaml", unsupported),
		outputFile:   filepath.Join(dir, "string.yul"),
	})
	require.Error(t, err)

	_, err = parseWord("-1")
	require.Error(t, err)
	_, err = parseWord("0x1" + strings.Repeat("0", 64))
	require.Error(t, err)
	word, err := parseWord("0x10")
	require.NoError(t, err)
	require.Equal(t, uint64(16), word.Uint64())
}
