// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"strings"
)

// indentStr indents each non-empty line in a string by the specified number of tab characters.
//
// Example:
//
//	code := "function f() {\nmstore(0, 1)\n}"
//	indented := indentStr(code, 1)
//	// Result: "\tfunction f() {\n\tmstore(0, 1)\n\t}"
func indentStr(s string, tabs int) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = strings.Repeat("\t", tabs) + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
