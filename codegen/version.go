// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"runtime/debug"
)

// Version is the version of the dynamic-abi module written into generated file headers.
// It stays "unknown" for development builds.
var Version = "unknown"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == "github.com/pk910/dynamic-abi" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
			return
		}
		for _, dep := range info.Deps {
			if dep.Path == "github.com/pk910/dynamic-abi" {
				Version = dep.Version
				break
			}
		}
	}
}
