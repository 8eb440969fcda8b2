// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package dynabi

import (
	"sync"
)

var globalDynAbi *DynAbi
var globalDynAbiMutex sync.Mutex

// GetGlobalDynAbi returns the shared instance, creating one without spec values on first use.
func GetGlobalDynAbi() *DynAbi {
	globalDynAbiMutex.Lock()
	defer globalDynAbiMutex.Unlock()

	if globalDynAbi == nil {
		globalDynAbi = NewDynAbi(nil)
	}
	return globalDynAbi
}

// SetGlobalSpecs replaces the shared instance with one using the given spec values.
func SetGlobalSpecs(specs map[string]any) {
	globalDynAbiMutex.Lock()
	defer globalDynAbiMutex.Unlock()

	globalDynAbi = NewDynAbi(specs)
}
