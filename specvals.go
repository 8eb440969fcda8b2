// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package dynabi

import (
	"fmt"
	"math"

	"github.com/casbin/govaluate"
)

type cachedSpecValue struct {
	resolved bool
	value    uint64
}

// ResolveSpecValue evaluates a spec value name or an expression over spec values.
//
// Unknown names are not an error: the first return value reports whether the expression
// could be resolved. Fractional results are rounded up.
func (d *DynAbi) ResolveSpecValue(name string) (bool, uint64, error) {
	d.specValueMutex.Lock()
	defer d.specValueMutex.Unlock()

	if cachedValue := d.specValueCache[name]; cachedValue != nil {
		return cachedValue.resolved, cachedValue.value, nil
	}

	cachedValue := &cachedSpecValue{}
	expression, err := govaluate.NewEvaluableExpression(name)
	if err != nil {
		return false, 0, fmt.Errorf("error parsing dynamic spec expression: %v", err)
	}

	result, err := expression.Evaluate(d.specValues)
	if err == nil {
		value, ok := result.(float64)
		if ok && value >= 0 && value < math.MaxUint64 {
			cachedValue.resolved = true
			cachedValue.value = uint64(value)
			if float64(cachedValue.value) < value {
				cachedValue.value++
			}
		}
	}

	d.specValueCache[name] = cachedValue
	return cachedValue.resolved, cachedValue.value, nil
}
