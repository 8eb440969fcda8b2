// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package dynabi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSpecPreset reads specification values from a YAML file of top-level key/value pairs.
//
// Example preset:
//
//	ADDRESS_BITS: 160
//	MAX_ITEMS: 16
//	HASH_BYTES: 32
func LoadSpecPreset(fileName string) (map[string]any, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %s: %w", fileName, err)
	}

	specs, err := ParseSpecPreset(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", fileName, err)
	}
	return specs, nil
}

// ParseSpecPreset parses YAML specification values.
func ParseSpecPreset(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return NormalizeSpecValues(raw)
}

// NormalizeSpecValues converts decoded numbers to float64 so they can be used in spec
// expressions. Values other than numbers and booleans are rejected.
func NormalizeSpecValues(raw map[string]any) (map[string]any, error) {
	specs := make(map[string]any, len(raw))
	for name, value := range raw {
		if number, ok := specNumber(value); ok {
			specs[name] = number
			continue
		}
		if _, ok := value.(bool); !ok {
			return nil, fmt.Errorf("spec value %s has unsupported type %T", name, value)
		}
		specs[name] = value
	}
	return specs, nil
}

func specNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
