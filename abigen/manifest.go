// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the tuple encodings to generate.
//
// Example:
//
//	specs:
//	  ADDRESS_BITS: 160
//	tuples:
//	  - name: transfer
//	    source: [address, uint256]
//	    target: [address, uint256]
//	    values: ["0x1234", "1000"]
type Manifest struct {
	Specs  map[string]any  `yaml:"specs"`
	Tuples []ManifestTuple `yaml:"tuples"`
}

// ManifestTuple is one named tuple encoding of a manifest.
type ManifestTuple struct {
	Name    string   `yaml:"name"`
	Source  []string `yaml:"source"`
	Target  []string `yaml:"target"`
	Library bool     `yaml:"library"`
	Values  []string `yaml:"values"` // sample stack values for -run
}

func loadManifest(fileName string) (*Manifest, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest := &Manifest{}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	if len(m.Tuples) == 0 {
		return fmt.Errorf("manifest contains no tuples")
	}
	for i, tuple := range m.Tuples {
		if tuple.Name == "" {
			return fmt.Errorf("tuple #%d has no name", i)
		}
		if len(tuple.Target) == 0 {
			// target types default to the source types
			m.Tuples[i].Target = tuple.Source
		}
		if len(tuple.Values) > 0 && len(tuple.Values) != len(tuple.Source) {
			return fmt.Errorf("tuple %s: %d sample values for %d types", tuple.Name, len(tuple.Values), len(tuple.Source))
		}
	}
	return nil
}
