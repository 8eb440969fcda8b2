// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"errors"
	"testing"

	"github.com/pk910/dynamic-abi/abiutils"
)

func TestRegistryRequestOnce(t *testing.T) {
	registry := NewFunctionRegistry(nil)
	calls := 0
	generator := func() (string, error) {
		calls++
		return "function f() {}\n", nil
	}

	for i := 0; i < 3; i++ {
		name, err := registry.RequestFunction("f", generator)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if name != "f" {
			t.Errorf("Expected name f, got %s", name)
		}
	}

	if calls != 1 {
		t.Errorf("Expected generator to run once, ran %d times", calls)
	}
	if !registry.Has("f") || registry.Len() != 1 {
		t.Error("Expected exactly one stored function")
	}
}

func TestRegistryDrain(t *testing.T) {
	registry := NewFunctionRegistry(nil)

	if code := registry.Drain(); code != "" {
		t.Errorf("Expected empty drain, got %q", code)
	}

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		body := name + "\n"
		if _, err := registry.RequestFunction(name, func() (string, error) { return body, nil }); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	names := registry.Names()
	if len(names) != 3 || names[0] != "alpha" || names[2] != "charlie" {
		t.Errorf("Expected sorted names, got %v", names)
	}

	if code := registry.Drain(); code != "alpha\nbravo\ncharlie\n" {
		t.Errorf("Expected bodies in name order, got %q", code)
	}
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry after drain, got %d entries", registry.Len())
	}
	if code := registry.Drain(); code != "" {
		t.Errorf("Expected second drain to be empty, got %q", code)
	}

	// drained names can be generated again
	calls := 0
	if _, err := registry.RequestFunction("alpha", func() (string, error) { calls++; return "alpha\n", nil }); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 1 {
		t.Error("Expected drained function to be regenerated")
	}
}

func TestRegistryNestedRequests(t *testing.T) {
	registry := NewFunctionRegistry(nil)

	outer, err := registry.RequestFunction("outer", func() (string, error) {
		inner, err := registry.RequestFunction("inner", func() (string, error) {
			return "inner\n", nil
		})
		if err != nil {
			return "", err
		}
		return "outer calls " + inner + "\n", nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outer != "outer" {
		t.Errorf("Expected name outer, got %s", outer)
	}
	if code := registry.Drain(); code != "inner\nouter calls inner\n" {
		t.Errorf("Unexpected drain output %q", code)
	}
}

func TestRegistryFailures(t *testing.T) {
	t.Run("FailingGenerator", func(t *testing.T) {
		registry := NewFunctionRegistry(nil)
		genErr := errors.New("boom")

		if _, err := registry.RequestFunction("f", func() (string, error) { return "", genErr }); !errors.Is(err, genErr) {
			t.Errorf("Expected generator error, got %v", err)
		}
		if registry.Has("f") {
			t.Error("Failed generator must not store a function")
		}

		// a later request retries the generator
		if _, err := registry.RequestFunction("f", func() (string, error) { return "f\n", nil }); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("RecursiveRequest", func(t *testing.T) {
		registry := NewFunctionRegistry(nil)
		var generator FunctionGenerator
		generator = func() (string, error) {
			return registry.RequestFunction("self", generator)
		}

		_, err := registry.RequestFunction("self", generator)
		if !errors.Is(err, abiutils.ErrInternal) {
			t.Errorf("Expected internal fault, got %v", err)
		}
		if registry.Len() != 0 {
			t.Error("Expected no stored functions after recursive request")
		}
	})

	t.Run("CloseUndrained", func(t *testing.T) {
		registry := NewFunctionRegistry(nil)
		if err := registry.Close(); err != nil {
			t.Errorf("Expected empty registry to close, got %v", err)
		}

		if _, err := registry.RequestFunction("f", func() (string, error) { return "f\n", nil }); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := registry.Close(); !errors.Is(err, abiutils.ErrUndrainedFunctions) {
			t.Errorf("Expected ErrUndrainedFunctions, got %v", err)
		}

		registry.Drain()
		if err := registry.Close(); err != nil {
			t.Errorf("Expected drained registry to close, got %v", err)
		}
	})
}
