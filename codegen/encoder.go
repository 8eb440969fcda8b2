// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"fmt"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/abiutils"
	"github.com/pk910/dynamic-abi/codegen/tmpl"
)

// EncodingFunctionName returns the registry name of the encoder from source to target.
func EncodingFunctionName(source, target abitypes.Type, encodeAsLibraryTypes bool) string {
	name := "abi_encode_" + source.Identifier() + "_to_" + target.Identifier()
	if encodeAsLibraryTypes {
		name += "_lib"
	}
	return name
}

// EncodingFunction requests a function that writes one value of type source into the head
// slot of an ABI encoding of type target, and returns its name.
//
// The generated function has the signature (value, headStart, headPos, dyn) -> newDyn and
// returns the tail cursor dyn unchanged for the statically sized targets it supports.
func (g *EncoderGenerator) EncodingFunction(source, target abitypes.Type, encodeAsLibraryTypes bool) (string, error) {
	name := EncodingFunctionName(source, target, encodeAsLibraryTypes)
	return g.registry.RequestFunction(name, func() (string, error) {
		body, err := g.encodingBody(source, target, encodeAsLibraryTypes)
		if err != nil {
			return "", err
		}
		return renderTemplate("tmpl/functions.tmpl", "encode_function", tmpl.EncodeFunction{
			Name: name,
			Body: body,
		})
	})
}

func (g *EncoderGenerator) encodingBody(source, target abitypes.Type, encodeAsLibraryTypes bool) ([]string, error) {
	if target.IsDynamicallySized() {
		return nil, abiutils.Unimplemented("encode", target.Identifier(), "dynamically sized target")
	}
	if source.SizeOnStack() != 1 {
		return nil, abiutils.Unimplemented("encode", source.Identifier(), "source occupies %d stack slots", source.SizeOnStack())
	}

	sourceLocation := source.DataLocation()
	sourceCategory := source.Category()

	switch {
	case sourceLocation == abitypes.LocationStorage && target.IsValueType():
		// storage pointers of library functions are passed as plain slot numbers
		if !encodeAsLibraryTypes {
			return nil, abiutils.Internal("encode", source.Identifier(), "storage reference outside of library encoding")
		}
		if !abitypes.Equal(target, abitypes.NewUint256Type()) {
			return nil, abiutils.Internal("encode", target.Identifier(), "storage reference encoded as %s", target.Identifier())
		}
		return []string{"mstore(headPos, value)"}, nil

	case sourceLocation == abitypes.LocationStorage || sourceLocation == abitypes.LocationCallData:
		return nil, abiutils.Unimplemented("encode", source.Identifier(), "%v source", sourceLocation)

	case sourceCategory == abitypes.CategoryStringLiteral:
		return nil, abiutils.Unimplemented("encode", source.Identifier(), "string literal source")

	case sourceCategory == abitypes.CategoryFunction:
		return nil, abiutils.Unimplemented("encode", source.Identifier(), "function source")

	case target.Category() == abitypes.CategoryArray:
		return nil, abiutils.Unimplemented("encode", target.Identifier(), "array target")
	}

	if !abitypes.Equal(source, target) {
		return nil, abiutils.Unimplemented("encode", source.Identifier(), "conversion to %s", target.Identifier())
	}
	if size := source.CalldataEncodedSize(); size != 32 {
		return nil, abiutils.Internal("encode", source.Identifier(), "encoded size %d, expected 32", size)
	}

	cleanup, err := g.CleanupFunction(source, false)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("mstore(headPos, %s(value))", cleanup)}, nil
}
