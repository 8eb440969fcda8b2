// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/abiutils"
)

func TestEncodingFunctionValueType(t *testing.T) {
	generator := NewEncoderGenerator()
	uint256Type := abitypes.NewUint256Type()

	name, err := generator.EncodingFunction(uint256Type, uint256Type, false)
	require.NoError(t, err)
	require.Equal(t, "abi_encode_t_uint256_to_t_uint256", name)

	expected := "function abi_encode_t_uint256_to_t_uint256(value, headStart, headPos, dyn) -> newDyn {\n" +
		"\tnewDyn := dyn\n" +
		"\tmstore(headPos, cleanup_assert_t_uint256(value))\n" +
		"}\n" +
		"function cleanup_assert_t_uint256(value) -> cleaned {\n" +
		"\tcleaned := value\n" +
		"}\n"
	require.Equal(t, expected, generator.RequestedFunctions())
	require.NoError(t, generator.Close())
}

func TestEncodingFunctionWritesCleanedWord(t *testing.T) {
	generator := NewEncoderGenerator()
	uint8Type := abitypes.NewIntegerType(8, false)

	name, err := generator.EncodingFunction(uint8Type, uint8Type, false)
	require.NoError(t, err)

	results, err := callGenerated(t, generator.RequestedFunctions(), name,
		uint256.NewInt(0x1ff), // value
		uint256.NewInt(0),     // headStart
		uint256.NewInt(64),    // headPos
		uint256.NewInt(512),   // dyn
	)
	require.NoError(t, err)
	require.Equal(t, uint64(512), results[0].Uint64(), "tail cursor must not move")
}

func TestEncodingFunctionLibraryStorage(t *testing.T) {
	storageRef := abitypes.NewArrayType(abitypes.NewUint256Type(), 2, abitypes.LocationStorage)
	uint256Type := abitypes.NewUint256Type()

	t.Run("LibraryEncoding", func(t *testing.T) {
		generator := NewEncoderGenerator()
		name, err := generator.EncodingFunction(storageRef, uint256Type, true)
		require.NoError(t, err)
		require.Equal(t, "abi_encode_t_array$_t_uint256_$2_storage_to_t_uint256_lib", name)

		code := generator.RequestedFunctions()
		require.Contains(t, code, "\tmstore(headPos, value)\n")
		require.NotContains(t, code, "cleanup_")
	})

	t.Run("NonLibraryEncoding", func(t *testing.T) {
		generator := NewEncoderGenerator()
		_, err := generator.EncodingFunction(storageRef, uint256Type, false)
		require.ErrorIs(t, err, abiutils.ErrInternal)
		require.Equal(t, 0, generator.Registry().Len())
	})

	t.Run("NonUint256Target", func(t *testing.T) {
		generator := NewEncoderGenerator()
		_, err := generator.EncodingFunction(storageRef, abitypes.NewBoolType(), true)
		require.ErrorIs(t, err, abiutils.ErrInternal)
	})
}

func TestEncodingFunctionNames(t *testing.T) {
	uint256Type := abitypes.NewUint256Type()
	require.Equal(t, "abi_encode_t_uint256_to_t_uint256", EncodingFunctionName(uint256Type, uint256Type, false))
	require.Equal(t, "abi_encode_t_uint256_to_t_uint256_lib", EncodingFunctionName(uint256Type, uint256Type, true))

	// library and non-library encoders are distinct entries
	generator := NewEncoderGenerator()
	_, err := generator.EncodingFunction(uint256Type, uint256Type, false)
	require.NoError(t, err)
	_, err = generator.EncodingFunction(uint256Type, uint256Type, true)
	require.NoError(t, err)
	require.Equal(t, []string{
		"abi_encode_t_uint256_to_t_uint256",
		"abi_encode_t_uint256_to_t_uint256_lib",
		"cleanup_assert_t_uint256",
	}, generator.Registry().Names())
	generator.RequestedFunctions()
}

func TestEncodingFunctionFaults(t *testing.T) {
	uint256Type := abitypes.NewUint256Type()
	memoryArray := abitypes.NewArrayType(uint256Type, 2, abitypes.LocationMemory)
	point := abitypes.NewStructType("Point", 1, []abitypes.FieldDescriptor{
		{Name: "x", Type: uint256Type},
		{Name: "y", Type: uint256Type},
	}, abitypes.LocationMemory)

	testCases := []struct {
		name     string
		source   abitypes.Type
		target   abitypes.Type
		expected error
	}{
		{"dynamicTarget", abitypes.NewStringType(abitypes.LocationMemory), abitypes.NewStringType(abitypes.LocationMemory), abiutils.ErrUnimplemented},
		{"multiSlotSource", abitypes.NewFunctionType(abitypes.FunctionKindExternal, "", nil, nil), uint256Type, abiutils.ErrUnimplemented},
		{"literalSource", abitypes.NewStringLiteralType("abc"), abitypes.NewFixedBytesType(3), abiutils.ErrUnimplemented},
		{"calldataSource", abitypes.NewArrayType(uint256Type, 2, abitypes.LocationCallData), memoryArray, abiutils.ErrUnimplemented},
		{"storageToArray", abitypes.NewArrayType(uint256Type, 2, abitypes.LocationStorage), memoryArray, abiutils.ErrUnimplemented},
		{"internalFunctionSource", abitypes.NewFunctionType(abitypes.FunctionKindInternal, "", nil, nil), uint256Type, abiutils.ErrUnimplemented},
		{"arrayTarget", memoryArray, memoryArray, abiutils.ErrUnimplemented},
		{"conversion", abitypes.NewIntegerType(8, false), uint256Type, abiutils.ErrUnimplemented},
		{"wideStruct", point, point, abiutils.ErrInternal},
		{"fixedPoint", abitypes.NewFixedPointType(128, 18, true), abitypes.NewFixedPointType(128, 18, true), abiutils.ErrUnimplemented},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			generator := NewEncoderGenerator()
			_, err := generator.EncodingFunction(tc.source, tc.target, false)
			require.ErrorIs(t, err, tc.expected)
			require.Equal(t, 0, generator.Registry().Len(), "failed generation must not register functions")
		})
	}
}
