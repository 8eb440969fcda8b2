// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

import (
	"testing"
)

func TestIdentifiers(t *testing.T) {
	uint256 := NewUint256Type()
	testCases := []struct {
		name     string
		desc     *TypeDescriptor
		expected string
	}{
		{"uint256", uint256, "t_uint256"},
		{"int8", NewIntegerType(8, true), "t_int8"},
		{"address", NewAddressType(), "t_address"},
		{"bool", NewBoolType(), "t_bool"},
		{"bytes4", NewFixedBytesType(4), "t_bytes4"},
		{"fixed", NewFixedPointType(128, 18, true), "t_fixed128x18"},
		{"ufixed", NewFixedPointType(64, 2, false), "t_ufixed64x2"},
		{"contract", NewContractType("Token", 5), "t_contract$_Token_$5"},
		{"contractEscaped", NewContractType("A$B", 2), "t_contract$_A$$$B_$2"},
		{"enum", NewEnumType("Color", 3, []string{"Red", "Green", "Blue"}), "t_enum$_Color_$3"},
		{"struct", NewStructType("Point", 7, nil, LocationMemory), "t_struct$_Point_$7_memory_ptr"},
		{"structStorageRef", NewStructType("Point", 7, nil, LocationStorage), "t_struct$_Point_$7_storage"},
		{"staticArray", NewArrayType(uint256, 3, LocationMemory), "t_array$_t_uint256_$3_memory_ptr"},
		{"dynamicArray", NewDynamicArrayType(uint256, LocationCallData), "t_array$_t_uint256_$dyn_calldata_ptr"},
		{"bytes", NewBytesType(LocationMemory), "t_bytes_memory_ptr"},
		{"string", NewStringType(LocationStorage), "t_string_storage"},
		{"literal", NewStringLiteralType("hello"), "t_stringliteral_1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"},
		{"function", NewFunctionType(FunctionKindExternal, "view", []*TypeDescriptor{uint256}, []*TypeDescriptor{NewBoolType()}), "t_function_external_view$_t_uint256_$returns$_t_bool_$"},
		{"functionEmpty", NewFunctionType(FunctionKindInternal, "", nil, nil), "t_function_internal_nonpayable$__$returns$__$"},
		{"mapping", NewMappingType(NewAddressType(), uint256), "t_mapping$_t_address_$$_t_uint256_$"},
		{"tuple", NewTupleType(uint256, NewBoolType()), "t_tuple$_t_uint256_$_t_bool_$"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.desc.Identifier(); got != tc.expected {
				t.Errorf("Expected identifier %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal(NewUint256Type(), NewIntegerType(256, false)) {
		t.Error("Expected two uint256 instances to be equal")
	}
	if Equal(NewUint256Type(), NewIntegerType(256, true)) {
		t.Error("Expected uint256 and int256 to differ")
	}
	if Equal(NewUint256Type(), nil) {
		t.Error("Expected comparison with nil to be false")
	}

	// a literal descriptor without constructor still computes its identifier
	literal := &TypeDescriptor{Kind: CategoryBool}
	if !Equal(literal, NewBoolType()) {
		t.Error("Expected struct literal bool to equal constructed bool")
	}
}

func TestTypeProperties(t *testing.T) {
	uint256 := NewUint256Type()
	point := NewStructType("Point", 1, []FieldDescriptor{
		{Name: "x", Type: uint256},
		{Name: "y", Type: uint256},
	}, LocationMemory)

	testCases := []struct {
		name        string
		desc        *TypeDescriptor
		stackSize   uint32
		encodedSize uint32
		dynamic     bool
		valueType   bool
	}{
		{"uint8", NewIntegerType(8, false), 1, 32, false, true},
		{"bool", NewBoolType(), 1, 32, false, true},
		{"bytes4", NewFixedBytesType(4), 1, 32, false, true},
		{"enum", NewEnumType("E", 1, []string{"A"}), 1, 32, false, true},
		{"contract", NewContractType("C", 1), 1, 32, false, true},
		{"externalFunction", NewFunctionType(FunctionKindExternal, "", nil, nil), 2, 32, false, true},
		{"internalFunction", NewFunctionType(FunctionKindInternal, "", nil, nil), 1, 0, false, true},
		{"literal", NewStringLiteralType("abc"), 0, 0, false, false},
		{"staticArray", NewArrayType(uint256, 3, LocationMemory), 1, 96, false, false},
		{"nestedArray", NewArrayType(NewArrayType(uint256, 2, LocationMemory), 2, LocationMemory), 1, 128, false, false},
		{"memoryDynamicArray", NewDynamicArrayType(uint256, LocationMemory), 1, 0, true, false},
		{"calldataDynamicArray", NewDynamicArrayType(uint256, LocationCallData), 2, 0, true, false},
		{"string", NewStringType(LocationMemory), 1, 0, true, false},
		{"struct", point, 1, 64, false, false},
		{"structWithDynamicField", NewStructType("S", 2, []FieldDescriptor{{Name: "s", Type: NewStringType(LocationMemory)}}, LocationMemory), 1, 0, false, false},
		{"tuple", NewTupleType(uint256, NewFunctionType(FunctionKindExternal, "", nil, nil)), 3, 0, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.desc.SizeOnStack(); got != tc.stackSize {
				t.Errorf("Expected stack size %d, got %d", tc.stackSize, got)
			}
			if got := tc.desc.CalldataEncodedSize(); got != tc.encodedSize {
				t.Errorf("Expected encoded size %d, got %d", tc.encodedSize, got)
			}
			if got := tc.desc.IsDynamicallySized(); got != tc.dynamic {
				t.Errorf("Expected dynamic %v, got %v", tc.dynamic, got)
			}
			if got := tc.desc.IsValueType(); got != tc.valueType {
				t.Errorf("Expected value type %v, got %v", tc.valueType, got)
			}
		})
	}
}

func TestWithLocation(t *testing.T) {
	memoryArray := NewArrayType(NewUint256Type(), 2, LocationMemory)
	storageRef := memoryArray.WithLocation(LocationStorage, false)

	if storageRef.Identifier() != "t_array$_t_uint256_$2_storage" {
		t.Errorf("Unexpected storage identifier %s", storageRef.Identifier())
	}
	if storageRef.DataLocation() != LocationStorage {
		t.Errorf("Expected storage location, got %v", storageRef.DataLocation())
	}
	if memoryArray.Identifier() != "t_array$_t_uint256_$2_memory_ptr" {
		t.Error("WithLocation must not modify the original descriptor")
	}
}

func TestCategoryStrings(t *testing.T) {
	if CategoryFixedBytes.String() != "fixed-bytes" {
		t.Errorf("Unexpected category name %s", CategoryFixedBytes.String())
	}
	if Category(200).String() != "unknown" {
		t.Error("Expected unknown category name")
	}
	if loc, ok := ParseDataLocation("calldata"); !ok || loc != LocationCallData {
		t.Error("Expected calldata location")
	}
	if _, ok := ParseDataLocation("heap"); ok {
		t.Error("Expected heap to be rejected")
	}
	if FunctionKindExternal.String() != "external" || FunctionKindInternal.String() != "internal" {
		t.Error("Unexpected function kind names")
	}
}
