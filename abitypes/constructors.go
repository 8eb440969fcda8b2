// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

func finalize(d *TypeDescriptor) *TypeDescriptor {
	d.identifier = d.richIdentifier()
	return d
}

// NewIntegerType returns an integer type of the given bit width (a multiple of 8, at most 256).
func NewIntegerType(bits uint16, signed bool) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:   CategoryInteger,
		Bits:   bits,
		Signed: signed,
	})
}

// NewUint256Type returns the canonical 256-bit unsigned integer.
func NewUint256Type() *TypeDescriptor {
	return NewIntegerType(256, false)
}

// NewAddressType returns the 160-bit address type.
func NewAddressType() *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:      CategoryInteger,
		Bits:      160,
		IsAddress: true,
	})
}

func NewBoolType() *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind: CategoryBool,
	})
}

// NewFixedBytesType returns a bytesN type with 1 <= n <= 32.
func NewFixedBytesType(n uint8) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:  CategoryFixedBytes,
		Bytes: n,
	})
}

func NewFixedPointType(bits uint16, fractionalDigits uint16, signed bool) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:             CategoryFixedPoint,
		Bits:             bits,
		FractionalDigits: fractionalDigits,
		Signed:           signed,
	})
}

func NewContractType(name string, id int64) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind: CategoryContract,
		Name: name,
		ID:   id,
	})
}

func NewEnumType(name string, id int64, members []string) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:    CategoryEnum,
		Name:    name,
		ID:      id,
		Members: members,
	})
}

// NewStructType returns a struct type. Memory and calldata structs are always pointers.
func NewStructType(name string, id int64, fields []FieldDescriptor, location DataLocation) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:      CategoryStruct,
		Name:      name,
		ID:        id,
		Fields:    fields,
		Location:  location,
		IsPointer: location != LocationStorage,
	})
}

// NewArrayType returns a statically sized array type.
func NewArrayType(elem *TypeDescriptor, length uint64, location DataLocation) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:      CategoryArray,
		ElemDesc:  elem,
		Length:    length,
		Location:  location,
		IsPointer: location != LocationStorage,
	})
}

// NewDynamicArrayType returns a dynamically sized array type.
func NewDynamicArrayType(elem *TypeDescriptor, location DataLocation) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:             CategoryArray,
		ElemDesc:         elem,
		HasDynamicLength: true,
		Location:         location,
		IsPointer:        location != LocationStorage,
	})
}

// NewBytesType returns the dynamically sized byte array type.
func NewBytesType(location DataLocation) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:             CategoryArray,
		ElemDesc:         NewFixedBytesType(1),
		HasDynamicLength: true,
		IsByteArray:      true,
		Location:         location,
		IsPointer:        location != LocationStorage,
	})
}

// NewStringType returns the dynamically sized string type.
func NewStringType(location DataLocation) *TypeDescriptor {
	desc := NewBytesType(location)
	desc.IsString = true
	return finalize(desc)
}

func NewStringLiteralType(value string) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:    CategoryStringLiteral,
		Literal: value,
	})
}

func NewFunctionType(kind FunctionKind, stateMutability string, params, returns []*TypeDescriptor) *TypeDescriptor {
	if stateMutability == "" {
		stateMutability = "nonpayable"
	}
	return finalize(&TypeDescriptor{
		Kind:            CategoryFunction,
		FunctionKind:    kind,
		StateMutability: stateMutability,
		Params:          params,
		Returns:         returns,
	})
}

// NewMappingType returns a storage mapping type.
func NewMappingType(key, value *TypeDescriptor) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:     CategoryMapping,
		KeyDesc:  key,
		ElemDesc: value,
		Location: LocationStorage,
	})
}

func NewTupleType(components ...*TypeDescriptor) *TypeDescriptor {
	return finalize(&TypeDescriptor{
		Kind:       CategoryTuple,
		Components: components,
	})
}
