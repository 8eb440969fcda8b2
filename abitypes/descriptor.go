// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

import (
	"math"

	"fortio.org/safecast"
)

// Type is the read-only view of a type that the encoder generator consumes.
//
// Two types are interchangeable iff their identifiers match. Category specific accessors
// return zero values for categories they do not apply to.
type Type interface {
	Identifier() string
	Category() Category
	SizeOnStack() uint32
	// CalldataEncodedSize returns the padded head size in bytes, or 0 if the type has no
	// static encoded size.
	CalldataEncodedSize() uint32
	DataLocation() DataLocation
	IsDynamicallySized() bool
	IsValueType() bool

	NumBits() uint16 // Integer, FixedPoint
	IsSigned() bool  // Integer, FixedPoint
	NumBytes() uint8 // FixedBytes
	NumMembers() int // Enum
}

// Equal reports whether two types are interchangeable.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Identifier() == b.Identifier()
}

// TypeDescriptor is the concrete type description produced by the constructors and the type cache.
type TypeDescriptor struct {
	Kind      Category     `json:"kind"`
	Location  DataLocation `json:"location"`
	IsPointer bool         `json:"pointer,omitempty"` // storage pointer vs. storage reference

	// Integer / FixedPoint
	Bits             uint16 `json:"bits,omitempty"`
	Signed           bool   `json:"signed,omitempty"`
	IsAddress        bool   `json:"address,omitempty"`
	FractionalDigits uint16 `json:"fractional,omitempty"`

	// FixedBytes
	Bytes uint8 `json:"bytes,omitempty"`

	// Contract / Enum / Struct
	Name    string            `json:"name,omitempty"`
	ID      int64             `json:"id,omitempty"`
	Members []string          `json:"members,omitempty"`
	Fields  []FieldDescriptor `json:"fields,omitempty"`

	// Array
	ElemDesc         *TypeDescriptor `json:"elem,omitempty"`
	Length           uint64          `json:"len,omitempty"`
	HasDynamicLength bool            `json:"dynamic,omitempty"`
	IsByteArray      bool            `json:"byte_array,omitempty"`
	IsString         bool            `json:"string,omitempty"`

	// StringLiteral
	Literal string `json:"literal,omitempty"`

	// Function
	FunctionKind    FunctionKind      `json:"function_kind,omitempty"`
	StateMutability string            `json:"mutability,omitempty"`
	Params          []*TypeDescriptor `json:"params,omitempty"`
	Returns         []*TypeDescriptor `json:"returns,omitempty"`

	// Mapping / Tuple
	KeyDesc    *TypeDescriptor   `json:"key,omitempty"`
	Components []*TypeDescriptor `json:"components,omitempty"`

	identifier string
}

// FieldDescriptor is a named struct member.
type FieldDescriptor struct {
	Name string          `json:"name"`
	Type *TypeDescriptor `json:"type"`
}

var _ Type = (*TypeDescriptor)(nil)

func (d *TypeDescriptor) Identifier() string {
	if d.identifier != "" {
		return d.identifier
	}
	return d.richIdentifier()
}

func (d *TypeDescriptor) Category() Category {
	return d.Kind
}

func (d *TypeDescriptor) DataLocation() DataLocation {
	return d.Location
}

func (d *TypeDescriptor) NumBits() uint16 {
	return d.Bits
}

func (d *TypeDescriptor) IsSigned() bool {
	return d.Signed
}

func (d *TypeDescriptor) NumBytes() uint8 {
	return d.Bytes
}

func (d *TypeDescriptor) NumMembers() int {
	return len(d.Members)
}

func (d *TypeDescriptor) IsValueType() bool {
	switch d.Kind {
	case CategoryInteger, CategoryBool, CategoryFixedPoint, CategoryFixedBytes, CategoryContract, CategoryEnum, CategoryFunction:
		return true
	}
	return false
}

func (d *TypeDescriptor) IsDynamicallySized() bool {
	return d.Kind == CategoryArray && d.HasDynamicLength
}

func (d *TypeDescriptor) SizeOnStack() uint32 {
	switch d.Kind {
	case CategoryStringLiteral:
		return 0
	case CategoryFunction:
		if d.FunctionKind == FunctionKindExternal {
			return 2
		}
		return 1
	case CategoryArray:
		if d.Location == LocationCallData && d.HasDynamicLength {
			// offset and length
			return 2
		}
		return 1
	case CategoryTuple:
		size := uint32(0)
		for _, c := range d.Components {
			size += c.SizeOnStack()
		}
		return size
	}
	return 1
}

func (d *TypeDescriptor) CalldataEncodedSize() uint32 {
	switch d.Kind {
	case CategoryInteger, CategoryBool, CategoryFixedPoint, CategoryFixedBytes, CategoryContract, CategoryEnum:
		return 32
	case CategoryFunction:
		if d.FunctionKind == FunctionKindExternal {
			// address and selector, padded to one word
			return 32
		}
		return 0
	case CategoryArray:
		if d.HasDynamicLength || d.ElemDesc == nil {
			return 0
		}
		elemSize := uint64(d.ElemDesc.CalldataEncodedSize())
		if elemSize == 0 || d.Length > math.MaxUint32 {
			return 0
		}
		size, err := safecast.Conv[uint32](elemSize * d.Length)
		if err != nil {
			return 0
		}
		return size
	case CategoryStruct:
		size := uint64(0)
		for _, field := range d.Fields {
			fieldSize := field.Type.CalldataEncodedSize()
			if fieldSize == 0 {
				return 0
			}
			size += uint64(fieldSize)
		}
		structSize, err := safecast.Conv[uint32](size)
		if err != nil {
			return 0
		}
		return structSize
	}
	return 0
}

// WithLocation returns a copy of a reference type bound to another data location.
func (d *TypeDescriptor) WithLocation(location DataLocation, isPointer bool) *TypeDescriptor {
	descCopy := *d
	descCopy.Location = location
	descCopy.IsPointer = isPointer
	descCopy.identifier = ""
	descCopy.identifier = descCopy.richIdentifier()
	return &descCopy
}

// String returns the identifier; descriptors are printed by identity in logs and errors.
func (d *TypeDescriptor) String() string {
	return d.Identifier()
}
