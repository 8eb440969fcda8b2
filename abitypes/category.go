// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

// Category is the closed set of type categories the encoder generator dispatches on.
type Category uint8

const (
	CategoryUnspecified Category = iota

	// value types
	CategoryInteger
	CategoryBool
	CategoryFixedPoint
	CategoryFixedBytes
	CategoryContract
	CategoryEnum
	CategoryFunction

	// non-value types
	CategoryStringLiteral
	CategoryArray
	CategoryStruct
	CategoryMapping
	CategoryTuple
)

var categoryNames = map[Category]string{
	CategoryUnspecified:   "unspecified",
	CategoryInteger:       "integer",
	CategoryBool:          "bool",
	CategoryFixedPoint:    "fixed-point",
	CategoryFixedBytes:    "fixed-bytes",
	CategoryContract:      "contract",
	CategoryEnum:          "enum",
	CategoryFunction:      "function",
	CategoryStringLiteral: "string-literal",
	CategoryArray:         "array",
	CategoryStruct:        "struct",
	CategoryMapping:       "mapping",
	CategoryTuple:         "tuple",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// DataLocation describes where the value of a reference type lives.
type DataLocation uint8

const (
	LocationNone DataLocation = iota
	LocationStack
	LocationMemory
	LocationStorage
	LocationCallData
)

func (l DataLocation) String() string {
	switch l {
	case LocationStack:
		return "stack"
	case LocationMemory:
		return "memory"
	case LocationStorage:
		return "storage"
	case LocationCallData:
		return "calldata"
	default:
		return "none"
	}
}

// ParseDataLocation parses a location keyword as written after a type name.
func ParseDataLocation(s string) (DataLocation, bool) {
	switch s {
	case "memory":
		return LocationMemory, true
	case "storage":
		return LocationStorage, true
	case "calldata":
		return LocationCallData, true
	case "stack":
		return LocationStack, true
	}
	return LocationNone, false
}

// FunctionKind distinguishes internal function pointers from external function references.
type FunctionKind uint8

const (
	FunctionKindInternal FunctionKind = iota
	FunctionKindExternal
)

func (k FunctionKind) String() string {
	if k == FunctionKindExternal {
		return "external"
	}
	return "internal"
}
