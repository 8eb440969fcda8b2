// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// richIdentifier builds the canonical identifier of a type.
//
// Identifiers are valid Yul identifiers and unique per distinct type shape, so they can be
// embedded into generated function names. Nested identifiers are wrapped in "$_" / "_$"
// brackets, user supplied names have "$" escaped as "$$$".
func (d *TypeDescriptor) richIdentifier() string {
	switch d.Kind {
	case CategoryInteger:
		if d.IsAddress {
			return "t_address"
		}
		if d.Signed {
			return fmt.Sprintf("t_int%d", d.Bits)
		}
		return fmt.Sprintf("t_uint%d", d.Bits)
	case CategoryBool:
		return "t_bool"
	case CategoryFixedPoint:
		if d.Signed {
			return fmt.Sprintf("t_fixed%dx%d", d.Bits, d.FractionalDigits)
		}
		return fmt.Sprintf("t_ufixed%dx%d", d.Bits, d.FractionalDigits)
	case CategoryFixedBytes:
		return fmt.Sprintf("t_bytes%d", d.Bytes)
	case CategoryContract:
		return fmt.Sprintf("t_contract%s%d", parenthesizeUserIdentifier(d.Name), d.ID)
	case CategoryEnum:
		return fmt.Sprintf("t_enum%s%d", parenthesizeUserIdentifier(d.Name), d.ID)
	case CategoryStruct:
		return fmt.Sprintf("t_struct%s%d%s", parenthesizeUserIdentifier(d.Name), d.ID, d.locationSuffix())
	case CategoryArray:
		if d.IsString {
			return "t_string" + d.locationSuffix()
		}
		if d.IsByteArray {
			return "t_bytes" + d.locationSuffix()
		}
		elemID := ""
		if d.ElemDesc != nil {
			elemID = d.ElemDesc.Identifier()
		}
		length := "dyn"
		if !d.HasDynamicLength {
			length = fmt.Sprintf("%d", d.Length)
		}
		return "t_array" + parenthesizeIdentifier(elemID) + length + d.locationSuffix()
	case CategoryStringLiteral:
		hash := sha3.NewLegacyKeccak256()
		hash.Write([]byte(d.Literal))
		return "t_stringliteral_" + hex.EncodeToString(hash.Sum(nil))
	case CategoryFunction:
		mutability := d.StateMutability
		if mutability == "" {
			mutability = "nonpayable"
		}
		return fmt.Sprintf("t_function_%s_%s%sreturns%s", d.FunctionKind, mutability, identifierList(d.Params), identifierList(d.Returns))
	case CategoryMapping:
		key, value := "", ""
		if d.KeyDesc != nil {
			key = d.KeyDesc.Identifier()
		}
		if d.ElemDesc != nil {
			value = d.ElemDesc.Identifier()
		}
		return "t_mapping" + parenthesizeIdentifier(key) + parenthesizeIdentifier(value)
	case CategoryTuple:
		return "t_tuple" + identifierList(d.Components)
	}
	return "t_unspecified"
}

func (d *TypeDescriptor) locationSuffix() string {
	var suffix string
	switch d.Location {
	case LocationStorage:
		suffix = "_storage"
	case LocationMemory:
		suffix = "_memory"
	case LocationCallData:
		suffix = "_calldata"
	default:
		return ""
	}
	if d.IsPointer {
		suffix += "_ptr"
	}
	return suffix
}

func parenthesizeIdentifier(s string) string {
	return "$_" + s + "_$"
}

func parenthesizeUserIdentifier(s string) string {
	return parenthesizeIdentifier(strings.ReplaceAll(s, "$", "$$$"))
}

func identifierList(list []*TypeDescriptor) string {
	if len(list) == 0 {
		return "$__$"
	}
	ids := make([]string, len(list))
	for i, t := range list {
		ids[i] = t.Identifier()
	}
	return parenthesizeIdentifier(strings.Join(ids, "_$_"))
}
