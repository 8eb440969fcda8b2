// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"math"

	"go.uber.org/zap"

	"github.com/pk910/dynamic-abi/abitypes"
	"github.com/pk910/dynamic-abi/abiutils"
	"github.com/pk910/dynamic-abi/codegen/tmpl"
)

// HeadLayout describes the static head of a tuple encoding.
type HeadLayout struct {
	Offsets []uint32 // offset of each value relative to headStart
	Size    uint32
}

// ComputeHeadLayout returns the head offsets of the given target types.
// Every target must have a static encoded size.
func ComputeHeadLayout(targets []abitypes.Type) (*HeadLayout, error) {
	layout := &HeadLayout{
		Offsets: make([]uint32, len(targets)),
	}
	for i, target := range targets {
		if target == nil {
			return nil, abiutils.Internal("tupleEncoder", "", "value #%d has no type", i)
		}
		if target.IsDynamicallySized() {
			return nil, abiutils.Unimplemented("tupleEncoder", target.Identifier(), "dynamically sized value #%d", i)
		}
		size := target.CalldataEncodedSize()
		if size == 0 {
			return nil, abiutils.Internal("tupleEncoder", target.Identifier(), "value #%d has no static encoded size", i)
		}
		if uint64(layout.Size)+uint64(size) > math.MaxUint32 {
			return nil, abiutils.Internal("tupleEncoder", target.Identifier(), "head size overflow at value #%d", i)
		}
		layout.Offsets[i] = layout.Size
		layout.Size += size
	}
	return layout, nil
}

// TupleEncoder returns a code block that ABI encodes the values $value0 ... $valueN-1 of the
// given types into memory starting at $headStart.
//
// When the block finishes, $value0 holds the end of the encoded data. The block itself is not
// cached; the per-type encoders it calls are requested from the registry. All preconditions
// are checked before anything is requested.
func (g *EncoderGenerator) TupleEncoder(givenTypes, targetTypes []abitypes.Type, encodeAsLibraryTypes bool) (string, error) {
	if len(givenTypes) == 0 {
		return "", abiutils.Internal("tupleEncoder", "", "no values to encode")
	}
	if len(givenTypes) != len(targetTypes) {
		return "", abiutils.Internal("tupleEncoder", "", "%d values for %d target types", len(givenTypes), len(targetTypes))
	}

	for i := range givenTypes {
		if givenTypes[i] == nil || targetTypes[i] == nil {
			return "", abiutils.Internal("tupleEncoder", "", "value #%d has no type", i)
		}
	}

	layout, err := ComputeHeadLayout(targetTypes)
	if err != nil {
		return "", err
	}
	for i, given := range givenTypes {
		if given.SizeOnStack() != 1 {
			return "", abiutils.Unimplemented("tupleEncoder", given.Identifier(), "value #%d occupies %d stack slots", i, given.SizeOnStack())
		}
	}

	model := tmpl.TupleEncoder{
		HeadSize: layout.Size,
		Values:   make([]tmpl.TupleValue, len(givenTypes)),
	}
	for i := range givenTypes {
		encodeFn, err := g.EncodingFunction(givenTypes[i], targetTypes[i], encodeAsLibraryTypes)
		if err != nil {
			return "", err
		}
		model.Values[i] = tmpl.TupleValue{
			Index:          i,
			EncodeFunction: encodeFn,
			HeadPos:        layout.Offsets[i],
		}
	}

	g.logger.Debug("generated tuple encoder",
		zap.Int("values", len(givenTypes)),
		zap.Uint32("headSize", layout.Size),
		zap.Bool("library", encodeAsLibraryTypes),
	)

	return renderTemplate("tmpl/functions.tmpl", "tuple_encoder", model)
}
