// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package tmpl

// CleanupFunction is the model of the "cleanup_function" template.
type CleanupFunction struct {
	Name string
	Body []string
}

// EncodeFunction is the model of the "encode_function" template.
type EncodeFunction struct {
	Name string
	Body []string
}

// TupleEncoder is the model of the "tuple_encoder" template.
type TupleEncoder struct {
	HeadSize uint32
	Values   []TupleValue
}

// TupleValue is one encoded value of a TupleEncoder, in declaration order.
type TupleValue struct {
	Index          int
	EncodeFunction string
	HeadPos        uint32
}

// Output is the model of the "output" template written by abigen.
type Output struct {
	Version   string
	Tuples    []OutputTuple
	Functions string
}

// OutputTuple is a named tuple block of the output file.
type OutputTuple struct {
	Name string
	Code string
}
