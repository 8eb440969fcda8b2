// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package abitypes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pk910/dynamic-abi/abiutils"
)

var (
	integerTypeRegex    = regexp.MustCompile(`^(u?)int([0-9]+)$`)
	fixedBytesTypeRegex = regexp.MustCompile(`^bytes([0-9]+)$`)
	fixedPointTypeRegex = regexp.MustCompile(`^(u?)fixed([0-9]+)x([0-9]+)$`)
)

// typeParser reads textual type names like
//
//	uint256, int8, bool, address, bytes4, bytes, string, fixed128x18
//	uint<ADDRESS_BITS>, bytes<HASH_BYTES>, uint256[MAX_ITEMS], uint8[]
//	contract Token, contract Token#7, enum Color{Red,Green,Blue}
//	struct Point{uint256 x, uint256 y} storage
//	literal "hello", function(uint256) external view returns (bool)
//	mapping(address => uint256), tuple(uint256, bool)
//
// Angle brackets and array brackets may contain spec expressions that are resolved
// through the owning type cache.
type typeParser struct {
	input string
	pos   int
	cache *TypeCache
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w '%v' at offset %d: %s", abiutils.ErrInvalidTypeName, p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *typeParser) consume(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) expect(c byte) error {
	if !p.consume(c) {
		return p.errorf("expected '%c'", c)
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	if p.pos >= len(p.input) || !isIdentStart(p.input[p.pos]) {
		return ""
	}
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// peekIdent returns the next identifier without consuming it.
func (p *typeParser) peekIdent() string {
	pos := p.pos
	word := p.ident()
	p.pos = pos
	return word
}

// bracketed returns the raw text up to the bracket closing an already consumed open bracket.
func (p *typeParser) bracketed(open, close byte) (string, error) {
	start := p.pos
	depth := 1
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				raw := p.input[start:p.pos]
				p.pos++
				return strings.TrimSpace(raw), nil
			}
		}
		p.pos++
	}
	return "", p.errorf("missing '%c'", close)
}

func (p *typeParser) parse() (*TypeDescriptor, error) {
	desc, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.peek() != 0 {
		return nil, p.errorf("unexpected trailing input")
	}
	return desc, nil
}

func (p *typeParser) parseType() (*TypeDescriptor, error) {
	desc, err := p.parseBase()
	if err != nil {
		return nil, err
	}

	for p.consume('[') {
		raw, err := p.bracketed('[', ']')
		if err != nil {
			return nil, err
		}
		if raw == "" {
			desc = NewDynamicArrayType(desc, LocationMemory)
			continue
		}
		length, err := p.resolveSize(raw)
		if err != nil {
			return nil, err
		}
		desc = NewArrayType(desc, length, LocationMemory)
	}

	location, ok := ParseDataLocation(p.peekIdent())
	if !ok {
		return desc, nil
	}
	p.ident()

	if desc.Kind != CategoryArray && desc.Kind != CategoryStruct {
		return nil, p.errorf("data location '%v' given for non-reference type %v", location, desc.Identifier())
	}

	isPointer := true
	if location == LocationStorage {
		switch p.peekIdent() {
		case "ref":
			p.ident()
			isPointer = false
		case "pointer", "ptr":
			p.ident()
		}
	}

	return relocate(desc, location, isPointer), nil
}

// relocate binds a reference type and its nested reference elements to a data location.
func relocate(desc *TypeDescriptor, location DataLocation, isPointer bool) *TypeDescriptor {
	if desc.Kind == CategoryArray && desc.ElemDesc != nil && (desc.ElemDesc.Kind == CategoryArray || desc.ElemDesc.Kind == CategoryStruct) {
		descCopy := *desc
		descCopy.ElemDesc = relocate(desc.ElemDesc, location, location != LocationStorage)
		desc = &descCopy
	}
	return desc.WithLocation(location, isPointer)
}

func (p *typeParser) parseBase() (*TypeDescriptor, error) {
	word := p.ident()
	switch word {
	case "":
		return nil, p.errorf("expected type name")

	case "contract":
		name := p.ident()
		if name == "" {
			return nil, p.errorf("missing contract name")
		}
		explicitID, err := p.parseExplicitID("contract", name)
		if err != nil {
			return nil, err
		}
		id, err := p.userTypeID("contract", name, "", explicitID)
		if err != nil {
			return nil, err
		}
		return NewContractType(name, id), nil

	case "enum":
		name := p.ident()
		if name == "" {
			return nil, p.errorf("missing enum name")
		}
		explicitID, err := p.parseExplicitID("enum", name)
		if err != nil {
			return nil, err
		}
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		members := []string{}
		for {
			member := p.ident()
			if member == "" {
				return nil, p.errorf("expected enum member")
			}
			members = append(members, member)
			if !p.consume(',') {
				break
			}
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		id, err := p.userTypeID("enum", name, strings.Join(members, ","), explicitID)
		if err != nil {
			return nil, err
		}
		return NewEnumType(name, id, members), nil

	case "struct":
		name := p.ident()
		if name == "" {
			return nil, p.errorf("missing struct name")
		}
		explicitID, err := p.parseExplicitID("struct", name)
		if err != nil {
			return nil, err
		}
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		fields := []FieldDescriptor{}
		for p.peek() != '}' {
			fieldType, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fieldName := p.ident()
			if fieldName == "" {
				return nil, p.errorf("missing name for struct field #%d", len(fields))
			}
			fields = append(fields, FieldDescriptor{Name: fieldName, Type: fieldType})
			if !p.consume(',') {
				break
			}
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		shape := make([]string, len(fields))
		for i, field := range fields {
			shape[i] = field.Type.Identifier() + " " + field.Name
		}
		id, err := p.userTypeID("struct", name, strings.Join(shape, ","), explicitID)
		if err != nil {
			return nil, err
		}
		return NewStructType(name, id, fields, LocationMemory), nil

	case "literal":
		return p.parseLiteral()

	case "function":
		return p.parseFunction()

	case "mapping":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('='); err != nil {
			return nil, err
		}
		if p.pos >= len(p.input) || p.input[p.pos] != '>' {
			return nil, p.errorf("expected '=>'")
		}
		p.pos++
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return NewMappingType(key, value), nil

	case "tuple":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		components, err := p.parseTypeList(')')
		if err != nil {
			return nil, err
		}
		return NewTupleType(components...), nil
	}

	return p.parseElementary(word)
}

// parseExplicitID reads an optional "#id" suffix and returns 0 if there is none.
func (p *typeParser) parseExplicitID(kind, name string) (int64, error) {
	if !p.consume('#') {
		return 0, nil
	}
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	id, err := strconv.ParseInt(p.input[start:p.pos], 10, 64)
	if err != nil || id <= 0 {
		return 0, p.errorf("invalid id for %v %v", kind, name)
	}
	return id, nil
}

func (p *typeParser) userTypeID(kind, name, shape string, explicitID int64) (int64, error) {
	id, err := p.cache.userTypeID(kind, name, shape, explicitID)
	if err != nil {
		return 0, p.errorf("%v", err)
	}
	return id, nil
}

func (p *typeParser) parseTypeList(close byte) ([]*TypeDescriptor, error) {
	list := []*TypeDescriptor{}
	if p.consume(close) {
		return list, nil
	}
	for {
		desc, err := p.parseType()
		if err != nil {
			return nil, err
		}
		list = append(list, desc)
		if p.consume(close) {
			return list, nil
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
}

func (p *typeParser) parseLiteral() (*TypeDescriptor, error) {
	if p.peek() != '"' {
		return nil, p.errorf("expected quoted string literal")
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.input) && p.input[p.pos] != '"' {
		if p.input[p.pos] == '\\' {
			p.pos++
		}
		p.pos++
	}
	if p.pos >= len(p.input) {
		return nil, p.errorf("unterminated string literal")
	}
	p.pos++
	value, err := strconv.Unquote(p.input[start:p.pos])
	if err != nil {
		return nil, p.errorf("invalid string literal: %v", err)
	}
	return NewStringLiteralType(value), nil
}

func (p *typeParser) parseFunction() (*TypeDescriptor, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	params, err := p.parseTypeList(')')
	if err != nil {
		return nil, err
	}

	kind := FunctionKindInternal
	mutability := "nonpayable"
	returns := []*TypeDescriptor{}
	for {
		switch p.peekIdent() {
		case "internal":
			kind = FunctionKindInternal
		case "external":
			kind = FunctionKindExternal
		case "pure", "view", "payable", "nonpayable":
			mutability = p.peekIdent()
		case "returns":
			p.ident()
			if err := p.expect('('); err != nil {
				return nil, err
			}
			returns, err = p.parseTypeList(')')
			if err != nil {
				return nil, err
			}
			return NewFunctionType(kind, mutability, params, returns), nil
		default:
			return NewFunctionType(kind, mutability, params, returns), nil
		}
		p.ident()
	}
}

func (p *typeParser) parseElementary(word string) (*TypeDescriptor, error) {
	switch word {
	case "bool":
		return NewBoolType(), nil
	case "address":
		return NewAddressType(), nil
	case "string":
		return NewStringType(LocationMemory), nil
	case "byte":
		return NewFixedBytesType(1), nil
	case "fixed":
		return NewFixedPointType(128, 18, true), nil
	case "ufixed":
		return NewFixedPointType(128, 18, false), nil
	case "bytes":
		if !p.consume('<') {
			return NewBytesType(LocationMemory), nil
		}
		size, err := p.parseSizeExpr()
		if err != nil {
			return nil, err
		}
		return p.fixedBytesType(size)
	case "uint", "int":
		bits := uint64(256)
		if p.consume('<') {
			var err error
			if bits, err = p.parseSizeExpr(); err != nil {
				return nil, err
			}
		}
		return p.integerType(bits, word == "int")
	}

	if match := integerTypeRegex.FindStringSubmatch(word); match != nil {
		bits, err := strconv.ParseUint(match[2], 10, 16)
		if err != nil {
			return nil, p.errorf("invalid integer width: %v", err)
		}
		return p.integerType(bits, match[1] == "")
	}

	if match := fixedBytesTypeRegex.FindStringSubmatch(word); match != nil {
		size, err := strconv.ParseUint(match[1], 10, 8)
		if err != nil {
			return nil, p.errorf("invalid bytes width: %v", err)
		}
		return p.fixedBytesType(size)
	}

	if match := fixedPointTypeRegex.FindStringSubmatch(word); match != nil {
		bits, err := strconv.ParseUint(match[2], 10, 16)
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return nil, p.errorf("invalid fixed point width %v", match[2])
		}
		digits, err := strconv.ParseUint(match[3], 10, 16)
		if err != nil || digits > 80 {
			return nil, p.errorf("invalid fixed point fractional digits %v", match[3])
		}
		return NewFixedPointType(uint16(bits), uint16(digits), match[1] == ""), nil
	}

	return nil, p.errorf("unknown type '%v'", word)
}

func (p *typeParser) parseSizeExpr() (uint64, error) {
	raw, err := p.bracketed('<', '>')
	if err != nil {
		return 0, err
	}
	return p.resolveSize(raw)
}

func (p *typeParser) resolveSize(raw string) (uint64, error) {
	if value, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return value, nil
	}
	value, err := p.cache.resolveExpression(raw)
	if err != nil {
		return 0, p.errorf("%v", err)
	}
	return value, nil
}

func (p *typeParser) integerType(bits uint64, signed bool) (*TypeDescriptor, error) {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return nil, p.errorf("invalid integer width %d", bits)
	}
	return NewIntegerType(uint16(bits), signed), nil
}

func (p *typeParser) fixedBytesType(size uint64) (*TypeDescriptor, error) {
	if size < 1 || size > 32 {
		return nil, p.errorf("invalid fixed bytes width %d", size)
	}
	return NewFixedBytesType(uint8(size)), nil
}
