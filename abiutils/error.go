package abiutils

import (
	"fmt"
	"strings"
)

var (
	ErrInternal           = fmt.Errorf("internal code generator error")
	ErrUnimplemented      = fmt.Errorf("unimplemented feature")
	ErrUndrainedFunctions = fmt.Errorf("requested functions were never drained")
	ErrInvalidTypeName    = fmt.Errorf("invalid type name")
)

// ErrorKind separates faults of the generator itself from features it does not support yet.
type ErrorKind string

const (
	KindInternal      ErrorKind = "internal"
	KindUnimplemented ErrorKind = "unimplemented"
)

// CodegenError is a compiler-internal fault raised while generating encoder code.
//
// These errors describe a request the generator cannot serve, never a property of the
// program being compiled. Callers must abort the generation pass when they see one.
type CodegenError struct {
	Kind     ErrorKind
	Function string // generator operation that failed, e.g. "cleanup"
	TypeID   string // identifier of the offending type, if any
	Detail   string
}

func (e *CodegenError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Function != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Function)
	}
	if e.TypeID != "" {
		sb.WriteString(" (")
		sb.WriteString(e.TypeID)
		sb.WriteString(")")
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *CodegenError) Unwrap() error {
	switch e.Kind {
	case KindUnimplemented:
		return ErrUnimplemented
	default:
		return ErrInternal
	}
}

// Internal returns an internal fault for the given generator operation.
func Internal(function, typeID, format string, args ...any) *CodegenError {
	return &CodegenError{
		Kind:     KindInternal,
		Function: function,
		TypeID:   typeID,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// Unimplemented returns a fault for a code path the generator does not support.
func Unimplemented(function, typeID, format string, args ...any) *CodegenError {
	return &CodegenError{
		Kind:     KindUnimplemented,
		Function: function,
		TypeID:   typeID,
		Detail:   fmt.Sprintf(format, args...),
	}
}
