// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import "fmt"

// SyntaxError is the concrete type of errors arising from malformed
// input. Offset is the byte position in the stream where the error was
// detected.
type SyntaxError struct {
	Offset  int64
	Message string
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", e.Offset, e.Message)
}

// TypeError is reported when a typed accessor is invoked on a token or
// node of the wrong kind.
type TypeError struct {
	Have string // a label for the kind present
	Want string // a label for the kind requested
}

// Error satisfies the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot read %s as %s", e.Have, e.Want)
}

// StructError is reported when a generator operation is invoked at a
// position where its output would not form valid JSON.
type StructError struct {
	Message string
}

// Error satisfies the error interface.
func (e *StructError) Error() string { return e.Message }

// DepthError is reported when a tree traversal exceeds its configured
// maximum nesting depth.
type DepthError struct {
	MaxDepth int
}

// Error satisfies the error interface.
func (e *DepthError) Error() string {
	return fmt.Sprintf("exceeded maximum depth %d", e.MaxDepth)
}

func structErrorf(msg string, args ...any) *StructError {
	return &StructError{Message: fmt.Sprintf(msg, args...)}
}
