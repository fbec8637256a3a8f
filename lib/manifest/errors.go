// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import "fmt"

// ParseError is malformed manifest input: a syntax error, an
// unsupported tag, or a value of the wrong shape. Line and Column are
// 1-based positions into the document on standard input.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stdin:%d:%d: %s", e.Line, e.Column, e.Msg)
}

// errAt builds a ParseError at the position of ev.
func errAt(ev event, format string, args ...any) *ParseError {
	return &ParseError{
		Line:   ev.line,
		Column: ev.column,
		Msg:    fmt.Sprintf(format, args...),
	}
}
