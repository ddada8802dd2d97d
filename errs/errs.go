// Copyright 2024 The FlareDB Authors
// This file is part of FlareDB.
//
// FlareDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FlareDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with FlareDB. If not, see <http://www.gnu.org/licenses/>.

// Package errs defines the error taxonomy shared across the engine: schema,
// decode, execution, resource, and programming errors.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags an error so callers can distinguish retriable I/O from logical
// errors without a type switch over every concrete error type in the tree.
type Kind int

const (
	KindSchema Kind = iota
	KindDecode
	KindExecution
	KindResource
	KindProgramming
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindDecode:
		return "decode"
	case KindExecution:
		return "execution"
	case KindResource:
		return "resource"
	case KindProgramming:
		return "programming"
	default:
		return "unknown"
	}
}

// Error wraps a cause with a Kind tag. It implements Unwrap so errors.Is /
// errors.As see through to the cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// InvalidArgument is the recoverable error kernels return on length
// mismatch or arity mismatch.
func InvalidArgument(format string, args ...any) *Error {
	return New(KindSchema, fmt.Sprintf(format, args...))
}

// WithStack attaches a stack trace at the top-level query future's Err(),
// the one boundary where a full trace is user-facing. It preserves the
// wrapped error's identity for errors.Is / errors.As.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(err)
}
