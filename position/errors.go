// Copyright 2024 The listpositions Authors
// This file is part of listpositions.
//
// listpositions is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// listpositions is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with listpositions. If not, see <http://www.gnu.org/licenses/>.

package position

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind discriminates the fatal error conditions this module raises. Every
// error returned by order, itemlist, views, bunchid, or posmap that
// originates here can be recovered with errors.As into *Error and switched
// on Kind.
type Kind int

const (
	// InvalidBunchID: bunchid.Validate rejected an id (ROOT, contains
	// '.' or ',', or lexicographically >= "~").
	InvalidBunchID Kind = iota
	// MissingMetadata: a bunchID was referenced (as a parent, or via
	// Position) that has never been registered in the Order.
	MissingMetadata
	// MetadataConflict: AddMetas/ReceiveMetas was asked to redefine a
	// bunchID with a different parentID or offset than already known.
	MetadataConflict
	// RangeOutOfBounds: PositionAt/InsertAt/DeleteAt given an index
	// outside the view's valid range, or a zero count where forbidden.
	RangeOutOfBounds
	// ComparisonInvalid: CreatePositions called with prev >= next.
	ComparisonInvalid
	// DecodeInvalid: a lex string was not a well-formed encoding of any
	// AbsolutePosition (malformed or truncated length prefix, bad digit,
	// unterminated or mis-escaped bunch id, even final offset).
	DecodeInvalid
)

func (k Kind) String() string {
	switch k {
	case InvalidBunchID:
		return "InvalidBunchID"
	case MissingMetadata:
		return "MissingMetadata"
	case MetadataConflict:
		return "MetadataConflict"
	case RangeOutOfBounds:
		return "RangeOutOfBounds"
	case ComparisonInvalid:
		return "ComparisonInvalid"
	case DecodeInvalid:
		return "DecodeInvalid"
	default:
		return "Unknown"
	}
}

// Error is the tagged error sum type used throughout this module: never
// mix "not found" with "invalid input" in one error value, per spec.md §7
// and §9. Construct with New or Wrap; discriminate with errors.As.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a fresh *Error of the given Kind, with a stack trace
// attached via pkg/errors so callers that print it get a useful trace the
// way erigon's own fatal paths do.
func New(kind Kind, message string) error {
	return errors.WithStack(&Error{Kind: kind, Message: message})
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Wrap attaches kind/message context to an underlying cause while
// preserving it for errors.Is/errors.As and retaining a stack trace.
func Wrap(kind Kind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Message: message, cause: cause})
}

// IsKind reports whether err is (or wraps) an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
