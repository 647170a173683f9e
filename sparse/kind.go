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

// Package sparse implements the run-length sparse array that backs every
// view (List/Outline/Text) and PositionSet/PositionMap/PositionCharMap:
// a map from a contiguous key space 0..k to "present with payload T" or
// "deleted", stored as a btree of maximal runs (DESIGN.md: polymorphism
// over item kind, grounded on sortcache's map+btree pairing).
package sparse

// Kind is the trait a "present" payload type must satisfy: a sequence-like
// value that can be measured, sliced, and concatenated. Values[T],
// TextKind, and IndicesKind (see kinds.go) are the three instantiations
// spec.md names.
type Kind[T any] interface {
	// Empty returns the zero-length payload value.
	Empty() T
	// Len reports how many logical slots item occupies.
	Len(item T) int
	// Slice returns the sub-payload covering local range [start, end).
	Slice(item T, start, end int) T
	// Concat returns the payload formed by joining a then b.
	Concat(a, b T) T
}
