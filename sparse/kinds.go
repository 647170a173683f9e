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

package sparse

// Values is the Kind used by views.List[T]: a present run is a plain []T.
type Values[T any] struct{}

func (Values[T]) Empty() []T { return nil }
func (Values[T]) Len(item []T) int { return len(item) }
func (Values[T]) Slice(item []T, start, end int) []T {
	out := make([]T, end-start)
	copy(out, item[start:end])
	return out
}
func (Values[T]) Concat(a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// TextKind is the Kind used by views.Text: a present run is a substring.
// Indexing is byte-based, matching ordinary Go string slicing.
type TextKind struct{}

func (TextKind) Empty() string                             { return "" }
func (TextKind) Len(item string) int                        { return len(item) }
func (TextKind) Slice(item string, start, end int) string   { return item[start:end] }
func (TextKind) Concat(a, b string) string                  { return a + b }

// IndicesKind is the Kind used by views.Outline: there is no payload
// beyond the run's own length, so the "item" is the run-length count
// itself — exactly the integer run-length encoding spec.md §4.2
// describes for the Indices instantiation. posmap.PositionSet needs the
// same "which integers are present" shape but no Order to derive subtree
// counts from, so it is backed directly by a roaring64.Bitmap instead
// (see posmap.PositionSet and DESIGN.md).
type IndicesKind struct{}

func (IndicesKind) Empty() int                      { return 0 }
func (IndicesKind) Len(item int) int                { return item }
func (IndicesKind) Slice(item int, start, end int) int { return end - start }
func (IndicesKind) Concat(a, b int) int             { return a + b }
