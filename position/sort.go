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

import "sort"

// Comparer is an infallible total order on two Positions, the shape
// order.Order.Compare has once an embedder discards (or has already
// checked) the error; it lets SortPositions work without this package
// depending on order.
type Comparer interface {
	Compare(a, b Position) int
}

// SortPositions sorts ps in place against cmp's total order. It is a thin
// sort.Slice wrapper: embedders that already have an *order.Order can adapt
// its fallible Compare (e.g. panicking on error, which should not happen
// for Positions the Order has already registered) to satisfy Comparer, then
// need no more than this to turn a batch of freshly created Positions into
// a sequence.
func SortPositions(ps []Position, cmp Comparer) {
	sort.Slice(ps, func(i, j int) bool {
		return cmp.Compare(ps[i], ps[j]) < 0
	})
}

// ExpandPositions returns the count Positions {start.BunchID,
// start.InnerIndex + k} for k = 0..count-1: the Positions spanned by a
// single CreatePositions(..., count) call or a single multi-slot sparse-array
// run. Pure and Order-independent, so it lives here rather than on
// itemlist.ItemList alone (which re-exports it for convenience).
func ExpandPositions(start Position, count int) []Position {
	out := make([]Position, count)
	for k := 0; k < count; k++ {
		out[k] = Position{BunchID: start.BunchID, InnerIndex: start.InnerIndex + uint64(k)}
	}
	return out
}
