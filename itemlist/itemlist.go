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

// Package itemlist implements the list-index <-> Position bijection that
// backs every view (List/Outline/Text): a map from bunchID to a
// sparse.Array[K], augmented with a per-bunch cached subtree present-count
// so PositionAt/IndexOfPosition run in expected O(log n) instead of a full
// tree walk (spec.md §4.5).
package itemlist

import (
	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
	"github.com/erigontech/listpositions/sparse"
)

// ItemList is generic over the sparse-array item kind K, exactly the way
// sparse.Array itself is; views.List/Outline/Text each instantiate it with
// the Kind matching their payload (sparse.Values[T], sparse.TextKind,
// sparse.IndicesKind).
type ItemList[K any] struct {
	order *order.Order
	kind  sparse.Kind[K]

	arrays map[string]*sparse.Array[K]

	// counts[bunchID] is the present-slot count of bunchID's own subtree
	// (its own array plus every descendant bunch's subtree), kept current
	// by set/delete via ancestor-chain propagation (see propagate). ROOT's
	// entry is therefore the view's total Length.
	counts map[string]int
}

// New returns an empty ItemList borrowing ord (shared with other views; see
// spec.md §3 ownership) and using kind for its per-bunch sparse arrays.
func New[K any](ord *order.Order, kind sparse.Kind[K]) *ItemList[K] {
	return &ItemList[K]{
		order:  ord,
		kind:   kind,
		arrays: map[string]*sparse.Array[K]{},
		counts: map[string]int{},
	}
}

// Order returns the Order this ItemList borrows.
func (l *ItemList[K]) Order() *order.Order { return l.order }

// Length is the total number of present positions across the whole list.
func (l *ItemList[K]) Length() int { return l.counts[position.RootBunchID] }

func (l *ItemList[K]) arrayFor(bunchID string) *sparse.Array[K] {
	a, ok := l.arrays[bunchID]
	if !ok {
		a = sparse.New(l.kind)
		l.arrays[bunchID] = a
	}
	return a
}

// Has reports whether pos currently holds a value.
func (l *ItemList[K]) Has(pos position.Position) bool {
	a, ok := l.arrays[pos.BunchID]
	return ok && a.Has(int(pos.InnerIndex))
}

// Get returns the single value at pos, if present.
func (l *ItemList[K]) Get(pos position.Position) (K, bool) {
	a, ok := l.arrays[pos.BunchID]
	if !ok {
		return l.kind.Empty(), false
	}
	return a.Get(int(pos.InnerIndex))
}

// presentCount sums the length of every present run in a (its total present
// slot count), used to compute the subtree-count delta a mutation causes.
func presentCount[K any](kind sparse.Kind[K], a *sparse.Array[K]) int {
	total := 0
	for _, e := range a.Entries() {
		total += kind.Len(e.Item)
	}
	return total
}

// propagate adds delta to bunchID's own subtree count and every ancestor's,
// up to and including ROOT. Apart from New and Load (which resets counts
// and rebuilds it through propagate), it is the only place counts is
// mutated, which keeps the cache trivially consistent with arrays.
func (l *ItemList[K]) propagate(bunchID string, delta int) {
	if delta == 0 {
		return
	}
	for {
		l.counts[bunchID] += delta
		if bunchID == position.RootBunchID {
			return
		}
		meta, ok := l.order.GetNode(bunchID)
		if !ok {
			// Nothing further to propagate into; the caller validated
			// bunchID against the Order before reaching here.
			return
		}
		bunchID = meta.ParentID
	}
}

// Set overwrites the Len(item) slots starting at pos with item, returning
// whatever was there before (see sparse.Array.Set) so callers can undo or
// merge.
func (l *ItemList[K]) Set(pos position.Position, item K) *sparse.Array[K] {
	a := l.arrayFor(pos.BunchID)
	replaced := a.Set(int(pos.InnerIndex), item)
	delta := l.kind.Len(item) - presentCount(l.kind, replaced)
	l.propagate(pos.BunchID, delta)
	return replaced
}

// Delete marks [pos.InnerIndex, pos.InnerIndex+count) deleted within pos's
// bunch, returning whatever was there before.
func (l *ItemList[K]) Delete(pos position.Position, count int) *sparse.Array[K] {
	a := l.arrayFor(pos.BunchID)
	replaced := a.Delete(int(pos.InnerIndex), count)
	delta := -presentCount(l.kind, replaced)
	l.propagate(pos.BunchID, delta)
	return replaced
}
