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

package views

import (
	"github.com/erigontech/listpositions/itemlist"
	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
	"github.com/erigontech/listpositions/sparse"
)

// Outline is a Position-indexed sequence with no per-slot payload: only
// presence matters (e.g. a numbered-outline or checklist structure whose
// items carry their own content elsewhere, keyed by Position). Backed by an
// ItemList over sparse.IndicesKind, whose "item" is just a run length.
type Outline struct {
	items *itemlist.ItemList[int]
}

// NewOutline returns an empty Outline borrowing ord.
func NewOutline(ord *order.Order) *Outline {
	return &Outline{items: itemlist.New[int](ord, sparse.IndicesKind{})}
}

// Order returns the Order this Outline borrows.
func (o *Outline) Order() *order.Order { return o.items.Order() }

// Len returns the number of present positions.
func (o *Outline) Len() int { return o.items.Length() }

// Has reports whether pos is present.
func (o *Outline) Has(pos position.Position) bool { return o.items.Has(pos) }

// Delete removes count positions starting at pos.
func (o *Outline) Delete(pos position.Position, count int) { o.items.Delete(pos, count) }

// DeleteAt removes count positions starting at list index i.
func (o *Outline) DeleteAt(i, count int) error { return o.items.DeleteAt(i, count) }

// InsertAt creates count new Positions at list index i, returning the first.
func (o *Outline) InsertAt(i, count int) (position.Position, *position.BunchMeta, error) {
	return o.items.InsertAt(i, count)
}

// Insert creates count new Positions directly after prev, returning the
// first.
func (o *Outline) Insert(prev position.Position, count int) (position.Position, *position.BunchMeta, error) {
	idx, err := o.items.IndexOfPosition(prev, position.SearchLeft)
	if err != nil {
		return position.Position{}, nil, err
	}
	return o.items.InsertAt(idx+1, count)
}

// PositionAt returns the Position of the i-th present slot.
func (o *Outline) PositionAt(i int) (position.Position, error) { return o.items.PositionAt(i) }

// IndexOfPosition reports pos's list index.
func (o *Outline) IndexOfPosition(pos position.Position, dir position.SearchDir) (int, error) {
	return o.items.IndexOfPosition(pos, dir)
}

// Positions returns every present Position in ascending order.
func (o *Outline) Positions() []position.Position { return o.items.Positions() }

// Save serializes every bunch's run-length array.
func (o *Outline) Save() itemlist.SavedState[int] { return o.items.Save() }

// Load overwrites o's current content with state.
func (o *Outline) Load(state itemlist.SavedState[int]) error { return o.items.Load(state) }

// Dependencies returns the BunchMeta set needed to resolve every Position o
// currently knows about.
func (o *Outline) Dependencies() ([]position.BunchMeta, error) { return o.items.Dependencies() }
