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
	"strings"

	"github.com/erigontech/listpositions/itemlist"
	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
	"github.com/erigontech/listpositions/sparse"
)

// Text is a Position-indexed character sequence, backed by an ItemList over
// sparse.TextKind: each Position holds exactly one byte of content, with
// runs of consecutive bytes stored (and returned by Save) as one substring.
type Text struct {
	items *itemlist.ItemList[string]
}

// NewText returns an empty Text borrowing ord.
func NewText(ord *order.Order) *Text {
	return &Text{items: itemlist.New[string](ord, sparse.TextKind{})}
}

// Order returns the Order this Text borrows.
func (t *Text) Order() *order.Order { return t.items.Order() }

// Len returns the number of present characters.
func (t *Text) Len() int { return t.items.Length() }

// Has reports whether pos currently holds a character.
func (t *Text) Has(pos position.Position) bool { return t.items.Has(pos) }

// Get returns the single-byte substring at pos, if present.
func (t *Text) Get(pos position.Position) (string, bool) { return t.items.Get(pos) }

// GetAt returns the character at list index i.
func (t *Text) GetAt(i int) (string, error) {
	pos, err := t.items.PositionAt(i)
	if err != nil {
		return "", err
	}
	v, _ := t.items.Get(pos)
	return v, nil
}

// Delete removes count characters starting at pos.
func (t *Text) Delete(pos position.Position, count int) { t.items.Delete(pos, count) }

// DeleteAt removes count characters starting at list index i.
func (t *Text) DeleteAt(i, count int) error { return t.items.DeleteAt(i, count) }

// InsertAt creates len(s) new Positions at list index i and sets s as their
// content in one run, returning the first new Position.
func (t *Text) InsertAt(i int, s string) (position.Position, *position.BunchMeta, error) {
	return t.items.InsertAt(i, s)
}

// Insert creates len(s) new Positions directly after prev and sets s as
// their content, returning the first new Position.
func (t *Text) Insert(prev position.Position, s string) (position.Position, *position.BunchMeta, error) {
	idx, err := t.items.IndexOfPosition(prev, position.SearchLeft)
	if err != nil {
		return position.Position{}, nil, err
	}
	return t.items.InsertAt(idx+1, s)
}

// PositionAt returns the Position of the i-th character.
func (t *Text) PositionAt(i int) (position.Position, error) { return t.items.PositionAt(i) }

// IndexOfPosition reports pos's list index.
func (t *Text) IndexOfPosition(pos position.Position, dir position.SearchDir) (int, error) {
	return t.items.IndexOfPosition(pos, dir)
}

// Positions returns every present Position in ascending order.
func (t *Text) Positions() []position.Position { return t.items.Positions() }

// String concatenates every present character in ascending Position order.
func (t *Text) String() string {
	var b strings.Builder
	b.Grow(t.Len())
	for _, c := range t.items.Values() {
		b.WriteString(c)
	}
	return b.String()
}

// Slice returns the substring at list indices [start, end).
func (t *Text) Slice(start, end int) (string, error) {
	var b strings.Builder
	for i := start; i < end; i++ {
		c, err := t.GetAt(i)
		if err != nil {
			return "", err
		}
		b.WriteString(c)
	}
	return b.String(), nil
}

// Save serializes every bunch's sparse array.
func (t *Text) Save() itemlist.SavedState[string] { return t.items.Save() }

// Load overwrites t's current content with state.
func (t *Text) Load(state itemlist.SavedState[string]) error { return t.items.Load(state) }

// Dependencies returns the BunchMeta set needed to resolve every Position t
// currently knows about.
func (t *Text) Dependencies() ([]position.BunchMeta, error) { return t.items.Dependencies() }
