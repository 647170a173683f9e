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

package posmap

import (
	"github.com/erigontech/listpositions/position"
)

// PositionCharMap is PositionMap specialized for one-character-per-Position
// payloads (e.g. a CRDT text replica's "character last observed at this
// Position" table, as opposed to PositionMap's arbitrary per-Position
// value). It is a distinct named type from PositionMap[E] so call sites
// document their intent, but shares its implementation outright: a single
// character is just a value like any other to the underlying sparse array.
type PositionCharMap[E any] struct {
	inner *PositionMap[E]
}

// NewPositionCharMap returns an empty PositionCharMap.
func NewPositionCharMap[E any]() *PositionCharMap[E] {
	return &PositionCharMap[E]{inner: NewPositionMap[E]()}
}

// Set records character ch at pos, overwriting whatever was there.
func (m *PositionCharMap[E]) Set(pos position.Position, ch E) { m.inner.Set(pos, ch) }

// Delete forgets the character at pos, if any.
func (m *PositionCharMap[E]) Delete(pos position.Position) { m.inner.Delete(pos) }

// Get returns the character recorded at pos, if any.
func (m *PositionCharMap[E]) Get(pos position.Position) (E, bool) { return m.inner.Get(pos) }

// Has reports whether pos currently has a recorded character.
func (m *PositionCharMap[E]) Has(pos position.Position) bool { return m.inner.Has(pos) }

// Len returns the total number of recorded Positions across every bunch.
func (m *PositionCharMap[E]) Len() int { return m.inner.Len() }

// Entries returns every recorded (Position, character) pair, grouped by
// bunch (bunches in lexical order, InnerIndex ascending within a bunch).
func (m *PositionCharMap[E]) Entries() []PositionEntry[E] { return m.inner.Entries() }

// Save serializes m.
func (m *PositionCharMap[E]) Save() MapSavedState[E] { return m.inner.Save() }

// Load overwrites m's content with state.
func (m *PositionCharMap[E]) Load(state MapSavedState[E]) error { return m.inner.Load(state) }
