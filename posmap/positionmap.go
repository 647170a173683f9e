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
	"github.com/erigontech/listpositions/sparse"
)

// PositionMap is a flat bunchID -> sparse.Array[V] map: it remembers the
// last value a CRDT layer observed at each Position, with no Order
// reference, since lookup and overwrite are both single-Position
// operations that never need to compare two Positions against each other.
type PositionMap[V any] struct {
	bunches map[string]*sparse.Array[V]
}

// NewPositionMap returns an empty PositionMap.
func NewPositionMap[V any]() *PositionMap[V] {
	return &PositionMap[V]{bunches: make(map[string]*sparse.Array[V])}
}

func (m *PositionMap[V]) array(bunchID string, create bool) *sparse.Array[V] {
	a, ok := m.bunches[bunchID]
	if !ok {
		if !create {
			return nil
		}
		a = sparse.New[V](sparse.Values[V]{})
		m.bunches[bunchID] = a
	}
	return a
}

// Set records value at pos, overwriting whatever was there.
func (m *PositionMap[V]) Set(pos position.Position, value V) {
	m.array(pos.BunchID, true).Set(int(pos.InnerIndex), []V{value})
}

// Delete forgets the value at pos, if any.
func (m *PositionMap[V]) Delete(pos position.Position) {
	if a := m.array(pos.BunchID, false); a != nil {
		a.Delete(int(pos.InnerIndex), 1)
	}
}

// Get returns the value recorded at pos, if any.
func (m *PositionMap[V]) Get(pos position.Position) (V, bool) {
	a := m.array(pos.BunchID, false)
	if a == nil {
		var zero V
		return zero, false
	}
	run, ok := a.Get(int(pos.InnerIndex))
	if !ok || len(run) == 0 {
		var zero V
		return zero, false
	}
	return run[0], true
}

// Has reports whether pos currently has a recorded value.
func (m *PositionMap[V]) Has(pos position.Position) bool {
	a := m.array(pos.BunchID, false)
	return a != nil && a.Has(int(pos.InnerIndex))
}

// Len returns the total number of recorded Positions across every bunch.
func (m *PositionMap[V]) Len() int {
	total := 0
	for _, a := range m.bunches {
		total += presentCount(a)
	}
	return total
}

func presentCount[V any](a *sparse.Array[V]) int {
	total := 0
	for _, e := range a.Entries() {
		total += len(e.Item)
	}
	return total
}

// PositionEntry pairs a Position with the value recorded at it.
type PositionEntry[V any] struct {
	Position position.Position
	Value    V
}

// Entries returns every recorded (Position, value) pair, grouped by bunch
// (bunches in lexical order, InnerIndex ascending within a bunch) since a
// PositionMap has no Order to compare across bunches.
func (m *PositionMap[V]) Entries() []PositionEntry[V] {
	var out []PositionEntry[V]
	for _, bunchID := range sortedBunchIDs(m.bunches) {
		for _, e := range m.bunches[bunchID].Entries() {
			for i, v := range e.Item {
				out = append(out, PositionEntry[V]{
					Position: position.Position{BunchID: bunchID, InnerIndex: uint64(e.Index + i)},
					Value:    v,
				})
			}
		}
	}
	return out
}

// MapSavedState is PositionMap's serialized form: one sparse.Array
// serialization (spec.md §6 shape) per bunch.
type MapSavedState[V any] map[string][]any

// Save serializes m.
func (m *PositionMap[V]) Save() MapSavedState[V] {
	out := make(MapSavedState[V], len(m.bunches))
	for bunchID, a := range m.bunches {
		out[bunchID] = a.Serialize()
	}
	return out
}

// Load overwrites m's content with state.
func (m *PositionMap[V]) Load(state MapSavedState[V]) error {
	bunches := make(map[string]*sparse.Array[V], len(state))
	for bunchID, raw := range state {
		a, err := sparse.Deserialize[V](sparse.Values[V]{}, raw)
		if err != nil {
			return err
		}
		bunches[bunchID] = a
	}
	m.bunches = bunches
	return nil
}
