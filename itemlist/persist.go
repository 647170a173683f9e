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

package itemlist

import (
	"github.com/erigontech/listpositions/position"
	"github.com/erigontech/listpositions/sparse"
)

// SavedState is the sparse-array saved form from spec.md §6: one
// alternating present/deleted run sequence per bunch that currently holds
// any value.
type SavedState[K any] map[string][]any

// Save serializes every bunch's sparse array. Loading this overwrites a
// view's current state; it is not a state-based merge (CRDT layers built on
// this library implement merge externally, using Save/Load plus their own
// "seen" tracker — spec.md §6).
func (l *ItemList[K]) Save() SavedState[K] {
	out := SavedState[K]{}
	for bunchID, a := range l.arrays {
		if raw := a.Serialize(); len(raw) > 0 {
			out[bunchID] = raw
		}
	}
	return out
}

// Load overwrites l's current arrays with state's content, recomputing
// every subtree count from scratch. Every bunchID in state must already be
// registered with l's Order (e.g. via a prior AddMetas/Load on the Order
// itself).
func (l *ItemList[K]) Load(state SavedState[K]) error {
	l.arrays = map[string]*sparse.Array[K]{}
	l.counts = map[string]int{}
	for bunchID, raw := range state {
		if bunchID != position.RootBunchID {
			if _, ok := l.order.GetNode(bunchID); !ok {
				return position.Newf(position.MissingMetadata, "bunch %q has not been registered with this Order", bunchID)
			}
		}
		a, err := sparse.Deserialize(l.kind, raw)
		if err != nil {
			return err
		}
		l.arrays[bunchID] = a
		l.propagate(bunchID, presentCount(l.kind, a))
	}
	return nil
}

// Dependencies returns the BunchMeta set needed to resolve every Position l
// currently knows about (every bunch with a non-empty array plus their full
// ancestor chains), deduplicated.
func (l *ItemList[K]) Dependencies() ([]position.BunchMeta, error) {
	var positions []position.Position
	for bunchID, a := range l.arrays {
		if bunchID == position.RootBunchID || a.Length() == 0 {
			continue
		}
		positions = append(positions, position.Position{BunchID: bunchID, InnerIndex: 0})
	}
	if len(positions) == 0 {
		return nil, nil
	}
	return l.order.Dependencies(positions...)
}
