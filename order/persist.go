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

package order

import (
	"encoding/json"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/erigontech/listpositions/position"
)

// SavedEntry is one bunch's metadata, minus the parent id, which SavedState
// already encodes as the map key.
type SavedEntry struct {
	BunchID string
	Offset  uint64
}

// SavedState is Order's serializable form: every non-ROOT bunch, keyed by
// its parent id (ROOT's own children are keyed under position.RootBunchID).
// Deliberately excludes each bunch's watermark/authored bit — see DESIGN.md
// open question (c): reuse eligibility never survives a save/load round
// trip, even back into the same process.
type SavedState map[string][]SavedEntry

// Save snapshots every registered bunch.
func (o *Order) Save() SavedState {
	out := SavedState{}
	for h := 1; h < len(o.nodes); h++ {
		n := o.nodes[h]
		out[n.parentID] = append(out[n.parentID], SavedEntry{BunchID: n.bunchID, Offset: n.offset})
	}
	return out
}

// Load registers every bunch in state. It tolerates state listing a bunch
// already known to o (as long as the metadata agrees) so the same state
// can be loaded into more than one fresh Order, or re-loaded into one that
// already has some overlapping history. Traversal starts at ROOT's own
// key and recurses by id, so SavedState's map iteration order never
// matters.
func (o *Order) Load(state SavedState) error {
	visited := map[string]bool{}
	var walk func(parentID string) error
	walk = func(parentID string) error {
		for _, e := range state[parentID] {
			if visited[e.BunchID] {
				continue
			}
			visited[e.BunchID] = true
			if err := o.ReceiveMeta(position.BunchMeta{BunchID: e.BunchID, ParentID: parentID, Offset: e.Offset}); err != nil {
				return err
			}
			if err := walk(e.BunchID); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(position.RootBunchID)
}

// SaveToFile writes Save()'s JSON encoding to path, truncating any
// existing content.
func (o *Order) SaveToFile(path string) error {
	data, err := json.Marshal(o.Save())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFromFile memory-maps path and Loads the JSON-encoded SavedState it
// holds, avoiding a full read into a second heap buffer for large states.
func (o *Order) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return err
	}
	defer m.Unmap()

	var state SavedState
	if err := json.Unmarshal(m, &state); err != nil {
		return err
	}
	return o.Load(state)
}
