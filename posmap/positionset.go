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

// Package posmap implements flat bunchID -> payload maps over Positions,
// with no *order.Order reference: a CRDT layer built on top of this module
// tracks "have I already applied this Position" (PositionSet) or "what did
// I last see stored at this Position" (PositionMap/PositionCharMap)
// without needing the bunch tree to resolve a total order, since these
// maps never compare two Positions against each other - they only test a
// single Position for membership or look up its payload.
package posmap

import (
	"bytes"
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/pkg/errors"

	"github.com/erigontech/listpositions/position"
)

// PositionSet tracks which Positions a caller has already seen, grouped by
// bunch. Each bunch's presence set is a roaring64.Bitmap over InnerIndex:
// exactly the "compressed run of present integers" shape a CRDT replica
// needs when replaying a possibly-out-of-order update log and checking
// "have I applied this one already" before every insert.
type PositionSet struct {
	bunches map[string]*roaring64.Bitmap
}

// NewPositionSet returns an empty PositionSet.
func NewPositionSet() *PositionSet {
	return &PositionSet{bunches: make(map[string]*roaring64.Bitmap)}
}

func (s *PositionSet) bitmap(bunchID string, create bool) *roaring64.Bitmap {
	bm, ok := s.bunches[bunchID]
	if !ok {
		if !create {
			return nil
		}
		bm = roaring64.New()
		s.bunches[bunchID] = bm
	}
	return bm
}

// Add records pos as seen. Idempotent.
func (s *PositionSet) Add(pos position.Position) {
	s.bitmap(pos.BunchID, true).Add(pos.InnerIndex)
}

// Remove forgets pos, if it was recorded.
func (s *PositionSet) Remove(pos position.Position) {
	if bm := s.bitmap(pos.BunchID, false); bm != nil {
		bm.Remove(pos.InnerIndex)
	}
}

// Has reports whether pos was recorded by Add.
func (s *PositionSet) Has(pos position.Position) bool {
	bm := s.bitmap(pos.BunchID, false)
	return bm != nil && bm.Contains(pos.InnerIndex)
}

// State exposes s's underlying per-bunch bitmaps directly. PositionSet
// owns no derived cache (unlike itemlist.ItemList's subtree counts), so
// mutating a returned bitmap through this accessor invalidates nothing;
// it exists for CRDT layers that want to union/intersect seen-sets across
// replicas without going through Position-by-Position calls.
func (s *PositionSet) State() map[string]*roaring64.Bitmap { return s.bunches }

// Len returns the total number of recorded Positions across every bunch.
func (s *PositionSet) Len() int {
	total := 0
	for _, bm := range s.bunches {
		total += int(bm.GetCardinality())
	}
	return total
}

// Positions returns every recorded Position, grouped by bunch (bunches in
// no particular order, InnerIndex ascending within a bunch) since a
// PositionSet has no Order to compare across bunches.
func (s *PositionSet) Positions() []position.Position {
	out := make([]position.Position, 0, s.Len())
	for bunchID, bm := range s.bunches {
		it := bm.Iterator()
		for it.HasNext() {
			out = append(out, position.Position{BunchID: bunchID, InnerIndex: it.Next()})
		}
	}
	return out
}

// SavedState is PositionSet's serialized form: one Roaring bitmap
// (RunOptimize'd) per bunch.
type SavedState map[string][]byte

// Save serializes s, run-optimizing each bitmap first to shrink the
// encoding when a bunch's seen set is mostly contiguous.
func (s *PositionSet) Save() (SavedState, error) {
	out := make(SavedState, len(s.bunches))
	for bunchID, bm := range s.bunches {
		bm.RunOptimize()
		var buf bytes.Buffer
		if _, err := bm.WriteTo(&buf); err != nil {
			return nil, errors.Wrapf(err, "posmap: serializing bunch %q", bunchID)
		}
		out[bunchID] = buf.Bytes()
	}
	return out, nil
}

// Load overwrites s's content with state.
func (s *PositionSet) Load(state SavedState) error {
	bunches := make(map[string]*roaring64.Bitmap, len(state))
	for bunchID, raw := range state {
		bm := roaring64.New()
		if _, err := bm.ReadFrom(bytes.NewReader(raw)); err != nil {
			return errors.Wrapf(err, "posmap: deserializing bunch %q", bunchID)
		}
		bunches[bunchID] = bm
	}
	s.bunches = bunches
	return nil
}

// sortedBunchIDs is a small helper (used by PositionMap.Entries) for
// deterministic iteration order.
func sortedBunchIDs[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
