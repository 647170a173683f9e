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
	"github.com/erigontech/listpositions/bunchid"
	"github.com/erigontech/listpositions/position"
)

// ReceiveMeta registers a single bunch. Re-registering a bunch already
// known with identical fields is a no-op; registering it with different
// fields is a fatal MetadataConflict. m.ParentID must already be known
// (ROOT always is) — ReceiveMeta never looks ahead, unlike AddMetas.
func (o *Order) ReceiveMeta(m position.BunchMeta) error {
	if err := bunchid.Validate(m.BunchID); err != nil {
		return err
	}
	if existing, ok := o.byID[m.BunchID]; ok {
		if existing == rootHandle || !o.nodes[existing].meta().Equal(m) {
			return position.Newf(position.MetadataConflict, "bunch %q already registered as %+v, got %+v", m.BunchID, o.nodes[existing].meta(), m)
		}
		return nil
	}
	if m.ParentID != position.RootBunchID {
		if _, ok := o.byID[m.ParentID]; !ok {
			return position.Newf(position.MissingMetadata, "bunch %q references unknown parent %q", m.BunchID, m.ParentID)
		}
	}
	o.registerBunch(m, false)
	return nil
}

// ReceiveMetas applies ReceiveMeta to each entry in order, stopping at the
// first error. Use this when metas is already known to be in causal
// (parent-before-child) order.
func (o *Order) ReceiveMetas(metas []position.BunchMeta) error {
	for _, m := range metas {
		if err := o.ReceiveMeta(m); err != nil {
			return err
		}
	}
	return nil
}

// AddMetas is ReceiveMetas' permissive sibling: metas need not already be
// in causal order, as long as every entry's parent is either already known
// or appears somewhere else in the same batch. It validates the whole
// batch before registering anything, so a batch that fails leaves the
// Order exactly as it was. It returns the subset of metas that were newly
// registered (already-known, identical entries are omitted).
func (o *Order) AddMetas(metas []position.BunchMeta) ([]position.BunchMeta, error) {
	pending := map[string]position.BunchMeta{}
	for _, m := range metas {
		if err := bunchid.Validate(m.BunchID); err != nil {
			return nil, err
		}
		if existing, ok := o.byID[m.BunchID]; ok {
			if existing == rootHandle || !o.nodes[existing].meta().Equal(m) {
				return nil, position.Newf(position.MetadataConflict, "bunch %q already registered as %+v, got %+v", m.BunchID, o.nodes[existing].meta(), m)
			}
			continue
		}
		if prior, ok := pending[m.BunchID]; ok {
			if !prior.Equal(m) {
				return nil, position.Newf(position.MetadataConflict, "bunch %q appears twice in the same batch with different metadata", m.BunchID)
			}
			continue
		}
		pending[m.BunchID] = m
	}
	// Parent existence is checked only after the whole batch's ids are
	// known, so a child may appear before its parent in metas (register's
	// recursion below relies on the same freedom).
	for id, m := range pending {
		if m.ParentID == position.RootBunchID {
			continue
		}
		if _, ok := o.byID[m.ParentID]; ok {
			continue
		}
		if _, ok := pending[m.ParentID]; ok {
			continue
		}
		return nil, position.Newf(position.MissingMetadata, "bunch %q references unknown parent %q", id, m.ParentID)
	}
	// A parent chain that stays inside pending for more steps than pending
	// has entries must loop; reject it here, before anything is registered.
	for id := range pending {
		cur := id
		for steps := 0; ; steps++ {
			pm, ok := pending[cur]
			if !ok {
				break
			}
			if steps > len(pending) {
				return nil, position.Newf(position.MetadataConflict, "bunch %q is its own ancestor within the batch", id)
			}
			cur = pm.ParentID
		}
	}

	var added []position.BunchMeta
	registered := map[string]bool{}
	visiting := map[string]bool{}
	var register func(m position.BunchMeta) error
	register = func(m position.BunchMeta) error {
		if registered[m.BunchID] {
			return nil
		}
		if visiting[m.BunchID] {
			return position.Newf(position.MetadataConflict, "bunch %q is its own ancestor within the batch", m.BunchID)
		}
		visiting[m.BunchID] = true
		if m.ParentID != position.RootBunchID {
			if _, ok := o.byID[m.ParentID]; !ok {
				if err := register(pending[m.ParentID]); err != nil {
					return err
				}
			}
		}
		visiting[m.BunchID] = false
		registered[m.BunchID] = true
		o.registerBunch(m, false)
		added = append(added, m)
		return nil
	}
	for _, m := range pending {
		if err := register(m); err != nil {
			return nil, err
		}
	}
	return added, nil
}
