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

// Package order implements the bunch tree: the mutable structure that
// assigns every Position a place in the total order, creates new Positions
// between any two existing ones, and tracks the BunchMeta each replica
// needs to exchange for two Orders to agree on that order (spec.md §4.3).
package order

import (
	"github.com/anacrolix/log"
	"github.com/tidwall/btree"

	"github.com/erigontech/listpositions/bunchid"
	"github.com/erigontech/listpositions/position"
)

// Order is one replica's view of the bunch tree. It is not safe for
// concurrent use from multiple goroutines without external synchronization
// — the same restriction the teacher's own non-MDBX in-memory structures
// carry.
type Order struct {
	nodes   []*node
	byID    map[string]handle
	factory *bunchid.Factory

	logger    log.Logger
	hasLogger bool
}

// New returns an Order whose CreatePositions mints bunch ids for replica.
// replica must satisfy bunchid.Validate (it becomes the prefix of every
// bunch id this Order authors).
func New(replica string) (*Order, error) {
	f, err := bunchid.NewFactory(replica)
	if err != nil {
		return nil, err
	}
	root := &node{
		bunchID:         position.RootBunchID,
		children:        btree.NewBTreeG(childLess),
		maxCreatedInner: -1,
	}
	return &Order{
		nodes:   []*node{root},
		byID:    map[string]handle{position.RootBunchID: rootHandle},
		factory: f,
	}, nil
}

// Replica returns the replica string this Order's Factory mints ids for.
func (o *Order) Replica() string { return o.factory.Replica() }

// SetLogger attaches a diagnostic logger; once set, logging stays on for
// the Order's lifetime. It costs a single Printf call per newly registered
// bunch (created, received or loaded).
func (o *Order) SetLogger(logger log.Logger) {
	o.logger = logger
	o.hasLogger = true
}

func (o *Order) logf(format string, args ...any) {
	if o.hasLogger {
		o.logger.Printf(format, args...)
	}
}

// GetNode reports the registered BunchMeta for bunchID, if any. ROOT itself
// is never returned (it has no BunchMeta; see position.BunchMeta).
func (o *Order) GetNode(bunchID string) (position.BunchMeta, bool) {
	h, ok := o.byID[bunchID]
	if !ok || h == rootHandle {
		return position.BunchMeta{}, false
	}
	return o.nodes[h].meta(), true
}

// ancestryOf returns the Step chain from ROOT's immediate child down to
// (and including) h's own node, i.e. position.AbsolutePosition.Ancestors
// for any Position living in bunch h.
func (o *Order) ancestryOf(h handle) []position.Step {
	var chain []handle
	for h != rootHandle {
		chain = append(chain, h)
		h = o.nodes[h].parent
	}
	steps := make([]position.Step, len(chain))
	for i, hh := range chain {
		n := o.nodes[hh]
		steps[len(chain)-1-i] = position.Step{Offset: n.offset, BunchID: n.bunchID}
	}
	return steps
}

func (o *Order) missingMetadata(bunchID string) error {
	return position.Newf(position.MissingMetadata, "bunch %q has not been registered with this Order", bunchID)
}

// fullPathOf resolves pos to the same Step sequence
// position.AbsolutePosition.FullPath would produce, without allocating an
// intermediate AbsolutePosition.
func (o *Order) fullPathOf(pos position.Position) ([]position.Step, error) {
	h, ok := o.byID[pos.BunchID]
	if !ok {
		return nil, o.missingMetadata(pos.BunchID)
	}
	steps := o.ancestryOf(h)
	return append(steps, position.Step{Offset: 2*pos.InnerIndex + 1, BunchID: pos.BunchID}), nil
}

// Abs resolves pos to its self-contained AbsolutePosition form.
func (o *Order) Abs(pos position.Position) (position.AbsolutePosition, error) {
	h, ok := o.byID[pos.BunchID]
	if !ok {
		return position.AbsolutePosition{}, o.missingMetadata(pos.BunchID)
	}
	return position.AbsolutePosition{
		Ancestors:  o.ancestryOf(h),
		BunchID:    pos.BunchID,
		InnerIndex: pos.InnerIndex,
	}, nil
}

// Unabs is the inverse of Abs: it registers any bunch along ap's ancestor
// chain this Order has not seen before (fatal on conflict with what is
// already known) and returns the compact Position.
func (o *Order) Unabs(ap position.AbsolutePosition) (position.Position, error) {
	parentID := position.RootBunchID
	for _, step := range ap.Ancestors {
		if err := o.ReceiveMeta(position.BunchMeta{BunchID: step.BunchID, ParentID: parentID, Offset: step.Offset}); err != nil {
			return position.Position{}, err
		}
		parentID = step.BunchID
	}
	return position.Position{BunchID: ap.BunchID, InnerIndex: ap.InnerIndex}, nil
}

// Compare implements the total order on two Positions already registered
// with this Order (see position.ComparePaths for the algorithm).
func (o *Order) Compare(a, b position.Position) (int, error) {
	pa, err := o.fullPathOf(a)
	if err != nil {
		return 0, err
	}
	pb, err := o.fullPathOf(b)
	if err != nil {
		return 0, err
	}
	return position.ComparePaths(pa, pb), nil
}

// Dependencies returns the BunchMeta set a remote Order would need to
// resolve every one of positions, deduplicated, in no particular order.
func (o *Order) Dependencies(positions ...position.Position) ([]position.BunchMeta, error) {
	seen := map[string]bool{}
	var out []position.BunchMeta
	for _, pos := range positions {
		h, ok := o.byID[pos.BunchID]
		if !ok {
			return nil, o.missingMetadata(pos.BunchID)
		}
		for cur := h; cur != rootHandle; cur = o.nodes[cur].parent {
			id := o.nodes[cur].bunchID
			if seen[id] {
				break
			}
			seen[id] = true
			out = append(out, o.nodes[cur].meta())
		}
	}
	return out, nil
}

// Children returns bunchID's direct child bunches (bunchID itself may be
// position.RootBunchID) in the same (offset, bunchID) order Compare and
// CreatePositions use at that level. itemlist relies on this instead of
// duplicating a second copy of the bunch tree's child ordering.
func (o *Order) Children(bunchID string) ([]position.BunchMeta, error) {
	h, ok := o.byID[bunchID]
	if !ok {
		return nil, o.missingMetadata(bunchID)
	}
	var out []position.BunchMeta
	o.nodes[h].children.Ascend(childKey{}, func(c childKey) bool {
		out = append(out, o.nodes[c.child].meta())
		return true
	})
	return out, nil
}

func (o *Order) registerBunch(m position.BunchMeta, authored bool) handle {
	parentH := rootHandle
	if m.ParentID != position.RootBunchID {
		parentH = o.byID[m.ParentID]
	}
	h := handle(len(o.nodes))
	o.nodes = append(o.nodes, newNode(m, parentH, authored))
	o.byID[m.BunchID] = h
	o.nodes[parentH].children.Set(childKey{offset: m.Offset, bunchID: m.BunchID, child: h})
	o.logf("order: registered bunch %s parent=%s offset=%d authored=%v", m.BunchID, m.ParentID, m.Offset, authored)
	return h
}
