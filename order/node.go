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
	"github.com/tidwall/btree"

	"github.com/erigontech/listpositions/position"
)

// handle indexes into Order.nodes. ROOT is always handle 0.
type handle int

const rootHandle handle = 0

// childKey orders one bunch's children by (offset, bunchID), exactly the
// comparison order.Order.Compare uses at that level (position.Step.Less).
type childKey struct {
	offset  uint64
	bunchID string
	child   handle
}

func childLess(a, b childKey) bool {
	if a.offset != b.offset {
		return a.offset < b.offset
	}
	return a.bunchID < b.bunchID
}

const childTreeDegree = 32

// node is one bunch in the arena. ROOT's own node has bunchID RootBunchID,
// no parent, and holds the top-level children (the bunches hanging directly
// off the two sentinel slots).
type node struct {
	bunchID  string
	parentID string
	offset   uint64
	parent   handle

	children *btree.BTreeG[childKey]

	// maxCreatedInner is the highest inner index this Order has itself
	// appended into this bunch, or -1 if none. Only meaningful when
	// authored is true; see tryReuse and DESIGN.md's open question (c).
	maxCreatedInner int64
	authored        bool
}

func newNode(m position.BunchMeta, parent handle, authored bool) *node {
	return &node{
		bunchID:         m.BunchID,
		parentID:        m.ParentID,
		offset:          m.Offset,
		parent:          parent,
		children:        btree.NewBTreeG(childLess),
		maxCreatedInner: -1,
		authored:        authored,
	}
}

func (n *node) meta() position.BunchMeta {
	return position.BunchMeta{BunchID: n.bunchID, ParentID: n.parentID, Offset: n.offset}
}

// hasChildAtOffset reports whether any child (regardless of bunchID) sits
// at exactly this offset — used to decide whether right-extension may
// reuse n by appending, or must fall back to a new child bunch.
func (n *node) hasChildAtOffset(offset uint64) bool {
	found := false
	n.children.Ascend(childKey{offset: offset}, func(c childKey) bool {
		found = c.offset == offset
		return false
	})
	return found
}
