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

import "github.com/erigontech/listpositions/position"

// PositionAt returns the Position holding the i-th present value (0-based).
// It descends from ROOT, at each bunch picking the child subtree or own
// inner slot whose cumulative present-count crosses i (spec.md §4.5).
func (l *ItemList[K]) PositionAt(i int) (position.Position, error) {
	if i < 0 || i >= l.Length() {
		return position.Position{}, position.Newf(position.RangeOutOfBounds, "index %d out of range [0, %d)", i, l.Length())
	}
	return l.descend(position.RootBunchID, i)
}

// descend finds the i-th present slot within bunchID's own subtree (0-based,
// i already known to be < the subtree's total present count) by walking
// bunchID's children and own present runs in increasing local-offset order.
func (l *ItemList[K]) descend(bunchID string, i int) (position.Position, error) {
	for {
		children, err := l.order.Children(bunchID)
		if err != nil {
			return position.Position{}, err
		}
		entries := l.arrayFor(bunchID).Entries()

		ci, ei := 0, 0
		descendedTo := ""
		for descendedTo == "" {
			const noOffset = ^uint64(0)
			childOffset := noOffset
			if ci < len(children) {
				childOffset = children[ci].Offset
			}
			var runStart, runLen int
			slotOffset := noOffset
			if ei < len(entries) {
				runStart = entries[ei].Index
				runLen = l.kind.Len(entries[ei].Item)
				slotOffset = 2*uint64(runStart) + 1
			}

			switch {
			case childOffset == noOffset && slotOffset == noOffset:
				return position.Position{}, position.New(position.RangeOutOfBounds, "itemlist: ran out of children and slots before reaching index")

			case childOffset < slotOffset:
				child := children[ci]
				total := l.counts[child.BunchID]
				if i < total {
					descendedTo = child.BunchID
					break
				}
				i -= total
				ci++

			default:
				usable := runLen
				if childOffset != noOffset {
					// Slots of this run strictly before childOffset: k with
					// 2k+1 < childOffset, i.e. k <= (childOffset-2)/2.
					maxK := (int64(childOffset) - 2) / 2
					limit := int(maxK) - runStart + 1
					if limit < 0 {
						limit = 0
					}
					if limit < usable {
						usable = limit
					}
				}
				if i < usable {
					return position.Position{BunchID: bunchID, InnerIndex: uint64(runStart + i)}, nil
				}
				i -= usable
				if usable == runLen {
					ei++
				} else {
					entries[ei].Index = runStart + usable
					entries[ei].Item = l.kind.Slice(entries[ei].Item, usable, runLen)
				}
			}
		}
		bunchID = descendedTo
	}
}

// IndexOfPosition reports pos's 0-based index. If pos is absent, the result
// depends on dir: SearchNone returns -1, SearchLeft/SearchRight return the
// index immediately to that side of the gap pos would occupy.
func (l *ItemList[K]) IndexOfPosition(pos position.Position, dir position.SearchDir) (int, error) {
	g, err := l.countBefore(pos)
	if err != nil {
		return 0, err
	}
	if l.Has(pos) {
		return g, nil
	}
	switch dir {
	case position.SearchLeft:
		return g - 1, nil
	case position.SearchRight:
		return g, nil
	default:
		return -1, nil
	}
}

// childSubtreesBefore sums the cached subtree present-count of every child
// of bunchID whose offset sorts strictly before offset. Child offsets are
// always even and distinct from any odd slot offset, so no bunchID
// tie-break is needed here (contrast the sibling walk in countBefore,
// which compares two child offsets and must break ties by bunchID).
func (l *ItemList[K]) childSubtreesBefore(bunchID string, offset uint64) (int, error) {
	children, err := l.order.Children(bunchID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range children {
		if c.Offset >= offset {
			break
		}
		total += l.counts[c.BunchID]
	}
	return total, nil
}

// countBefore returns the number of present positions strictly less than
// pos, ascending from pos's own bunch to ROOT and, at each level, adding the
// present count contributed by everything in that bunch (own array, own
// child subtrees, and sibling subtrees) that sorts before the point being
// ascended from.
func (l *ItemList[K]) countBefore(pos position.Position) (int, error) {
	if _, ok := l.order.GetNode(pos.BunchID); !ok && pos.BunchID != position.RootBunchID {
		return 0, position.Newf(position.MissingMetadata, "bunch %q has not been registered with this Order", pos.BunchID)
	}

	// pos's own bunch may itself have child bunches wedged between its
	// slots (e.g. a bunch reused for a LtR run, then a concurrent
	// insertion created a child between two of its slots): those children
	// sort before pos's own slot step whenever their offset is < pos's
	// slot offset (2*InnerIndex+1), and must be counted here or
	// IndexOfPosition disagrees with PositionAt's descent, which already
	// accounts for them (see descend in this file).
	ownChildren, err := l.childSubtreesBefore(pos.BunchID, 2*pos.InnerIndex+1)
	if err != nil {
		return 0, err
	}
	total := ownChildren + l.arrayFor(pos.BunchID).CountPresentBefore(int(pos.InnerIndex))

	bunchID := pos.BunchID
	for bunchID != position.RootBunchID {
		meta, ok := l.order.GetNode(bunchID)
		if !ok {
			return 0, position.Newf(position.MissingMetadata, "bunch %q has not been registered with this Order", bunchID)
		}
		parentID := meta.ParentID
		siblings, err := l.order.Children(parentID)
		if err != nil {
			return 0, err
		}
		for _, c := range siblings {
			if c.Offset > meta.Offset || (c.Offset == meta.Offset && c.BunchID >= meta.BunchID) {
				break
			}
			total += l.counts[c.BunchID]
		}
		// meta.Offset is even (a child offset); slots of parent's own
		// array strictly before it are k with 2k+1 < meta.Offset, i.e.
		// k < meta.Offset/2.
		total += l.arrayFor(parentID).CountPresentBefore(int(meta.Offset / 2))
		bunchID = parentID
	}
	return total, nil
}

// inOrder visits every present (Position, value) pair in ascending order,
// starting the subtree walk at bunchID, stopping early if visit returns
// false. It shares descend's merge-walk shape (children and own runs in
// increasing local-offset order) but visits everything instead of homing in
// on a single index.
func (l *ItemList[K]) inOrder(bunchID string, visit func(position.Position, K) bool) (bool, error) {
	children, err := l.order.Children(bunchID)
	if err != nil {
		return false, err
	}
	entries := l.arrayFor(bunchID).Entries()

	ci, ei := 0, 0
	for ci < len(children) || ei < len(entries) {
		const noOffset = ^uint64(0)
		childOffset := noOffset
		if ci < len(children) {
			childOffset = children[ci].Offset
		}
		slotOffset := noOffset
		if ei < len(entries) {
			slotOffset = 2*uint64(entries[ei].Index) + 1
		}

		if childOffset < slotOffset {
			cont, err := l.inOrder(children[ci].BunchID, visit)
			if err != nil || !cont {
				return cont, err
			}
			ci++
			continue
		}

		e := entries[ei]
		n := l.kind.Len(e.Item)
		for k := 0; k < n; k++ {
			pos := position.Position{BunchID: bunchID, InnerIndex: uint64(e.Index + k)}
			if !visit(pos, l.kind.Slice(e.Item, k, k+1)) {
				return false, nil
			}
		}
		ei++
	}
	return true, nil
}

// FindPosition returns the first present Position (in list order) for which
// pred holds, scanning via the same in-order traversal Positions/Values
// use. Named in spec.md §2 item 8 but not otherwise specified.
func (l *ItemList[K]) FindPosition(pred func(position.Position) bool) (position.Position, bool) {
	var found position.Position
	ok := false
	_, _ = l.inOrder(position.RootBunchID, func(pos position.Position, _ K) bool {
		if pred(pos) {
			found, ok = pos, true
			return false
		}
		return true
	})
	return found, ok
}

// Positions returns every present Position in ascending order.
func (l *ItemList[K]) Positions() []position.Position {
	out := make([]position.Position, 0, l.Length())
	_, _ = l.inOrder(position.RootBunchID, func(pos position.Position, _ K) bool {
		out = append(out, pos)
		return true
	})
	return out
}

// Values returns every present value in ascending Position order.
func (l *ItemList[K]) Values() []K {
	out := make([]K, 0, l.Length())
	_, _ = l.inOrder(position.RootBunchID, func(_ position.Position, v K) bool {
		out = append(out, v)
		return true
	})
	return out
}
