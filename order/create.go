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

import "github.com/erigontech/listpositions/position"

// CreatePositions returns count new, strictly-increasing Positions between
// prev and next (prev < result[0] < ... < result[count-1] < next) and,
// unless an existing bunch could be reused, the BunchMeta of the new bunch
// that must be shared with any other replica before it can resolve them.
//
// Any content placed anywhere inside prev's own bunch is automatically
// less than next as soon as prev's and next's FullPaths diverge before
// reaching prev's own slot step — the shared ancestor prefix they still
// have in common at that point decides next > prev's entire bunch
// regardless of what's inside it. So the first thing CreatePositions does
// is find that divergence point; if it is strictly shallower than prev's
// own bunch, the new content is simply appended there (reusing prev's
// bunch when this Order authored it and the gap is free, else a freshly
// minted child bunch), no further comparison needed.
//
// Otherwise prev's and next's paths agree all the way down to prev's own
// bunch, and the search walks that bunch rightward one level at a time: at
// each level it asks whether the gap immediately after the current point
// is free. If so, that is the insertion point. If the gap is already
// occupied by a bunch that next's own path passes through, the search
// descends into that bunch and repeats, one level closer to next, until it
// finds a free gap or reaches next's own slot directly (a left-extension
// of next's bunch). Two FullPaths can never share a longer common prefix
// than the point where they first differ, so this terminates in at most
// len(prevPath) steps.
func (o *Order) CreatePositions(prev, next position.Position, count int) (position.Position, *position.BunchMeta, error) {
	if count <= 0 {
		return position.Position{}, nil, position.New(position.RangeOutOfBounds, "count must be positive")
	}
	cmp, err := o.Compare(prev, next)
	if err != nil {
		return position.Position{}, nil, err
	}
	if cmp >= 0 {
		return position.Position{}, nil, position.New(position.ComparisonInvalid, "prev must be strictly less than next")
	}

	prevPath, err := o.fullPathOf(prev)
	if err != nil {
		return position.Position{}, nil, err
	}
	nextPath, err := o.fullPathOf(next)
	if err != nil {
		return position.Position{}, nil, err
	}

	cur := o.byID[prev.BunchID]
	depth := len(prevPath) - 1 // index of prev's own final slot step
	after := int64(prevPath[depth].Offset)
	firstIteration := true

	if divergenceIndex(prevPath, nextPath) < depth {
		// next's path already branched off above prev's own bunch: any
		// new content inside that bunch is unconditionally < next.
		return o.extendOrCreate(cur, prev.InnerIndex, uint64(after+1), count)
	}

	for {
		gap := after + 1

		var blocked bool
		var blockerOffset int64
		var blockerID string
		if depth < len(nextPath) {
			blockerOffset = int64(nextPath[depth].Offset)
			blockerID = nextPath[depth].BunchID
			blocked = blockerOffset == gap
		}

		if !blocked {
			if firstIteration {
				return o.extendOrCreate(cur, prev.InnerIndex, uint64(gap), count)
			}
			meta := position.BunchMeta{BunchID: o.factory.New(), ParentID: o.nodes[cur].bunchID, Offset: uint64(gap)}
			h := o.registerBunch(meta, true)
			o.nodes[h].maxCreatedInner = int64(count) - 1
			return position.Position{BunchID: meta.BunchID, InnerIndex: 0}, &meta, nil
		}

		child, ok := o.byID[blockerID]
		if !ok {
			return position.Position{}, nil, o.missingMetadata(blockerID)
		}
		cur = child
		after = -1 // about to examine child's own local offset 0
		depth++
		firstIteration = false
	}
}

// divergenceIndex returns the first index at which pa and pb differ. Given
// CompareAbsolute's proof that no two distinct FullPaths can be a true
// prefix of one another, this always lands within [0, min(len(pa),
// len(pb))) when pa != pb.
func divergenceIndex(pa, pb []position.Step) int {
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	i := 0
	for i < n && pa[i] == pb[i] {
		i++
	}
	return i
}

// extendOrCreate is the "safe, insert right here" action: reuse h by
// appending if eligible, else mint a new child bunch of h at offset gap.
func (o *Order) extendOrCreate(h handle, prevInner, gap uint64, count int) (position.Position, *position.BunchMeta, error) {
	if start, ok := o.tryReuse(h, prevInner, gap, count); ok {
		return position.Position{BunchID: o.nodes[h].bunchID, InnerIndex: start}, nil, nil
	}
	meta := position.BunchMeta{BunchID: o.factory.New(), ParentID: o.nodes[h].bunchID, Offset: gap}
	nh := o.registerBunch(meta, true)
	o.nodes[nh].maxCreatedInner = int64(count) - 1
	return position.Position{BunchID: meta.BunchID, InnerIndex: 0}, &meta, nil
}

// tryReuse appends count new inner slots directly onto bunch h instead of
// minting a new child bunch, when all of the following hold: this Order
// authored h (DESIGN.md open question (c) — never a bunch merely loaded or
// received), prevInner is currently h's watermark (the highest inner index
// ever appended), and no child bunch already occupies the gap right after
// it. On success it returns the first new inner index and advances the
// watermark by count.
func (o *Order) tryReuse(h handle, prevInner, gap uint64, count int) (uint64, bool) {
	n := o.nodes[h]
	if !n.authored {
		return 0, false
	}
	if n.maxCreatedInner < 0 || uint64(n.maxCreatedInner) != prevInner {
		return 0, false
	}
	if n.hasChildAtOffset(gap) {
		return 0, false
	}
	start := prevInner + 1
	n.maxCreatedInner = int64(start) + int64(count) - 1
	return start, true
}
