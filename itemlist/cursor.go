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

// Bind selects which side of an index gap CursorAt resolves to.
type Bind int

const (
	// BindLeft resolves to the position immediately left of the gap
	// (the default).
	BindLeft Bind = iota
	// BindRight resolves to the position immediately right of the gap.
	BindRight
)

// InsertAt creates count new Positions at list index i (0 <= i <= Length())
// and Sets item as their combined value in one run, returning the first new
// Position. prev/next are positionAt(i-1)/positionAt(i), defaulting to
// MIN/MAX at the list's ends.
func (l *ItemList[K]) InsertAt(i int, item K) (position.Position, *position.BunchMeta, error) {
	n := l.kind.Len(item)
	if n <= 0 {
		return position.Position{}, nil, position.New(position.RangeOutOfBounds, "itemlist: InsertAt requires a non-empty item")
	}
	if i < 0 || i > l.Length() {
		return position.Position{}, nil, position.Newf(position.RangeOutOfBounds, "index %d out of range [0, %d]", i, l.Length())
	}

	prev := position.MinPosition
	if i > 0 {
		p, err := l.PositionAt(i - 1)
		if err != nil {
			return position.Position{}, nil, err
		}
		prev = p
	}
	next := position.MaxPosition
	if i < l.Length() {
		p, err := l.PositionAt(i)
		if err != nil {
			return position.Position{}, nil, err
		}
		next = p
	}

	start, meta, err := l.order.CreatePositions(prev, next, n)
	if err != nil {
		return position.Position{}, nil, err
	}
	l.Set(start, item)
	return start, meta, nil
}

// DeleteAt deletes count present values starting at list index i.
func (l *ItemList[K]) DeleteAt(i, count int) error {
	if count <= 0 {
		return position.New(position.RangeOutOfBounds, "itemlist: DeleteAt requires a positive count")
	}
	if i < 0 || i+count > l.Length() {
		return position.Newf(position.RangeOutOfBounds, "range [%d, %d) out of range [0, %d)", i, i+count, l.Length())
	}
	// Values at contiguous list indices need not share a bunch (they may
	// straddle a child subtree), so delete one Position at a time; each
	// PositionAt(i) is recomputed since prior deletions shift the index
	// space.
	for k := 0; k < count; k++ {
		pos, err := l.PositionAt(i)
		if err != nil {
			return err
		}
		l.Delete(pos, 1)
	}
	return nil
}

// CursorAt returns the Position a cursor bound to list-index gap i resolves
// to: the position immediately left of the gap for BindLeft (the default),
// or immediately right for BindRight. i ranges over [0, Length()] (gap
// indices, the same range InsertAt accepts).
func (l *ItemList[K]) CursorAt(i int, bind Bind) (position.Position, error) {
	if i < 0 || i > l.Length() {
		return position.Position{}, position.Newf(position.RangeOutOfBounds, "index %d out of range [0, %d]", i, l.Length())
	}
	switch bind {
	case BindRight:
		if i == l.Length() {
			return position.MaxPosition, nil
		}
		return l.PositionAt(i)
	default:
		if i == 0 {
			return position.MinPosition, nil
		}
		return l.PositionAt(i - 1)
	}
}

// IndexOfCursor is CursorAt's inverse: given the Position a cursor with the
// given Bind currently resolves to, it recovers the gap index i.
func (l *ItemList[K]) IndexOfCursor(pos position.Position, bind Bind) (int, error) {
	switch bind {
	case BindRight:
		if pos == position.MaxPosition {
			return l.Length(), nil
		}
		return l.IndexOfPosition(pos, position.SearchRight)
	default:
		if pos == position.MinPosition {
			return 0, nil
		}
		idx, err := l.IndexOfPosition(pos, position.SearchLeft)
		if err != nil {
			return 0, err
		}
		return idx + 1, nil
	}
}

// ExpandPositions returns the count Positions {startPos.BunchID,
// startPos.InnerIndex + k} for k = 0..count-1: the Positions that a single
// CreatePositions(..., count) call (or a single multi-slot Set) spans.
func ExpandPositions(start position.Position, count int) []position.Position {
	return position.ExpandPositions(start, count)
}
