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

// Package views implements the user-facing List/Outline/Text sequence
// types (and their Abs/Lex variants), each a thin wrapper over an
// itemlist.ItemList parameterized by the matching sparse.Kind (spec.md
// §4.6).
package views

import (
	"github.com/erigontech/listpositions/itemlist"
	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
	"github.com/erigontech/listpositions/sparse"
)

// Entry pairs a Position with the value stored there, as yielded by
// List.Items.
type Entry[T any] struct {
	Position position.Position
	Value    T
}

// List is a Position-indexed sequence of arbitrary values T, backed by an
// ItemList over sparse.Values[T].
type List[T any] struct {
	items *itemlist.ItemList[[]T]
}

// NewList returns an empty List borrowing ord.
func NewList[T any](ord *order.Order) *List[T] {
	return &List[T]{items: itemlist.New[[]T](ord, sparse.Values[T]{})}
}

// Order returns the Order this List borrows.
func (l *List[T]) Order() *order.Order { return l.items.Order() }

// Len returns the number of present values.
func (l *List[T]) Len() int { return l.items.Length() }

// Has reports whether pos currently holds a value.
func (l *List[T]) Has(pos position.Position) bool { return l.items.Has(pos) }

// Get returns the value at pos, if present.
func (l *List[T]) Get(pos position.Position) (T, bool) {
	run, ok := l.items.Get(pos)
	if !ok || len(run) == 0 {
		var zero T
		return zero, false
	}
	return run[0], true
}

// GetAt returns the value at list index i.
func (l *List[T]) GetAt(i int) (T, error) {
	pos, err := l.items.PositionAt(i)
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := l.Get(pos)
	return v, nil
}

// Set overwrites the value at pos.
func (l *List[T]) Set(pos position.Position, value T) {
	l.items.Set(pos, []T{value})
}

// Delete removes count values starting at pos.
func (l *List[T]) Delete(pos position.Position, count int) {
	l.items.Delete(pos, count)
}

// DeleteAt removes count values starting at list index i.
func (l *List[T]) DeleteAt(i, count int) error { return l.items.DeleteAt(i, count) }

// InsertAt creates len(values) new Positions at list index i and sets
// values as their content in one run, returning the first new Position.
func (l *List[T]) InsertAt(i int, values ...T) (position.Position, *position.BunchMeta, error) {
	return l.items.InsertAt(i, values)
}

// Insert creates len(values) new Positions directly after prev (which need
// not be the list's current last element) and sets values as their content,
// returning the first new Position.
func (l *List[T]) Insert(prev position.Position, values ...T) (position.Position, *position.BunchMeta, error) {
	idx, err := l.items.IndexOfPosition(prev, position.SearchLeft)
	if err != nil {
		return position.Position{}, nil, err
	}
	return l.items.InsertAt(idx+1, values)
}

// PositionAt returns the Position of the i-th value.
func (l *List[T]) PositionAt(i int) (position.Position, error) { return l.items.PositionAt(i) }

// IndexOfPosition reports pos's list index (see itemlist.ItemList.IndexOfPosition).
func (l *List[T]) IndexOfPosition(pos position.Position, dir position.SearchDir) (int, error) {
	return l.items.IndexOfPosition(pos, dir)
}

// Positions returns every present Position in ascending order.
func (l *List[T]) Positions() []position.Position { return l.items.Positions() }

// Values returns every present value in ascending Position order.
func (l *List[T]) Values() []T {
	runs := l.items.Values()
	out := make([]T, 0, len(runs))
	for _, r := range runs {
		out = append(out, r...)
	}
	return out
}

// Items returns every (Position, value) pair in ascending order.
func (l *List[T]) Items() []Entry[T] {
	positions := l.Positions()
	values := l.Values()
	out := make([]Entry[T], len(positions))
	for i := range positions {
		out[i] = Entry[T]{Position: positions[i], Value: values[i]}
	}
	return out
}

// Slice returns the values at list indices [start, end).
func (l *List[T]) Slice(start, end int) ([]T, error) {
	out := make([]T, 0, end-start)
	for i := start; i < end; i++ {
		v, err := l.GetAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Save serializes every bunch's sparse array.
func (l *List[T]) Save() itemlist.SavedState[[]T] { return l.items.Save() }

// Load overwrites l's current content with state.
func (l *List[T]) Load(state itemlist.SavedState[[]T]) error { return l.items.Load(state) }

// Dependencies returns the BunchMeta set needed to resolve every Position l
// currently knows about.
func (l *List[T]) Dependencies() ([]position.BunchMeta, error) { return l.items.Dependencies() }
