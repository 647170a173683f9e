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

package views

import (
	"github.com/erigontech/listpositions/itemlist"
	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
)

// AbsEntry pairs an AbsolutePosition with the value stored there.
type AbsEntry[T any] struct {
	Position position.AbsolutePosition
	Value    T
}

// AbsSavedState is AbsList's self-contained saved form: the Order's bunch
// tree alongside the list content, so it can be loaded with no prior Order
// (spec.md §6).
type AbsSavedState[T any] struct {
	Order order.SavedState
	List  itemlist.SavedState[[]T]
}

// AbsList is List with AbsolutePosition (rather than the compact Position)
// on its public surface: every operation converts at the boundary via its
// own Order, which it owns outright (unlike List, which borrows one).
type AbsList[T any] struct {
	order *order.Order
	list  *List[T]
}

// NewAbsList returns an empty AbsList owning a fresh Order for replica.
func NewAbsList[T any](replica string) (*AbsList[T], error) {
	ord, err := order.New(replica)
	if err != nil {
		return nil, err
	}
	return &AbsList[T]{order: ord, list: NewList[T](ord)}, nil
}

// LoadAbsList returns an AbsList for replica initialized from state,
// requiring no prior Order content.
func LoadAbsList[T any](replica string, state AbsSavedState[T]) (*AbsList[T], error) {
	al, err := NewAbsList[T](replica)
	if err != nil {
		return nil, err
	}
	if err := al.Load(state); err != nil {
		return nil, err
	}
	return al, nil
}

// Order returns the Order this AbsList owns.
func (a *AbsList[T]) Order() *order.Order { return a.order }

// Len returns the number of present values.
func (a *AbsList[T]) Len() int { return a.list.Len() }

// Has reports whether ap currently holds a value.
func (a *AbsList[T]) Has(ap position.AbsolutePosition) (bool, error) {
	pos, err := a.order.Unabs(ap)
	if err != nil {
		return false, err
	}
	return a.list.Has(pos), nil
}

// Get returns the value at ap, if present.
func (a *AbsList[T]) Get(ap position.AbsolutePosition) (T, bool, error) {
	pos, err := a.order.Unabs(ap)
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := a.list.Get(pos)
	return v, ok, nil
}

// Delete removes count values starting at ap.
func (a *AbsList[T]) Delete(ap position.AbsolutePosition, count int) error {
	pos, err := a.order.Unabs(ap)
	if err != nil {
		return err
	}
	a.list.Delete(pos, count)
	return nil
}

// DeleteAt removes count values starting at list index i.
func (a *AbsList[T]) DeleteAt(i, count int) error { return a.list.DeleteAt(i, count) }

// InsertAt creates len(values) new Positions at list index i, returning the
// first as an AbsolutePosition.
func (a *AbsList[T]) InsertAt(i int, values ...T) (position.AbsolutePosition, *position.BunchMeta, error) {
	pos, meta, err := a.list.InsertAt(i, values...)
	if err != nil {
		return position.AbsolutePosition{}, nil, err
	}
	ap, err := a.order.Abs(pos)
	return ap, meta, err
}

// Insert creates len(values) new Positions directly after prev.
func (a *AbsList[T]) Insert(prev position.AbsolutePosition, values ...T) (position.AbsolutePosition, *position.BunchMeta, error) {
	prevPos, err := a.order.Unabs(prev)
	if err != nil {
		return position.AbsolutePosition{}, nil, err
	}
	pos, meta, err := a.list.Insert(prevPos, values...)
	if err != nil {
		return position.AbsolutePosition{}, nil, err
	}
	ap, err := a.order.Abs(pos)
	return ap, meta, err
}

// PositionAt returns the AbsolutePosition of the i-th value.
func (a *AbsList[T]) PositionAt(i int) (position.AbsolutePosition, error) {
	pos, err := a.list.PositionAt(i)
	if err != nil {
		return position.AbsolutePosition{}, err
	}
	return a.order.Abs(pos)
}

// IndexOfPosition reports ap's list index.
func (a *AbsList[T]) IndexOfPosition(ap position.AbsolutePosition, dir position.SearchDir) (int, error) {
	pos, err := a.order.Unabs(ap)
	if err != nil {
		return 0, err
	}
	return a.list.IndexOfPosition(pos, dir)
}

// Positions returns every present AbsolutePosition in ascending order.
func (a *AbsList[T]) Positions() ([]position.AbsolutePosition, error) {
	positions := a.list.Positions()
	out := make([]position.AbsolutePosition, len(positions))
	for i, pos := range positions {
		ap, err := a.order.Abs(pos)
		if err != nil {
			return nil, err
		}
		out[i] = ap
	}
	return out, nil
}

// Values returns every present value in ascending Position order.
func (a *AbsList[T]) Values() []T { return a.list.Values() }

// Items returns every (AbsolutePosition, value) pair in ascending order.
func (a *AbsList[T]) Items() ([]AbsEntry[T], error) {
	positions, err := a.Positions()
	if err != nil {
		return nil, err
	}
	values := a.Values()
	out := make([]AbsEntry[T], len(positions))
	for i := range positions {
		out[i] = AbsEntry[T]{Position: positions[i], Value: values[i]}
	}
	return out, nil
}

// Save returns a, including its Order's bunch tree, as a self-contained
// saved state.
func (a *AbsList[T]) Save() AbsSavedState[T] {
	return AbsSavedState[T]{Order: a.order.Save(), List: a.list.Save()}
}

// Load overwrites a's Order and list content with state.
func (a *AbsList[T]) Load(state AbsSavedState[T]) error {
	if err := a.order.Load(state.Order); err != nil {
		return err
	}
	return a.list.Load(state.List)
}

// Dependencies returns the BunchMeta set needed to resolve every Position a
// currently knows about.
func (a *AbsList[T]) Dependencies() ([]position.BunchMeta, error) { return a.list.Dependencies() }
