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
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erigontech/listpositions/itemlist"
	"github.com/erigontech/listpositions/lex"
	"github.com/erigontech/listpositions/order"
	"github.com/erigontech/listpositions/position"
)

// lexCacheSize bounds LexList's decode cache. Replaying the same update log
// or reloading the same saved state repeatedly decodes the same lex strings;
// this keeps that work O(1) after the first parse without pinning arbitrary
// memory for a session that touches many distinct positions.
const lexCacheSize = 4096

// LexEntry pairs a lex string with the value stored there.
type LexEntry[T any] struct {
	Position string
	Value    T
}

// LexList is List with a lex string (see package lex) on its public
// surface instead of Position or AbsolutePosition. Like AbsList it owns its
// Order outright. Decoded AbsolutePositions are cached
// (github.com/hashicorp/golang-lru/v2) since CRDT layers routinely decode
// the same lex strings repeatedly while replaying an update log.
type LexList[T any] struct {
	order *order.Order
	list  *List[T]
	cache *lru.Cache[string, position.AbsolutePosition]
}

// NewLexList returns an empty LexList owning a fresh Order for replica.
func NewLexList[T any](replica string) (*LexList[T], error) {
	ord, err := order.New(replica)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, position.AbsolutePosition](lexCacheSize)
	if err != nil {
		return nil, err
	}
	return &LexList[T]{order: ord, list: NewList[T](ord), cache: cache}, nil
}

// LoadLexList returns a LexList for replica initialized from state,
// requiring no prior Order content.
func LoadLexList[T any](replica string, state AbsSavedState[T]) (*LexList[T], error) {
	ll, err := NewLexList[T](replica)
	if err != nil {
		return nil, err
	}
	if err := ll.Load(state); err != nil {
		return nil, err
	}
	return ll, nil
}

// Order returns the Order this LexList owns.
func (l *LexList[T]) Order() *order.Order { return l.order }

func (l *LexList[T]) decode(s string) (position.Position, error) {
	ap, ok := l.cache.Get(s)
	if !ok {
		var err error
		ap, err = lex.Decode(s)
		if err != nil {
			return position.Position{}, err
		}
		l.cache.Add(s, ap)
	}
	return l.order.Unabs(ap)
}

func (l *LexList[T]) encode(pos position.Position) (string, error) {
	ap, err := l.order.Abs(pos)
	if err != nil {
		return "", err
	}
	s := lex.Encode(ap)
	l.cache.Add(s, ap)
	return s, nil
}

// Len returns the number of present values.
func (l *LexList[T]) Len() int { return l.list.Len() }

// Has reports whether s currently holds a value.
func (l *LexList[T]) Has(s string) (bool, error) {
	pos, err := l.decode(s)
	if err != nil {
		return false, err
	}
	return l.list.Has(pos), nil
}

// Get returns the value at s, if present.
func (l *LexList[T]) Get(s string) (T, bool, error) {
	pos, err := l.decode(s)
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := l.list.Get(pos)
	return v, ok, nil
}

// Delete removes count values starting at s.
func (l *LexList[T]) Delete(s string, count int) error {
	pos, err := l.decode(s)
	if err != nil {
		return err
	}
	l.list.Delete(pos, count)
	return nil
}

// DeleteAt removes count values starting at list index i.
func (l *LexList[T]) DeleteAt(i, count int) error { return l.list.DeleteAt(i, count) }

// InsertAt creates len(values) new Positions at list index i, returning the
// first as a lex string.
func (l *LexList[T]) InsertAt(i int, values ...T) (string, *position.BunchMeta, error) {
	pos, meta, err := l.list.InsertAt(i, values...)
	if err != nil {
		return "", nil, err
	}
	s, err := l.encode(pos)
	return s, meta, err
}

// Insert creates len(values) new Positions directly after prev.
func (l *LexList[T]) Insert(prev string, values ...T) (string, *position.BunchMeta, error) {
	prevPos, err := l.decode(prev)
	if err != nil {
		return "", nil, err
	}
	pos, meta, err := l.list.Insert(prevPos, values...)
	if err != nil {
		return "", nil, err
	}
	s, err := l.encode(pos)
	return s, meta, err
}

// PositionAt returns the lex string of the i-th value.
func (l *LexList[T]) PositionAt(i int) (string, error) {
	pos, err := l.list.PositionAt(i)
	if err != nil {
		return "", err
	}
	return l.encode(pos)
}

// IndexOfPosition reports s's list index.
func (l *LexList[T]) IndexOfPosition(s string, dir position.SearchDir) (int, error) {
	pos, err := l.decode(s)
	if err != nil {
		return 0, err
	}
	return l.list.IndexOfPosition(pos, dir)
}

// Positions returns every present lex string in ascending order.
func (l *LexList[T]) Positions() ([]string, error) {
	positions := l.list.Positions()
	out := make([]string, len(positions))
	for i, pos := range positions {
		s, err := l.encode(pos)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Values returns every present value in ascending Position order.
func (l *LexList[T]) Values() []T { return l.list.Values() }

// Items returns every (lex string, value) pair in ascending order.
func (l *LexList[T]) Items() ([]LexEntry[T], error) {
	positions, err := l.Positions()
	if err != nil {
		return nil, err
	}
	values := l.Values()
	out := make([]LexEntry[T], len(positions))
	for i := range positions {
		out[i] = LexEntry[T]{Position: positions[i], Value: values[i]}
	}
	return out, nil
}

// Save returns l, including its Order's bunch tree, as a self-contained
// saved state (the same shape AbsList uses).
func (l *LexList[T]) Save() AbsSavedState[T] {
	return AbsSavedState[T]{Order: l.order.Save(), List: l.list.Save()}
}

// Load overwrites l's Order and list content with state, and drops any
// cached decodes (they may now resolve against different bunch metadata).
func (l *LexList[T]) Load(state AbsSavedState[T]) error {
	if err := l.order.Load(state.Order); err != nil {
		return err
	}
	l.cache.Purge()
	return l.list.Load(state.List)
}

// Dependencies returns the BunchMeta set needed to resolve every Position l
// currently knows about.
func (l *LexList[T]) Dependencies() ([]position.BunchMeta, error) { return l.list.Dependencies() }
