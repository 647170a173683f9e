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

package sparse

import (
	"sort"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

const btreeDegree = 32

// run is one maximal present-or-deleted span. Only one of item/delLen is
// meaningful, selected by present.
type run[T any] struct {
	start   int
	present bool
	item    T
	delLen  int
}

func (r run[T]) length(k Kind[T]) int {
	if r.present {
		return k.Len(r.item)
	}
	return r.delLen
}

func (r run[T]) end(k Kind[T]) int { return r.start + r.length(k) }

func runLess[T any](a, b run[T]) bool { return a.start < b.start }

// Array is a run-length sparse array mapping a contiguous key space 0..k
// to present-with-payload or deleted. The btree indexes runs by start key
// so Get/Has resolve in O(log runs); CountPresentBefore walks every run
// that starts before its index, so its cost is linear in those runs, not
// logarithmic. Set/Delete (see splice) delete and reinsert only the runs
// the written window overlaps plus at most one neighbor per side, so the
// write path stays within O(runs touched + log n) (spec.md §4.2).
type Array[T any] struct {
	kind Kind[T]
	tree *btree.BTreeG[run[T]]
}

// New returns an empty Array for the given Kind.
func New[T any](kind Kind[T]) *Array[T] {
	return &Array[T]{kind: kind, tree: btree.NewG(btreeDegree, runLess[T])}
}

// Entry is one present run, as yielded by Entries.
type Entry[T any] struct {
	Index int
	Item  T
}

func (a *Array[T]) allRuns() []run[T] {
	out := make([]run[T], 0, a.tree.Len())
	a.tree.Ascend(func(r run[T]) bool {
		out = append(out, r)
		return true
	})
	return out
}

func (a *Array[T]) rebuild(runs []run[T]) {
	t := btree.NewG(btreeDegree, runLess[T])
	for _, r := range runs {
		if r.length(a.kind) == 0 {
			continue
		}
		t.ReplaceOrInsert(r)
	}
	a.tree = t
}

// Length is the total defined key space (one past the last created slot).
func (a *Array[T]) Length() int {
	if mx, ok := a.tree.Max(); ok {
		return mx.end(a.kind)
	}
	return 0
}

func (a *Array[T]) floor(index int) (run[T], bool) {
	var found run[T]
	ok := false
	a.tree.DescendLessOrEqual(run[T]{start: index}, func(r run[T]) bool {
		found = r
		ok = true
		return false
	})
	return found, ok
}

// Get returns the length-1 payload at index, i.e. Slice(item, off, off+1)
// of whichever run covers it (off being index's offset within that run), or (Empty, false) if index is deleted or not
// yet created.
func (a *Array[T]) Get(index int) (item T, ok bool) {
	r, found := a.floor(index)
	if !found || !r.present || index >= r.end(a.kind) {
		return a.kind.Empty(), false
	}
	off := index - r.start
	return a.kind.Slice(r.item, off, off+1), true
}

// Has reports whether index is present.
func (a *Array[T]) Has(index int) bool {
	r, found := a.floor(index)
	return found && r.present && index < r.end(a.kind)
}

// CountPresentBefore returns the number of present slots with key < index.
func (a *Array[T]) CountPresentBefore(index int) int {
	total := 0
	a.tree.Ascend(func(r run[T]) bool {
		if r.start >= index {
			return false
		}
		if r.present {
			if end := r.end(a.kind); end > index {
				total += index - r.start
			} else {
				total += r.length(a.kind)
			}
		}
		return true
	})
	return total
}

// Entries yields every present run in ascending key order.
func (a *Array[T]) Entries() []Entry[T] {
	var out []Entry[T]
	a.tree.Ascend(func(r run[T]) bool {
		if r.present {
			out = append(out, Entry[T]{Index: r.start, Item: r.item})
		}
		return true
	})
	return out
}

func sliceRun[T any](k Kind[T], r run[T], lo, hi int) run[T] {
	if r.present {
		off0, off1 := lo-r.start, hi-r.start
		return run[T]{start: lo, present: true, item: k.Slice(r.item, off0, off1)}
	}
	return run[T]{start: lo, present: false, delLen: hi - lo}
}

func mergeAdjacent[T any](k Kind[T], runs []run[T]) []run[T] {
	sort.Slice(runs, func(i, j int) bool { return runs[i].start < runs[j].start })
	out := make([]run[T], 0, len(runs))
	for _, r := range runs {
		if r.length(k) == 0 {
			continue
		}
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.present == r.present && last.end(k) == r.start {
				if last.present {
					out[n-1] = run[T]{start: last.start, present: true, item: k.Concat(last.item, r.item)}
				} else {
					out[n-1] = run[T]{start: last.start, present: false, delLen: last.delLen + r.delLen}
				}
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// fillGaps pads runs (already local to a touched window of length total)
// with absent runs so the result fully covers [0, total): used to build
// the "replaced" sub-array Set/Delete return, which must represent gaps
// (positions that didn't exist yet) the same way it represents explicit
// deletions — both observably mean "not present".
func fillGaps[T any](k Kind[T], runs []run[T], total int) []run[T] {
	sort.Slice(runs, func(i, j int) bool { return runs[i].start < runs[j].start })
	out := make([]run[T], 0, len(runs)+2)
	cursor := 0
	for _, r := range runs {
		if r.start > cursor {
			out = append(out, run[T]{start: cursor, present: false, delLen: r.start - cursor})
		}
		out = append(out, r)
		cursor = r.end(k)
	}
	if cursor < total {
		out = append(out, run[T]{start: cursor, present: false, delLen: total - cursor})
	}
	return out
}

// splice is the shared implementation of Set and Delete: it replaces the
// window [index, index+newLen) with a single run (present, payload item),
// and returns what was there before as a standalone Array whose own index
// 0 corresponds to the original index.
//
// Only the runs the window [index, end) actually overlaps are touched,
// plus at most one untouched neighbor on each side (to merge into, if it
// turns out to be adjacent and the same present/deleted kind as what
// splice is about to write) — every other run already in the tree is left
// in place. This keeps Set/Delete at O(runs touched + log n), the bound
// spec.md §4.2 asks for, instead of rebuilding the whole array on every
// call.
func (a *Array[T]) splice(index, newLen int, present bool, item T) *Array[T] {
	if newLen == 0 {
		return New[T](a.kind)
	}
	k := a.kind
	end := index + newLen

	oldLen := 0
	if mx, ok := a.tree.Max(); ok {
		oldLen = mx.end(k)
	}

	// startKey is the leftmost run the overlap scan below must visit: the
	// floor of index if it overlaps [index, end), else index itself (in
	// which case the floor, if any, is an untouched left neighbor instead
	// — see leftNeighbor below).
	startKey := run[T]{start: index}
	var leftNeighbor *run[T]
	if floor, ok := a.floor(index); ok {
		if floor.end(k) > index {
			startKey = floor
		} else {
			ln := floor
			leftNeighbor = &ln
		}
	}

	var overlapping []run[T]
	a.tree.AscendGreaterOrEqual(startKey, func(r run[T]) bool {
		if r.start >= end {
			return false
		}
		overlapping = append(overlapping, r)
		return true
	})

	var leftRemainder, rightRemainder *run[T]
	var replaced []run[T]
	for _, r := range overlapping {
		a.tree.Delete(r)
		rEnd := r.end(k)
		loCut, hiCut := r.start, rEnd
		if loCut < index {
			lr := sliceRun(k, r, r.start, index)
			leftRemainder = &lr
			loCut = index
		}
		if hiCut > end {
			rr := sliceRun(k, r, end, rEnd)
			rightRemainder = &rr
			hiCut = end
		}
		if hiCut > loCut {
			sliced := sliceRun(k, r, loCut, hiCut)
			sliced.start -= index
			replaced = append(replaced, sliced)
		}
	}

	var rightNeighbor *run[T]
	a.tree.Ascend(run[T]{start: end}, func(r run[T]) bool {
		rn := r
		rightNeighbor = &rn
		return false
	})

	segs := make([]run[T], 0, 5)
	if leftNeighbor != nil {
		a.tree.Delete(*leftNeighbor)
		segs = append(segs, *leftNeighbor)
	}
	if index > oldLen {
		segs = append(segs, run[T]{start: oldLen, present: false, delLen: index - oldLen})
	}
	if leftRemainder != nil {
		segs = append(segs, *leftRemainder)
	}
	segs = append(segs, run[T]{start: index, present: present, item: item, delLen: newLen})
	if rightRemainder != nil {
		segs = append(segs, *rightRemainder)
	}
	if rightNeighbor != nil {
		a.tree.Delete(*rightNeighbor)
		segs = append(segs, *rightNeighbor)
	}

	for _, r := range mergeAdjacent(k, segs) {
		a.tree.ReplaceOrInsert(r)
	}

	replacedArr := New[T](k)
	replacedArr.rebuild(mergeAdjacent(k, fillGaps(k, replaced, newLen)))
	return replacedArr
}

// Set overwrites [index, index+Len(item)) with item, returning whatever
// was there before (including deleted gaps) as a standalone Array so
// callers can undo or merge.
func (a *Array[T]) Set(index int, item T) *Array[T] {
	return a.splice(index, a.kind.Len(item), true, item)
}

// Delete marks [index, index+count) deleted, returning the prior content.
func (a *Array[T]) Delete(index, count int) *Array[T] {
	return a.splice(index, count, false, a.kind.Empty())
}

// Trim drops a trailing deletion run, if any. This never discards a
// Position's metadata (the Order still remembers every bunch forever,
// per spec.md's no-tombstone-GC Non-goal) — it only stops the sparse
// array from materializing an explicit trailing "deleted" run when
// "not covered at all" is observably identical.
func (a *Array[T]) Trim() {
	mx, ok := a.tree.Max()
	if !ok || mx.present {
		return
	}
	a.tree.Delete(mx)
}

// Serialize returns the alternating present/deleted sequence described by
// spec.md §6: even entries are present payloads (T), odd entries are int
// deletion counts. Trailing deletions are omitted; if the array begins
// with a deletion, a leading Empty() placeholder keeps the alternation.
func (a *Array[T]) Serialize() []any {
	runs := a.allRuns()
	if n := len(runs); n > 0 && !runs[n-1].present {
		runs = runs[:n-1]
	}
	out := make([]any, 0, len(runs)+1)
	expectPresent := true
	for _, r := range runs {
		if r.present != expectPresent {
			if expectPresent {
				out = append(out, a.kind.Empty())
			} else {
				out = append(out, 0)
			}
			expectPresent = !expectPresent
		}
		if r.present {
			out = append(out, r.item)
		} else {
			out = append(out, r.delLen)
		}
		expectPresent = !expectPresent
	}
	return out
}

// ErrMalformed is wrapped by Deserialize when raw does not alternate
// present/deleted entries of the expected types.
var ErrMalformed = errors.New("sparse: malformed serialized array")

// Deserialize is the exact inverse of Serialize.
func Deserialize[T any](kind Kind[T], raw []any) (*Array[T], error) {
	a := New(kind)
	index := 0
	var runs []run[T]
	for i, v := range raw {
		present := i%2 == 0
		if present {
			item, ok := v.(T)
			if !ok {
				return nil, errors.Wrapf(ErrMalformed, "entry %d: want present payload, got %T", i, v)
			}
			if n := kind.Len(item); n > 0 {
				runs = append(runs, run[T]{start: index, present: true, item: item})
				index += n
			}
		} else {
			n, ok := asCount(v)
			if !ok || n < 0 {
				return nil, errors.Wrapf(ErrMalformed, "entry %d: want non-negative deletion count, got %v", i, v)
			}
			if n > 0 {
				runs = append(runs, run[T]{start: index, present: false, delLen: n})
				index += n
			}
		}
	}
	a.rebuild(mergeAdjacent(kind, runs))
	return a, nil
}

func asCount(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
