// Copyright 2018 Changkun Ou. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package pq implements a small by-key priority queue used to answer
// "which registered job fires soonest" queries. It is a trimmed
// descendant of the scheduler's original task priority queue: the
// persistence-oriented Update-in-place behavior is gone (callers
// rebuild a Queue from a snapshot on every query instead of holding
// one live), but the heap shape and per-item heap index are kept. The
// Queue offers no lookup by JobID; entries are only popped in At order.
package pq

import (
	"container/heap"
	"time"
)

// Entry is one job's next firing instant, as tracked by the scheduler
// facade at query time.
type Entry struct {
	JobID uint32
	At    time.Time
}

// Queue is a min-heap of Entry ordered by At.
type Queue struct {
	h itemHeap
}

// New builds a Queue from a snapshot of entries. O(n).
func New(entries []Entry) *Queue {
	h := make(itemHeap, len(entries))
	for i, e := range entries {
		h[i] = &item{entry: e}
	}
	heap.Init(&h)
	return &Queue{h: h}
}

// Len reports the number of entries remaining in the queue.
func (q *Queue) Len() int {
	return q.h.Len()
}

// Pop removes and returns the entry with the earliest At. The second
// return is false when the queue is empty.
func (q *Queue) Pop() (Entry, bool) {
	if q.h.Len() == 0 {
		return Entry{}, false
	}
	it := heap.Pop(&q.h).(*item)
	return it.entry, true
}

type item struct {
	entry Entry
	index int
}

type itemHeap []*item

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	return h[i].entry.At.Before(h[j].entry.At)
}
func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *itemHeap) Push(x interface{}) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}
