// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package algorithms

// scoredRow pairs a matrix row with its score.
type scoredRow struct {
	row   int
	score float64
}

// better reports whether a ranks ahead of b: higher score first, then
// lower row index.
func better(a, b scoredRow) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.row < b.row
}

// topKHeap is a bounded min-heap whose root is the worst retained entry.
// It provides O(log k) Offer and keeps at most k entries.
type topKHeap struct {
	heap []scoredRow
	k    int
}

func newTopKHeap(k int) *topKHeap {
	return &topKHeap{heap: make([]scoredRow, 0, k), k: k}
}

// Offer considers e for inclusion.
func (h *topKHeap) Offer(e scoredRow) {
	if len(h.heap) < h.k {
		h.heap = append(h.heap, e)
		h.bubbleUp(len(h.heap) - 1)
		return
	}
	if better(e, h.heap[0]) {
		h.heap[0] = e
		h.bubbleDown(0)
	}
}

// Sorted drains the heap, best first.
func (h *topKHeap) Sorted() []scoredRow {
	out := make([]scoredRow, len(h.heap))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = h.heap[0]
		n := len(h.heap) - 1
		h.heap[0] = h.heap[n]
		h.heap = h.heap[:n]
		if n > 0 {
			h.bubbleDown(0)
		}
	}
	return out
}

// worse is the heap order: the root is the entry every other entry beats.
func (h *topKHeap) worse(i, j int) bool {
	return better(h.heap[j], h.heap[i])
}

func (h *topKHeap) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.worse(i, parent) {
			break
		}
		h.heap[i], h.heap[parent] = h.heap[parent], h.heap[i]
		i = parent
	}
}

func (h *topKHeap) bubbleDown(i int) {
	n := len(h.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.worse(left, smallest) {
			smallest = left
		}
		if right < n && h.worse(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.heap[i], h.heap[smallest] = h.heap[smallest], h.heap[i]
		i = smallest
	}
}

// topK returns the rows of the k best scores, best first. Ties are broken
// by lower row index; k larger than len(scores) returns every row.
func topK(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}
	if k > len(scores) {
		k = len(scores)
	}
	h := newTopKHeap(k)
	for row, s := range scores {
		h.Offer(scoredRow{row: row, score: s})
	}
	ranked := h.Sorted()
	rows := make([]int, len(ranked))
	for i, r := range ranked {
		rows[i] = r.row
	}
	return rows
}
