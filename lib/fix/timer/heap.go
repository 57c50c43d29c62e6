package timer

import "container/heap"

// entryHeap orders armed timers by deadline, earliest first. It implements
// container/heap.Interface directly, the idiomatic stdlib fit for a small
// per-session deadline queue (see DESIGN.md's stdlib justification for why
// no third-party scheduler library is used here).
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// removeID removes the entry with the given id, if any, keeping heap
// invariants intact. Returns whether an entry was removed.
func (h *entryHeap) removeID(id ID) bool {
	for i, e := range *h {
		if e.id == id {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}

func (h entryHeap) peek() (*entry, bool) {
	if len(h) == 0 {
		return nil, false
	}
	return h[0], true
}
