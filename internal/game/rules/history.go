package rules

import "sync"

// History is the undo log: a stack of batches, newest last.
type History struct {
	mu      sync.Mutex
	batches []Batch
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		batches: make([]Batch, 0, 64),
	}
}

// Push appends a batch.
func (h *History) Push(batch Batch) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches = append(h.batches, batch)
}

// Pop removes the newest batch. The second result is false when empty.
func (h *History) Pop() (Batch, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.batches) == 0 {
		return nil, false
	}
	idx := len(h.batches) - 1
	batch := h.batches[idx]
	h.batches[idx] = nil
	h.batches = h.batches[:idx]
	return batch, true
}

// Peek returns the newest batch without removing it.
func (h *History) Peek() (Batch, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.batches) == 0 {
		return nil, false
	}
	return h.batches[len(h.batches)-1], true
}

// Len returns the number of batches.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.batches)
}

// IsEmpty reports whether there is nothing to undo.
func (h *History) IsEmpty() bool {
	return h.Len() == 0
}

// List returns a copy of all batches (newest last).
func (h *History) List() []Batch {
	h.mu.Lock()
	defer h.mu.Unlock()
	cpy := make([]Batch, len(h.batches))
	copy(cpy, h.batches)
	return cpy
}
