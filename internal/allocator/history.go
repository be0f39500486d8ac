package allocator

// History is a fixed-capacity ring buffer holding the most recent entries.
// Pushing into a full History evicts the oldest entry.
type History[T any] struct {
	buf  []T
	next int
	size int
}

// NewHistory creates a History retaining at most capacity entries.
// A capacity of zero or less yields a History that retains nothing.
func NewHistory[T any](capacity int) *History[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &History[T]{buf: make([]T, capacity)}
}

// Push records v as the most recent entry.
func (h *History[T]) Push(v T) {
	if len(h.buf) == 0 {
		return
	}
	h.buf[h.next] = v
	h.next = (h.next + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Recent returns up to n entries, most recent first.
func (h *History[T]) Recent(n int) []T {
	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	idx := h.next
	for range n {
		idx = (idx - 1 + len(h.buf)) % len(h.buf)
		out = append(out, h.buf[idx])
	}
	return out
}

// Len returns the number of retained entries.
func (h *History[T]) Len() int {
	return h.size
}

// Cap returns the retention capacity.
func (h *History[T]) Cap() int {
	return len(h.buf)
}
