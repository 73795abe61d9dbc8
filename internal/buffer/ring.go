// Package buffer provides a fixed-capacity ring that keeps the newest
// entries. It is not safe for concurrent use.
package buffer

type Ring[T any] struct {
	entries []T
	start   int
	count   int
	evicted uint64
}

func NewRing[T any](size int) *Ring[T] {
	if size <= 0 {
		size = 1
	}
	return &Ring[T]{
		entries: make([]T, size),
	}
}

// Add appends entry, overwriting the oldest one when the ring is full.
func (r *Ring[T]) Add(entry T) {
	if r == nil || len(r.entries) == 0 {
		return
	}

	if r.count < len(r.entries) {
		r.entries[(r.start+r.count)%len(r.entries)] = entry
		r.count++
		return
	}

	r.entries[r.start] = entry
	r.start = (r.start + 1) % len(r.entries)
	r.evicted++
}

func (r *Ring[T]) Len() int {
	if r == nil {
		return 0
	}
	return r.count
}

// Evicted counts entries overwritten since creation.
func (r *Ring[T]) Evicted() uint64 {
	if r == nil {
		return 0
	}
	return r.evicted
}

// List returns a copy of the entries, oldest first.
func (r *Ring[T]) List() []T {
	if r == nil || r.count == 0 {
		return nil
	}

	out := make([]T, r.count)
	for i := range out {
		out[i] = r.entries[(r.start+i)%len(r.entries)]
	}
	return out
}
