package render

import "fmt"

// Handle identifies an item stored in a SlotMap. The zero Handle is never
// issued, so it can stand for "no item".
type Handle struct {
	idx uint32
	gen uint32
}

// IsZero reports whether h is the zero (invalid) handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(none)"
	}
	return fmt.Sprintf("handle(%d#%d)", h.idx, h.gen)
}

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// SlotMap is a generation-checked arena. Removing an item bumps the slot
// generation, so stale handles fail lookups instead of aliasing a newer item.
type SlotMap[T any] struct {
	slots []slot[T]
	free  []uint32
	order []Handle // insertion order of live items
}

// Insert stores v and returns its handle.
func (m *SlotMap[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, slot[T]{})
	}
	s := &m.slots[idx]
	s.gen++
	s.live = true
	s.val = v
	h := Handle{idx: idx, gen: s.gen}
	m.order = append(m.order, h)
	return h
}

// Get returns the item for h.
func (m *SlotMap[T]) Get(h Handle) (T, bool) {
	var zero T
	if h.IsZero() || int(h.idx) >= len(m.slots) {
		return zero, false
	}
	s := m.slots[h.idx]
	if !s.live || s.gen != h.gen {
		return zero, false
	}
	return s.val, true
}

// Contains reports whether h refers to a live item.
func (m *SlotMap[T]) Contains(h Handle) bool {
	_, ok := m.Get(h)
	return ok
}

// Remove deletes the item for h. It returns false for stale or unknown handles.
func (m *SlotMap[T]) Remove(h Handle) bool {
	if !m.Contains(h) {
		return false
	}
	s := &m.slots[h.idx]
	var zero T
	s.val = zero
	s.live = false
	m.free = append(m.free, h.idx)
	for i, o := range m.order {
		if o == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of live items.
func (m *SlotMap[T]) Len() int { return len(m.order) }

// Handles returns the live handles in insertion order.
func (m *SlotMap[T]) Handles() []Handle {
	out := make([]Handle, len(m.order))
	copy(out, m.order)
	return out
}
