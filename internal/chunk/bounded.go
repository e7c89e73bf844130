package chunk

// Capacities of the per-chunk lists.
const (
	MaxPOIs     = 16
	MaxEntities = 64
	MaxEvents   = 8
)

// Bounded is a list with a fixed capacity. Pushing onto a full list drops the
// value and reports false; callers treat that as a soft limit.
type Bounded[T any] struct {
	items []T
	limit int
}

func NewBounded[T any](limit int) Bounded[T] {
	return Bounded[T]{items: make([]T, 0, limit), limit: limit}
}

func (b *Bounded[T]) Push(v T) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, v)
	return true
}

func (b *Bounded[T]) Len() int {
	return len(b.items)
}

func (b *Bounded[T]) Cap() int {
	return b.limit
}

func (b *Bounded[T]) Full() bool {
	return len(b.items) >= b.limit
}

// Items exposes the stored values. The slice must not be modified.
func (b *Bounded[T]) Items() []T {
	return b.items
}

func (b *Bounded[T]) Reset() {
	clear(b.items)
	b.items = b.items[:0]
}

// Filter keeps the values for which keep returns true, preserving order, and
// returns how many were removed.
func (b *Bounded[T]) Filter(keep func(T) bool) int {
	n := 0
	for _, v := range b.items {
		if keep(v) {
			b.items[n] = v
			n++
		}
	}
	removed := len(b.items) - n
	clear(b.items[n:])
	b.items = b.items[:n]
	return removed
}

func (b *Bounded[T]) Clone() Bounded[T] {
	out := Bounded[T]{items: make([]T, len(b.items), b.limit), limit: b.limit}
	copy(out.items, b.items)
	return out
}
