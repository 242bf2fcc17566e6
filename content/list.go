package content

// Record is anything with a stable identifier.
type Record interface {
	Key() string
}

// List is an ordered collection of records, newest first. It mirrors a
// remote table for the lifetime of an admin workspace and is only changed
// after the remote side confirmed the mutation. List is not safe for
// concurrent use; the owner serializes access.
type List[T Record] struct {
	items []T
}

// NewList returns a list holding items in the given order.
func NewList[T Record](items []T) *List[T] {
	l := &List[T]{}
	l.Reset(items)
	return l
}

// Reset replaces the whole content of the list.
func (l *List[T]) Reset(items []T) {
	l.items = append(l.items[:0:0], items...)
}

// Len returns the number of records.
func (l *List[T]) Len() int { return len(l.items) }

// Items returns a copy of the records in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Prepend puts rec in front, preserving newest-first order without a reload.
func (l *List[T]) Prepend(rec T) {
	l.items = append([]T{rec}, l.items...)
}

// Find returns the record with the given id.
func (l *List[T]) Find(id string) (T, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Replace swaps the record sharing rec's id in place. It reports false when
// no such record exists.
func (l *List[T]) Replace(rec T) bool {
	i := l.index(rec.Key())
	if i < 0 {
		return false
	}
	l.items[i] = rec
	return true
}

// Remove drops the record with the given id. It reports whether one was
// removed.
func (l *List[T]) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

func (l *List[T]) index(id string) int {
	for i, it := range l.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}
