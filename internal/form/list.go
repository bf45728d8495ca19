package form

import "fmt"

// List is an ordered, editable collection of entries whose order field is
// kept equal to position+1.
type List[T any] struct {
	items    []T
	schema   Schema[T]
	setOrder func(*T, int)
}

// NewList returns an empty list. setOrder may be nil for entry types without
// an order field.
func NewList[T any](schema Schema[T], setOrder func(*T, int)) *List[T] {
	return &List[T]{schema: schema, setOrder: setOrder}
}

func (l *List[T]) Schema() Schema[T] { return l.schema }

func (l *List[T]) Len() int { return len(l.items) }

// Items returns a copy of the entries in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// At returns entry i.
func (l *List[T]) At(i int) T { return l.items[i] }

// Add appends v with order len+1.
func (l *List[T]) Add(v T) {
	if l.setOrder != nil {
		l.setOrder(&v, len(l.items)+1)
	}
	l.items = append(l.items, v)
}

// Remove deletes entry i and renumbers the rest 1..N-1.
func (l *List[T]) Remove(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.renumber()
	return nil
}

// Move shifts entry i by delta positions, clamped to the list bounds, and
// returns its new index.
func (l *List[T]) Move(i, delta int) (int, error) {
	if err := l.check(i); err != nil {
		return i, err
	}
	j := min(max(i+delta, 0), len(l.items)-1)
	if j == i {
		return i, nil
	}
	v := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.items = append(l.items[:j], append([]T{v}, l.items[j:]...)...)
	l.renumber()
	return j, nil
}

// Update coerces raw into field of entry i using the schema.
func (l *List[T]) Update(i int, field, raw string) error {
	if err := l.check(i); err != nil {
		return err
	}
	return l.schema.Apply(&l.items[i], field, raw)
}

func (l *List[T]) check(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("form: index %d out of range [0,%d)", i, len(l.items))
	}
	return nil
}

func (l *List[T]) renumber() {
	if l.setOrder == nil {
		return
	}
	for i := range l.items {
		l.setOrder(&l.items[i], i+1)
	}
}
