package domain

// ItemID identifies a line item within a worksheet. It is used for list
// identity and edit targeting only, never for ordering or computation.
type ItemID int64

// LineItem is implemented by every variant's line type.
type LineItem interface {
	ItemID() ItemID
}

// ItemList keeps line items in insertion order while addressing them by id.
// The zero value is ready to use.
type ItemList[T LineItem] struct {
	order []ItemID
	items map[ItemID]T
}

// NewItemList builds a list from items in order. Items whose id is already
// present are skipped.
func NewItemList[T LineItem](items ...T) *ItemList[T] {
	l := &ItemList[T]{}
	for _, it := range items {
		l.Add(it)
	}
	return l
}

// Add appends item. It returns false if an item with the same id exists.
func (l *ItemList[T]) Add(item T) bool {
	if l.items == nil {
		l.items = make(map[ItemID]T)
	}
	id := item.ItemID()
	if _, ok := l.items[id]; ok {
		return false
	}
	l.items[id] = item
	l.order = append(l.order, id)
	return true
}

// Update replaces the item with the same id, keeping its position.
// It returns false if no such item exists.
func (l *ItemList[T]) Update(item T) bool {
	if l == nil {
		return false
	}
	id := item.ItemID()
	if _, ok := l.items[id]; !ok {
		return false
	}
	l.items[id] = item
	return true
}

// Remove deletes the item with the given id.
// It returns false if no such item exists.
func (l *ItemList[T]) Remove(id ItemID) bool {
	if l == nil {
		return false
	}
	if _, ok := l.items[id]; !ok {
		return false
	}
	delete(l.items, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the item with the given id.
func (l *ItemList[T]) Get(id ItemID) (T, bool) {
	if l == nil {
		var zero T
		return zero, false
	}
	it, ok := l.items[id]
	return it, ok
}

// Len returns the number of items. A nil list is empty.
func (l *ItemList[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// Items returns a copy of the items in insertion order.
func (l *ItemList[T]) Items() []T {
	if l == nil {
		return nil
	}
	out := make([]T, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.items[id])
	}
	return out
}

// Clone returns an independent copy. Line items are values, so copying the
// map and order slice is enough.
func (l *ItemList[T]) Clone() *ItemList[T] {
	if l == nil {
		return &ItemList[T]{}
	}
	out := &ItemList[T]{
		order: make([]ItemID, len(l.order)),
		items: make(map[ItemID]T, len(l.items)),
	}
	copy(out.order, l.order)
	for id, it := range l.items {
		out.items[id] = it
	}
	return out
}
