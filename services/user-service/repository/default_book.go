package repository

import "slices"

// defaultBook keeps per-user lists in insertion order where at most one
// entry is flagged as the default.
type defaultBook[T any] struct {
	entries map[string][]T
	id      func(*T) string
	flag    func(*T) *bool
}

func newDefaultBook[T any](id func(*T) string, flag func(*T) *bool) *defaultBook[T] {
	return &defaultBook[T]{entries: make(map[string][]T), id: id, flag: flag}
}

func (b *defaultBook[T]) list(userID string) []T {
	return slices.Clone(b.entries[userID])
}

func (b *defaultBook[T]) index(userID, id string) int {
	list := b.entries[userID]
	for i := range list {
		if b.id(&list[i]) == id {
			return i
		}
	}
	return -1
}

func (b *defaultBook[T]) clearDefault(userID string) {
	list := b.entries[userID]
	for i := range list {
		*b.flag(&list[i]) = false
	}
}

// add appends v and returns it as stored.
func (b *defaultBook[T]) add(userID string, v T) T {
	if len(b.entries[userID]) == 0 {
		*b.flag(&v) = true
	}
	if *b.flag(&v) {
		b.clearDefault(userID)
	}
	b.entries[userID] = append(b.entries[userID], v)
	return v
}

// update replaces the entry with v's ID. The current default stays the
// default even if v clears its flag.
func (b *defaultBook[T]) update(userID string, v T) (T, error) {
	i := b.index(userID, b.id(&v))
	if i < 0 {
		return v, ErrNotFound
	}
	list := b.entries[userID]
	if *b.flag(&list[i]) {
		*b.flag(&v) = true
	} else if *b.flag(&v) {
		b.clearDefault(userID)
	}
	list[i] = v
	return v, nil
}

func (b *defaultBook[T]) remove(userID, id string) error {
	i := b.index(userID, id)
	if i < 0 {
		return ErrNotFound
	}
	list := b.entries[userID]
	wasDefault := *b.flag(&list[i])
	list = slices.Delete(list, i, i+1)
	if wasDefault && len(list) > 0 {
		*b.flag(&list[0]) = true
	}
	if len(list) == 0 {
		delete(b.entries, userID)
	} else {
		b.entries[userID] = list
	}
	return nil
}

func (b *defaultBook[T]) setDefault(userID, id string) error {
	i := b.index(userID, id)
	if i < 0 {
		return ErrNotFound
	}
	b.clearDefault(userID)
	*b.flag(&b.entries[userID][i]) = true
	return nil
}
