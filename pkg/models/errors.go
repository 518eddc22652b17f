package models

import "errors"

var (
	// ErrDuplicateSlug is returned when a create collides with an existing
	// slug. The pre-insert check is best effort, not transactional.
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrNotFound marks a read miss on an id or slug lookup.
	ErrNotFound = errors.New("article not found")
)

// FieldErrors maps form field names to user-facing messages. A non-empty map
// blocks submission without reaching the store.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}
