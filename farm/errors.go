/*
errors.go - Error types for the state engine

PURPOSE:
  The engine has exactly one business failure mode: an edit or delete
  that names an id missing from the current aggregate. The transition
  leaves the state untouched and reports the miss through a sentinel
  so callers CAN observe it, even though the dashboard treats it as a
  non-event.

USAGE:
  next, err := farm.Reduce(state, action)
  if errors.Is(err, farm.ErrNotFound) {
      // state is unchanged; safe to ignore or surface as 404
  }
*/
package farm

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an edit or delete names an id that does
// not exist in the current aggregate. The returned state is always the
// input state unchanged.
var ErrNotFound = errors.New("not found")

// NotFoundError carries which entity and id missed.
type NotFoundError struct {
	Entity string // "record", "category", "task", "supplier", "transaction"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
