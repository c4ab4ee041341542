package roster

import (
	"errors"
	"time"
)

// ErrMissingID is returned when a saved-record operation is handed a zero ID.
var ErrMissingID = errors.New("provide id")

// ExistingRecord holds the columns a row only has after it has been stored.
type ExistingRecord[T ~int64] struct {
	ID        T
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewExistingRecord[T ~int64](id T) ExistingRecord[T] {
	now := time.Now()
	return ExistingRecord[T]{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
