// Package records applies create, update and delete operations to in-memory
// collections. Every operation returns a new slice and leaves its input
// untouched.
package records

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"county-revenue/internal/domain"
)

// Record is implemented by every domain record type.
type Record[T any] interface {
	RecordID() string
	WithID(id string) T
}

// Confirmer asks the acting user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// IDGenerator produces identifiers not yet present in a collection.
type IDGenerator interface {
	Next(taken func(id string) bool) string
}

// TimestampIDs derives identifiers from the clock in milliseconds, bumping
// the counter until the candidate is free.
type TimestampIDs struct {
	Prefix string
	Now    func() time.Time

	mu   sync.Mutex
	last int64
}

func NewTimestampIDs(prefix string) *TimestampIDs {
	return &TimestampIDs{Prefix: prefix, Now: time.Now}
}

func (g *TimestampIDs) Next(taken func(id string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	n := now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	for {
		id := g.Prefix + strconv.FormatInt(n, 10)
		if taken == nil || !taken(id) {
			g.last = n
			return id
		}
		n++
	}
}

func indexOf[T Record[T]](coll []T, id string) int {
	for i, rec := range coll {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is present in coll.
func Contains[T Record[T]](coll []T, id string) bool {
	return indexOf(coll, id) >= 0
}

// Create assigns a fresh identifier to rec and appends it.
func Create[T Record[T]](coll []T, rec T, ids IDGenerator) ([]T, T) {
	id := ids.Next(func(candidate string) bool { return Contains(coll, candidate) })
	rec = rec.WithID(id)
	out := make([]T, 0, len(coll)+1)
	out = append(out, coll...)
	return append(out, rec), rec
}

// Insert appends rec under its existing identifier.
func Insert[T Record[T]](coll []T, rec T) ([]T, error) {
	if rec.RecordID() == "" {
		return coll, fmt.Errorf("%w: missing id", domain.ErrInvalidInput)
	}
	if Contains(coll, rec.RecordID()) {
		return coll, fmt.Errorf("%w: id %s already exists", domain.ErrConflict, rec.RecordID())
	}
	out := make([]T, 0, len(coll)+1)
	out = append(out, coll...)
	return append(out, rec), nil
}

// Update replaces the record with the given id by patch(record).
func Update[T Record[T]](coll []T, id string, patch func(T) T) ([]T, T, error) {
	var zero T
	i := indexOf(coll, id)
	if i < 0 {
		return coll, zero, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	updated := patch(coll[i]).WithID(id)
	out := make([]T, len(coll))
	copy(out, coll)
	out[i] = updated
	return out, updated, nil
}

// Delete removes exactly the record with the given id.
func Delete[T Record[T]](coll []T, id string) ([]T, error) {
	i := indexOf(coll, id)
	if i < 0 {
		return coll, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	out := make([]T, 0, len(coll)-1)
	out = append(out, coll[:i]...)
	return append(out, coll[i+1:]...), nil
}

// ConfirmDelete asks confirmer before deleting. A declined prompt returns
// the collection unchanged with ErrDeclined.
func ConfirmDelete[T Record[T]](ctx context.Context, coll []T, id string, confirmer Confirmer, prompt string) ([]T, error) {
	if !Contains(coll, id) {
		return coll, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return coll, err
	}
	if !ok {
		return coll, domain.ErrDeclined
	}
	return Delete(coll, id)
}
