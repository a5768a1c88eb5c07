// Package memory holds process-local implementations of the store ports.
package memory

import (
	"context"
	"sync"

	"county-revenue/internal/records"
)

// Store is a RecordStore over a guarded slice. Writes swap in the new slice
// produced by the records package.
type Store[T records.Record[T]] struct {
	mu   sync.RWMutex
	coll []T
	ids  records.IDGenerator
}

// NewStore preloads seed under the seed ids. Records without an id or with
// a repeated one are skipped.
func NewStore[T records.Record[T]](ids records.IDGenerator, seed ...T) *Store[T] {
	s := &Store[T]{ids: ids}
	for _, rec := range seed {
		if coll, err := records.Insert(s.coll, rec); err == nil {
			s.coll = coll
		}
	}
	return s
}

// Insert adds rec under its own id.
func (s *Store[T]) Insert(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, err := records.Insert(s.coll, rec)
	if err != nil {
		return err
	}
	s.coll = coll
	return nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.coll...), nil
}

func (s *Store[T]) Create(ctx context.Context, record T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var created T
	s.coll, created = records.Create(s.coll, record, s.ids)
	return created, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, updated, err := records.Update(s.coll, id, patch)
	if err != nil {
		return updated, err
	}
	s.coll = coll
	return updated, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, err := records.Delete(s.coll, id)
	if err != nil {
		return err
	}
	s.coll = coll
	return nil
}
