// Package store persists named collections of records as whole JSON documents.
//
// A Backend only knows how to ensure, load and replace the serialized bytes of a
// collection. Collection layers typed access on top and serializes every
// read-modify-write behind a per-collection lock, so concurrent mutations inside
// one process never lose each other's changes.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate record id")
	ErrCorrupt     = errors.New("corrupt collection")
)

// CorruptError reports a collection whose persisted bytes are not a JSON array of
// records. It is never repaired automatically.
type CorruptError struct {
	Collection string
	Err        error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("collection %q is corrupt: %v", e.Collection, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// Backend stores the serialized form of whole collections.
type Backend interface {
	// Ensure creates an empty collection if none exists. It must be idempotent.
	Ensure(ctx context.Context, name string) error
	// Load returns the serialized collection exactly as last replaced.
	Load(ctx context.Context, name string) ([]byte, error)
	// Replace atomically overwrites the serialized collection.
	Replace(ctx context.Context, name string, data []byte) error
}

// Record is anything with a stable identifier.
type Record interface {
	RecordID() string
}

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// emptyCollection is what Ensure writes for a new collection.
var emptyCollection = []byte("[]\n")

type Collection[T Record] struct {
	name    string
	backend Backend
	mu      sync.RWMutex
}

// NewCollection binds name to backend. Names are lowercase identifiers because
// backends use them as file names and keys.
func NewCollection[T Record](backend Backend, name string) *Collection[T] {
	if !validName.MatchString(name) {
		panic(fmt.Sprintf("store: invalid collection name %q", name))
	}
	return &Collection[T]{name: name, backend: backend}
}

func (c *Collection[T]) ensure(ctx context.Context) error {
	if err := c.backend.Ensure(ctx, c.name); err != nil {
		return fmt.Errorf("ensure collection %s: %w", c.name, err)
	}
	return nil
}

// LoadAll returns every record in insertion order. The result is never nil.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load(ctx)
}

// ReplaceAll overwrites the whole collection with records.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensure(ctx); err != nil {
		return err
	}
	return c.replace(ctx, records)
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	records, err := c.LoadAll(ctx)
	if err != nil {
		return zero, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return zero, ErrNotFound
}

// Mutate loads the collection, hands it to fn and persists what fn returns, all
// under the collection's write lock. If fn fails nothing is written.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.replace(ctx, next)
}

// Insert appends rec. Its id must not already be present.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	return c.Mutate(ctx, func(records []T) ([]T, error) {
		if indexOf(records, rec.RecordID()) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, rec.RecordID())
		}
		return append(records, rec), nil
	})
}

// Update applies fn to the record with id and stores the result in place.
// fn must not change the record's id.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var updated T
	err := c.Mutate(ctx, func(records []T) ([]T, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		rec := records[i]
		if err := fn(&rec); err != nil {
			return nil, err
		}
		if rec.RecordID() != id {
			return nil, fmt.Errorf("update of %s changed its id to %s", id, rec.RecordID())
		}
		records[i] = rec
		updated = rec
		return records, nil
	})
	return updated, err
}

// Delete removes the record with id and returns it.
func (c *Collection[T]) Delete(ctx context.Context, id string) (T, error) {
	var removed T
	err := c.Mutate(ctx, func(records []T) ([]T, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		removed = records[i]
		return append(records[:i], records[i+1:]...), nil
	})
	return removed, err
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	data, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", c.name, err)
	}
	return decode[T](c.name, data)
}

func (c *Collection[T]) replace(ctx context.Context, records []T) error {
	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c.name, err)
	}
	if err := c.backend.Replace(ctx, c.name, data); err != nil {
		return fmt.Errorf("replace collection %s: %w", c.name, err)
	}
	return nil
}

func decode[T any](name string, data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	records := []T{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return records, nil
	}
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, &CorruptError{Collection: name, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func indexOf[T Record](records []T, id string) int {
	for i, r := range records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}
