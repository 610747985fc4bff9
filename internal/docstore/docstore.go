// Package docstore defines the document store client consumed by every store
// in this service: path-addressed documents, atomic multi-document batches,
// and equality/membership queries with ordering and a result limit.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and Update when the addressed document is absent.
var ErrNotFound = errors.New("document not found")

// InLimit is the store-enforced cap on membership-filter cardinality.
// Callers issuing "in" queries must partition their id sets into chunks of
// at most this size.
const InLimit = 10

// ServerTimestamp is a sentinel value replaced with the store's commit time
// when a document is written.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

// Op enumerates supported query operators.
type Op string

const (
	OpEqual Op = "=="
	OpIn    Op = "in"
)

// Filter constrains a query to documents whose field matches the value.
// For OpIn the value must be a []string of at most InLimit elements.
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Query describes a read over one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Desc       bool
	Limit      int
}

// Batch accumulates writes that commit atomically: either every listed
// write lands or none does.
type Batch interface {
	Set(path string, data map[string]interface{})
	SetMerge(path string, data map[string]interface{})
	Delete(path string)
	Commit(ctx context.Context) error
}

// Store is the document store client surface. Production traffic goes to the
// Firestore adapter; tests and local development use the in-memory store.
type Store interface {
	// NewID allocates a fresh document identifier without writing anything.
	NewID() string
	// Get returns the snapshot at path, or ErrNotFound.
	Get(ctx context.Context, path string) (*Snapshot, error)
	// Set writes the document, replacing any existing content.
	Set(ctx context.Context, path string, data map[string]interface{}) error
	// SetMerge writes the document, merging the provided field paths into
	// existing content instead of replacing it.
	SetMerge(ctx context.Context, path string, data map[string]interface{}) error
	// Update overwrites the named top-level fields of an existing document.
	// Returns ErrNotFound when the document is absent.
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	// Delete removes the document. Deleting an absent document succeeds.
	Delete(ctx context.Context, path string) error
	// Query runs a collection read and returns matching snapshots.
	Query(ctx context.Context, q Query) ([]Snapshot, error)
	// Batch starts an atomic multi-document write.
	Batch() Batch
}

// Snapshot is a lenient read of one document: missing or mistyped fields
// resolve to zero values through the typed accessors rather than failing.
type Snapshot struct {
	ID   string
	Data map[string]interface{}
}

// String returns the string field at key, or "".
func (s Snapshot) String(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// NullString returns the string field at key, or nil when absent or null.
func (s Snapshot) NullString(key string) *string {
	switch v := s.Data[key].(type) {
	case string:
		return &v
	case *string:
		return v
	default:
		return nil
	}
}

// Bool returns the boolean field at key, or fallback when absent or mistyped.
func (s Snapshot) Bool(key string, fallback bool) bool {
	if v, ok := s.Data[key].(bool); ok {
		return v
	}
	return fallback
}

// Int returns the numeric field at key as an int, or 0.
func (s Snapshot) Int(key string) int {
	switch v := s.Data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Float returns the numeric field at key as a float64, or 0.
func (s Snapshot) Float(key string) float64 {
	switch v := s.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Time returns the timestamp field at key, or the zero time.
func (s Snapshot) Time(key string) time.Time {
	if v, ok := s.Data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Map returns the nested object at key as a Snapshot. Missing or mistyped
// fields yield an empty Snapshot so nested accessors stay safe to chain.
func (s Snapshot) Map(key string) Snapshot {
	if v, ok := s.Data[key].(map[string]interface{}); ok {
		return Snapshot{Data: v}
	}
	return Snapshot{}
}
