package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by unit tests and local development.
// Documents live in a single map keyed by full path; batches apply under one
// lock so their writes are observed all-or-nothing.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
	now  func() time.Time
}

// MemoryOption customises a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides the clock used for server timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory constructs an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		docs: make(map[string]map[string]interface{}),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewID allocates a fresh document identifier.
func (m *Memory) NewID() string {
	return uuid.NewString()
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := validDocPath(path); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	return &Snapshot{ID: docID(path), Data: copyFields(data)}, nil
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, path string, data map[string]interface{}) error {
	if err := validDocPath(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applySet(path, data)
	return nil
}

// SetMerge implements Store.
func (m *Memory) SetMerge(ctx context.Context, path string, data map[string]interface{}) error {
	if err := validDocPath(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applySetMerge(path, data)
	return nil
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := validDocPath(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[path]
	if !ok {
		return fmt.Errorf("update %s: %w", path, ErrNotFound)
	}
	for key, value := range fields {
		doc[key] = m.sanitize(value)
	}
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, path string) error {
	if err := validDocPath(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, path)
	return nil
}

// Query implements Store.
func (m *Memory) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	if err := validCollectionPath(q.Collection); err != nil {
		return nil, err
	}
	for _, f := range q.Filters {
		if f.Op == OpIn {
			ids, ok := f.Value.([]string)
			if !ok {
				return nil, fmt.Errorf("query %s: in filter requires []string", q.Collection)
			}
			if len(ids) > InLimit {
				return nil, fmt.Errorf("query %s: in filter exceeds %d values", q.Collection, InLimit)
			}
		}
	}

	m.mu.RLock()
	prefix := q.Collection + "/"
	matches := make([]Snapshot, 0)
	for path, data := range m.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		if !matchesFilters(data, q.Filters) {
			continue
		}
		if q.OrderBy != "" {
			if _, present := data[q.OrderBy]; !present {
				continue
			}
		}
		matches = append(matches, Snapshot{ID: rest, Data: copyFields(data)})
	}
	m.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			a, b := matches[i].Data[q.OrderBy], matches[j].Data[q.OrderBy]
			if q.Desc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Batch implements Store.
func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

type batchOp struct {
	kind string
	path string
	data map[string]interface{}
}

type memoryBatch struct {
	store *Memory
	ops   []batchOp
}

func (b *memoryBatch) Set(path string, data map[string]interface{}) {
	b.ops = append(b.ops, batchOp{kind: "set", path: path, data: data})
}

func (b *memoryBatch) SetMerge(path string, data map[string]interface{}) {
	b.ops = append(b.ops, batchOp{kind: "merge", path: path, data: data})
}

func (b *memoryBatch) Delete(path string) {
	b.ops = append(b.ops, batchOp{kind: "delete", path: path})
}

// Commit applies every queued write under one lock. Path validation happens
// before any write lands, so a malformed batch changes nothing.
func (b *memoryBatch) Commit(ctx context.Context) error {
	for _, op := range b.ops {
		if err := validDocPath(op.path); err != nil {
			return err
		}
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		switch op.kind {
		case "set":
			b.store.applySet(op.path, op.data)
		case "merge":
			b.store.applySetMerge(op.path, op.data)
		case "delete":
			delete(b.store.docs, op.path)
		}
	}
	return nil
}

// applySet and applySetMerge require m.mu to be held.
func (m *Memory) applySet(path string, data map[string]interface{}) {
	m.docs[path] = m.sanitizeFields(data)
}

func (m *Memory) applySetMerge(path string, data map[string]interface{}) {
	existing, ok := m.docs[path]
	if !ok {
		m.docs[path] = m.sanitizeFields(data)
		return
	}
	mergeFields(existing, m.sanitizeFields(data))
}

func mergeFields(dst, src map[string]interface{}) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]interface{})
		dstMap, dstIsMap := dst[key].(map[string]interface{})
		if srcIsMap && dstIsMap {
			mergeFields(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
}

// sanitizeFields deep-copies written data, resolves the server-timestamp
// sentinel, and flattens typed nil pointers to plain nulls.
func (m *Memory) sanitizeFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for key, value := range data {
		out[key] = m.sanitize(value)
	}
	return out
}

func (m *Memory) sanitize(value interface{}) interface{} {
	switch v := value.(type) {
	case serverTimestamp:
		return m.now().UTC()
	case map[string]interface{}:
		return m.sanitizeFields(v)
	case *string:
		if v == nil {
			return nil
		}
		return *v
	default:
		return value
	}
}

func copyFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for key, value := range data {
		if nested, ok := value.(map[string]interface{}); ok {
			out[key] = copyFields(nested)
			continue
		}
		out[key] = value
	}
	return out
}

func matchesFilters(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		value, present := data[f.Field]
		switch f.Op {
		case OpEqual:
			if !present || !reflect.DeepEqual(value, f.Value) {
				return false
			}
		case OpIn:
			str, _ := value.(string)
			found := false
			for _, candidate := range f.Value.([]string) {
				if present && str == candidate {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Before(bv)
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	case int:
		return lessValue(float64(av), b)
	case int64:
		return lessValue(float64(av), b)
	case float64:
		switch bv := b.(type) {
		case float64:
			return av < bv
		case int:
			return av < float64(bv)
		case int64:
			return av < float64(bv)
		}
	}
	return false
}

func validDocPath(path string) error {
	segments, err := pathSegments(path)
	if err != nil {
		return err
	}
	if len(segments)%2 != 0 {
		return fmt.Errorf("invalid document path %q: odd segment count", path)
	}
	return nil
}

func validCollectionPath(path string) error {
	segments, err := pathSegments(path)
	if err != nil {
		return err
	}
	if len(segments)%2 != 1 {
		return fmt.Errorf("invalid collection path %q: even segment count", path)
	}
	return nil
}

func pathSegments(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty document path")
	}
	segments := strings.Split(path, "/")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}
	}
	return segments, nil
}

func docID(path string) string {
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}
