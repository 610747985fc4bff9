package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore adapts a Cloud Firestore client to the Store interface. Batch
// atomicity and the membership-filter cap are this backend's own guarantees;
// the adapter only translates addressing and sentinel values.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an existing Firestore client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

// NewID allocates a fresh document identifier.
func (f *Firestore) NewID() string {
	return uuid.NewString()
}

// Get implements Store.
func (f *Firestore) Get(ctx context.Context, path string) (*Snapshot, error) {
	snap, err := f.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return &Snapshot{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// Set implements Store.
func (f *Firestore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	_, err := f.client.Doc(path).Set(ctx, firestoreFields(data))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// SetMerge implements Store.
func (f *Firestore) SetMerge(ctx context.Context, path string, data map[string]interface{}) error {
	_, err := f.client.Doc(path).Set(ctx, firestoreFields(data), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("set merge %s: %w", path, err)
	}
	return nil
}

// Update implements Store.
func (f *Firestore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for key, value := range fields {
		updates = append(updates, firestore.Update{Path: key, Value: firestoreValue(value)})
	}
	_, err := f.client.Doc(path).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("update %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

// Delete implements Store. Firestore deletes are idempotent.
func (f *Firestore) Delete(ctx context.Context, path string) error {
	if _, err := f.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// Query implements Store.
func (f *Firestore) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	fq := f.client.Collection(q.Collection).Query
	for _, filter := range q.Filters {
		fq = fq.Where(filter.Field, string(filter.Op), filter.Value)
	}
	if q.OrderBy != "" {
		direction := firestore.Asc
		if q.Desc {
			direction = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, direction)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	iter := fq.Documents(ctx)
	defer iter.Stop()

	var snapshots []Snapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Collection, err)
		}
		snapshots = append(snapshots, Snapshot{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return snapshots, nil
}

// Batch implements Store.
func (f *Firestore) Batch() Batch {
	return &firestoreBatch{client: f.client, batch: f.client.Batch()}
}

type firestoreBatch struct {
	client *firestore.Client
	batch  *firestore.WriteBatch
}

func (b *firestoreBatch) Set(path string, data map[string]interface{}) {
	b.batch.Set(b.client.Doc(path), firestoreFields(data))
}

func (b *firestoreBatch) SetMerge(path string, data map[string]interface{}) {
	b.batch.Set(b.client.Doc(path), firestoreFields(data), firestore.MergeAll)
}

func (b *firestoreBatch) Delete(path string) {
	b.batch.Delete(b.client.Doc(path))
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func firestoreFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for key, value := range data {
		out[key] = firestoreValue(value)
	}
	return out
}

func firestoreValue(value interface{}) interface{} {
	switch v := value.(type) {
	case serverTimestamp:
		return firestore.ServerTimestamp
	case map[string]interface{}:
		return firestoreFields(v)
	case *string:
		if v == nil {
			return nil
		}
		return *v
	default:
		return value
	}
}
