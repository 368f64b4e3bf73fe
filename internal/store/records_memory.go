package store

import (
	"context"
	"sync"

	"github.com/serroba/user-lookup-go/internal/records"
)

// RecordMemoryStore is an in-memory implementation of records.Repository.
type RecordMemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]records.Document
}

// NewRecordMemoryStore creates a new in-memory record store.
func NewRecordMemoryStore() *RecordMemoryStore {
	return &RecordMemoryStore{
		collections: make(map[string][]records.Document),
	}
}

// Insert appends doc to collection.
func (m *RecordMemoryStore) Insert(collection string, doc records.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collections[collection] = append(m.collections[collection], doc)
}

func (m *RecordMemoryStore) FindOne(
	_ context.Context, collection string, filter records.Filter, projection records.Projection,
) (records.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if filter.Matches(doc) {
			return doc.Project(projection), nil
		}
	}

	return nil, records.ErrNotFound
}

// Ping always succeeds.
func (m *RecordMemoryStore) Ping(_ context.Context) error {
	return nil
}

// Compile-time check.
var _ records.Repository = (*RecordMemoryStore)(nil)
