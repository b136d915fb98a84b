package docstore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store. It backs tests and local runs
// without a database; its clock plays the role of the server clock.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]*Document
	now         func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces the clock used for ServerTimestamp fields.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		collections: make(map[string][]*Document),
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *MemoryStore) Insert(_ context.Context, collection string, fields Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{ID: uuid.NewString(), Fields: s.resolve(fields)}
	s.collections[collection] = append(s.collections[collection], doc)
	return doc.ID, nil
}

func (s *MemoryStore) Query(_ context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	s.mu.Lock()
	docs := make([]Document, 0, len(s.collections[collection]))
	for _, d := range s.collections[collection] {
		docs = append(docs, Document{ID: d.ID, Fields: maps.Clone(d.Fields)})
	}
	s.mu.Unlock()

	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i].Fields[orderBy], docs[j].Fields[orderBy])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
	return docs, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.find(collection, id)
	if d == nil {
		return nil, ErrNotFound
	}
	return &Document{ID: d.ID, Fields: maps.Clone(d.Fields)}, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, d := range docs {
		if d.ID == id {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) UpsertMerge(_ context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved := s.resolve(fields)
	if d := s.find(collection, id); d != nil {
		maps.Copy(d.Fields, resolved)
		return nil
	}
	s.collections[collection] = append(s.collections[collection], &Document{ID: id, Fields: resolved})
	return nil
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) find(collection, id string) *Document {
	for _, d := range s.collections[collection] {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *MemoryStore) resolve(fields Fields) Fields {
	plain, stamped := splitServerTimestamps(fields)
	now := s.now().UTC()
	for _, k := range stamped {
		plain[k] = now
	}
	return plain
}

// compareValues orders missing values first, then by value for the types
// the console stores.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case int:
		if bv, ok := toFloat(b); ok {
			return cmp.Compare(float64(av), bv)
		}
	case int64:
		if bv, ok := toFloat(b); ok {
			return cmp.Compare(float64(av), bv)
		}
	case float64:
		if bv, ok := toFloat(b); ok {
			return cmp.Compare(av, bv)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
