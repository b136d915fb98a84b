// Package docstore is the document database the console writes to. Records
// live in named collections, keyed by a string id, and hold a flat map of
// fields. Backends: MongoDB, Firestore and an in-memory store.
package docstore

import (
	"context"
	"errors"
	"time"
)

// Direction is the sort order of a Query.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ErrNotFound is returned by Get when the document does not exist.
var ErrNotFound = errors.New("document not found")

type serverTimestamp struct{}

// ServerTimestamp used as a field value asks the backend to stamp the field
// with its own clock at write time.
var ServerTimestamp = serverTimestamp{}

// Fields is the content of a document.
type Fields map[string]any

// Document is a stored record together with its store-assigned id.
type Document struct {
	ID     string
	Fields Fields
}

// String returns the field as a string, or "" when it is absent or not a string.
func (d Document) String(key string) string {
	s, _ := d.Fields[key].(string)
	return s
}

// Time returns the field as a time, or the zero time.
func (d Document) Time(key string) time.Time {
	t, _ := d.Fields[key].(time.Time)
	return t
}

// Store is implemented by every backend.
type Store interface {
	// Insert adds a document under a new store-generated id.
	Insert(ctx context.Context, collection string, fields Fields) (string, error)
	// Query returns every document of the collection ordered by field.
	Query(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error)
	// Get looks a single document up by id.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// DeleteByID removes a document. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, collection, id string) error
	// UpsertMerge creates the document or merges fields into it, keeping
	// fields that are not named.
	UpsertMerge(ctx context.Context, collection, id string, fields Fields) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// splitServerTimestamps separates plain values from fields that must be
// stamped by the server.
func splitServerTimestamps(fields Fields) (Fields, []string) {
	plain := make(Fields, len(fields))
	var stamped []string
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			stamped = append(stamped, k)
			continue
		}
		plain[k] = v
	}
	return plain, stamped
}
