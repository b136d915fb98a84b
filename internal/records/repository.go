// Package records is the generic create / list / delete / upsert contract the
// collection controllers are written against.
package records

import (
	"context"
	"errors"
	"maps"

	"SchoolCMS/internal/docstore"

	"go.uber.org/zap"
)

const (
	// CreatedAtField is stamped by the store clock on every Create.
	CreatedAtField = "created_at"
	// UpdatedAtField is stamped by the store clock on every UpsertSingleton.
	UpdatedAtField = "updated_at"
)

// Repository performs record operations against named collections.
type Repository struct {
	store docstore.Store
	log   *zap.Logger
}

// NewRepository creates a repository over the given document store.
func NewRepository(store docstore.Store, log *zap.Logger) *Repository {
	return &Repository{store: store, log: log.Named("records")}
}

// Create inserts a new document and returns its store-generated id.
// CreatedAtField is always set by the server, whatever the caller passed.
func (r *Repository) Create(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	doc := maps.Clone(fields)
	if doc == nil {
		doc = docstore.Fields{}
	}
	doc[CreatedAtField] = docstore.ServerTimestamp

	id, err := r.store.Insert(ctx, collection, doc)
	if err != nil {
		r.log.Error("create failed", zap.String("collection", collection), zap.Error(err))
		return "", &StoreWriteError{Op: "create", Collection: collection, Err: err}
	}
	return id, nil
}

// ListOrdered returns the whole collection in the store's order. An empty
// result is an empty slice with a nil error.
func (r *Repository) ListOrdered(ctx context.Context, collection, sortField string, dir docstore.Direction) ([]docstore.Document, error) {
	docs, err := r.store.Query(ctx, collection, sortField, dir)
	if err != nil {
		r.log.Error("list failed",
			zap.String("collection", collection),
			zap.String("sort", sortField),
			zap.Stringer("direction", dir),
			zap.Error(err))
		return nil, &StoreReadError{Op: "list", Collection: collection, Err: err}
	}
	if docs == nil {
		docs = []docstore.Document{}
	}
	return docs, nil
}

// Delete removes a document. A missing id is not an error.
func (r *Repository) Delete(ctx context.Context, collection, id string) error {
	if err := r.store.DeleteByID(ctx, collection, id); err != nil {
		r.log.Error("delete failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return &StoreWriteError{Op: "delete", Collection: collection, Err: err}
	}
	return nil
}

// UpsertSingleton merges fields into the fixed-id document, creating it if
// needed. Fields not named in the call keep their stored value.
func (r *Repository) UpsertSingleton(ctx context.Context, collection, fixedID string, fields docstore.Fields) error {
	doc := maps.Clone(fields)
	if doc == nil {
		doc = docstore.Fields{}
	}
	doc[UpdatedAtField] = docstore.ServerTimestamp

	if err := r.store.UpsertMerge(ctx, collection, fixedID, doc); err != nil {
		r.log.Error("upsert failed", zap.String("collection", collection), zap.String("id", fixedID), zap.Error(err))
		return &StoreWriteError{Op: "upsert", Collection: collection, Err: err}
	}
	return nil
}

// FetchSingleton looks the fixed-id document up directly. It returns nil, nil
// when the document has never been written.
func (r *Repository) FetchSingleton(ctx context.Context, collection, fixedID string) (*docstore.Document, error) {
	doc, err := r.store.Get(ctx, collection, fixedID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		r.log.Error("fetch failed", zap.String("collection", collection), zap.String("id", fixedID), zap.Error(err))
		return nil, &StoreReadError{Op: "fetch", Collection: collection, Err: err}
	}
	return doc, nil
}

// Ping reports whether the document store answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
