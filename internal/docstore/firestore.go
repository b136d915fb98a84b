package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore stores collections as top-level Firestore collections.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects with application default credentials, or to the
// emulator when FIRESTORE_EMULATOR_HOST is set.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestore(fields))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	order := firestore.Asc
	if dir == Descending {
		order = firestore.Desc
	}
	snaps, err := s.client.Collection(collection).OrderBy(orderBy, order).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *FirestoreStore) DeleteByID(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) UpsertMerge(ctx context.Context, collection, id string, fields Fields) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, toFirestore(fields), firestore.MergeAll)
	return err
}

// Ping reads a sentinel document; NotFound still proves the backend answers.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection("_health").Doc("ping").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return err
	}
	return nil
}

func (s *FirestoreStore) Close(context.Context) error {
	return s.client.Close()
}

func toFirestore(fields Fields) map[string]interface{} {
	data := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			data[k] = firestore.ServerTimestamp
			continue
		}
		data[k] = v
	}
	return data
}
