package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore keeps each collection in a MongoDB collection of the same name.
// Server timestamps are written with $currentDate so they come from the
// mongod clock.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	id := primitive.NewObjectID()
	update := buildUpdate(fields)
	if len(update) == 0 {
		if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M{"_id": id}); err != nil {
			return "", err
		}
		return id.Hex(), nil
	}

	// An upsert on a fresh id is an insert that can still use $currentDate.
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (s *MongoStore) Query(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	order := 1
	if dir == Descending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: orderBy, Value: order}})

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	doc := fromBSON(raw)
	return &doc, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, collection, id string) error {
	// DeletedCount == 0 is fine: the document is gone either way.
	_, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	return err
}

func (s *MongoStore) UpsertMerge(ctx context.Context, collection, id string, fields Fields) error {
	update := buildUpdate(fields)
	if len(update) == 0 {
		update = bson.M{"$setOnInsert": bson.M{"_id": id}}
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// buildUpdate turns fields into a $set / $currentDate update document.
func buildUpdate(fields Fields) bson.M {
	plain, stamped := splitServerTimestamps(fields)
	update := bson.M{}
	if len(plain) > 0 {
		update["$set"] = bson.M(plain)
	}
	if len(stamped) > 0 {
		current := bson.M{}
		for _, k := range stamped {
			current[k] = true
		}
		update["$currentDate"] = current
	}
	return update
}

// idFilter matches documents created by Insert (ObjectID) as well as
// documents written under a fixed string id.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func fromBSON(m bson.M) Document {
	doc := Document{Fields: make(Fields, len(m))}
	for k, v := range m {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				doc.ID = id.Hex()
			case string:
				doc.ID = id
			default:
				doc.ID = fmt.Sprint(id)
			}
			continue
		}
		doc.Fields[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(val.T), 0).UTC()
	case primitive.ObjectID:
		return val.Hex()
	default:
		return v
	}
}
