package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert returns the generated object id", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		id, err := s.Insert(ctx, "notices", Fields{"title_en": "Exam", "created_at": ServerTimestamp})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})

	mt.Run("insert surfaces write errors", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    13,
			Message: "not authorized",
		}))

		_, err := s.Insert(ctx, "notices", Fields{"title_en": "Exam"})
		assert.Error(mt, err)
	})

	mt.Run("query converts ids and dates", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		oid := primitive.NewObjectID()
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".achievements", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: oid},
				{Key: "title", Value: "Science fair"},
				{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
			},
		))

		docs, err := s.Query(ctx, "achievements", "created_at", Descending)
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		assert.Equal(mt, oid.Hex(), docs[0].ID)
		assert.Equal(mt, "Science fair", docs[0].String("title"))
		assert.Equal(mt, created, docs[0].Time("created_at"))
	})

	mt.Run("query surfaces command errors", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "unauthorized",
			Name:    "Unauthorized",
		}))

		docs, err := s.Query(ctx, "notices", "date", Descending)
		assert.Error(mt, err)
		assert.Nil(mt, docs)
	})

	mt.Run("get on a missing id is ErrNotFound", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".principalMessage", mtest.FirstBatch))

		doc, err := s.Get(ctx, "principalMessage", "main_message")
		assert.Nil(mt, doc)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("get keeps string ids", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".principalMessage", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "main_message"}, {Key: "name", Value: "A"}},
		))

		doc, err := s.Get(ctx, "principalMessage", "main_message")
		require.NoError(mt, err)
		assert.Equal(mt, "main_message", doc.ID)
		assert.Equal(mt, "A", doc.String("name"))
	})

	mt.Run("delete of a missing id succeeds", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.NoError(mt, s.DeleteByID(ctx, "notices", primitive.NewObjectID().Hex()))
	})

	mt.Run("upsert merge", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := s.UpsertMerge(ctx, "principalMessage", "main_message", Fields{"name": "X", "updated_at": ServerTimestamp})
		assert.NoError(mt, err)
	})
}

func TestBuildUpdate(t *testing.T) {
	update := buildUpdate(Fields{"name": "X", "updated_at": ServerTimestamp})

	assert.Equal(t, bson.M{"name": "X"}, update["$set"])
	assert.Equal(t, bson.M{"updated_at": true}, update["$currentDate"])
}

func TestBuildUpdateOnlyTimestamps(t *testing.T) {
	update := buildUpdate(Fields{"updated_at": ServerTimestamp})

	_, hasSet := update["$set"]
	assert.False(t, hasSet)
	assert.Equal(t, bson.M{"updated_at": true}, update["$currentDate"])
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, bson.M{"_id": "main_message"}, idFilter("main_message"))
	assert.Equal(t, bson.M{"_id": bson.M{"$in": bson.A{oid, oid.Hex()}}}, idFilter(oid.Hex()))
}
