package config

import (
	"context"
	"fmt"
	"time"

	"SchoolCMS/internal/docstore"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// OpenDocumentStore connects the configured backend. The caller closes it.
func OpenDocumentStore(ctx context.Context, cfg AppConfig, log *zap.Logger) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case BackendFirestore:
		store, err := docstore.NewFirestoreStore(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("connect to firestore: %w", err)
		}
		log.Info("Connected to Firestore", zap.String("project", cfg.FirestoreProjectID))
		return store, nil

	case BackendMemory:
		log.Warn("using the in-memory document store; data is lost on exit")
		return docstore.NewMemoryStore(), nil
	}

	db, err := connectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureIndexes(ctx, db); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return docstore.NewMongoStore(db), nil
}

func connectMongo(ctx context.Context, cfg AppConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client.Database(cfg.MongoDatabase), nil
}

// ensureIndexes backs the sorted listings.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	indexes := map[string]string{
		"notices":      "date",
		"achievements": "created_at",
	}
	for collection, field := range indexes {
		model := mongo.IndexModel{Keys: bson.D{{Key: field, Value: -1}}}
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s.%s: %w", collection, field, err)
		}
	}
	return nil
}

// NewDocumentStore provides the store to the fx graph and closes it on stop.
func NewDocumentStore(lc fx.Lifecycle, cfg AppConfig, log *zap.Logger) (docstore.Store, error) {
	store, err := OpenDocumentStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing document store ...")
			return store.Close(ctx)
		},
	})
	return store, nil
}
