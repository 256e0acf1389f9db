package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKV is a KV backend on a MongoDB collection with documents of the
// form {_id: key, value: <json string>}.
type MongoKV struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoKV connects to MongoDB and verifies the connection
func NewMongoKV(ctx context.Context, uri, database, collection string) (*MongoKV, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoKV{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

type kvDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func (m *MongoKV) Get(ctx context.Context, key string) (string, error) {
	var doc kvDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return doc.Value, nil
}

func (m *MongoKV) Set(ctx context.Context, key, value string) error {
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		kvDocument{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (m *MongoKV) Delete(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (m *MongoKV) Close() error {
	return m.client.Disconnect(context.Background())
}
