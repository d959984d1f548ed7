package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/graph"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	// URI is the MongoDB connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database name. Defaults to "kintree".
	Database string

	// ConnectTimeout bounds the initial connect and ping. Defaults to
	// 10 seconds.
	ConnectTimeout time.Duration
}

// Mongo is a MongoDB-backed Store. Trees are stored as single documents
// in the "trees" collection, keyed by tree ID.
type Mongo struct {
	client *mongo.Client
	trees  *mongo.Collection
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = "kintree"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping %s", cfg.URI)
	}

	return &Mongo{
		client: client,
		trees:  client.Database(cfg.Database).Collection("trees"),
	}, nil
}

// CreateTree stores a new tree.
func (m *Mongo) CreateTree(ctx context.Context, t *graph.Tree) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, err := m.trees.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeConflict, "tree %s already exists", t.ID)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "insert tree %s", t.ID)
	}
	return nil
}

// GetTree retrieves a tree by ID.
func (m *Mongo) GetTree(ctx context.Context, id string) (*graph.Tree, error) {
	var t graph.Tree
	err := m.trees.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeTreeNotFound, "tree %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find tree %s", id)
	}
	return &t, nil
}

// ListTrees returns summaries of all trees, sorted by name then ID.
func (m *Mongo) ListTrees(ctx context.Context) ([]TreeSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"name":       1,
			"updated_at": 1,
			"persons":    bson.M{"$size": bson.M{"$ifNull": []any{"$persons", []any{}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := m.trees.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list trees")
	}
	defer cur.Close(ctx)

	out := []TreeSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode tree summaries")
	}
	return out, nil
}

// UpdateTree replaces a stored tree and refreshes its UpdatedAt.
func (m *Mongo) UpdateTree(ctx context.Context, t *graph.Tree) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Touch()

	res, err := m.trees.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "replace tree %s", t.ID)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %s", t.ID)
	}
	return nil
}

// DeleteTree removes a tree.
func (m *Mongo) DeleteTree(ctx context.Context, id string) error {
	res, err := m.trees.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete tree %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeTreeNotFound, "tree %s", id)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
