package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sgerrors "github.com/osduviz/schemagraph/pkg/errors"
	"github.com/osduviz/schemagraph/pkg/graph"
)

const graphsCollection = "graphs"

// SavedGraph is a named graph snapshot persisted by the API so users can
// share a stable link to an extracted view.
type SavedGraph struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name,omitempty" bson:"name,omitempty"`
	SchemaID  string      `json:"schemaId,omitempty" bson:"schemaId,omitempty"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}

// GraphStore persists saved graphs in MongoDB.
type GraphStore struct {
	coll *mongo.Collection
}

// NewGraphStore connects to MongoDB and returns a store over the graphs
// collection.
func NewGraphStore(ctx context.Context, uri, database string) (*GraphStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeStore, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, sgerrors.Wrap(sgerrors.ErrCodeStore, err, "ping mongo")
	}
	return &GraphStore{coll: client.Database(database).Collection(graphsCollection)}, nil
}

// Save stores the graph and returns it with id and timestamp populated.
func (s *GraphStore) Save(ctx context.Context, g SavedGraph) (SavedGraph, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, g); err != nil {
		return SavedGraph{}, sgerrors.Wrap(sgerrors.ErrCodeStore, err, "insert graph")
	}
	return g, nil
}

// Get fetches a saved graph by id.
func (s *GraphStore) Get(ctx context.Context, id string) (SavedGraph, error) {
	var g SavedGraph
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return SavedGraph{}, sgerrors.New(sgerrors.ErrCodeGraphNotFound, "graph %s not found", id)
	}
	if err != nil {
		return SavedGraph{}, sgerrors.Wrap(sgerrors.ErrCodeStore, err, "find graph %s", id)
	}
	return g, nil
}

// Close disconnects the underlying client.
func (s *GraphStore) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}
