package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formdeck/formdeck/pkg/errors"
	"github.com/formdeck/formdeck/pkg/form"
)

const mongoCollection = "documents"

// MongoStore is a MongoDB-backed document store for hosted deployments.
// Documents are stored in the "documents" collection, one BSON document
// per form, keyed by the "id" field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and uses the given database.
// The connection is verified with a ping before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*form.Document, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	var doc form.Document
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find document %q", id)
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document %q", id)
	}
	return &doc, nil
}

func (s *MongoStore) Put(ctx context.Context, doc *form.Document) error {
	if err := errors.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "document %q", doc.ID)
	}

	cp := *doc
	cp.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"id": doc.ID}, &cp, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert document %q", doc.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}

	if _, err := s.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %q", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list documents")
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var doc form.Document
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode document")
		}
		out = append(out, summarize(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate documents")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
