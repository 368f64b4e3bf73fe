package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/serroba/user-lookup-go/internal/records"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecordStore is a MongoDB implementation of records.Repository.
// Documents are returned in relaxed extended JSON shape.
type MongoRecordStore struct {
	db *mongo.Database
}

// NewMongoRecordStore creates a record store reading from db.
func NewMongoRecordStore(db *mongo.Database) *MongoRecordStore {
	return &MongoRecordStore{db: db}
}

func (m *MongoRecordStore) FindOne(
	ctx context.Context, collection string, filter records.Filter, projection records.Projection,
) (records.Document, error) {
	query, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(mongoProjection(projection))
	}

	var raw bson.M

	err = m.db.Collection(collection).FindOne(ctx, query, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, records.ErrNotFound
		}

		return nil, err
	}

	return toDocument(raw)
}

// Ping checks MongoDB connectivity.
func (m *MongoRecordStore) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

// toDocument converts a decoded BSON document to its extended JSON shape,
// so object ids and dates arrive as {"$oid": ...} and {"$date": ...}.
func toDocument(raw bson.M) (records.Document, error) {
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode extended json: %w", err)
	}

	var doc records.Document
	if err := json.Unmarshal(ext, &doc); err != nil {
		return nil, fmt.Errorf("decode extended json: %w", err)
	}

	return doc, nil
}

func mongoFilter(f records.Filter) (bson.M, error) {
	clauses := make(bson.A, 0, len(f.AnyOf))

	for _, c := range f.AnyOf {
		value, err := mongoValue(c.Value)
		if err != nil {
			return nil, err
		}

		switch c.Kind {
		case records.MatchContains:
			clauses = append(clauses, bson.M{c.Field: bson.M{"$elemMatch": bson.M{"$eq": value}}})
		default:
			clauses = append(clauses, bson.M{c.Field: value})
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, nil
	case 1:
		return clauses[0].(bson.M), nil
	default:
		return bson.M{"$or": clauses}, nil
	}
}

func mongoValue(v any) (any, error) {
	id, ok := v.(records.ObjectID)
	if !ok {
		return v, nil
	}

	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, fmt.Errorf("object id %q: %w", id, err)
	}

	return oid, nil
}

func mongoProjection(p records.Projection) bson.D {
	out := make(bson.D, 0, len(p))
	for _, field := range p {
		out = append(out, bson.E{Key: field, Value: 1})
	}

	return out
}

// Compile-time check.
var _ records.Repository = (*MongoRecordStore)(nil)
