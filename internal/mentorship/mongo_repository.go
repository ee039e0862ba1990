package mentorship

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding bookings.
const CollectionName = "mentorships"

// MongoRepository stores bookings as documents.
type MongoRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	if db == nil {
		panic("mentorship: mongo database required")
	}
	return &MongoRepository{
		collection: db.Collection(CollectionName),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *MongoRepository) Insert(ctx context.Context, b *Booking) (*Booking, error) {
	stored := prepareInsert(b, r.now())
	if _, err := r.collection.InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("mentorship: mongo insert: %w", err)
	}
	return stored, nil
}

func (r *MongoRepository) List(ctx context.Context, skip, limit int) ([]*Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mentorship: mongo find: %w", err)
	}
	out := []*Booking{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mentorship: mongo decode: %w", err)
	}
	return out, nil
}

var _ Repository = (*MongoRepository)(nil)
