package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is the subset of *mongo.Collection used by Storage.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

type queueDocument struct {
	Name      string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Storage keeps each queue as one document whose _id is the queue name.
type Storage struct {
	coll Collection
	now  func() time.Time
}

func NewStorage(coll Collection) *Storage {
	return &Storage{coll: coll, now: time.Now}
}

func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyQueueName
	}

	var doc queueDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	if doc.Data == nil {
		return []byte{}, nil
	}
	return doc.Data, nil
}

func (s *Storage) Save(ctx context.Context, name string, blob []byte) error {
	if name == "" {
		return ErrEmptyQueueName
	}
	if blob == nil {
		blob = []byte{}
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "data", Value: blob},
			{Key: "updated_at", Value: s.now().UTC()},
		}}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}
