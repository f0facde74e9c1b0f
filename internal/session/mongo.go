package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore keeps sessions in a "sessions" collection. A TTL index on
// expiresAt reaps expired documents; Get also checks the deadline itself
// since the Mongo reaper only runs about once a minute.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

type sessionDoc struct {
	ID        string    `bson:"_id"`
	Data      Data      `bson:"data"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("sessions"), now: time.Now}
}

func (s *MongoStore) Create(ctx context.Context, data Data) (string, error) {
	doc := sessionDoc{
		ID:        uuid.NewString(),
		Data:      data,
		ExpiresAt: s.now().UTC().Add(TTL),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Data, error) {
	var doc sessionDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.ExpiresAt.Before(s.now()) {
		_, _ = s.coll.DeleteOne(ctx, bson.M{"_id": id})
		return nil, ErrNotFound
	}
	data := doc.Data
	return &data, nil
}

func (s *MongoStore) Destroy(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
