// Package db owns the Mongo connection and bootstrap-time index creation.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client, verifies connectivity, and returns the database
// handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URI is empty, check the environment configuration")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the schema-level constraints the application relies
// on: unique indexes backing duplicate detection, the text index backing
// search, and the session TTL index. Creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	students := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rollNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("rollNumber_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "email", Value: "text"},
				{Key: "department", Value: "text"},
			},
			Options: options.Index().SetName("student_text_search"),
		},
	}
	if _, err := db.Collection("students").Indexes().CreateMany(ctx, students); err != nil {
		return fmt.Errorf("students indexes: %w", err)
	}

	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	sessions := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("session_ttl"),
		},
	}
	if _, err := db.Collection("sessions").Indexes().CreateMany(ctx, sessions); err != nil {
		return fmt.Errorf("sessions indexes: %w", err)
	}
	return nil
}
