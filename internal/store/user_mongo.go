package store

import (
	"context"
	"errors"
	"time"

	"github.com/zebmuhammad/Student-Management-System/auth"
	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"github.com/zebmuhammad/Student-Management-System/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserStore persists accounts in the "users" collection. Password
// hashing happens here, at the storage boundary, so a plaintext password can
// never reach the database.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

// checkUserSchema re-runs the signup field rules against the record. Expects
// u.Password to still be plaintext.
func checkUserSchema(u *models.User) error {
	in := validation.SignupInput{
		Username:        u.Username,
		Email:           u.Email,
		Password:        u.Password,
		ConfirmPassword: u.Password,
	}
	if _, errs := validation.ValidateSignup(in); !errs.Empty() {
		return &SchemaError{Violations: errs}
	}
	return nil
}

func (st *MongoUserStore) Create(ctx context.Context, u *models.User) error {
	if err := checkUserSchema(u); err != nil {
		return err
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.IsActive = true
	now := time.Now().UTC()
	u.ID = primitive.NilObjectID
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := st.coll.InsertOne(ctx, u)
	if err != nil {
		return mapWriteError(err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (st *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return st.findOne(ctx, bson.M{"_id": oid})
}

func (st *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return st.findOne(ctx, bson.M{"email": email})
}

// FindByUsernameOrEmail backs the signup conflict check with one round-trip.
func (st *MongoUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return st.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
}

func (st *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := st.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
