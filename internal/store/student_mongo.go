package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStudentStore persists students in the "students" collection.
// Uniqueness (rollNumber, email) is enforced by the collection's unique
// indexes, so concurrent writers get exactly one success per key.
type MongoStudentStore struct {
	coll *mongo.Collection
}

func NewMongoStudentStore(db *mongo.Database) *MongoStudentStore {
	return &MongoStudentStore{coll: db.Collection("students")}
}

// mapWriteError converts a Mongo duplicate-key failure (code 11000) into a
// *DuplicateKeyError naming the offending field, extracted from the index
// name embedded in the driver's error message.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		for _, field := range []string{"rollNumber", "username", "email"} {
			if strings.Contains(msg, field) {
				return &DuplicateKeyError{Field: field}
			}
		}
		return &DuplicateKeyError{Field: "record"}
	}
	return err
}

func (st *MongoStudentStore) Create(ctx context.Context, s *models.Student) error {
	if err := checkStudentSchema(s); err != nil {
		return err
	}
	now := time.Now().UTC()
	s.ID = primitive.NilObjectID
	s.CreatedAt = now
	s.UpdatedAt = now
	res, err := st.coll.InsertOne(ctx, s)
	if err != nil {
		return mapWriteError(err)
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (st *MongoStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var s models.Student
	if err := st.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// mongoFilter builds the match document: text search, exact department, and
// inclusive gpa bounds, each applied independently.
func (q StudentQuery) mongoFilter() bson.M {
	filter := bson.M{}
	if q.Q != "" {
		filter["$text"] = bson.M{"$search": q.Q}
	}
	if q.Department != "" {
		filter["department"] = q.Department
	}
	gpa := bson.M{}
	if q.MinGPA != nil {
		gpa["$gte"] = *q.MinGPA
	}
	if q.MaxGPA != nil {
		gpa["$lte"] = *q.MaxGPA
	}
	if len(gpa) > 0 {
		filter["gpa"] = gpa
	}
	return filter
}

func (q StudentQuery) mongoSort() bson.D {
	dir := -1
	if q.Ascending() {
		dir = 1
	}
	return bson.D{{Key: q.SortBy, Value: dir}}
}

func (st *MongoStudentStore) FindMany(ctx context.Context, q StudentQuery) ([]models.Student, error) {
	opts := options.Find().
		SetSort(q.mongoSort()).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))
	cur, err := st.coll.Find(ctx, q.mongoFilter(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	students := []models.Student{}
	if err := cur.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (st *MongoStudentStore) Count(ctx context.Context, q StudentQuery) (int64, error) {
	return st.coll.CountDocuments(ctx, q.mongoFilter())
}

func (st *MongoStudentStore) UpdateByID(ctx context.Context, id string, s *models.Student) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := checkStudentSchema(s); err != nil {
		return err
	}
	var existing models.Student
	if err := st.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	s.ID = oid
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	res, err := st.coll.ReplaceOne(ctx, bson.M{"_id": oid}, s)
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (st *MongoStudentStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids behave like absent records; delete stays idempotent.
		return nil
	}
	_, err = st.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (st *MongoStudentStore) Stats(ctx context.Context) (*models.DashboardStats, error) {
	total, err := st.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{TotalStudents: total, TopDepartments: []models.DepartmentCount{}}
	if total == 0 {
		return stats, nil
	}

	topPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$department"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 5}},
	}
	cur, err := st.coll.Aggregate(ctx, topPipeline)
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &stats.TopDepartments); err != nil {
		return nil, err
	}

	avgPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$gpa"}}},
		}}},
	}
	cur, err = st.coll.Aggregate(ctx, avgPipeline)
	if err != nil {
		return nil, err
	}
	var avg []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &avg); err != nil {
		return nil, err
	}
	if len(avg) > 0 {
		stats.AverageGPA = avg[0].Avg
	}
	return stats, nil
}
