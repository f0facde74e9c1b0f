package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"github.com/zebmuhammad/Student-Management-System/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by lookups when no record matches the id.
var ErrNotFound = errors.New("record not found")

// DuplicateKeyError reports a unique-index collision and which field caused it.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string { return e.Field + " already exists" }

// DuplicateField unwraps err into the colliding field name, if any.
func DuplicateField(err error) (string, bool) {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// SchemaError is raised by the stores' own revalidation pass. Handlers
// validate first, so stores seeing bad data means a handler bug; the rules
// are enforced twice on purpose.
type SchemaError struct {
	Violations validation.Errors
}

func (e *SchemaError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "schema validation failed: " + strings.Join(msgs, "; ")
}

// ValidID reports whether id is syntactically a valid record identifier.
// Routes reject malformed ids before any store call.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// StudentStore is the persistence contract for student records.
type StudentStore interface {
	// Create inserts the record, filling ID/CreatedAt/UpdatedAt. Returns
	// *DuplicateKeyError when rollNumber or email collides.
	Create(ctx context.Context, s *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	// FindMany returns the page of records selected by q (filter, sort,
	// skip, limit all derive from q).
	FindMany(ctx context.Context, q StudentQuery) ([]models.Student, error)
	// Count returns the number of records matching q's filter, ignoring
	// pagination.
	Count(ctx context.Context, q StudentQuery) (int64, error)
	// UpdateByID replaces every field of the record. Returns ErrNotFound if
	// absent and *DuplicateKeyError on collision with a different record.
	UpdateByID(ctx context.Context, id string, s *models.Student) error
	// DeleteByID is idempotent; deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error
	// Stats aggregates the dashboard numbers.
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// UserStore is the persistence contract for account records.
type UserStore interface {
	// Create hashes u.Password (submitted plaintext) before persisting.
	// Returns *DuplicateKeyError when username or email collides.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByUsernameOrEmail is the combined signup uniqueness lookup.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

// checkStudentSchema re-runs the student field rules at the storage boundary
// and writes the normalized values back, so a record reaching the store with
// an unnormalized roll number or email still lands in canonical form and
// collides with its unique-index twin.
func checkStudentSchema(s *models.Student) error {
	in := validation.StudentInput{
		Name:       s.Name,
		RollNumber: s.RollNumber,
		Email:      s.Email,
		Department: s.Department,
		// Already resolved by the caller; keep the sentinel path inert.
		CustomDepartment: s.Department,
		GPA:              strconv.FormatFloat(s.GPA, 'f', -1, 64),
	}
	fields, errs := validation.ValidateStudent(in)
	if !errs.Empty() {
		return &SchemaError{Violations: errs}
	}
	s.Name = fields.Name
	s.RollNumber = fields.RollNumber
	s.Email = fields.Email
	s.Department = fields.Department
	s.GPA = fields.GPA
	return nil
}
