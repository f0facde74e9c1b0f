package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zebmuhammad/Student-Management-System/auth"
	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStudentStore is an in-process StudentStore with the same observable
// semantics as the Mongo store: atomic uniqueness under a single mutex and a
// case-insensitive substring fallback for text search. Backs tests and
// MONGO_DISABLED development mode.
type MemoryStudentStore struct {
	mu       sync.Mutex
	students map[primitive.ObjectID]models.Student
}

func NewMemoryStudentStore() *MemoryStudentStore {
	return &MemoryStudentStore{students: map[primitive.ObjectID]models.Student{}}
}

func (st *MemoryStudentStore) Create(_ context.Context, s *models.Student) error {
	if err := checkStudentSchema(s); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, existing := range st.students {
		if existing.RollNumber == s.RollNumber {
			return &DuplicateKeyError{Field: "rollNumber"}
		}
		if existing.Email == s.Email {
			return &DuplicateKeyError{Field: "email"}
		}
	}
	now := time.Now().UTC()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = now
	s.UpdatedAt = now
	st.students[s.ID] = *s
	return nil
}

func (st *MemoryStudentStore) FindByID(_ context.Context, id string) (*models.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.students[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (q StudentQuery) matches(s models.Student) bool {
	if q.Q != "" {
		needle := strings.ToLower(q.Q)
		if !strings.Contains(strings.ToLower(s.Name), needle) &&
			!strings.Contains(strings.ToLower(s.Email), needle) &&
			!strings.Contains(strings.ToLower(s.Department), needle) {
			return false
		}
	}
	if q.Department != "" && s.Department != q.Department {
		return false
	}
	if q.MinGPA != nil && s.GPA < *q.MinGPA {
		return false
	}
	if q.MaxGPA != nil && s.GPA > *q.MaxGPA {
		return false
	}
	return true
}

func (q StudentQuery) less(a, b models.Student) bool {
	var cmp int
	switch q.SortBy {
	case "name":
		cmp = strings.Compare(a.Name, b.Name)
	case "rollNumber":
		cmp = strings.Compare(a.RollNumber, b.RollNumber)
	case "email":
		cmp = strings.Compare(a.Email, b.Email)
	case "department":
		cmp = strings.Compare(a.Department, b.Department)
	case "gpa":
		switch {
		case a.GPA < b.GPA:
			cmp = -1
		case a.GPA > b.GPA:
			cmp = 1
		}
	default:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	}
	if cmp == 0 {
		cmp = strings.Compare(a.ID.Hex(), b.ID.Hex())
	}
	if q.Ascending() {
		return cmp < 0
	}
	return cmp > 0
}

func (st *MemoryStudentStore) collect(q StudentQuery) []models.Student {
	matched := []models.Student{}
	for _, s := range st.students {
		if q.matches(s) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return q.less(matched[i], matched[j]) })
	return matched
}

func (st *MemoryStudentStore) FindMany(_ context.Context, q StudentQuery) ([]models.Student, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	matched := st.collect(q)
	start := int(q.Skip())
	if start >= len(matched) {
		return []models.Student{}, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (st *MemoryStudentStore) Count(_ context.Context, q StudentQuery) (int64, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return int64(len(st.collect(q))), nil
}

func (st *MemoryStudentStore) UpdateByID(_ context.Context, id string, s *models.Student) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := checkStudentSchema(s); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	existing, ok := st.students[oid]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range st.students {
		if otherID == oid {
			continue
		}
		if other.RollNumber == s.RollNumber {
			return &DuplicateKeyError{Field: "rollNumber"}
		}
		if other.Email == s.Email {
			return &DuplicateKeyError{Field: "email"}
		}
	}
	s.ID = oid
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	st.students[oid] = *s
	return nil
}

func (st *MemoryStudentStore) DeleteByID(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.students, oid)
	return nil
}

func (st *MemoryStudentStore) Stats(_ context.Context) (*models.DashboardStats, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	stats := &models.DashboardStats{
		TotalStudents:  int64(len(st.students)),
		TopDepartments: []models.DepartmentCount{},
	}
	if len(st.students) == 0 {
		return stats, nil
	}
	counts := map[string]int64{}
	var sum float64
	for _, s := range st.students {
		counts[s.Department]++
		sum += s.GPA
	}
	for dept, n := range counts {
		stats.TopDepartments = append(stats.TopDepartments, models.DepartmentCount{Department: dept, Count: n})
	}
	sort.Slice(stats.TopDepartments, func(i, j int) bool {
		a, b := stats.TopDepartments[i], stats.TopDepartments[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Department < b.Department
	})
	if len(stats.TopDepartments) > 5 {
		stats.TopDepartments = stats.TopDepartments[:5]
	}
	stats.AverageGPA = sum / float64(len(st.students))
	return stats, nil
}

// MemoryUserStore is the in-process UserStore counterpart.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (st *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	if err := checkUserSchema(u); err != nil {
		return err
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, existing := range st.users {
		if existing.Username == u.Username {
			return &DuplicateKeyError{Field: "username"}
		}
		if existing.Email == u.Email {
			return &DuplicateKeyError{Field: "email"}
		}
	}
	u.Password = hash
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.IsActive = true
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	st.users[u.ID] = *u
	return nil
}

func (st *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	u, ok := st.users[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (st *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, u := range st.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (st *MemoryUserStore) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, u := range st.users {
		if u.Username == username || u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// SetActive flips an account's active flag; test helper for the inactive
// login path.
func (st *MemoryUserStore) SetActive(id string, active bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if u, ok := st.users[oid]; ok {
		u.IsActive = active
		st.users[oid] = u
	}
}
