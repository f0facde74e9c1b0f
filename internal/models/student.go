package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the persisted student record. rollNumber and email carry unique
// indexes; name/email/department share a text index for search.
type Student struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	RollNumber string             `bson:"rollNumber" json:"rollNumber"`
	Email      string             `bson:"email" json:"email"`
	Department string             `bson:"department" json:"department"`
	GPA        float64            `bson:"gpa" json:"gpa"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DepartmentCount is one row of the dashboard's top-departments aggregation.
type DepartmentCount struct {
	Department string `bson:"_id" json:"department"`
	Count      int64  `bson:"count" json:"count"`
}

// DashboardStats backs the home page.
type DashboardStats struct {
	TotalStudents  int64
	TopDepartments []DepartmentCount
	AverageGPA     float64
}
