package models

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserJSONOmitsPassword(t *testing.T) {
	u := User{
		ID:       primitive.NewObjectID(),
		Username: "jsmith",
		Email:    "j@example.com",
		Password: "$2a$12$notarealhashbutclosexxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Role:     RoleUser,
		IsActive: true,
	}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "password") || strings.Contains(s, u.Password) {
		t.Fatalf("password must not appear in JSON: %s", s)
	}
	if !strings.Contains(s, `"username":"jsmith"`) {
		t.Fatalf("expected username in JSON: %s", s)
	}
}

func TestUserPublic(t *testing.T) {
	u := User{ID: primitive.NewObjectID(), Username: "jsmith", Email: "j@example.com", Password: "hash", Role: RoleAdmin, IsActive: false}
	p := u.Public()
	if p.ID != u.ID.Hex() || p.Username != "jsmith" || p.Role != RoleAdmin || p.IsActive {
		t.Fatalf("unexpected public shape: %+v", p)
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "hash") {
		t.Fatalf("public user leaked the hash: %s", b)
	}
}
