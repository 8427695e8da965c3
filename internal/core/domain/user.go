package domain

import (
	"errors"
	"strings"
	"time"
)

// Role identifies what an account is allowed to do.
type Role string

const (
	RoleResident Role = "resident"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleResident || r == RoleStaff || r == RoleAdmin
}

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDisabled = errors.New("account is deactivated")
var ErrSelfDelete = errors.New("an account cannot delete itself")

// User models an account in the community directory.
// PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Apartment    string    `json:"apartment,omitempty" bson:"apartment,omitempty"`
	Building     string    `json:"building,omitempty" bson:"building,omitempty"`
	CommunityID  string    `json:"community_id,omitempty" bson:"community_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// NormalizeEmail lowercases and trims an email address. All lookups and the
// unique index operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserSummary is the projection of a user embedded in other resources
// (complaint submitter, note author, assignment assignee).
type UserSummary struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// Summary returns the embeddable projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
