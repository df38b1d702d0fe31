package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account role discriminators as stored in the accounts table.
const (
	RoleTutor    = 0
	RoleStudent  = 1
	RoleGuardian = 2
)

// Account binds a login to exactly one role entity. Username is unique
// across all roles, enforced by the accounts_username_key constraint.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Type         int       `db:"type" json:"type"`
	StudentID    *int64    `db:"student_id" json:"student_id,omitempty"`
	TutorID      *int64    `db:"tutor_id" json:"tutor_id,omitempty"`
	GuardianID   *int64    `db:"guardian_id" json:"guardian_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Role maps the stored discriminator to the caller-facing role string.
func (a *Account) Role() string {
	switch a.Type {
	case RoleTutor:
		return "Tutor"
	case RoleStudent:
		return "Student"
	case RoleGuardian:
		return "Guardian"
	default:
		return "Unknown"
	}
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and account info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        *Account  `json:"user"`
}

// JWTClaims carries the caller identity inside access tokens.
type JWTClaims struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	TutorID    *int64 `json:"tutor_id,omitempty"`
	StudentID  *int64 `json:"student_id,omitempty"`
	GuardianID *int64 `json:"guardian_id,omitempty"`
	jwt.RegisteredClaims
}
