package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonNormalize(t *testing.T) {
	p := Person{
		FullName:   "  Alice Khan ",
		Username:   " alice ",
		NationalID: "35202-1234567-8",
		Age:        -3,
	}
	p.Normalize()

	assert.Equal(t, "Alice Khan", p.FullName)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "3520212345678", p.NationalID)
	assert.Equal(t, 0, p.Age)
}

func TestPersonNormalizeKeepsValidAge(t *testing.T) {
	p := Person{Age: 16, NationalID: "12 345 678"}
	p.Normalize()

	assert.Equal(t, 16, p.Age)
	assert.Equal(t, "12345678", p.NationalID)
}

func TestAccountRole(t *testing.T) {
	assert.Equal(t, "Tutor", (&Account{Type: RoleTutor}).Role())
	assert.Equal(t, "Student", (&Account{Type: RoleStudent}).Role())
	assert.Equal(t, "Guardian", (&Account{Type: RoleGuardian}).Role())
	assert.Equal(t, "Unknown", (&Account{Type: 7}).Role())
}
