package models

import (
	"strings"
	"time"
)

// Person holds the identity fields shared by students, guardians and
// tutors. Role entities embed it instead of inheriting from it; each
// embedded copy is owned exclusively by its role record.
type Person struct {
	FullName         string    `db:"full_name" json:"full_name" validate:"required"`
	Username         string    `db:"username" json:"username" validate:"required,min=3,max=50"`
	Password         string    `db:"-" json:"password,omitempty" validate:"required,min=6"`
	NationalID       string    `db:"national_id" json:"national_id"`
	Age              int       `db:"age" json:"age"`
	DateOfBirth      time.Time `db:"date_of_birth" json:"date_of_birth"`
	ContactNo        string    `db:"contact_no" json:"contact_no"`
	ContactEmail     string    `db:"contact_email" json:"contact_email" validate:"omitempty,email"`
	Religion         string    `db:"religion" json:"religion"`
	Nationality      string    `db:"nationality" json:"nationality"`
	City             string    `db:"city" json:"city"`
	Province         string    `db:"province" json:"province"`
	Country          string    `db:"country" json:"country"`
	PermanentAddress string    `db:"permanent_address" json:"permanent_address"`
	TemporaryAddress string    `db:"temporary_address" json:"temporary_address"`
}

var nationalIDSeparators = strings.NewReplacer("-", "", " ", "")

// Normalize applies the field rules shared by every role: national IDs
// lose their separator characters and age never goes below zero.
func (p *Person) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Username = strings.TrimSpace(p.Username)
	p.NationalID = nationalIDSeparators.Replace(strings.TrimSpace(p.NationalID))
	if p.Age < 0 {
		p.Age = 0
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
