package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

// GuardianRepository manages persistence for guardians.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository constructs a GuardianRepository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// Insert stores a guardian and returns the generated identifier. A
// non-nil q joins the insert to an ongoing transaction.
func (r *GuardianRepository) Insert(ctx context.Context, q sqlx.ExtContext, guardian *models.Guardian) (int64, error) {
	if q == nil {
		q = r.db
	}
	const query = `INSERT INTO guardians (full_name, national_id, gender, marital_status, age, date_of_birth, contact_no, contact_email, religion, nationality, city, province, country, permanent_address, temporary_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, query,
		guardian.FullName,
		guardian.NationalID,
		guardian.Gender,
		guardian.MaritalStatus,
		guardian.Age,
		guardian.DateOfBirth,
		guardian.ContactNo,
		guardian.ContactEmail,
		guardian.Religion,
		guardian.Nationality,
		guardian.City,
		guardian.Province,
		guardian.Country,
		guardian.PermanentAddress,
		guardian.TemporaryAddress,
	); err != nil {
		return 0, fmt.Errorf("insert guardian: %w", err)
	}
	guardian.ID = id
	return id, nil
}

// FindByID fetches a guardian by identifier.
func (r *GuardianRepository) FindByID(ctx context.Context, id int64) (*models.Guardian, error) {
	const query = `SELECT id, full_name, national_id, gender, marital_status, age, date_of_birth, contact_no, contact_email, religion, nationality, city, province, country, permanent_address, temporary_address, student_id
		FROM guardians WHERE id = $1`
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find guardian by id: %w", err)
	}
	return &guardian, nil
}
