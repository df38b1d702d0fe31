package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Insert stores a student and returns the generated identifier. A
// non-nil q joins the insert to an ongoing transaction.
func (r *StudentRepository) Insert(ctx context.Context, q sqlx.ExtContext, student *models.Student) (int64, error) {
	if q == nil {
		q = r.db
	}
	const query = `INSERT INTO students (full_name, national_id, roll_no, birth_certificate_no, target_subjects, gender, marital_status, age, date_of_birth, guardian_id, contact_no, contact_email, religion, nationality, city, province, country, permanent_address, temporary_address, profile_image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, query,
		student.FullName,
		student.NationalID,
		student.RollNo,
		student.BirthCertificate,
		student.TargetSubjects,
		student.Gender,
		student.MaritalStatus,
		student.Age,
		student.DateOfBirth,
		student.GuardianID,
		student.ContactNo,
		student.ContactEmail,
		student.Religion,
		student.Nationality,
		student.City,
		student.Province,
		student.Country,
		student.PermanentAddress,
		student.TemporaryAddress,
		student.ProfileImagePath,
	); err != nil {
		return 0, fmt.Errorf("insert student: %w", err)
	}
	student.ID = id
	return id, nil
}

// FindByID fetches a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, full_name, national_id, roll_no, birth_certificate_no, target_subjects, gender, marital_status, age, date_of_birth, guardian_id, contact_no, contact_email, religion, nationality, city, province, country, permanent_address, temporary_address, profile_image_path
		FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}
