package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

// HireRepository manages persistence for student-tutor engagements.
type HireRepository struct {
	db *sqlx.DB
}

// NewHireRepository constructs a HireRepository.
func NewHireRepository(db *sqlx.DB) *HireRepository {
	return &HireRepository{db: db}
}

// Insert stores a hire and returns the generated identifier.
func (r *HireRepository) Insert(ctx context.Context, req models.HireRequest) (int64, error) {
	const query = `INSERT INTO hires (student_id, tutor_id, hired_by_guardian_id, hired_by_student_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, query,
		req.StudentID,
		req.TutorID,
		req.GuardianID,
		req.HiredByStudentID,
		time.Now().UTC(),
	); err != nil {
		return 0, fmt.Errorf("insert hire: %w", err)
	}
	return id, nil
}

// Connections lists the engagements visible to the given caller. The
// counterpart shown depends on which side of the hire the caller is on.
func (r *HireRepository) Connections(ctx context.Context, id int64, role string) ([]models.Connection, error) {
	var query string
	switch strings.ToLower(role) {
	case "tutor":
		query = `SELECT h.id AS hire_id, h.student_id, h.tutor_id, s.full_name AS counterpart_name, 'Student' AS counterpart_role, h.created_at AS hired_at
			FROM hires h JOIN students s ON s.id = h.student_id
			WHERE h.tutor_id = $1 ORDER BY h.created_at DESC`
	case "student":
		query = `SELECT h.id AS hire_id, h.student_id, h.tutor_id, t.full_name AS counterpart_name, 'Tutor' AS counterpart_role, h.created_at AS hired_at
			FROM hires h JOIN tutors t ON t.id = h.tutor_id
			WHERE h.student_id = $1 ORDER BY h.created_at DESC`
	case "guardian":
		query = `SELECT h.id AS hire_id, h.student_id, h.tutor_id, t.full_name AS counterpart_name, 'Tutor' AS counterpart_role, h.created_at AS hired_at
			FROM hires h JOIN tutors t ON t.id = h.tutor_id
			WHERE h.hired_by_guardian_id = $1 ORDER BY h.created_at DESC`
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	connections := []models.Connection{}
	if err := r.db.SelectContext(ctx, &connections, query, id); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return connections, nil
}
