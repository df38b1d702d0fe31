package models

import "time"

// HireRequest asks to connect a student with a tutor. Exactly one of
// the hiring parties (guardian or student) must be present.
type HireRequest struct {
	StudentID        int64  `json:"student_id"`
	TutorID          int64  `json:"tutor_id"`
	GuardianID       *int64 `json:"guardian_id,omitempty"`
	HiredByStudentID *int64 `json:"hired_by_student_id,omitempty"`
}

// Hire is a persisted student-tutor engagement.
type Hire struct {
	ID              int64     `db:"id" json:"id"`
	StudentID       int64     `db:"student_id" json:"student_id"`
	TutorID         int64     `db:"tutor_id" json:"tutor_id"`
	HiredByGuardian *int64    `db:"hired_by_guardian_id" json:"hired_by_guardian_id,omitempty"`
	HiredByStudent  *int64    `db:"hired_by_student_id" json:"hired_by_student_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Connection is one row of a caller's hired-connections listing: the
// counterpart on the other side of an engagement.
type Connection struct {
	HireID          int64     `db:"hire_id" json:"hire_id"`
	StudentID       int64     `db:"student_id" json:"student_id"`
	TutorID         int64     `db:"tutor_id" json:"tutor_id"`
	CounterpartName string    `db:"counterpart_name" json:"counterpart_name"`
	CounterpartRole string    `db:"counterpart_role" json:"counterpart_role"`
	HiredAt         time.Time `db:"hired_at" json:"hired_at"`
}
