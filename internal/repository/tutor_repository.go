package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

const tutorColumns = `id, full_name, username, national_id, gender, age, date_of_birth, contact_no, contact_email, religion, nationality, marital_status, city, province, country, permanent_address, temporary_address, teaching_source, fee_type, total_experience_years, profile_image_path, resume_path`

// DirectoryResult carries the raw result sets of one directory query,
// in the fixed read order: tutors, classes, qualifications,
// experiences, total count. Stitching happens in the service layer.
type DirectoryResult struct {
	Tutors         []models.TutorProfile
	Classes        []models.TutorClass
	Qualifications []models.Qualification
	Experiences    []models.Experience
	TotalCount     int
}

// TutorRepository manages persistence for tutor profiles and their
// child collections.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository constructs a TutorRepository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

// FetchDirectory runs the parameterized directory query: one page of
// tutor rows, the child rows for exactly those tutors, and the total
// count matching the filter.
func (r *TutorRepository) FetchDirectory(ctx context.Context, filter models.DirectoryFilter) (*DirectoryResult, error) {
	where, args := buildDirectoryFilter(filter)

	offset := (filter.Page - 1) * filter.PageSize
	listQuery := fmt.Sprintf("SELECT %s FROM tutors %s ORDER BY id LIMIT %d OFFSET %d",
		tutorColumns, where, filter.PageSize, offset)

	result := &DirectoryResult{}
	if err := r.db.SelectContext(ctx, &result.Tutors, listQuery, args...); err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}

	ids := make([]int64, 0, len(result.Tutors))
	for _, tutor := range result.Tutors {
		ids = append(ids, tutor.ID)
	}
	if err := r.fetchChildren(ctx, ids, result); err != nil {
		return nil, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tutors %s", where)
	if err := r.db.GetContext(ctx, &result.TotalCount, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count tutors: %w", err)
	}

	return result, nil
}

// FetchByID returns the singular five-set result for one tutor.
// sql.ErrNoRows is passed through when the tutor does not exist.
func (r *TutorRepository) FetchByID(ctx context.Context, id int64) (*DirectoryResult, error) {
	query := fmt.Sprintf("SELECT %s FROM tutors WHERE id = $1", tutorColumns)
	var tutor models.TutorProfile
	if err := r.db.GetContext(ctx, &tutor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find tutor by id: %w", err)
	}

	result := &DirectoryResult{Tutors: []models.TutorProfile{tutor}, TotalCount: 1}
	if err := r.fetchChildren(ctx, []int64{tutor.ID}, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert stores the scalar tutor fields and returns the generated
// identifier. A non-nil q joins an ongoing transaction.
func (r *TutorRepository) Insert(ctx context.Context, q sqlx.ExtContext, tutor *models.TutorProfile) (int64, error) {
	if q == nil {
		q = r.db
	}
	const query = `INSERT INTO tutors (full_name, username, national_id, gender, age, date_of_birth, contact_no, contact_email, religion, nationality, marital_status, city, province, country, permanent_address, temporary_address, teaching_source, fee_type, total_experience_years, profile_image_path, resume_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id`
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, query,
		tutor.FullName,
		tutor.Username,
		tutor.NationalID,
		tutor.Gender,
		tutor.Age,
		tutor.DateOfBirth,
		tutor.ContactNo,
		tutor.ContactEmail,
		tutor.Religion,
		tutor.Nationality,
		tutor.MaritalStatus,
		tutor.City,
		tutor.Province,
		tutor.Country,
		tutor.PermanentAddress,
		tutor.TemporaryAddress,
		tutor.TeachingSource,
		tutor.FeeType,
		tutor.TotalExperienceYears,
		tutor.ProfileImagePath,
		tutor.ResumePath,
	); err != nil {
		return 0, fmt.Errorf("insert tutor: %w", err)
	}
	tutor.ID = id
	return id, nil
}

// InsertQualifications bulk-inserts qualification child rows.
func (r *TutorRepository) InsertQualifications(ctx context.Context, q sqlx.ExtContext, rows []models.Qualification) error {
	if len(rows) == 0 {
		return nil
	}
	if q == nil {
		q = r.db
	}
	const query = `INSERT INTO tutor_qualifications (tutor_id, institute, degree, passing_year, percentage)
		VALUES (:tutor_id, :institute, :degree, :passing_year, :percentage)`
	if _, err := sqlx.NamedExecContext(ctx, q, query, rows); err != nil {
		return fmt.Errorf("insert qualifications: %w", err)
	}
	return nil
}

// InsertExperiences bulk-inserts experience child rows.
func (r *TutorRepository) InsertExperiences(ctx context.Context, q sqlx.ExtContext, rows []models.Experience) error {
	if len(rows) == 0 {
		return nil
	}
	if q == nil {
		q = r.db
	}
	const query = `INSERT INTO tutor_experiences (tutor_id, institute, start_date, end_date, duration)
		VALUES (:tutor_id, :institute, :start_date, :end_date, :duration)`
	if _, err := sqlx.NamedExecContext(ctx, q, query, rows); err != nil {
		return fmt.Errorf("insert experiences: %w", err)
	}
	return nil
}

// InsertClasses bulk-inserts class child rows.
func (r *TutorRepository) InsertClasses(ctx context.Context, q sqlx.ExtContext, rows []models.TutorClass) error {
	if len(rows) == 0 {
		return nil
	}
	if q == nil {
		q = r.db
	}
	const query = `INSERT INTO tutor_classes (tutor_id, class_name) VALUES (:tutor_id, :class_name)`
	if _, err := sqlx.NamedExecContext(ctx, q, query, rows); err != nil {
		return fmt.Errorf("insert classes: %w", err)
	}
	return nil
}

// fetchChildren loads the three child result sets for the given tutor
// ids, preserving the fixed read order.
func (r *TutorRepository) fetchChildren(ctx context.Context, ids []int64, result *DirectoryResult) error {
	result.Classes = []models.TutorClass{}
	result.Qualifications = []models.Qualification{}
	result.Experiences = []models.Experience{}
	if len(ids) == 0 {
		return nil
	}

	const classQuery = `SELECT tutor_id, class_name FROM tutor_classes WHERE tutor_id = ANY($1) ORDER BY tutor_id, class_name`
	if err := r.db.SelectContext(ctx, &result.Classes, classQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list tutor classes: %w", err)
	}

	const qualQuery = `SELECT tutor_id, institute, degree, passing_year, percentage FROM tutor_qualifications WHERE tutor_id = ANY($1) ORDER BY tutor_id`
	if err := r.db.SelectContext(ctx, &result.Qualifications, qualQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list tutor qualifications: %w", err)
	}

	const expQuery = `SELECT tutor_id, institute, start_date, end_date, duration FROM tutor_experiences WHERE tutor_id = ANY($1) ORDER BY tutor_id`
	if err := r.db.SelectContext(ctx, &result.Experiences, expQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list tutor experiences: %w", err)
	}

	return nil
}

func buildDirectoryFilter(filter models.DirectoryFilter) (string, []interface{}) {
	base := "WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SearchTerm != "" {
		search := "%" + strings.ToLower(filter.SearchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(city) LIKE $%d OR LOWER(teaching_source) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)+1))
		args = append(args, filter.Gender)
	}
	if filter.MaritalStatus != "" {
		conditions = append(conditions, fmt.Sprintf("marital_status = $%d", len(args)+1))
		args = append(args, filter.MaritalStatus)
	}
	if filter.TeachingSources != "" {
		conditions = append(conditions, fmt.Sprintf("teaching_source = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(splitList(filter.TeachingSources)))
	}
	if filter.FeeStructures != "" {
		conditions = append(conditions, fmt.Sprintf("fee_type = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(splitList(filter.FeeStructures)))
	}
	if filter.Classes != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM tutor_classes tc WHERE tc.tutor_id = tutors.id AND tc.class_name = ANY($%d))", len(args)+1))
		args = append(args, pq.Array(splitList(filter.Classes)))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	return base, args
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
