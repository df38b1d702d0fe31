package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

var tutorRowColumns = []string{
	"id", "full_name", "username", "national_id", "gender", "age", "date_of_birth",
	"contact_no", "contact_email", "religion", "nationality", "marital_status",
	"city", "province", "country", "permanent_address", "temporary_address",
	"teaching_source", "fee_type", "total_experience_years", "profile_image_path", "resume_path",
}

func tutorRow(rows *sqlmock.Rows, id int64, name string) *sqlmock.Rows {
	return rows.AddRow(id, name, name, "", "Male", 30, time.Time{},
		"", "", "", "", "", "Lahore", "", "", "", "",
		"Home Tuition", "Monthly", nil, "", "")
}

func TestFetchDirectoryReadsFiveResultSets(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	tutors := sqlmock.NewRows(tutorRowColumns)
	tutorRow(tutors, 1, "Hassan Iqbal")
	tutorRow(tutors, 2, "Maryam Khan")
	mock.ExpectQuery("SELECT (.+) FROM tutors WHERE 1=1 ORDER BY id LIMIT 10 OFFSET 0").
		WillReturnRows(tutors)

	mock.ExpectQuery("SELECT tutor_id, class_name FROM tutor_classes").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"tutor_id", "class_name"}).
			AddRow(1, "Grade 9").
			AddRow(2, "Grade 5"))

	mock.ExpectQuery("SELECT tutor_id, institute, degree, passing_year, percentage FROM tutor_qualifications").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"tutor_id", "institute", "degree", "passing_year", "percentage"}).
			AddRow(1, "Punjab University", "BSc", 2015, "78"))

	mock.ExpectQuery("SELECT tutor_id, institute, start_date, end_date, duration FROM tutor_experiences").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"tutor_id", "institute", "start_date", "end_date", "duration"}))

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tutors WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	result, err := repo.FetchDirectory(context.Background(), models.DirectoryFilter{Page: 1, PageSize: 10})

	require.NoError(t, err)
	assert.Len(t, result.Tutors, 2)
	assert.Len(t, result.Classes, 2)
	assert.Len(t, result.Qualifications, 1)
	assert.Empty(t, result.Experiences)
	assert.Equal(t, 25, result.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchDirectorySkipsChildQueriesForEmptyPage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM tutors WHERE 1=1 ORDER BY id LIMIT 10 OFFSET 90").
		WillReturnRows(sqlmock.NewRows(tutorRowColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tutors WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	result, err := repo.FetchDirectory(context.Background(), models.DirectoryFilter{Page: 10, PageSize: 10})

	require.NoError(t, err)
	assert.Empty(t, result.Tutors)
	require.NotNil(t, result.Classes)
	require.NotNil(t, result.Qualifications)
	require.NotNil(t, result.Experiences)
	assert.Equal(t, 3, result.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchDirectoryAppliesFilterArgs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM tutors WHERE 1=1 AND \\(LOWER\\(full_name\\) LIKE (.+) AND gender = (.+) ORDER BY id LIMIT 10 OFFSET 0").
		WithArgs("%khan%", "Female").
		WillReturnRows(sqlmock.NewRows(tutorRowColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tutors").
		WithArgs("%khan%", "Female").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := repo.FetchDirectory(context.Background(), models.DirectoryFilter{
		SearchTerm: "Khan",
		Gender:     "Female",
		Page:       1,
		PageSize:   10,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM tutors WHERE id = ").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FetchByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertTutorInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO tutors").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO tutor_classes").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	tutor := &models.TutorProfile{FullName: "Hassan Iqbal", Username: "hassan.iqbal"}
	id, err := repo.Insert(context.Background(), tx, tutor)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	err = repo.InsertClasses(context.Background(), tx, []models.TutorClass{
		{TutorID: id, ClassName: "Grade 9"},
		{TutorID: id, ClassName: "Grade 10"},
	})
	require.NoError(t, err)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertChildRowsNoopOnEmptySlices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	require.NoError(t, repo.InsertClasses(context.Background(), nil, nil))
	require.NoError(t, repo.InsertQualifications(context.Background(), nil, nil))
	require.NoError(t, repo.InsertExperiences(context.Background(), nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildDirectoryFilter(t *testing.T) {
	where, args := buildDirectoryFilter(models.DirectoryFilter{})
	assert.Equal(t, "WHERE 1=1", where)
	assert.Empty(t, args)

	where, args = buildDirectoryFilter(models.DirectoryFilter{
		SearchTerm:      "Khan",
		TeachingSources: "Home Tuition, Online",
		Classes:         "Grade 9",
	})
	assert.Contains(t, where, "LOWER(full_name) LIKE $1")
	assert.Contains(t, where, "teaching_source = ANY($2)")
	assert.Contains(t, where, "tc.class_name = ANY($3)")
	assert.Len(t, args, 3)
	assert.Equal(t, "%khan%", args[0])
}
