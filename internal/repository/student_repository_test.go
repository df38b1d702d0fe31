package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

func TestInsertStudentReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	student := &models.Student{RollNo: "R-77", Gender: "Male"}
	student.FullName = "Ali Raza"

	id, err := repo.Insert(context.Background(), nil, student)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.Equal(t, int64(4), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertGuardianReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuardianRepository(db)

	mock.ExpectQuery("INSERT INTO guardians").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))

	guardian := &models.Guardian{Gender: "Female"}
	guardian.FullName = "Sana Raza"

	id, err := repo.Insert(context.Background(), nil, guardian)
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStudentByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE id = ").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
