package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestUsernameExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM accounts WHERE username = $1 LIMIT 1`)).
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.UsernameExists(context.Background(), "taken")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsernameExistsNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM accounts WHERE username = $1 LIMIT 1`)).
		WithArgs("free").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.UsernameExists(context.Background(), "free")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	tutorID := int64(7)
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "full_name", "type", "student_id", "tutor_id", "guardian_id", "created_at"}).
		AddRow(1, "hassan.iqbal", "$2a$10$hash", "Hassan Iqbal", models.RoleTutor, nil, tutorID, nil, time.Now())

	mock.ExpectQuery("SELECT id, username, password_hash").
		WithArgs("hassan.iqbal").
		WillReturnRows(rows)

	account, err := repo.FindByUsername(context.Background(), "hassan.iqbal")
	require.NoError(t, err)
	assert.Equal(t, "Tutor", account.Role())
	require.NotNil(t, account.TutorID)
	assert.Equal(t, tutorID, *account.TutorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("ali.raza", "hash", "Ali Raza", models.RoleStudent, int64(4), nil, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	studentID := int64(4)
	account := &models.Account{
		Username:     "ali.raza",
		PasswordHash: "hash",
		FullName:     "Ali Raza",
		Type:         models.RoleStudent,
		StudentID:    &studentID,
	}
	err := repo.Create(context.Background(), nil, account)

	require.NoError(t, err)
	assert.Equal(t, int64(11), account.ID)
	assert.False(t, account.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
