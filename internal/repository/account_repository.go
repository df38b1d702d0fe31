package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tutorsworld/tutors-world-api/internal/models"
)

// AccountRepository provides database access to login accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// UsernameExists checks whether any role already owns the username.
// Callers treat this as a fast-path check only; the unique constraint
// on accounts.username is the authoritative guard under concurrency.
func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT 1 FROM accounts WHERE username = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return true, nil
}

// FindByUsername returns the account owning the username.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const query = `SELECT id, username, password_hash, full_name, type, student_id, tutor_id, guardian_id, created_at
		FROM accounts WHERE username = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return &account, nil
}

// Create inserts a new account row. When q is non-nil the insert joins
// an ongoing transaction, so a later failure rolls it back too.
func (r *AccountRepository) Create(ctx context.Context, q sqlx.ExtContext, account *models.Account) error {
	if q == nil {
		q = r.db
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO accounts (username, password_hash, full_name, type, student_id, tutor_id, guardian_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := sqlx.GetContext(ctx, q, &account.ID, query,
		account.Username,
		account.PasswordHash,
		account.FullName,
		account.Type,
		account.StudentID,
		account.TutorID,
		account.GuardianID,
		account.CreatedAt,
	); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}
