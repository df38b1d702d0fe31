package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	"github.com/tutorsworld/tutors-world-api/internal/repository"
	"github.com/tutorsworld/tutors-world-api/pkg/database"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

// Store interfaces are defined on the consumer side so services can be
// tested against fakes while production wiring passes the repositories.

// AccountStore provides account persistence.
type AccountStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, q sqlx.ExtContext, account *models.Account) error
}

// StudentStore provides student persistence.
type StudentStore interface {
	Insert(ctx context.Context, q sqlx.ExtContext, student *models.Student) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// GuardianStore provides guardian persistence.
type GuardianStore interface {
	Insert(ctx context.Context, q sqlx.ExtContext, guardian *models.Guardian) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Guardian, error)
}

// TutorStore provides tutor persistence and the directory reads.
type TutorStore interface {
	FetchDirectory(ctx context.Context, filter models.DirectoryFilter) (*repository.DirectoryResult, error)
	FetchByID(ctx context.Context, id int64) (*repository.DirectoryResult, error)
	Insert(ctx context.Context, q sqlx.ExtContext, tutor *models.TutorProfile) (int64, error)
	InsertClasses(ctx context.Context, q sqlx.ExtContext, rows []models.TutorClass) error
	InsertQualifications(ctx context.Context, q sqlx.ExtContext, rows []models.Qualification) error
	InsertExperiences(ctx context.Context, q sqlx.ExtContext, rows []models.Experience) error
}

// HireStore provides hire persistence.
type HireStore interface {
	Insert(ctx context.Context, req models.HireRequest) (int64, error)
	Connections(ctx context.Context, id int64, role string) ([]models.Connection, error)
}

// BlobStore persists and serves uploaded binaries by locator.
type BlobStore interface {
	Put(ownerKey string, ext string, data []byte) (string, error)
	Exists(locator string) bool
	ReadAll(locator string) ([]byte, error)
	Delete(locator string) error
}

// mapStoreError folds low-level store failures into typed domain
// errors. Unique violations become conflicts with the caller-facing
// message; transient connectivity failures become 503s so callers can
// distinguish retryable faults from bugs.
func mapStoreError(err error, conflictMessage string) error {
	if database.IsUniqueViolation(err, "") {
		return appErrors.Clone(appErrors.ErrConflict, conflictMessage)
	}
	if database.IsTransient(err) {
		return appErrors.Clone(appErrors.ErrUnavailable, "")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
}
