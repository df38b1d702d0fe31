package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

const msgUsernameTaken = "Username already taken. Please choose another one."

// Upload carries one uploaded binary and its original extension.
type Upload struct {
	Data []byte
	Ext  string
}

// SaveTutorRequest is the tutor onboarding payload: the identity
// fields plus teaching attributes and the child collections.
type SaveTutorRequest struct {
	models.Person
	Gender               string                 `json:"gender"`
	MaritalStatus        string                 `json:"marital_status"`
	TeachingSource       string                 `json:"teaching_source" validate:"required"`
	FeeType              string                 `json:"fee_type" validate:"required"`
	TotalExperienceYears *int                   `json:"total_experience_years,omitempty"`
	Classes              []string               `json:"classes"`
	Qualifications       []models.Qualification `json:"qualifications"`
	Experiences          []models.Experience    `json:"experiences"`
}

// OnboardingService persists new tutor profiles: blob writes first,
// then the profile, children and account in one transaction, then
// cache invalidation so the directory reflects the new tutor.
type OnboardingService struct {
	db       *sqlx.DB
	tutors   TutorStore
	accounts AccountStore
	blobs    BlobStore
	cache    *CacheService
	logger   *zap.Logger
	validate *validator.Validate
}

// NewOnboardingService constructs an OnboardingService.
func NewOnboardingService(db *sqlx.DB, tutors TutorStore, accounts AccountStore, blobs BlobStore, cache *CacheService, logger *zap.Logger) *OnboardingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingService{
		db:       db,
		tutors:   tutors,
		accounts: accounts,
		blobs:    blobs,
		cache:    cache,
		logger:   logger,
		validate: validator.New(),
	}
}

// SaveTutor creates a tutor profile with its children, account and
// uploaded assets. Blobs written before a failed transaction are
// removed best-effort; an orphaned file is preferable to a dangling
// locator in the store.
func (s *OnboardingService) SaveTutor(ctx context.Context, req *SaveTutorRequest, profileImage, resume *Upload) (*models.TutorProfile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	req.Normalize()

	taken, err := s.accounts.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, msgUsernameTaken)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	var locators []string
	cleanup := func() {
		for _, locator := range locators {
			if err := s.blobs.Delete(locator); err != nil {
				s.logger.Warn("cleanup blob failed", zap.String("locator", locator), zap.Error(err))
			}
		}
	}

	tutor := &models.TutorProfile{
		FullName:             req.FullName,
		Username:             req.Username,
		NationalID:           req.NationalID,
		Gender:               req.Gender,
		Age:                  req.Age,
		DateOfBirth:          req.DateOfBirth,
		ContactNo:            req.ContactNo,
		ContactEmail:         req.ContactEmail,
		Religion:             req.Religion,
		Nationality:          req.Nationality,
		MaritalStatus:        req.MaritalStatus,
		City:                 req.City,
		Province:             req.Province,
		Country:              req.Country,
		PermanentAddress:     req.PermanentAddress,
		TemporaryAddress:     req.TemporaryAddress,
		TeachingSource:       req.TeachingSource,
		FeeType:              req.FeeType,
		TotalExperienceYears: req.TotalExperienceYears,
	}

	if profileImage != nil && len(profileImage.Data) > 0 {
		locator, err := s.blobs.Put(req.Username, profileImage.Ext, profileImage.Data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store profile image")
		}
		locators = append(locators, locator)
		tutor.ProfileImagePath = locator
	}
	if resume != nil && len(resume.Data) > 0 {
		locator, err := s.blobs.Put(req.Username, resume.Ext, resume.Data)
		if err != nil {
			cleanup()
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store resume")
		}
		locators = append(locators, locator)
		tutor.ResumePath = locator
	}

	if err := s.persist(ctx, tutor, req, hash); err != nil {
		cleanup()
		return nil, err
	}

	s.cache.Invalidate(ctx, models.DirectoryCachePattern)

	s.logger.Info("tutor onboarded", zap.Int64("tutor_id", tutor.ID), zap.String("username", tutor.Username))
	return tutor, nil
}

func (s *OnboardingService) persist(ctx context.Context, tutor *models.TutorProfile, req *SaveTutorRequest, hash string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapStoreError(err, "")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	tutorID, err := s.tutors.Insert(ctx, tx, tutor)
	if err != nil {
		return mapStoreError(err, msgUsernameTaken)
	}

	classes := make([]models.TutorClass, 0, len(req.Classes))
	for _, name := range req.Classes {
		classes = append(classes, models.TutorClass{TutorID: tutorID, ClassName: name})
	}
	if err := s.tutors.InsertClasses(ctx, tx, classes); err != nil {
		return mapStoreError(err, "")
	}

	qualifications := make([]models.Qualification, len(req.Qualifications))
	for i, row := range req.Qualifications {
		row.TutorID = tutorID
		qualifications[i] = row
	}
	if err := s.tutors.InsertQualifications(ctx, tx, qualifications); err != nil {
		return mapStoreError(err, "")
	}

	experiences := make([]models.Experience, len(req.Experiences))
	for i, row := range req.Experiences {
		row.TutorID = tutorID
		experiences[i] = row
	}
	if err := s.tutors.InsertExperiences(ctx, tx, experiences); err != nil {
		return mapStoreError(err, "")
	}

	account := &models.Account{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Type:         models.RoleTutor,
		TutorID:      &tutorID,
	}
	if err := s.accounts.Create(ctx, tx, account); err != nil {
		return mapStoreError(err, msgUsernameTaken)
	}

	if err := tx.Commit(); err != nil {
		return mapStoreError(err, "")
	}

	tutor.Classes = classes
	tutor.Qualifications = qualifications
	tutor.Experiences = experiences
	return nil
}
