package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	"github.com/tutorsworld/tutors-world-api/internal/repository"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
	"github.com/tutorsworld/tutors-world-api/pkg/export"
)

// DirectoryOptions tunes paging limits and the two cache policies.
type DirectoryOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	SlidingTTL      time.Duration
	FilteredTTL     time.Duration
}

// DirectoryService assembles browseable tutor pages: store reads,
// child stitching, blob attachment and the response cache in front.
type DirectoryService struct {
	tutors TutorStore
	cache  *CacheService
	blobs  BlobStore
	logger *zap.Logger
	opts   DirectoryOptions
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(tutors TutorStore, cache *CacheService, blobs BlobStore, logger *zap.Logger, opts DirectoryOptions) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 10
	}
	return &DirectoryService{tutors: tutors, cache: cache, blobs: blobs, logger: logger, opts: opts}
}

// FetchPage returns one page of the default directory view. Cached
// entries use sliding expiration: pages under active browse traffic
// stay resident while idle pages age out.
func (s *DirectoryService) FetchPage(ctx context.Context, page, pageSize int) (*models.DirectoryPage, error) {
	filter := models.DirectoryFilter{Page: page, PageSize: pageSize}
	filter.Normalize(s.opts.DefaultPageSize, s.opts.MaxPageSize)

	key := filter.CacheKey()
	cached := &models.DirectoryPage{}
	if s.cache.GetSliding(ctx, key, cached, s.opts.SlidingTTL) {
		return cached, nil
	}

	result, err := s.assemble(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, result, s.opts.SlidingTTL)
	return result, nil
}

// FetchFiltered returns a filtered directory view. Filtered entries use
// a shorter absolute TTL because filter combinations are long-tail; a
// request without any effective filter falls back to the default view
// and its policy.
func (s *DirectoryService) FetchFiltered(ctx context.Context, filter models.DirectoryFilter) (*models.DirectoryPage, error) {
	filter.Normalize(s.opts.DefaultPageSize, s.opts.MaxPageSize)
	if !filter.IsFiltered() {
		return s.FetchPage(ctx, filter.Page, filter.PageSize)
	}

	key := filter.CacheKey()
	cached := &models.DirectoryPage{}
	if s.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	result, err := s.assemble(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, result, s.opts.FilteredTTL)
	return result, nil
}

// FetchTutor returns one tutor with children and both binary assets.
// Detail reads always hit the store; profiles must reflect writes
// immediately.
func (s *DirectoryService) FetchTutor(ctx context.Context, id int64) (*models.TutorProfile, error) {
	result, err := s.tutors.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Tutor not found")
		}
		return nil, mapStoreError(err, "")
	}

	tutors := stitch(result)
	tutor := &tutors[0]
	s.attachAssets(tutor)
	return tutor, nil
}

// ExportPage renders one directory page as CSV or PDF bytes.
func (s *DirectoryService) ExportPage(ctx context.Context, page, pageSize int, format string) ([]byte, string, error) {
	view, err := s.FetchPage(ctx, page, pageSize)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "Gender", "City", "Teaching Source", "Fee Type", "Experience (years)", "Classes"},
	}
	for _, tutor := range view.Tutors {
		years := ""
		if tutor.TotalExperienceYears != nil {
			years = strconv.Itoa(*tutor.TotalExperienceYears)
		}
		classes := make([]string, 0, len(tutor.Classes))
		for _, class := range tutor.Classes {
			classes = append(classes, class.ClassName)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":                 strconv.FormatInt(tutor.ID, 10),
			"Name":               tutor.FullName,
			"Gender":             tutor.Gender,
			"City":               tutor.City,
			"Teaching Source":    tutor.TeachingSource,
			"Fee Type":           tutor.FeeType,
			"Experience (years)": years,
			"Classes":            strings.Join(classes, "; "),
		})
	}

	switch strings.ToLower(format) {
	case "csv":
		data, err := export.RenderCSV(dataset)
		return data, "text/csv", err
	case "pdf":
		data, err := export.RenderPDF(dataset, "Tutor Directory")
		return data, "application/pdf", err
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *DirectoryService) assemble(ctx context.Context, filter models.DirectoryFilter) (*models.DirectoryPage, error) {
	result, err := s.tutors.FetchDirectory(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	tutors := stitch(result)
	for i := range tutors {
		s.attachAssets(&tutors[i])
	}

	return &models.DirectoryPage{
		Tutors:     tutors,
		TotalCount: result.TotalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// stitch groups the flat child result sets under their owning tutors.
// Every profile leaves with non-nil child slices so consumers see empty
// collections, never null.
func stitch(result *repository.DirectoryResult) []models.TutorProfile {
	classes := make(map[int64][]models.TutorClass, len(result.Tutors))
	for _, row := range result.Classes {
		classes[row.TutorID] = append(classes[row.TutorID], row)
	}
	qualifications := make(map[int64][]models.Qualification, len(result.Tutors))
	for _, row := range result.Qualifications {
		qualifications[row.TutorID] = append(qualifications[row.TutorID], row)
	}
	experiences := make(map[int64][]models.Experience, len(result.Tutors))
	for _, row := range result.Experiences {
		experiences[row.TutorID] = append(experiences[row.TutorID], row)
	}

	tutors := make([]models.TutorProfile, len(result.Tutors))
	for i, tutor := range result.Tutors {
		tutor.Classes = classes[tutor.ID]
		if tutor.Classes == nil {
			tutor.Classes = []models.TutorClass{}
		}
		tutor.Qualifications = qualifications[tutor.ID]
		if tutor.Qualifications == nil {
			tutor.Qualifications = []models.Qualification{}
		}
		tutor.Experiences = experiences[tutor.ID]
		if tutor.Experiences == nil {
			tutor.Experiences = []models.Experience{}
		}
		tutors[i] = tutor
	}
	return tutors
}

// attachAssets loads the tutor's stored binaries. A missing or
// unreadable blob is skipped without failing the response; the profile
// simply ships without that asset.
func (s *DirectoryService) attachAssets(tutor *models.TutorProfile) {
	if s.blobs == nil {
		return
	}
	tutor.ProfileImage = s.readBlob(tutor.ProfileImagePath)
	tutor.Resume = s.readBlob(tutor.ResumePath)
}

func (s *DirectoryService) readBlob(locator string) []byte {
	if locator == "" || !s.blobs.Exists(locator) {
		return nil
	}
	data, err := s.blobs.ReadAll(locator)
	if err != nil {
		s.logger.Debug("skip unreadable blob", zap.String("locator", locator), zap.Error(err))
		return nil
	}
	return data
}
