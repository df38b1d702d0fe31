package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	"github.com/tutorsworld/tutors-world-api/internal/repository"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

type fakeTutorStore struct {
	directory     *repository.DirectoryResult
	byID          map[int64]*repository.DirectoryResult
	fetchCalls    int
	fetchFilters  []models.DirectoryFilter
	insertedTutor *models.TutorProfile
	classes       []models.TutorClass
	quals         []models.Qualification
	exps          []models.Experience
	insertErr     error
	classErr      error
}

func (f *fakeTutorStore) FetchDirectory(_ context.Context, filter models.DirectoryFilter) (*repository.DirectoryResult, error) {
	f.fetchCalls++
	f.fetchFilters = append(f.fetchFilters, filter)
	if f.directory == nil {
		return &repository.DirectoryResult{
			Tutors:         []models.TutorProfile{},
			Classes:        []models.TutorClass{},
			Qualifications: []models.Qualification{},
			Experiences:    []models.Experience{},
		}, nil
	}
	return f.directory, nil
}

func (f *fakeTutorStore) FetchByID(_ context.Context, id int64) (*repository.DirectoryResult, error) {
	if result, ok := f.byID[id]; ok {
		return result, nil
	}
	return nil, errNoRows()
}

func (f *fakeTutorStore) Insert(_ context.Context, _ sqlx.ExtContext, tutor *models.TutorProfile) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	tutor.ID = 42
	f.insertedTutor = tutor
	return tutor.ID, nil
}

func (f *fakeTutorStore) InsertClasses(_ context.Context, _ sqlx.ExtContext, rows []models.TutorClass) error {
	if f.classErr != nil {
		return f.classErr
	}
	f.classes = append(f.classes, rows...)
	return nil
}

func (f *fakeTutorStore) InsertQualifications(_ context.Context, _ sqlx.ExtContext, rows []models.Qualification) error {
	f.quals = append(f.quals, rows...)
	return nil
}

func (f *fakeTutorStore) InsertExperiences(_ context.Context, _ sqlx.ExtContext, rows []models.Experience) error {
	f.exps = append(f.exps, rows...)
	return nil
}

// fakeCacheRepo is an in-memory CacheRepository. Values round-trip
// through JSON like the Redis-backed implementation.
type fakeCacheRepo struct {
	entries  map[string][]byte
	ttls     map[string]time.Duration
	refreshs map[string]int
	patterns []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{
		entries:  map[string][]byte{},
		ttls:     map[string]time.Duration{},
		refreshs: map[string]int{},
	}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) GetAndRefresh(ctx context.Context, key string, dest interface{}, _ time.Duration) error {
	if err := f.Get(ctx, key, dest); err != nil {
		return err
	}
	f.refreshs[key]++
	return nil
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCacheRepo) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	for key := range f.entries {
		delete(f.entries, key)
	}
	return nil
}

type fakeBlobStore struct {
	blobs    map[string][]byte
	puts     []string
	putErr   error
	deletes  []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(ownerKey, ext string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	locator := fmt.Sprintf("%s/blob-%d%s", ownerKey, len(f.puts), ext)
	f.puts = append(f.puts, locator)
	f.blobs[locator] = data
	return locator, nil
}

func (f *fakeBlobStore) Exists(locator string) bool {
	_, ok := f.blobs[locator]
	return ok
}

func (f *fakeBlobStore) ReadAll(locator string) ([]byte, error) {
	data, ok := f.blobs[locator]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", locator)
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(locator string) error {
	f.deletes = append(f.deletes, locator)
	delete(f.blobs, locator)
	return nil
}

func defaultOpts() DirectoryOptions {
	return DirectoryOptions{
		DefaultPageSize: 10,
		MaxPageSize:     50,
		SlidingTTL:      10 * time.Minute,
		FilteredTTL:     5 * time.Minute,
	}
}

func directoryFixture() *repository.DirectoryResult {
	return &repository.DirectoryResult{
		Tutors: []models.TutorProfile{
			{ID: 1, FullName: "Hassan Iqbal", ProfileImagePath: "hassan/p.png"},
			{ID: 2, FullName: "Maryam Khan"},
		},
		Classes: []models.TutorClass{
			{TutorID: 1, ClassName: "Grade 9"},
			{TutorID: 2, ClassName: "Grade 5"},
			{TutorID: 2, ClassName: "Grade 6"},
		},
		Qualifications: []models.Qualification{
			{TutorID: 1, Institute: "Punjab University", Degree: "BSc"},
			{TutorID: 1, Institute: "Punjab University", Degree: "MSc"},
		},
		Experiences: []models.Experience{
			{TutorID: 2, Institute: "City School", Duration: "2 years"},
		},
		TotalCount: 2,
	}
}

func newDirectoryService(tutors *fakeTutorStore, cacheRepo *fakeCacheRepo, blobs *fakeBlobStore) *DirectoryService {
	cache := NewCacheService(cacheRepo, nil, nil, true)
	return NewDirectoryService(tutors, cache, blobs, nil, defaultOpts())
}

func TestFetchPageStitchesChildren(t *testing.T) {
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, newFakeCacheRepo(), newFakeBlobStore())

	page, err := svc.FetchPage(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, page.Tutors, 2)
	assert.Equal(t, 2, page.TotalCount)

	first, second := page.Tutors[0], page.Tutors[1]
	assert.Len(t, first.Classes, 1)
	assert.Len(t, first.Qualifications, 2)
	require.NotNil(t, first.Experiences)
	assert.Empty(t, first.Experiences)

	assert.Len(t, second.Classes, 2)
	require.NotNil(t, second.Qualifications)
	assert.Empty(t, second.Qualifications)
	assert.Len(t, second.Experiences, 1)
}

func TestFetchPageServesSecondReadFromCache(t *testing.T) {
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, newFakeCacheRepo(), newFakeBlobStore())

	first, err := svc.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	second, err := svc.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, tutors.fetchCalls)
	assert.Equal(t, first.TotalCount, second.TotalCount)
	require.Len(t, second.Tutors, 2)
	// Cached payloads must preserve empty children as [] after the
	// JSON round trip.
	assert.NotNil(t, second.Tutors[0].Experiences)
}

func TestFetchPageCachesEmptyResult(t *testing.T) {
	tutors := &fakeTutorStore{}
	svc := newDirectoryService(tutors, newFakeCacheRepo(), newFakeBlobStore())

	first, err := svc.FetchPage(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Empty(t, first.Tutors)
	assert.Equal(t, 0, first.TotalCount)

	_, err = svc.FetchPage(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, tutors.fetchCalls, "empty pages are cached like any other result")
}

func TestFetchPageRefreshesSlidingTTL(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, cacheRepo, newFakeBlobStore())

	_, err := svc.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, cacheRepo.refreshs["directory:page:1:10"])
}

func TestFetchFilteredUsesAbsoluteTTL(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, cacheRepo, newFakeBlobStore())

	filter := models.DirectoryFilter{Gender: "Female", Page: 1, PageSize: 10}
	_, err := svc.FetchFiltered(context.Background(), filter)
	require.NoError(t, err)

	key := "directory:filter::Female:::::1:10"
	assert.Contains(t, cacheRepo.entries, key)
	assert.Equal(t, 5*time.Minute, cacheRepo.ttls[key])

	_, err = svc.FetchFiltered(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1, tutors.fetchCalls)
	assert.Zero(t, cacheRepo.refreshs[key], "filtered entries never slide")
}

func TestFetchFilteredWithoutFiltersFallsBackToDefaultView(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, cacheRepo, newFakeBlobStore())

	_, err := svc.FetchFiltered(context.Background(), models.DirectoryFilter{Page: 2})
	require.NoError(t, err)

	assert.Contains(t, cacheRepo.entries, "directory:page:2:10")
}

func TestFetchPageAttachesAndSkipsBlobs(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.blobs["hassan/p.png"] = []byte{0x89, 0x50}
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, newFakeCacheRepo(), blobs)

	page, err := svc.FetchPage(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50}, page.Tutors[0].ProfileImage)
	assert.Nil(t, page.Tutors[1].ProfileImage, "tutor without stored asset ships without it")
}

func TestFetchPageWorksWithCacheDisabled(t *testing.T) {
	tutors := &fakeTutorStore{directory: directoryFixture()}
	cache := NewCacheService(nil, nil, nil, false)
	svc := NewDirectoryService(tutors, cache, newFakeBlobStore(), nil, defaultOpts())

	_, err := svc.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, tutors.fetchCalls)
}

func TestFetchTutorNotFound(t *testing.T) {
	svc := newDirectoryService(&fakeTutorStore{byID: map[int64]*repository.DirectoryResult{}}, newFakeCacheRepo(), newFakeBlobStore())

	_, err := svc.FetchTutor(context.Background(), 99)

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Tutor not found", appErr.Message)
}

func TestFetchTutorDetail(t *testing.T) {
	fixture := directoryFixture()
	detail := &repository.DirectoryResult{
		Tutors:         fixture.Tutors[:1],
		Classes:        fixture.Classes[:1],
		Qualifications: fixture.Qualifications,
		Experiences:    []models.Experience{},
		TotalCount:     1,
	}
	svc := newDirectoryService(&fakeTutorStore{byID: map[int64]*repository.DirectoryResult{1: detail}}, newFakeCacheRepo(), newFakeBlobStore())

	tutor, err := svc.FetchTutor(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Hassan Iqbal", tutor.FullName)
	assert.Len(t, tutor.Qualifications, 2)
	require.NotNil(t, tutor.Experiences)
	assert.Empty(t, tutor.Experiences)
}

func TestExportPageCSV(t *testing.T) {
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, newFakeCacheRepo(), newFakeBlobStore())

	data, contentType, err := svc.ExportPage(context.Background(), 1, 10, "csv")

	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Hassan Iqbal")
	assert.Contains(t, string(data), "Grade 5; Grade 6")
}

func TestExportPageRejectsUnknownFormat(t *testing.T) {
	tutors := &fakeTutorStore{directory: directoryFixture()}
	svc := newDirectoryService(tutors, newFakeCacheRepo(), newFakeBlobStore())

	_, _, err := svc.ExportPage(context.Background(), 1, 10, "xlsx")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
