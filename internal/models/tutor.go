package models

import (
	"fmt"
	"strings"
	"time"
)

// TutorProfile is a directory entry: the tutor row plus its stitched
// child collections and, when the locators resolve, the attached binary
// assets. Child slices are always present, never nil.
type TutorProfile struct {
	ID                   int64     `db:"id" json:"id"`
	FullName             string    `db:"full_name" json:"full_name"`
	Username             string    `db:"username" json:"username"`
	NationalID           string    `db:"national_id" json:"national_id"`
	Gender               string    `db:"gender" json:"gender"`
	Age                  int       `db:"age" json:"age"`
	DateOfBirth          time.Time `db:"date_of_birth" json:"date_of_birth"`
	ContactNo            string    `db:"contact_no" json:"contact_no"`
	ContactEmail         string    `db:"contact_email" json:"contact_email"`
	Religion             string    `db:"religion" json:"religion"`
	Nationality          string    `db:"nationality" json:"nationality"`
	MaritalStatus        string    `db:"marital_status" json:"marital_status"`
	City                 string    `db:"city" json:"city"`
	Province             string    `db:"province" json:"province"`
	Country              string    `db:"country" json:"country"`
	PermanentAddress     string    `db:"permanent_address" json:"permanent_address"`
	TemporaryAddress     string    `db:"temporary_address" json:"temporary_address"`
	TeachingSource       string    `db:"teaching_source" json:"teaching_source"`
	FeeType              string    `db:"fee_type" json:"fee_type"`
	TotalExperienceYears *int      `db:"total_experience_years" json:"total_experience_years,omitempty"`
	ProfileImagePath     string    `db:"profile_image_path" json:"-"`
	ResumePath           string    `db:"resume_path" json:"-"`

	ProfileImage []byte `db:"-" json:"profile_image,omitempty"`
	Resume       []byte `db:"-" json:"resume,omitempty"`

	Classes        []TutorClass    `db:"-" json:"classes"`
	Qualifications []Qualification `db:"-" json:"qualifications"`
	Experiences    []Experience    `db:"-" json:"experiences"`
}

// TutorClass is a class-name child row keyed by the owning tutor.
type TutorClass struct {
	TutorID   int64  `db:"tutor_id" json:"tutor_id"`
	ClassName string `db:"class_name" json:"class_name"`
}

// Qualification is an education child row keyed by the owning tutor.
type Qualification struct {
	TutorID     int64  `db:"tutor_id" json:"tutor_id"`
	Institute   string `db:"institute" json:"institute"`
	Degree      string `db:"degree" json:"degree"`
	PassingYear *int   `db:"passing_year" json:"passing_year,omitempty"`
	Percentage  string `db:"percentage" json:"percentage"`
}

// Experience is a work-history child row keyed by the owning tutor.
type Experience struct {
	TutorID   int64      `db:"tutor_id" json:"tutor_id"`
	Institute string     `db:"institute" json:"institute"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	Duration  string     `db:"duration" json:"duration"`
}

// DirectoryPage is the cache-resident composition of one directory
// read: the stitched tutors plus pagination metadata. It is rebuilt on
// every cache miss and never persisted.
type DirectoryPage struct {
	Tutors     []TutorProfile `json:"tutors"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// DirectoryFilter carries the filtered-view query parameters. Empty
// strings mean "no filter"; Normalize folds absent values into that
// representation so cache keys stay deterministic.
type DirectoryFilter struct {
	SearchTerm      string `json:"search_term"`
	Gender          string `json:"gender"`
	MaritalStatus   string `json:"marital_status"`
	TeachingSources string `json:"teaching_sources"`
	FeeStructures   string `json:"fee_structures"`
	Classes         string `json:"classes"`
	Page            int    `json:"page_number"`
	PageSize        int    `json:"rows_per_page"`
}

// Normalize trims filter fields and clamps paging to sane values.
func (f *DirectoryFilter) Normalize(defaultPageSize, maxPageSize int) {
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	f.Gender = strings.TrimSpace(f.Gender)
	f.MaritalStatus = strings.TrimSpace(f.MaritalStatus)
	f.TeachingSources = strings.TrimSpace(f.TeachingSources)
	f.FeeStructures = strings.TrimSpace(f.FeeStructures)
	f.Classes = strings.TrimSpace(f.Classes)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if maxPageSize > 0 && f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
}

// IsFiltered reports whether any filter field narrows the directory.
func (f *DirectoryFilter) IsFiltered() bool {
	return f.SearchTerm != "" || f.Gender != "" || f.MaritalStatus != "" ||
		f.TeachingSources != "" || f.FeeStructures != "" || f.Classes != ""
}

// CacheKey derives the deterministic cache key for this view. Two
// requests with identical effective parameters share one key.
func (f *DirectoryFilter) CacheKey() string {
	if !f.IsFiltered() {
		return fmt.Sprintf("directory:page:%d:%d", f.Page, f.PageSize)
	}
	return fmt.Sprintf("directory:filter:%s:%s:%s:%s:%s:%s:%d:%d",
		f.SearchTerm, f.Gender, f.MaritalStatus,
		f.TeachingSources, f.FeeStructures, f.Classes,
		f.Page, f.PageSize)
}

// DirectoryCachePattern matches every cached directory view. Tutor
// writes invalidate by this pattern instead of a fixed key list.
const DirectoryCachePattern = "directory:*"
