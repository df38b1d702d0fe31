package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	"github.com/tutorsworld/tutors-world-api/internal/service"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
	"github.com/tutorsworld/tutors-world-api/pkg/response"
)

// maxUploadBytes caps a single uploaded file at 8 MiB.
const maxUploadBytes = 8 << 20

// TutorHandler exposes the tutor directory and onboarding endpoints.
type TutorHandler struct {
	directory  *service.DirectoryService
	onboarding *service.OnboardingService
}

// NewTutorHandler constructs a TutorHandler.
func NewTutorHandler(directory *service.DirectoryService, onboarding *service.OnboardingService) *TutorHandler {
	return &TutorHandler{directory: directory, onboarding: onboarding}
}

// List handles GET /tutors, the default paginated directory view.
func (h *TutorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	view, err := h.directory.FetchPage(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view.Tutors, &models.Pagination{
		Page:       view.Page,
		PageSize:   view.PageSize,
		TotalCount: view.TotalCount,
	})
}

// Search handles POST /tutors/search, the filtered directory view.
func (h *TutorHandler) Search(c *gin.Context) {
	var filter models.DirectoryFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	view, err := h.directory.FetchFiltered(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view.Tutors, &models.Pagination{
		Page:       view.Page,
		PageSize:   view.PageSize,
		TotalCount: view.TotalCount,
	})
}

// Detail handles GET /tutors/:id.
func (h *TutorHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid tutor id"))
		return
	}

	tutor, err := h.directory.FetchTutor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutor, nil)
}

// Save handles POST /tutors: a multipart form with a "payload" JSON
// part plus optional "profile_image" and "resume" files.
func (h *TutorHandler) Save(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload form field is required"))
		return
	}

	var req service.SaveTutorRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload JSON"))
		return
	}

	profileImage, err := readUpload(c, "profile_image")
	if err != nil {
		response.Error(c, err)
		return
	}
	resume, err := readUpload(c, "resume")
	if err != nil {
		response.Error(c, err)
		return
	}

	tutor, err := h.onboarding.SaveTutor(c.Request.Context(), &req, profileImage, resume)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tutor)
}

// Export handles GET /tutors/export?format=csv|pdf.
func (h *TutorHandler) Export(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	format := c.DefaultQuery("format", "csv")

	data, contentType, err := h.directory.ExportPage(c.Request.Context(), page, pageSize, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=tutors.%s", format))
	c.Data(http.StatusOK, contentType, data)
}

// readUpload loads one optional multipart file into memory.
func readUpload(c *gin.Context, field string) (*service.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s upload", field))
	}
	if fileHeader.Size > maxUploadBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds the upload size limit", field))
	}

	data, err := readAll(fileHeader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read upload")
	}
	return &service.Upload{Data: data, Ext: filepath.Ext(fileHeader.Filename)}, nil
}

func readAll(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
