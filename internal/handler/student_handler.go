package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutorsworld/tutors-world-api/internal/service"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
	"github.com/tutorsworld/tutors-world-api/pkg/response"
)

// StudentHandler exposes registration and student detail endpoints.
type StudentHandler struct {
	registration *service.RegistrationService
	profiles     *service.ProfileService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(registration *service.RegistrationService, profiles *service.ProfileService) *StudentHandler {
	return &StudentHandler{registration: registration, profiles: profiles}
}

// Register handles POST /students/register.
func (h *StudentHandler) Register(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.registration.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Detail handles GET /students/:id.
func (h *StudentHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	detail, err := h.profiles.StudentDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// GuardianDetail handles GET /guardians/:id.
func (h *StudentHandler) GuardianDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid guardian id"))
		return
	}

	guardian, err := h.profiles.GuardianDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}
