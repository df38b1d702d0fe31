package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	"github.com/tutorsworld/tutors-world-api/internal/service"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
	"github.com/tutorsworld/tutors-world-api/pkg/response"
)

// HireHandler exposes engagement endpoints.
type HireHandler struct {
	hires *service.HireService
}

// NewHireHandler constructs a HireHandler.
func NewHireHandler(hires *service.HireService) *HireHandler {
	return &HireHandler{hires: hires}
}

// Hire handles POST /hires.
func (h *HireHandler) Hire(c *gin.Context) {
	var req models.HireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	id, err := h.hires.Hire(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"hire_id": id})
}

// Connections handles GET /connections/:role/:id.
func (h *HireHandler) Connections(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	connections, err := h.hires.Connections(c.Request.Context(), id, c.Param("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, connections, nil)
}
