package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// CopyHandler handles year-term copy endpoints.
type CopyHandler struct {
	service *service.CopyService
}

// NewCopyHandler creates a new copy handler.
func NewCopyHandler(svc *service.CopyService) *CopyHandler {
	return &CopyHandler{service: svc}
}

// CopySettings godoc
// @Summary Copy year-term settings
// @Description Replace the target year-term's theme and sub-theme settings with the source year-term's
// @Tags Copy
// @Accept json
// @Produce json
// @Param payload body service.CopySettingsRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /copy/settings [post]
func (h *CopyHandler) CopySettings(c *gin.Context) {
	var req service.CopySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.CopySettings(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// CopyEntries godoc
// @Summary Copy course entries
// @Description Replace one course section's target year-term entries with the source year-term's, skipping sub-themes disabled in the target
// @Tags Copy
// @Accept json
// @Produce json
// @Param payload body service.CopyEntriesRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /copy/entries [post]
func (h *CopyHandler) CopyEntries(c *gin.Context) {
	var req service.CopyEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.CopyEntries(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
