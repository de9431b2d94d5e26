package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// SubThemeHandler handles catalog sub-theme endpoints.
type SubThemeHandler struct {
	service *service.SubThemeService
}

// NewSubThemeHandler creates a new sub-theme handler.
func NewSubThemeHandler(svc *service.SubThemeService) *SubThemeHandler {
	return &SubThemeHandler{service: svc}
}

// ListByTheme godoc
// @Summary List sub-themes
// @Description List sub-themes under one theme
// @Tags SubThemes
// @Produce json
// @Param id path string true "Theme ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /themes/{id}/sub-themes [get]
func (h *SubThemeHandler) ListByTheme(c *gin.Context) {
	subThemes, err := h.service.ListByTheme(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subThemes, nil)
}

// Get godoc
// @Summary Get sub-theme
// @Description Get sub-theme detail
// @Tags SubThemes
// @Produce json
// @Param id path string true "Sub-theme ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sub-themes/{id} [get]
func (h *SubThemeHandler) Get(c *gin.Context) {
	subTheme, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subTheme, nil)
}

// Create godoc
// @Summary Create sub-theme
// @Description Create a new sub-theme under an existing theme
// @Tags SubThemes
// @Accept json
// @Produce json
// @Param payload body service.CreateSubThemeRequest true "Create sub-theme payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sub-themes [post]
func (h *SubThemeHandler) Create(c *gin.Context) {
	var req service.CreateSubThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	subTheme, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, subTheme)
}

// Update godoc
// @Summary Update sub-theme
// @Description Update sub-theme fields
// @Tags SubThemes
// @Accept json
// @Produce json
// @Param id path string true "Sub-theme ID"
// @Param payload body service.UpdateSubThemeRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sub-themes/{id} [put]
func (h *SubThemeHandler) Update(c *gin.Context) {
	var req service.UpdateSubThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	subTheme, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, subTheme, nil)
}

// Delete godoc
// @Summary Delete sub-theme
// @Description Delete a sub-theme that has no course entries
// @Tags SubThemes
// @Produce json
// @Param id path string true "Sub-theme ID"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sub-themes/{id} [delete]
func (h *SubThemeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
