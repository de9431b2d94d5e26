package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// ThemeHandler handles catalog theme endpoints.
type ThemeHandler struct {
	service *service.ThemeService
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(svc *service.ThemeService) *ThemeHandler {
	return &ThemeHandler{service: svc}
}

// List godoc
// @Summary List themes
// @Description List catalog themes with pagination and search
// @Tags Themes
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search term"
// @Param sort_by query string false "Sort by"
// @Param sort_order query string false "Sort order"
// @Success 200 {object} response.Envelope
// @Router /themes [get]
func (h *ThemeHandler) List(c *gin.Context) {
	var filter models.ThemeFilter

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	filter.Search = c.Query("search")
	filter.SortBy = c.Query("sort_by")
	filter.SortOrder = c.Query("sort_order")

	themes, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, themes, pagination)
}

// Get godoc
// @Summary Get theme
// @Description Get one theme with its sub-themes
// @Tags Themes
// @Produce json
// @Param id path string true "Theme ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /themes/{id} [get]
func (h *ThemeHandler) Get(c *gin.Context) {
	theme, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, theme, nil)
}

// Create godoc
// @Summary Create theme
// @Description Create a new catalog theme
// @Tags Themes
// @Accept json
// @Produce json
// @Param payload body service.CreateThemeRequest true "Create theme payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /themes [post]
func (h *ThemeHandler) Create(c *gin.Context) {
	var req service.CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	theme, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, theme)
}

// Update godoc
// @Summary Update theme
// @Description Update catalog theme fields
// @Tags Themes
// @Accept json
// @Produce json
// @Param id path string true "Theme ID"
// @Param payload body service.UpdateThemeRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /themes/{id} [put]
func (h *ThemeHandler) Update(c *gin.Context) {
	var req service.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	theme, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, theme, nil)
}

// Delete godoc
// @Summary Delete theme
// @Description Delete a theme that has no sub-themes
// @Tags Themes
// @Produce json
// @Param id path string true "Theme ID"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /themes/{id} [delete]
func (h *ThemeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
