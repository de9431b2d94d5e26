package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/middleware"
	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// ThemeSettingHandler handles year-term theme setting endpoints.
type ThemeSettingHandler struct {
	service *service.ThemeSettingService
}

// NewThemeSettingHandler creates a new theme setting handler.
func NewThemeSettingHandler(svc *service.ThemeSettingService) *ThemeSettingHandler {
	return &ThemeSettingHandler{service: svc}
}

// yearTermQuery reads the required academic_year and academic_term query
// parameters.
func yearTermQuery(c *gin.Context) (string, string, bool) {
	year := c.Query("academic_year")
	term := c.Query("academic_term")
	if year == "" || term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academic_year and academic_term are required"))
		return "", "", false
	}
	return year, term, true
}

// List godoc
// @Summary List theme settings
// @Description List theme settings for one academic year-term
// @Tags ThemeSettings
// @Produce json
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Success 200 {object} response.Envelope
// @Router /theme-settings [get]
func (h *ThemeSettingHandler) List(c *gin.Context) {
	year, term, ok := yearTermQuery(c)
	if !ok {
		return
	}

	settings, err := h.service.ListByYearTerm(c.Request.Context(), year, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, settings, nil)
}

// Overview godoc
// @Summary Year-term overview
// @Description Nested overview of all theme and sub-theme settings for one year-term
// @Tags ThemeSettings
// @Produce json
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Success 200 {object} response.Envelope
// @Router /theme-settings/overview [get]
func (h *ThemeSettingHandler) Overview(c *gin.Context) {
	year, term, ok := yearTermQuery(c)
	if !ok {
		return
	}

	overview, cacheHit, err := h.service.Overview(c.Request.Context(), year, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, overview, nil)
}

// Get godoc
// @Summary Get theme setting
// @Description Get one theme setting with per-sub-theme status
// @Tags ThemeSettings
// @Produce json
// @Param id path string true "Theme setting ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /theme-settings/{id} [get]
func (h *ThemeSettingHandler) Get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, setting, nil)
}

// Create godoc
// @Summary Create theme setting
// @Description Activate a theme for one year-term and materialize its sub-theme settings
// @Tags ThemeSettings
// @Accept json
// @Produce json
// @Param payload body service.CreateThemeSettingRequest true "Create payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /theme-settings [post]
func (h *ThemeSettingHandler) Create(c *gin.Context) {
	var req service.CreateThemeSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	setting, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, setting)
}

// Update godoc
// @Summary Update theme setting
// @Description Update theme setting flags for one year-term
// @Tags ThemeSettings
// @Accept json
// @Produce json
// @Param id path string true "Theme setting ID"
// @Param payload body service.UpdateThemeSettingRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /theme-settings/{id} [put]
func (h *ThemeSettingHandler) Update(c *gin.Context) {
	var req service.UpdateThemeSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	setting, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, setting, nil)
}

// Delete godoc
// @Summary Delete theme setting
// @Description Delete a theme setting together with its sub-theme settings
// @Tags ThemeSettings
// @Produce json
// @Param id path string true "Theme setting ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /theme-settings/{id} [delete]
func (h *ThemeSettingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
