package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// SubThemeSettingHandler handles per-sub-theme enable flag endpoints.
type SubThemeSettingHandler struct {
	service *service.SubThemeSettingService
}

// NewSubThemeSettingHandler creates a new sub-theme setting handler.
func NewSubThemeSettingHandler(svc *service.SubThemeSettingService) *SubThemeSettingHandler {
	return &SubThemeSettingHandler{service: svc}
}

// Get godoc
// @Summary Get sub-theme setting
// @Description Get one sub-theme enable flag
// @Tags SubThemeSettings
// @Produce json
// @Param id path string true "Sub-theme setting ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sub-theme-settings/{id} [get]
func (h *SubThemeSettingHandler) Get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, setting, nil)
}

// Update godoc
// @Summary Update sub-theme setting
// @Description Toggle one sub-theme. The path id is tried as a setting id
// @Description first; with academic_year and academic_term in the body it is
// @Description retried as a sub-theme id, creating the setting when missing.
// @Tags SubThemeSettings
// @Accept json
// @Produce json
// @Param id path string true "Setting ID or sub-theme ID"
// @Param payload body service.UpdateSubThemeSettingRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sub-theme-settings/{id} [put]
func (h *SubThemeSettingHandler) Update(c *gin.Context) {
	var req service.UpdateSubThemeSettingRequest
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
