package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/export"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// ExportHandler handles CSV and PDF export downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// YearTerm godoc
// @Summary Export year-term entries
// @Description Download all course entries for one year-term as a wide CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Param format query string false "Output format (csv or pdf)"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /exports/year-term [get]
func (h *ExportHandler) YearTerm(c *gin.Context) {
	year, term, ok := yearTermQuery(c)
	if !ok {
		return
	}

	data, err := h.service.YearTermDataset(c.Request.Context(), year, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.send(c, *data, fmt.Sprintf("course_themes_%s%s", year, term), fmt.Sprintf("Course Themes %s-%s", year, term))
}

// Courses godoc
// @Summary Export filtered courses
// @Description Download the roster-joined export for selected year-terms and filters
// @Tags Exports
// @Accept json
// @Produce text/csv
// @Param format query string false "Output format (csv or pdf)"
// @Param payload body models.RosterFilter true "Filter payload"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /exports/courses [post]
func (h *ExportHandler) Courses(c *gin.Context) {
	var filter models.RosterFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	data, err := h.service.FilteredDataset(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.send(c, *data, "course_themes_filtered", "Course Themes")
}

func (h *ExportHandler) send(c *gin.Context, data export.Dataset, filename, title string) {
	if c.DefaultQuery("format", "csv") == "pdf" {
		out, err := h.service.RenderPDF(data, title)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", out)
		return
	}

	out, err := h.service.RenderCSV(data)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
}
