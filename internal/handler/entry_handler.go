package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-themes-api/internal/service"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/response"
)

// EntryHandler handles course entry endpoints.
type EntryHandler struct {
	service *service.EntryService
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(svc *service.EntryService) *EntryHandler {
	return &EntryHandler{service: svc}
}

// courseQuery reads the query parameters identifying one course section in
// one year-term.
func courseQuery(c *gin.Context) (subjNo, psClassNbr, year, term string, ok bool) {
	subjNo = c.Query("subj_no")
	psClassNbr = c.Query("ps_class_nbr")
	year = c.Query("academic_year")
	term = c.Query("academic_term")
	if subjNo == "" || psClassNbr == "" || year == "" || term == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subj_no, ps_class_nbr, academic_year and academic_term are required"))
		return "", "", "", "", false
	}
	return subjNo, psClassNbr, year, term, true
}

// Get godoc
// @Summary Get entry
// @Description Get one course entry
// @Tags Entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /entries/{id} [get]
func (h *EntryHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entry, nil)
}

// ListByCourse godoc
// @Summary List course entries
// @Description List one course section's entries for a year-term
// @Tags Entries
// @Produce json
// @Param subj_no query string true "Course number"
// @Param ps_class_nbr query string true "Class number"
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Success 200 {object} response.Envelope
// @Router /entries [get]
func (h *EntryHandler) ListByCourse(c *gin.Context) {
	subjNo, psClassNbr, year, term, ok := courseQuery(c)
	if !ok {
		return
	}

	entries, err := h.service.ListByCourse(c.Request.Context(), subjNo, psClassNbr, year, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Create entry
// @Description Create a course entry, updating in place when the natural key already exists
// @Tags Entries
// @Accept json
// @Produce json
// @Param payload body service.CreateEntryRequest true "Create payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req service.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// BatchCreate godoc
// @Summary Batch create entries
// @Description Create many course entries, reporting a per-item outcome
// @Tags Entries
// @Accept json
// @Produce json
// @Param payload body []service.CreateEntryRequest true "Entries payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /entries/batch [post]
func (h *EntryHandler) BatchCreate(c *gin.Context) {
	var reqs []service.CreateEntryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if len(reqs) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one entry is required"))
		return
	}

	outcomes := h.service.BatchCreate(c.Request.Context(), reqs)
	response.JSON(c, http.StatusOK, outcomes, nil)
}

// Update godoc
// @Summary Update entry
// @Description Update one course entry's value, weeks or most-relevant flag
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateEntryRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	var req service.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	entry, err := h.service.UpdateByID(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete entry
// @Description Delete one course entry by id
// @Tags Entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteByKey godoc
// @Summary Delete entry by natural key
// @Description Delete one course entry addressed by course and catalog codes
// @Tags Entries
// @Accept json
// @Produce json
// @Param payload body service.DeleteEntryByKeyRequest true "Natural key payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /entries/delete-by-key [post]
func (h *EntryHandler) DeleteByKey(c *gin.Context) {
	var req service.DeleteEntryByKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.DeleteByNaturalKey(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// FormData godoc
// @Summary Course form data
// @Description Enabled themes and sub-themes for a year-term merged with the course's saved entries
// @Tags Entries
// @Produce json
// @Param subj_no query string true "Course number"
// @Param ps_class_nbr query string true "Class number"
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Success 200 {object} response.Envelope
// @Router /entries/form [get]
func (h *EntryHandler) FormData(c *gin.Context) {
	subjNo, psClassNbr, year, term, ok := courseQuery(c)
	if !ok {
		return
	}

	form, err := h.service.FormData(c.Request.Context(), subjNo, psClassNbr, year, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, form, nil)
}

// CoursesBySubTheme godoc
// @Summary Courses by sub-theme
// @Description List course sections with entries against one sub-theme in a year-term
// @Tags Entries
// @Produce json
// @Param id path string true "Sub-theme ID"
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sub-themes/{id}/courses [get]
func (h *EntryHandler) CoursesBySubTheme(c *gin.Context) {
	year, term, ok := yearTermQuery(c)
	if !ok {
		return
	}

	courses, err := h.service.CoursesBySubTheme(c.Request.Context(), year, term, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, nil)
}

// Exists godoc
// @Summary Check course entries
// @Description Report whether a course section has any entries for a year-term
// @Tags Entries
// @Produce json
// @Param subj_no query string true "Course number"
// @Param ps_class_nbr query string true "Class number"
// @Param academic_year query string true "Academic year"
// @Param academic_term query string true "Academic term"
// @Success 200 {object} response.Envelope
// @Router /entries/exists [get]
func (h *EntryHandler) Exists(c *gin.Context) {
	subjNo, psClassNbr, year, term, ok := courseQuery(c)
	if !ok {
		return
	}

	exists, err := h.service.Exists(c.Request.Context(), subjNo, psClassNbr, year, term)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"exists": exists}, nil)
}
