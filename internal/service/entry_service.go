package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/repository"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type entryRepository interface {
	FindByID(ctx context.Context, id string) (*models.CourseEntry, error)
	FindByNaturalKey(ctx context.Context, key models.EntryKey) (*models.CourseEntry, error)
	Create(ctx context.Context, entry *models.CourseEntry) error
	Update(ctx context.Context, entry *models.CourseEntry) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByNaturalKey(ctx context.Context, key models.EntryKey) (bool, error)
	ListByCourse(ctx context.Context, subjNo, psClassNbr, year, term string) ([]models.EntryDetail, error)
	ListCoursesBySubTheme(ctx context.Context, year, term, subThemeID string) ([]models.CourseRef, error)
	ExistsForCourse(ctx context.Context, subjNo, psClassNbr, year, term string) (bool, error)
	HasMostRelevantSibling(ctx context.Context, subjNo, psClassNbr, year, term, themeID, excludeEntryID string) (bool, error)
}

type settingCodeResolver interface {
	FindEnabledByCode(ctx context.Context, year, term, themeCode, subThemeCode string) (*models.SubThemeSetting, error)
	FindByCode(ctx context.Context, year, term, themeCode, subThemeCode string) (*models.SubThemeSetting, error)
}

type settingRowLister interface {
	ListRows(ctx context.Context, year, term string) ([]models.ThemeSettingRow, error)
}

// CreateEntryRequest files one indicator value for a course section.
type CreateEntryRequest struct {
	SubjNo         string             `json:"subj_no" validate:"required"`
	PsClassNbr     string             `json:"ps_class_nbr" validate:"required"`
	AcademicYear   string             `json:"academic_year" validate:"required"`
	AcademicTerm   string             `json:"academic_term" validate:"required"`
	ThemeCode      string             `json:"theme_code" validate:"required"`
	SubThemeCode   string             `json:"sub_theme_code" validate:"required"`
	IndicatorValue string             `json:"indicator_value" validate:"required"`
	WeekNumbers    models.WeekNumbers `json:"week_numbers"`
	IsMostRelevant bool               `json:"is_most_relevant"`
}

// UpdateEntryRequest updates the provided fields of one entry.
type UpdateEntryRequest struct {
	IndicatorValue *string             `json:"indicator_value"`
	WeekNumbers    *models.WeekNumbers `json:"week_numbers"`
	IsMostRelevant *bool               `json:"is_most_relevant"`
}

// DeleteEntryByKeyRequest addresses one entry by its natural key using
// catalog codes.
type DeleteEntryByKeyRequest struct {
	SubjNo       string `json:"subj_no" validate:"required"`
	PsClassNbr   string `json:"ps_class_nbr" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	AcademicTerm string `json:"academic_term" validate:"required"`
	ThemeCode    string `json:"theme_code" validate:"required"`
	SubThemeCode string `json:"sub_theme_code" validate:"required"`
}

// EntryService orchestrates course entry workflows.
type EntryService struct {
	repo      entryRepository
	settings  settingCodeResolver
	rows      settingRowLister
	subThemes subThemeFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEntryService creates a new entry service instance.
func NewEntryService(repo entryRepository, settings settingCodeResolver, rows settingRowLister, subThemes subThemeFinder, validate *validator.Validate, logger *zap.Logger) *EntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{repo: repo, settings: settings, rows: rows, subThemes: subThemes, validator: validate, logger: logger}
}

// Get returns an entry by ID.
func (s *EntryService) Get(ctx context.Context, id string) (*models.CourseEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}
	return entry, nil
}

// ListByCourse returns the entries of one course section with catalog labels.
func (s *EntryService) ListByCourse(ctx context.Context, subjNo, psClassNbr, year, term string) ([]models.EntryDetail, error) {
	entries, err := s.repo.ListByCourse(ctx, subjNo, psClassNbr, year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}
	return entries, nil
}

// Create files an entry against an enabled sub-theme. A natural-key
// collision updates the existing row in place.
func (s *EntryService) Create(ctx context.Context, req CreateEntryRequest) (*models.CourseEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}

	setting, err := s.settings.FindEnabledByCode(ctx, req.AcademicYear, req.AcademicTerm, req.ThemeCode, req.SubThemeCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "sub-theme is not enabled for this year-term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sub-theme setting")
	}

	key := models.EntryKey{
		SubjNo:       req.SubjNo,
		PsClassNbr:   req.PsClassNbr,
		AcademicYear: req.AcademicYear,
		AcademicTerm: req.AcademicTerm,
		SubThemeID:   setting.SubThemeID,
	}

	existing, err := s.repo.FindByNaturalKey(ctx, key)
	if err == nil {
		existing.IndicatorValue = req.IndicatorValue
		existing.WeekNumbers = req.WeekNumbers
		existing.IsMostRelevant = req.IsMostRelevant
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update entry")
		}
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check entry")
	}

	entry := &models.CourseEntry{
		SubjNo:         req.SubjNo,
		PsClassNbr:     req.PsClassNbr,
		AcademicYear:   req.AcademicYear,
		AcademicTerm:   req.AcademicTerm,
		SubThemeID:     setting.SubThemeID,
		IndicatorValue: req.IndicatorValue,
		WeekNumbers:    req.WeekNumbers,
		IsMostRelevant: req.IsMostRelevant,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "entry already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create entry")
	}
	return entry, nil
}

// BatchCreate files entries sequentially and independently. One failing
// entry is reported in its outcome and does not block siblings.
func (s *EntryService) BatchCreate(ctx context.Context, reqs []CreateEntryRequest) []models.BatchEntryOutcome {
	outcomes := make([]models.BatchEntryOutcome, 0, len(reqs))
	for i, req := range reqs {
		entry, err := s.Create(ctx, req)
		if err != nil {
			s.logger.Warn("batch entry skipped",
				zap.Int("index", i),
				zap.String("subj_no", req.SubjNo),
				zap.String("sub_theme_code", req.SubThemeCode),
				zap.Error(err))
			outcomes = append(outcomes, models.BatchEntryOutcome{Index: i, Error: appErrors.FromError(err).Message})
			continue
		}
		outcomes = append(outcomes, models.BatchEntryOutcome{Index: i, Entry: entry})
	}
	return outcomes
}

// UpdateByID applies the provided fields. Setting the most-relevant flag
// verifies no sibling entry under the same theme already holds it.
func (s *EntryService) UpdateByID(ctx context.Context, id string, req UpdateEntryRequest) (*models.CourseEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}

	if req.IsMostRelevant != nil && *req.IsMostRelevant && !entry.IsMostRelevant {
		subTheme, err := s.subThemes.FindByID(ctx, entry.SubThemeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme")
		}
		taken, err := s.repo.HasMostRelevantSibling(ctx, entry.SubjNo, entry.PsClassNbr, entry.AcademicYear, entry.AcademicTerm, subTheme.ThemeID, entry.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check most-relevant flag")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "another sub-theme is already marked most relevant for this theme")
		}
	}

	if req.IndicatorValue != nil {
		entry.IndicatorValue = *req.IndicatorValue
	}
	if req.WeekNumbers != nil {
		entry.WeekNumbers = *req.WeekNumbers
	}
	if req.IsMostRelevant != nil {
		entry.IsMostRelevant = *req.IsMostRelevant
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update entry")
	}
	return entry, nil
}

// DeleteByID removes one entry, reporting NotFound when it is absent.
func (s *EntryService) DeleteByID(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete entry")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "entry not found")
	}
	return nil
}

// DeleteByNaturalKey removes one entry addressed by catalog codes, reporting
// NotFound when it is absent.
func (s *EntryService) DeleteByNaturalKey(ctx context.Context, req DeleteEntryByKeyRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry key payload")
	}

	// Resolve through any setting row: disabling a sub-theme blocks new
	// entries, not removal of existing ones.
	setting, err := s.settings.FindByCode(ctx, req.AcademicYear, req.AcademicTerm, req.ThemeCode, req.SubThemeCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sub-theme setting")
	}

	deleted, err := s.repo.DeleteByNaturalKey(ctx, models.EntryKey{
		SubjNo:       req.SubjNo,
		PsClassNbr:   req.PsClassNbr,
		AcademicYear: req.AcademicYear,
		AcademicTerm: req.AcademicTerm,
		SubThemeID:   setting.SubThemeID,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete entry")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "entry not found")
	}
	return nil
}

// FormData assembles the entry form for one course section: every active
// theme with its sub-theme statuses and the instructor's current values.
func (s *EntryService) FormData(ctx context.Context, subjNo, psClassNbr, year, term string) (*models.CourseFormData, error) {
	rows, err := s.rows.ListRows(ctx, year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}

	entries, err := s.repo.ListByCourse(ctx, subjNo, psClassNbr, year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}
	bySubTheme := make(map[string]*models.EntryDetail, len(entries))
	for i := range entries {
		bySubTheme[entries[i].SubThemeID] = &entries[i]
	}

	form := &models.CourseFormData{
		SubjNo:       subjNo,
		PsClassNbr:   psClassNbr,
		AcademicYear: year,
		AcademicTerm: term,
		Themes:       []models.CourseFormTheme{},
	}

	index := make(map[string]int)
	for _, row := range rows {
		pos, ok := index[row.ThemeID]
		if !ok {
			form.Themes = append(form.Themes, models.CourseFormTheme{
				ThemeID:                   row.ThemeID,
				ThemeCode:                 row.ThemeCode,
				ThemeName:                 row.ThemeName,
				FillInWeekEnabled:         row.FillInWeekEnabled,
				ScaleMax:                  row.ScaleMax,
				SelectMostRelevantEnabled: row.SelectMostRelevantEnabled,
				SubThemes:                 []models.CourseFormSubTheme{},
			})
			pos = len(form.Themes) - 1
			index[row.ThemeID] = pos
		}

		if row.SubThemeID == nil || row.SubThemeEnabled == nil || !*row.SubThemeEnabled {
			continue
		}

		formSub := models.CourseFormSubTheme{
			SubThemeID:   *row.SubThemeID,
			SubThemeCode: derefString(row.SubThemeCode),
			SubThemeName: derefString(row.SubThemeName),
		}
		if entry, ok := bySubTheme[*row.SubThemeID]; ok {
			formSub.EntryID = &entry.ID
			formSub.IndicatorValue = &entry.IndicatorValue
			formSub.WeekNumbers = entry.WeekNumbers
			formSub.IsMostRelevant = &entry.IsMostRelevant
		}
		form.Themes[pos].SubThemes = append(form.Themes[pos].SubThemes, formSub)
	}

	return form, nil
}

// CoursesBySubTheme lists the course sections holding entries against a
// sub-theme in one year-term.
func (s *EntryService) CoursesBySubTheme(ctx context.Context, year, term, subThemeID string) ([]models.CourseRef, error) {
	if _, err := s.subThemes.FindByID(ctx, subThemeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme")
	}

	courses, err := s.repo.ListCoursesBySubTheme(ctx, year, term, subThemeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Exists reports whether the course section holds any entry for the
// year-term.
func (s *EntryService) Exists(ctx context.Context, subjNo, psClassNbr, year, term string) (bool, error) {
	exists, err := s.repo.ExistsForCourse(ctx, subjNo, psClassNbr, year, term)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check entries")
	}
	return exists, nil
}
