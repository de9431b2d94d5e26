package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/repository"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type themeSettingRepository interface {
	FindByID(ctx context.Context, id string) (*models.ThemeSetting, error)
	FindByYearTermTheme(ctx context.Context, year, term, themeID string) (*models.ThemeSetting, error)
	ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSetting, error)
	ListRows(ctx context.Context, year, term string) ([]models.ThemeSettingRow, error)
	CreateWithSubThemes(ctx context.Context, setting *models.ThemeSetting, subThemeIDs []string) (int, error)
	Update(ctx context.Context, setting *models.ThemeSetting) error
	DeleteWithSubThemes(ctx context.Context, setting *models.ThemeSetting) error
}

type subThemeStatusLister interface {
	ListStatusByTheme(ctx context.Context, year, term, themeID string) ([]models.SubThemeStatus, error)
}

type themeCodeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Theme, error)
	FindByCode(ctx context.Context, code string) (*models.Theme, error)
}

// CreateThemeSettingRequest activates a theme for one year-term.
type CreateThemeSettingRequest struct {
	AcademicYear              string `json:"academic_year" validate:"required"`
	AcademicTerm              string `json:"academic_term" validate:"required"`
	ThemeCode                 string `json:"theme_code" validate:"required"`
	FillInWeekEnabled         bool   `json:"fill_in_week_enabled"`
	ScaleMax                  int    `json:"scale_max" validate:"required,min=1"`
	SelectMostRelevantEnabled bool   `json:"select_most_relevant_enabled"`
}

// UpdateThemeSettingRequest updates the provided fields only. An empty
// request returns the current state unchanged.
type UpdateThemeSettingRequest struct {
	FillInWeekEnabled         *bool `json:"fill_in_week_enabled"`
	ScaleMax                  *int  `json:"scale_max" validate:"omitempty,min=1"`
	SelectMostRelevantEnabled *bool `json:"select_most_relevant_enabled"`
}

// ThemeSettingService orchestrates year-term theme setting workflows.
type ThemeSettingService struct {
	repo      themeSettingRepository
	statuses  subThemeStatusLister
	themes    themeCodeFinder
	subThemes subThemeLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewThemeSettingService creates a new theme-setting service instance.
func NewThemeSettingService(repo themeSettingRepository, statuses subThemeStatusLister, themes themeCodeFinder, subThemes subThemeLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ThemeSettingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeSettingService{repo: repo, statuses: statuses, themes: themes, subThemes: subThemes, cache: cache, validator: validate, logger: logger}
}

func overviewCacheKey(year, term string) string {
	return fmt.Sprintf("overview:%s:%s", year, term)
}

func (s *ThemeSettingService) invalidateOverview(ctx context.Context, year, term string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, overviewCacheKey(year, term))
}

// Create activates a theme for the year-term and materializes an enabled
// sub-theme setting for every sub-theme currently under the theme.
func (s *ThemeSettingService) Create(ctx context.Context, req CreateThemeSettingRequest) (*models.ThemeSettingDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid theme setting payload")
	}

	theme, err := s.themes.FindByCode(ctx, req.ThemeCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	if _, err := s.repo.FindByYearTermTheme(ctx, req.AcademicYear, req.AcademicTerm, theme.ID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "theme setting already exists for this year-term")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme setting")
	}

	subThemes, err := s.subThemes.ListByTheme(ctx, theme.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-themes")
	}
	subThemeIDs := make([]string, 0, len(subThemes))
	for _, st := range subThemes {
		subThemeIDs = append(subThemeIDs, st.ID)
	}

	setting := &models.ThemeSetting{
		AcademicYear:              req.AcademicYear,
		AcademicTerm:              req.AcademicTerm,
		ThemeID:                   theme.ID,
		FillInWeekEnabled:         req.FillInWeekEnabled,
		ScaleMax:                  req.ScaleMax,
		SelectMostRelevantEnabled: req.SelectMostRelevantEnabled,
	}

	created, err := s.repo.CreateWithSubThemes(ctx, setting, subThemeIDs)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "theme setting already exists for this year-term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create theme setting")
	}

	s.logger.Info("theme setting created",
		zap.String("setting_id", setting.ID),
		zap.String("theme_code", theme.ThemeCode),
		zap.String("academic_year", setting.AcademicYear),
		zap.String("academic_term", setting.AcademicTerm),
		zap.Int("sub_theme_settings", created))

	s.invalidateOverview(ctx, setting.AcademicYear, setting.AcademicTerm)
	return s.detail(ctx, setting, theme)
}

// Get returns a theme setting joined with its sub-theme statuses.
func (s *ThemeSettingService) Get(ctx context.Context, id string) (*models.ThemeSettingDetail, error) {
	setting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme setting")
	}

	theme, err := s.themes.FindByID(ctx, setting.ThemeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	return s.detail(ctx, setting, theme)
}

// ListByYearTerm returns all theme settings of a year-term with nested
// sub-theme statuses, grouped from the flat join rows.
func (s *ThemeSettingService) ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSettingDetail, error) {
	rows, err := s.repo.ListRows(ctx, year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list theme settings")
	}
	return groupSettingRows(year, term, rows), nil
}

// Overview returns the nested year-term summary, served from cache when
// available.
func (s *ThemeSettingService) Overview(ctx context.Context, year, term string) (*models.YearTermOverview, bool, error) {
	key := overviewCacheKey(year, term)
	if s.cache != nil {
		var cached models.YearTermOverview
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	rows, err := s.repo.ListRows(ctx, year, term)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build overview")
	}

	details := groupSettingRows(year, term, rows)
	overview := &models.YearTermOverview{
		AcademicYear: year,
		AcademicTerm: term,
		TotalThemes:  len(details),
		Themes:       details,
	}
	for _, detail := range details {
		overview.TotalSubThemes += len(detail.SubThemes)
		for _, st := range detail.SubThemes {
			if st.Enabled {
				overview.EnabledSubThemes++
			}
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, overview, 0)
	}
	return overview, false, nil
}

// Update applies the provided fields. A request with no fields set returns
// the current state unchanged.
func (s *ThemeSettingService) Update(ctx context.Context, id string, req UpdateThemeSettingRequest) (*models.ThemeSettingDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid theme setting payload")
	}

	setting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme setting")
	}

	theme, err := s.themes.FindByID(ctx, setting.ThemeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	if req.FillInWeekEnabled == nil && req.ScaleMax == nil && req.SelectMostRelevantEnabled == nil {
		return s.detail(ctx, setting, theme)
	}

	if req.FillInWeekEnabled != nil {
		setting.FillInWeekEnabled = *req.FillInWeekEnabled
	}
	if req.ScaleMax != nil {
		setting.ScaleMax = *req.ScaleMax
	}
	if req.SelectMostRelevantEnabled != nil {
		setting.SelectMostRelevantEnabled = *req.SelectMostRelevantEnabled
	}

	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update theme setting")
	}

	s.invalidateOverview(ctx, setting.AcademicYear, setting.AcademicTerm)
	return s.detail(ctx, setting, theme)
}

// Delete removes the theme setting and its scoped sub-theme settings.
func (s *ThemeSettingService) Delete(ctx context.Context, id string) error {
	setting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "theme setting not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme setting")
	}

	if err := s.repo.DeleteWithSubThemes(ctx, setting); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete theme setting")
	}

	s.invalidateOverview(ctx, setting.AcademicYear, setting.AcademicTerm)
	return nil
}

func (s *ThemeSettingService) detail(ctx context.Context, setting *models.ThemeSetting, theme *models.Theme) (*models.ThemeSettingDetail, error) {
	statuses, err := s.statuses.ListStatusByTheme(ctx, setting.AcademicYear, setting.AcademicTerm, setting.ThemeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme statuses")
	}
	return &models.ThemeSettingDetail{
		ThemeSetting:   *setting,
		ThemeCode:      theme.ThemeCode,
		ThemeName:      theme.ThemeName,
		ThemeShortName: theme.ThemeShortName,
		SubThemes:      statuses,
	}, nil
}

// groupSettingRows folds the flat join rows into nested per-theme details,
// preserving row order.
func groupSettingRows(year, term string, rows []models.ThemeSettingRow) []models.ThemeSettingDetail {
	details := make([]models.ThemeSettingDetail, 0)
	index := make(map[string]int)

	for _, row := range rows {
		pos, ok := index[row.SettingID]
		if !ok {
			details = append(details, models.ThemeSettingDetail{
				ThemeSetting: models.ThemeSetting{
					ID:                        row.SettingID,
					AcademicYear:              year,
					AcademicTerm:              term,
					ThemeID:                   row.ThemeID,
					FillInWeekEnabled:         row.FillInWeekEnabled,
					ScaleMax:                  row.ScaleMax,
					SelectMostRelevantEnabled: row.SelectMostRelevantEnabled,
				},
				ThemeCode:      row.ThemeCode,
				ThemeName:      row.ThemeName,
				ThemeShortName: row.ThemeShortName,
				SubThemes:      []models.SubThemeStatus{},
			})
			pos = len(details) - 1
			index[row.SettingID] = pos
		}

		if row.SubThemeID == nil {
			continue
		}
		enabled := false
		if row.SubThemeEnabled != nil {
			enabled = *row.SubThemeEnabled
		}
		details[pos].SubThemes = append(details[pos].SubThemes, models.SubThemeStatus{
			SettingID:    row.SubThemeSettingID,
			SubThemeID:   *row.SubThemeID,
			SubThemeCode: derefString(row.SubThemeCode),
			SubThemeName: derefString(row.SubThemeName),
			Enabled:      enabled,
		})
	}
	return details
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
