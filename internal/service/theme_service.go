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

type themeRepository interface {
	List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error)
	FindByID(ctx context.Context, id string) (*models.Theme, error)
	FindByCode(ctx context.Context, code string) (*models.Theme, error)
	Create(ctx context.Context, theme *models.Theme) error
	Update(ctx context.Context, theme *models.Theme) error
	Delete(ctx context.Context, id string) error
	CountSubThemes(ctx context.Context, id string) (int, error)
}

// CreateThemeRequest describes payload for creating catalog themes.
type CreateThemeRequest struct {
	ThemeCode        string  `json:"theme_code" validate:"required"`
	ThemeName        string  `json:"theme_name" validate:"required"`
	ThemeShortName   string  `json:"theme_short_name" validate:"required"`
	ThemeEnglishName string  `json:"theme_english_name" validate:"required"`
	ChineseLink      *string `json:"chinese_link"`
	EnglishLink      *string `json:"english_link"`
}

// UpdateThemeRequest updates mutable fields on a theme.
type UpdateThemeRequest struct {
	ThemeName        *string `json:"theme_name"`
	ThemeShortName   *string `json:"theme_short_name"`
	ThemeEnglishName *string `json:"theme_english_name"`
	ChineseLink      *string `json:"chinese_link"`
	EnglishLink      *string `json:"english_link"`
}

// ThemeService orchestrates catalog theme workflows.
type ThemeService struct {
	repo      themeRepository
	subThemes subThemeLister
	validator *validator.Validate
	logger    *zap.Logger
}

type subThemeLister interface {
	ListByTheme(ctx context.Context, themeID string) ([]models.SubTheme, error)
}

// NewThemeService creates a new theme service instance.
func NewThemeService(repo themeRepository, subThemes subThemeLister, validate *validator.Validate, logger *zap.Logger) *ThemeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeService{repo: repo, subThemes: subThemes, validator: validate, logger: logger}
}

// List returns paginated themes.
func (s *ThemeService) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, *models.Pagination, error) {
	themes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list themes")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	pagination := &models.Pagination{
		Page:       page,
		PageSize:   size,
		TotalCount: total,
	}
	return themes, pagination, nil
}

// Get returns a theme with its nested sub-themes.
func (s *ThemeService) Get(ctx context.Context, id string) (*models.ThemeWithSubThemes, error) {
	theme, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	subThemes, err := s.subThemes.ListByTheme(ctx, theme.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-themes")
	}

	return &models.ThemeWithSubThemes{Theme: *theme, SubThemes: subThemes}, nil
}

// Create adds a new theme ensuring code uniqueness.
func (s *ThemeService) Create(ctx context.Context, req CreateThemeRequest) (*models.Theme, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid theme payload")
	}

	theme := &models.Theme{
		ThemeCode:        req.ThemeCode,
		ThemeName:        req.ThemeName,
		ThemeShortName:   req.ThemeShortName,
		ThemeEnglishName: req.ThemeEnglishName,
		ChineseLink:      req.ChineseLink,
		EnglishLink:      req.EnglishLink,
	}

	if err := s.repo.Create(ctx, theme); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "theme code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create theme")
	}

	s.logger.Info("theme created", zap.String("theme_id", theme.ID), zap.String("theme_code", theme.ThemeCode))
	return theme, nil
}

// Update modifies the provided fields of a theme.
func (s *ThemeService) Update(ctx context.Context, id string, req UpdateThemeRequest) (*models.Theme, error) {
	theme, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	if req.ThemeName != nil {
		theme.ThemeName = *req.ThemeName
	}
	if req.ThemeShortName != nil {
		theme.ThemeShortName = *req.ThemeShortName
	}
	if req.ThemeEnglishName != nil {
		theme.ThemeEnglishName = *req.ThemeEnglishName
	}
	if req.ChineseLink != nil {
		theme.ChineseLink = req.ChineseLink
	}
	if req.EnglishLink != nil {
		theme.EnglishLink = req.EnglishLink
	}

	if err := s.repo.Update(ctx, theme); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update theme")
	}
	return theme, nil
}

// Delete removes a theme after verifying no sub-themes reference it.
func (s *ThemeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	count, err := s.repo.CountSubThemes(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sub-themes")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrBadRequest, "theme still has sub-themes")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete theme")
	}
	return nil
}
