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

type subThemeRepository interface {
	ListByTheme(ctx context.Context, themeID string) ([]models.SubTheme, error)
	FindByID(ctx context.Context, id string) (*models.SubTheme, error)
	Create(ctx context.Context, subTheme *models.SubTheme) error
	Update(ctx context.Context, subTheme *models.SubTheme) error
	Delete(ctx context.Context, id string) error
	CountEntries(ctx context.Context, id string) (int, error)
}

type themeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Theme, error)
}

// CreateSubThemeRequest describes payload for creating sub-themes.
type CreateSubThemeRequest struct {
	ThemeID             string  `json:"theme_id" validate:"required"`
	SubThemeCode        string  `json:"sub_theme_code" validate:"required"`
	SubThemeName        string  `json:"sub_theme_name" validate:"required"`
	SubThemeEnglishName string  `json:"sub_theme_english_name" validate:"required"`
	Content             *string `json:"content"`
	EnglishContent      *string `json:"english_content"`
}

// UpdateSubThemeRequest updates mutable fields on a sub-theme.
type UpdateSubThemeRequest struct {
	SubThemeName        *string `json:"sub_theme_name"`
	SubThemeEnglishName *string `json:"sub_theme_english_name"`
	Content             *string `json:"content"`
	EnglishContent      *string `json:"english_content"`
}

// SubThemeService orchestrates catalog sub-theme workflows.
type SubThemeService struct {
	repo      subThemeRepository
	themes    themeFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubThemeService creates a new sub-theme service instance.
func NewSubThemeService(repo subThemeRepository, themes themeFinder, validate *validator.Validate, logger *zap.Logger) *SubThemeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubThemeService{repo: repo, themes: themes, validator: validate, logger: logger}
}

// ListByTheme returns the sub-themes of a theme ordered by code.
func (s *SubThemeService) ListByTheme(ctx context.Context, themeID string) ([]models.SubTheme, error) {
	if _, err := s.themes.FindByID(ctx, themeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	subThemes, err := s.repo.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sub-themes")
	}
	return subThemes, nil
}

// Get returns a sub-theme by ID.
func (s *SubThemeService) Get(ctx context.Context, id string) (*models.SubTheme, error) {
	subTheme, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme")
	}
	return subTheme, nil
}

// Create adds a new sub-theme under an existing theme.
func (s *SubThemeService) Create(ctx context.Context, req CreateSubThemeRequest) (*models.SubTheme, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sub-theme payload")
	}

	if _, err := s.themes.FindByID(ctx, req.ThemeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	subTheme := &models.SubTheme{
		ThemeID:             req.ThemeID,
		SubThemeCode:        req.SubThemeCode,
		SubThemeName:        req.SubThemeName,
		SubThemeEnglishName: req.SubThemeEnglishName,
		Content:             req.Content,
		EnglishContent:      req.EnglishContent,
	}

	if err := s.repo.Create(ctx, subTheme); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "sub-theme code already exists for this theme")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sub-theme")
	}

	s.logger.Info("sub-theme created", zap.String("sub_theme_id", subTheme.ID), zap.String("theme_id", subTheme.ThemeID))
	return subTheme, nil
}

// Update modifies the provided fields of a sub-theme.
func (s *SubThemeService) Update(ctx context.Context, id string, req UpdateSubThemeRequest) (*models.SubTheme, error) {
	subTheme, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme")
	}

	if req.SubThemeName != nil {
		subTheme.SubThemeName = *req.SubThemeName
	}
	if req.SubThemeEnglishName != nil {
		subTheme.SubThemeEnglishName = *req.SubThemeEnglishName
	}
	if req.Content != nil {
		subTheme.Content = req.Content
	}
	if req.EnglishContent != nil {
		subTheme.EnglishContent = req.EnglishContent
	}

	if err := s.repo.Update(ctx, subTheme); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sub-theme")
	}
	return subTheme, nil
}

// Delete removes a sub-theme after verifying no course entries reference it.
func (s *SubThemeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "sub-theme not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme")
	}

	count, err := s.repo.CountEntries(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count course entries")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrBadRequest, "sub-theme still has course entries")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sub-theme")
	}
	return nil
}
