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

type subThemeSettingRepository interface {
	FindByID(ctx context.Context, id string) (*models.SubThemeSetting, error)
	FindByYearTermSubTheme(ctx context.Context, year, term, subThemeID string) (*models.SubThemeSetting, error)
	Create(ctx context.Context, setting *models.SubThemeSetting) error
	UpdateEnabled(ctx context.Context, id string, enabled bool) error
}

type subThemeFinder interface {
	FindByID(ctx context.Context, id string) (*models.SubTheme, error)
}

// UpdateSubThemeSettingRequest flips the enable flag of one sub-theme
// setting. The path id is resolved as a setting id first; when no setting
// matches and a year-term is supplied, the id is resolved as a sub-theme id
// and the setting is updated or created for that year-term.
type UpdateSubThemeSettingRequest struct {
	Enabled      *bool  `json:"enabled" validate:"required"`
	AcademicYear string `json:"academic_year"`
	AcademicTerm string `json:"academic_term"`
}

// SubThemeSettingService orchestrates year-term sub-theme setting workflows.
type SubThemeSettingService struct {
	repo      subThemeSettingRepository
	subThemes subThemeFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubThemeSettingService creates a new sub-theme-setting service instance.
func NewSubThemeSettingService(repo subThemeSettingRepository, subThemes subThemeFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubThemeSettingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubThemeSettingService{repo: repo, subThemes: subThemes, cache: cache, validator: validate, logger: logger}
}

// Get returns a sub-theme setting by ID.
func (s *SubThemeSettingService) Get(ctx context.Context, id string) (*models.SubThemeSetting, error) {
	setting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-theme setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme setting")
	}
	return setting, nil
}

// Update flips the enable flag. The id resolves against setting ids first;
// on a miss with a supplied year-term it resolves against sub-theme ids,
// updating the matching setting or creating one when absent.
func (s *SubThemeSettingService) Update(ctx context.Context, id string, req UpdateSubThemeSettingRequest) (*models.SubThemeSetting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sub-theme setting payload")
	}

	setting, err := s.repo.FindByID(ctx, id)
	if err == nil {
		if err := s.repo.UpdateEnabled(ctx, setting.ID, *req.Enabled); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sub-theme setting")
		}
		setting.Enabled = *req.Enabled
		s.invalidateOverview(ctx, setting.AcademicYear, setting.AcademicTerm)
		return setting, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme setting")
	}

	if req.AcademicYear == "" || req.AcademicTerm == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-theme setting not found")
	}

	return s.upsertBySubTheme(ctx, id, req)
}

func (s *SubThemeSettingService) upsertBySubTheme(ctx context.Context, subThemeID string, req UpdateSubThemeSettingRequest) (*models.SubThemeSetting, error) {
	if _, err := s.subThemes.FindByID(ctx, subThemeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-theme setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme")
	}

	setting, err := s.repo.FindByYearTermSubTheme(ctx, req.AcademicYear, req.AcademicTerm, subThemeID)
	if err == nil {
		if err := s.repo.UpdateEnabled(ctx, setting.ID, *req.Enabled); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sub-theme setting")
		}
		setting.Enabled = *req.Enabled
		s.invalidateOverview(ctx, setting.AcademicYear, setting.AcademicTerm)
		return setting, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-theme setting")
	}

	created := &models.SubThemeSetting{
		AcademicYear: req.AcademicYear,
		AcademicTerm: req.AcademicTerm,
		SubThemeID:   subThemeID,
		Enabled:      *req.Enabled,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "sub-theme setting already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sub-theme setting")
	}

	s.logger.Info("sub-theme setting created by fallback",
		zap.String("sub_theme_id", subThemeID),
		zap.String("academic_year", req.AcademicYear),
		zap.String("academic_term", req.AcademicTerm))

	s.invalidateOverview(ctx, created.AcademicYear, created.AcademicTerm)
	return created, nil
}

func (s *SubThemeSettingService) invalidateOverview(ctx context.Context, year, term string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, overviewCacheKey(year, term))
}
