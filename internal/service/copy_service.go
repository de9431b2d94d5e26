package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/repository"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type copySettingsRepository interface {
	ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSetting, error)
	ReplaceYearTerm(ctx context.Context, year, term string, sources []repository.CopySource) (deletedThemes, deletedSubs, createdSubs int, err error)
}

type copySubSettingsRepository interface {
	ListByYearTerm(ctx context.Context, year, term string) ([]models.SubThemeSetting, error)
	ListEnabledPairs(ctx context.Context, year, term string) ([]repository.EnabledPair, error)
	CountEnabled(ctx context.Context, year, term string) (int, error)
}

type copyEntryRepository interface {
	ListByCourse(ctx context.Context, subjNo, psClassNbr, year, term string) ([]models.EntryDetail, error)
	ReplaceCourseEntries(ctx context.Context, subjNo, psClassNbr, year, term string, entries []models.CourseEntry) (int, error)
}

// CopySettingsRequest copies theme and sub-theme settings across year-terms.
type CopySettingsRequest struct {
	SourceYear string `json:"source_year" validate:"required"`
	SourceTerm string `json:"source_term" validate:"required"`
	TargetYear string `json:"target_year" validate:"required"`
	TargetTerm string `json:"target_term" validate:"required"`
}

// CopyEntriesRequest copies one course section's entries across year-terms.
type CopyEntriesRequest struct {
	SubjNo     string `json:"subj_no" validate:"required"`
	PsClassNbr string `json:"ps_class_nbr" validate:"required"`
	SourceYear string `json:"source_year" validate:"required"`
	SourceTerm string `json:"source_term" validate:"required"`
	TargetYear string `json:"target_year" validate:"required"`
	TargetTerm string `json:"target_term" validate:"required"`
}

// CopyService copies year-term configuration and course entries forward.
type CopyService struct {
	settings    copySettingsRepository
	subSettings copySubSettingsRepository
	entries     copyEntryRepository
	subThemes   subThemeLister
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCopyService creates a new copy service instance.
func NewCopyService(settings copySettingsRepository, subSettings copySubSettingsRepository, entries copyEntryRepository, subThemes subThemeLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CopyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CopyService{settings: settings, subSettings: subSettings, entries: entries, subThemes: subThemes, cache: cache, validator: validate, logger: logger}
}

// CopySettings overwrites the target year-term's settings with the source's.
// Pre-existing target settings are wiped, not merged. Sub-themes lacking an
// explicit source row carry over as disabled.
func (s *CopyService) CopySettings(ctx context.Context, req CopySettingsRequest) (*models.CopySettingsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}
	if req.SourceYear == req.TargetYear && req.SourceTerm == req.TargetTerm {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "source and target year-term must differ")
	}

	sourceSettings, err := s.settings.ListByYearTerm(ctx, req.SourceYear, req.SourceTerm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source settings")
	}
	if len(sourceSettings) == 0 {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "source year-term has no theme settings")
	}

	sourceSubs, err := s.subSettings.ListByYearTerm(ctx, req.SourceYear, req.SourceTerm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source sub-theme settings")
	}
	enabled := make(map[string]bool, len(sourceSubs))
	for _, sub := range sourceSubs {
		enabled[sub.SubThemeID] = sub.Enabled
	}

	sources := make([]repository.CopySource, 0, len(sourceSettings))
	for _, setting := range sourceSettings {
		subThemes, err := s.subThemes.ListByTheme(ctx, setting.ThemeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list theme sub-themes")
		}
		ids := make([]string, 0, len(subThemes))
		flags := make(map[string]bool, len(subThemes))
		for _, st := range subThemes {
			ids = append(ids, st.ID)
			flags[st.ID] = enabled[st.ID]
		}
		sources = append(sources, repository.CopySource{Setting: setting, SubThemeIDs: ids, Enabled: flags})
	}

	deletedThemes, deletedSubs, createdSubs, err := s.settings.ReplaceYearTerm(ctx, req.TargetYear, req.TargetTerm, sources)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy settings")
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, overviewCacheKey(req.TargetYear, req.TargetTerm))
	}

	s.logger.Info("theme settings copied",
		zap.String("source", req.SourceYear+"-"+req.SourceTerm),
		zap.String("target", req.TargetYear+"-"+req.TargetTerm),
		zap.Int("themes", len(sources)),
		zap.Int("sub_themes", createdSubs))

	return &models.CopySettingsResult{
		ThemesCount:        len(sources),
		SubThemesCount:     createdSubs,
		DeletedThemesCount: deletedThemes,
		DeletedSubsCount:   deletedSubs,
	}, nil
}

// CopyEntries copies one course section's entries into the target year-term,
// keeping only entries whose theme and sub-theme pair is enabled there.
// Existing target entries for the course are deleted first.
func (s *CopyService) CopyEntries(ctx context.Context, req CopyEntriesRequest) (*models.CopyEntriesResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}
	if req.SourceYear == req.TargetYear && req.SourceTerm == req.TargetTerm {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "source and target year-term must differ")
	}

	sourceEntries, err := s.entries.ListByCourse(ctx, req.SubjNo, req.PsClassNbr, req.SourceYear, req.SourceTerm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list source entries")
	}
	if len(sourceEntries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "source year-term has no entries for this course")
	}

	enabledCount, err := s.subSettings.CountEnabled(ctx, req.TargetYear, req.TargetTerm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count target settings")
	}
	if enabledCount == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "target year-term has no enabled settings")
	}

	pairs, err := s.subSettings.ListEnabledPairs(ctx, req.TargetYear, req.TargetTerm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list target settings")
	}
	enabledPairs := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		enabledPairs[pairKey(pair.ThemeCode, pair.SubThemeCode)] = struct{}{}
	}

	copied := make([]models.CourseEntry, 0, len(sourceEntries))
	skipped := 0
	for _, src := range sourceEntries {
		if _, ok := enabledPairs[pairKey(src.ThemeCode, src.SubThemeCode)]; !ok {
			skipped++
			continue
		}
		copied = append(copied, models.CourseEntry{
			SubjNo:         req.SubjNo,
			PsClassNbr:     req.PsClassNbr,
			AcademicYear:   req.TargetYear,
			AcademicTerm:   req.TargetTerm,
			SubThemeID:     src.SubThemeID,
			IndicatorValue: src.IndicatorValue,
			WeekNumbers:    src.WeekNumbers,
			IsMostRelevant: src.IsMostRelevant,
		})
	}

	deleted, err := s.entries.ReplaceCourseEntries(ctx, req.SubjNo, req.PsClassNbr, req.TargetYear, req.TargetTerm, copied)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy entries")
	}

	s.logger.Info("course entries copied",
		zap.String("subj_no", req.SubjNo),
		zap.String("ps_class_nbr", req.PsClassNbr),
		zap.Int("copied", len(copied)),
		zap.Int("skipped", skipped),
		zap.Int("deleted", deleted))

	return &models.CopyEntriesResult{
		CopiedCount:  len(copied),
		SkippedCount: skipped,
		DeletedCount: deleted,
	}, nil
}

func pairKey(themeCode, subThemeCode string) string {
	return fmt.Sprintf("%s|%s", themeCode, subThemeCode)
}
