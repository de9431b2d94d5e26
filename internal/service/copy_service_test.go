package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/repository"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type mockCopySettingsRepo struct {
	settings []models.ThemeSetting

	replacedSources []repository.CopySource
	deletedThemes   int
	deletedSubs     int
	createdSubs     int
}

func (m *mockCopySettingsRepo) ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSetting, error) {
	return m.settings, nil
}

func (m *mockCopySettingsRepo) ReplaceYearTerm(ctx context.Context, year, term string, sources []repository.CopySource) (int, int, int, error) {
	m.replacedSources = sources
	created := 0
	for _, src := range sources {
		created += len(src.SubThemeIDs)
	}
	m.createdSubs = created
	return m.deletedThemes, m.deletedSubs, created, nil
}

type mockCopySubSettingsRepo struct {
	subSettings []models.SubThemeSetting
	pairs       []repository.EnabledPair
}

func (m *mockCopySubSettingsRepo) ListByYearTerm(ctx context.Context, year, term string) ([]models.SubThemeSetting, error) {
	return m.subSettings, nil
}

func (m *mockCopySubSettingsRepo) ListEnabledPairs(ctx context.Context, year, term string) ([]repository.EnabledPair, error) {
	return m.pairs, nil
}

func (m *mockCopySubSettingsRepo) CountEnabled(ctx context.Context, year, term string) (int, error) {
	return len(m.pairs), nil
}

type mockCopyEntryRepo struct {
	entries []models.EntryDetail

	replaced      []models.CourseEntry
	deletedBefore int
}

func (m *mockCopyEntryRepo) ListByCourse(ctx context.Context, subjNo, psClassNbr, year, term string) ([]models.EntryDetail, error) {
	return m.entries, nil
}

func (m *mockCopyEntryRepo) ReplaceCourseEntries(ctx context.Context, subjNo, psClassNbr, year, term string, entries []models.CourseEntry) (int, error) {
	m.replaced = entries
	return m.deletedBefore, nil
}

func validCopySettingsRequest() CopySettingsRequest {
	return CopySettingsRequest{SourceYear: "112", SourceTerm: "2", TargetYear: "113", TargetTerm: "1"}
}

func TestCopyServiceCopySettingsSameYearTerm(t *testing.T) {
	svc := NewCopyService(&mockCopySettingsRepo{}, &mockCopySubSettingsRepo{}, &mockCopyEntryRepo{}, &mockSubThemeLister{}, nil, nil, nil)

	_, err := svc.CopySettings(context.Background(), CopySettingsRequest{
		SourceYear: "113", SourceTerm: "1", TargetYear: "113", TargetTerm: "1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErr.Code)
	assert.Equal(t, "source and target year-term must differ", appErr.Message)
}

func TestCopyServiceCopySettingsEmptySource(t *testing.T) {
	svc := NewCopyService(&mockCopySettingsRepo{}, &mockCopySubSettingsRepo{}, &mockCopyEntryRepo{}, &mockSubThemeLister{}, nil, nil, nil)

	_, err := svc.CopySettings(context.Background(), validCopySettingsRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErr.Code)
	assert.Equal(t, "source year-term has no theme settings", appErr.Message)
}

func TestCopyServiceCopySettingsCarriesEnabledFlags(t *testing.T) {
	settings := &mockCopySettingsRepo{
		settings: []models.ThemeSetting{
			{ID: "ts1", AcademicYear: "112", AcademicTerm: "2", ThemeID: "th1", ScaleMax: 5},
		},
		deletedThemes: 1,
		deletedSubs:   3,
	}
	subSettings := &mockCopySubSettingsRepo{subSettings: []models.SubThemeSetting{
		{ID: "ss1", SubThemeID: "st1", Enabled: true},
		{ID: "ss2", SubThemeID: "st2", Enabled: false},
	}}
	// st3 has no source row and must carry over disabled
	subThemes := &mockSubThemeLister{subThemes: []models.SubTheme{
		{ID: "st1", ThemeID: "th1", SubThemeCode: "01"},
		{ID: "st2", ThemeID: "th1", SubThemeCode: "02"},
		{ID: "st3", ThemeID: "th1", SubThemeCode: "03"},
	}}
	svc := NewCopyService(settings, subSettings, &mockCopyEntryRepo{}, subThemes, nil, nil, nil)

	result, err := svc.CopySettings(context.Background(), validCopySettingsRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ThemesCount)
	assert.Equal(t, 3, result.SubThemesCount)
	assert.Equal(t, 1, result.DeletedThemesCount)
	assert.Equal(t, 3, result.DeletedSubsCount)

	require.Len(t, settings.replacedSources, 1)
	src := settings.replacedSources[0]
	assert.Equal(t, "ts1", src.Setting.ID)
	assert.Equal(t, []string{"st1", "st2", "st3"}, src.SubThemeIDs)
	assert.Equal(t, map[string]bool{"st1": true, "st2": false, "st3": false}, src.Enabled)
}

func validCopyEntriesRequest() CopyEntriesRequest {
	return CopyEntriesRequest{
		SubjNo: "GEN101", PsClassNbr: "1234",
		SourceYear: "112", SourceTerm: "2", TargetYear: "113", TargetTerm: "1",
	}
}

func TestCopyServiceCopyEntriesEmptySource(t *testing.T) {
	svc := NewCopyService(&mockCopySettingsRepo{}, &mockCopySubSettingsRepo{}, &mockCopyEntryRepo{}, &mockSubThemeLister{}, nil, nil, nil)

	_, err := svc.CopyEntries(context.Background(), validCopyEntriesRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "source year-term has no entries for this course", appErr.Message)
}

func TestCopyServiceCopyEntriesNoEnabledTargets(t *testing.T) {
	entries := &mockCopyEntryRepo{entries: []models.EntryDetail{
		{CourseEntry: models.CourseEntry{ID: "e1", SubThemeID: "st1"}, ThemeCode: "A101", SubThemeCode: "01"},
	}}
	svc := NewCopyService(&mockCopySettingsRepo{}, &mockCopySubSettingsRepo{}, entries, &mockSubThemeLister{}, nil, nil, nil)

	_, err := svc.CopyEntries(context.Background(), validCopyEntriesRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "target year-term has no enabled settings", appErr.Message)
}

func TestCopyServiceCopyEntriesSkipsDisabledPairs(t *testing.T) {
	entries := &mockCopyEntryRepo{
		entries: []models.EntryDetail{
			{CourseEntry: models.CourseEntry{ID: "e1", SubThemeID: "st1", IndicatorValue: "4"}, ThemeCode: "A101", SubThemeCode: "01"},
			{CourseEntry: models.CourseEntry{ID: "e2", SubThemeID: "st2", IsMostRelevant: true}, ThemeCode: "A101", SubThemeCode: "02"},
			{CourseEntry: models.CourseEntry{ID: "e3", SubThemeID: "st9"}, ThemeCode: "A301", SubThemeCode: "1020"},
		},
		deletedBefore: 2,
	}
	subSettings := &mockCopySubSettingsRepo{pairs: []repository.EnabledPair{
		{ThemeCode: "A101", SubThemeCode: "01", SubThemeID: "st1"},
		{ThemeCode: "A101", SubThemeCode: "02", SubThemeID: "st2"},
	}}
	svc := NewCopyService(&mockCopySettingsRepo{}, subSettings, entries, &mockSubThemeLister{}, nil, nil, nil)

	result, err := svc.CopyEntries(context.Background(), validCopyEntriesRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, result.CopiedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, 3, result.CopiedCount+result.SkippedCount)

	require.Len(t, entries.replaced, 2)
	first := entries.replaced[0]
	assert.Equal(t, "GEN101", first.SubjNo)
	assert.Equal(t, "113", first.AcademicYear)
	assert.Equal(t, "1", first.AcademicTerm)
	assert.Equal(t, "st1", first.SubThemeID)
	assert.Equal(t, "4", first.IndicatorValue)
	assert.True(t, entries.replaced[1].IsMostRelevant)
}
