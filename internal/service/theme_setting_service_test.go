package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/repository"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type mockThemeSettingRepo struct {
	settings      map[string]*models.ThemeSetting
	listRows      []models.ThemeSettingRow
	createErr     error
	createdCount  int
	createdIDs    []string
	deleted       []string
	updatedScales []int
}

func (m *mockThemeSettingRepo) FindByID(ctx context.Context, id string) (*models.ThemeSetting, error) {
	if s, ok := m.settings[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockThemeSettingRepo) FindByYearTermTheme(ctx context.Context, year, term, themeID string) (*models.ThemeSetting, error) {
	for _, s := range m.settings {
		if s.AcademicYear == year && s.AcademicTerm == term && s.ThemeID == themeID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockThemeSettingRepo) ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSetting, error) {
	var out []models.ThemeSetting
	for _, s := range m.settings {
		if s.AcademicYear == year && s.AcademicTerm == term {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockThemeSettingRepo) ListRows(ctx context.Context, year, term string) ([]models.ThemeSettingRow, error) {
	return m.listRows, nil
}

func (m *mockThemeSettingRepo) CreateWithSubThemes(ctx context.Context, setting *models.ThemeSetting, subThemeIDs []string) (int, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if setting.ID == "" {
		setting.ID = "generated"
	}
	if m.settings == nil {
		m.settings = make(map[string]*models.ThemeSetting)
	}
	cp := *setting
	m.settings[setting.ID] = &cp
	m.createdIDs = subThemeIDs
	m.createdCount = len(subThemeIDs)
	return len(subThemeIDs), nil
}

func (m *mockThemeSettingRepo) Update(ctx context.Context, setting *models.ThemeSetting) error {
	cp := *setting
	m.settings[setting.ID] = &cp
	m.updatedScales = append(m.updatedScales, setting.ScaleMax)
	return nil
}

func (m *mockThemeSettingRepo) DeleteWithSubThemes(ctx context.Context, setting *models.ThemeSetting) error {
	delete(m.settings, setting.ID)
	m.deleted = append(m.deleted, setting.ID)
	return nil
}

type mockStatusLister struct {
	statuses []models.SubThemeStatus
}

func (m *mockStatusLister) ListStatusByTheme(ctx context.Context, year, term, themeID string) ([]models.SubThemeStatus, error) {
	return m.statuses, nil
}

type mockThemeFinder struct {
	themes map[string]*models.Theme
}

func (m *mockThemeFinder) FindByID(ctx context.Context, id string) (*models.Theme, error) {
	for _, theme := range m.themes {
		if theme.ID == id {
			cp := *theme
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockThemeFinder) FindByCode(ctx context.Context, code string) (*models.Theme, error) {
	if theme, ok := m.themes[code]; ok {
		cp := *theme
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockSubThemeLister struct {
	subThemes []models.SubTheme
}

func (m *mockSubThemeLister) ListByTheme(ctx context.Context, themeID string) ([]models.SubTheme, error) {
	return m.subThemes, nil
}

func newThemeSettingServiceForTest(repo *mockThemeSettingRepo, themes *mockThemeFinder, subs *mockSubThemeLister, statuses *mockStatusLister) *ThemeSettingService {
	if statuses == nil {
		statuses = &mockStatusLister{}
	}
	return NewThemeSettingService(repo, statuses, themes, subs, nil, nil, nil)
}

func TestThemeSettingServiceCreateMaterializesSubThemes(t *testing.T) {
	repo := &mockThemeSettingRepo{}
	themes := &mockThemeFinder{themes: map[string]*models.Theme{
		"A101": {ID: "th1", ThemeCode: "A101", ThemeName: "SDGs", ThemeShortName: "SDGs"},
	}}
	subs := &mockSubThemeLister{subThemes: []models.SubTheme{
		{ID: "st1", SubThemeCode: "01"},
		{ID: "st2", SubThemeCode: "02"},
	}}
	svc := newThemeSettingServiceForTest(repo, themes, subs, &mockStatusLister{statuses: []models.SubThemeStatus{
		{SubThemeID: "st1", SubThemeCode: "01", Enabled: true},
		{SubThemeID: "st2", SubThemeCode: "02", Enabled: true},
	}})

	detail, err := svc.Create(context.Background(), CreateThemeSettingRequest{
		AcademicYear: "113", AcademicTerm: "1", ThemeCode: "A101", ScaleMax: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"st1", "st2"}, repo.createdIDs)
	assert.Equal(t, "A101", detail.ThemeCode)
	assert.Len(t, detail.SubThemes, 2)
}

func TestThemeSettingServiceCreateUnknownTheme(t *testing.T) {
	svc := newThemeSettingServiceForTest(&mockThemeSettingRepo{}, &mockThemeFinder{}, &mockSubThemeLister{}, nil)

	_, err := svc.Create(context.Background(), CreateThemeSettingRequest{
		AcademicYear: "113", AcademicTerm: "1", ThemeCode: "ZZZ", ScaleMax: 5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestThemeSettingServiceCreateDuplicate(t *testing.T) {
	repo := &mockThemeSettingRepo{createErr: &pq.Error{Code: "23505"}}
	require.True(t, repository.IsUniqueViolation(repo.createErr))
	themes := &mockThemeFinder{themes: map[string]*models.Theme{
		"A101": {ID: "th1", ThemeCode: "A101"},
	}}
	svc := newThemeSettingServiceForTest(repo, themes, &mockSubThemeLister{}, nil)

	_, err := svc.Create(context.Background(), CreateThemeSettingRequest{
		AcademicYear: "113", AcademicTerm: "1", ThemeCode: "A101", ScaleMax: 5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestThemeSettingServiceCreateExistingSettingConflicts(t *testing.T) {
	repo := &mockThemeSettingRepo{settings: map[string]*models.ThemeSetting{
		"ts1": {ID: "ts1", AcademicYear: "113", AcademicTerm: "1", ThemeID: "th1", ScaleMax: 5},
	}}
	themes := &mockThemeFinder{themes: map[string]*models.Theme{
		"A101": {ID: "th1", ThemeCode: "A101"},
	}}
	svc := newThemeSettingServiceForTest(repo, themes, &mockSubThemeLister{}, nil)

	// The duplicate is caught before any insert is attempted.
	_, err := svc.Create(context.Background(), CreateThemeSettingRequest{
		AcademicYear: "113", AcademicTerm: "1", ThemeCode: "A101", ScaleMax: 5,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "theme setting already exists for this year-term", appErr.Message)
	assert.Len(t, repo.settings, 1)
}

func TestThemeSettingServiceUpdateEmptyRequestKeepsState(t *testing.T) {
	repo := &mockThemeSettingRepo{settings: map[string]*models.ThemeSetting{
		"ts1": {ID: "ts1", AcademicYear: "113", AcademicTerm: "1", ThemeID: "th1", ScaleMax: 5},
	}}
	themes := &mockThemeFinder{themes: map[string]*models.Theme{
		"A101": {ID: "th1", ThemeCode: "A101"},
	}}
	svc := newThemeSettingServiceForTest(repo, themes, &mockSubThemeLister{}, nil)

	detail, err := svc.Update(context.Background(), "ts1", UpdateThemeSettingRequest{})
	require.NoError(t, err)
	assert.Equal(t, 5, detail.ScaleMax)
	assert.Empty(t, repo.updatedScales)
}

func TestThemeSettingServiceUpdatePartial(t *testing.T) {
	repo := &mockThemeSettingRepo{settings: map[string]*models.ThemeSetting{
		"ts1": {ID: "ts1", AcademicYear: "113", AcademicTerm: "1", ThemeID: "th1", ScaleMax: 5},
	}}
	themes := &mockThemeFinder{themes: map[string]*models.Theme{
		"A101": {ID: "th1", ThemeCode: "A101"},
	}}
	svc := newThemeSettingServiceForTest(repo, themes, &mockSubThemeLister{}, nil)

	scale := 7
	detail, err := svc.Update(context.Background(), "ts1", UpdateThemeSettingRequest{ScaleMax: &scale})
	require.NoError(t, err)
	assert.Equal(t, 7, detail.ScaleMax)
	assert.Equal(t, []int{7}, repo.updatedScales)
}

func TestThemeSettingServiceDeleteMissing(t *testing.T) {
	svc := newThemeSettingServiceForTest(&mockThemeSettingRepo{}, &mockThemeFinder{}, &mockSubThemeLister{}, nil)

	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestThemeSettingServiceOverviewCounts(t *testing.T) {
	enabled := true
	disabled := false
	sid := "ss1"
	repo := &mockThemeSettingRepo{listRows: []models.ThemeSettingRow{
		{SettingID: "ts1", ThemeID: "th1", ThemeCode: "A101", ThemeName: "SDGs", ThemeShortName: "SDGs", ScaleMax: 5, SubThemeSettingID: &sid, SubThemeID: strPtr("st1"), SubThemeCode: strPtr("01"), SubThemeName: strPtr("消除貧窮"), SubThemeEnabled: &enabled},
		{SettingID: "ts1", ThemeID: "th1", ThemeCode: "A101", ThemeName: "SDGs", ThemeShortName: "SDGs", ScaleMax: 5, SubThemeID: strPtr("st2"), SubThemeCode: strPtr("02"), SubThemeName: strPtr("消除飢餓"), SubThemeEnabled: &disabled},
		{SettingID: "ts2", ThemeID: "th2", ThemeCode: "A301", ThemeName: "核心能力", ThemeShortName: "核心"},
	}}
	svc := newThemeSettingServiceForTest(repo, &mockThemeFinder{}, &mockSubThemeLister{}, nil)

	overview, cacheHit, err := svc.Overview(context.Background(), "113", "1")
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 2, overview.TotalThemes)
	assert.Equal(t, 2, overview.TotalSubThemes)
	assert.Equal(t, 1, overview.EnabledSubThemes)
	require.Len(t, overview.Themes, 2)
	assert.Empty(t, overview.Themes[1].SubThemes)
}

func strPtr(s string) *string { return &s }
