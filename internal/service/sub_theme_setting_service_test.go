package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type mockSubThemeSettingRepo struct {
	settings map[string]*models.SubThemeSetting
	created  []*models.SubThemeSetting
	updates  map[string]bool
}

func (m *mockSubThemeSettingRepo) FindByID(ctx context.Context, id string) (*models.SubThemeSetting, error) {
	if s, ok := m.settings[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubThemeSettingRepo) FindByYearTermSubTheme(ctx context.Context, year, term, subThemeID string) (*models.SubThemeSetting, error) {
	for _, s := range m.settings {
		if s.AcademicYear == year && s.AcademicTerm == term && s.SubThemeID == subThemeID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubThemeSettingRepo) Create(ctx context.Context, setting *models.SubThemeSetting) error {
	if m.settings == nil {
		m.settings = make(map[string]*models.SubThemeSetting)
	}
	if setting.ID == "" {
		setting.ID = "generated"
	}
	cp := *setting
	m.settings[setting.ID] = &cp
	m.created = append(m.created, &cp)
	return nil
}

func (m *mockSubThemeSettingRepo) UpdateEnabled(ctx context.Context, id string, enabled bool) error {
	if m.updates == nil {
		m.updates = make(map[string]bool)
	}
	m.updates[id] = enabled
	if s, ok := m.settings[id]; ok {
		s.Enabled = enabled
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

func TestSubThemeSettingServiceUpdateBySettingID(t *testing.T) {
	repo := &mockSubThemeSettingRepo{settings: map[string]*models.SubThemeSetting{
		"ss1": {ID: "ss1", AcademicYear: "113", AcademicTerm: "1", SubThemeID: "st1", Enabled: true},
	}}
	svc := NewSubThemeSettingService(repo, &mockSubThemeFinder{}, nil, nil, nil)

	setting, err := svc.Update(context.Background(), "ss1", UpdateSubThemeSettingRequest{Enabled: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, setting.Enabled)
	assert.Equal(t, map[string]bool{"ss1": false}, repo.updates)
	assert.Empty(t, repo.created)
}

func TestSubThemeSettingServiceUpdateFallsBackToSubThemeID(t *testing.T) {
	repo := &mockSubThemeSettingRepo{settings: map[string]*models.SubThemeSetting{
		"ss1": {ID: "ss1", AcademicYear: "113", AcademicTerm: "1", SubThemeID: "st1", Enabled: true},
	}}
	subThemes := &mockSubThemeFinder{subThemes: map[string]*models.SubTheme{
		"st1": {ID: "st1", ThemeID: "th1"},
	}}
	svc := NewSubThemeSettingService(repo, subThemes, nil, nil, nil)

	// id is a sub-theme id, year-term directs the fallback to the existing row
	setting, err := svc.Update(context.Background(), "st1", UpdateSubThemeSettingRequest{
		Enabled: boolPtr(false), AcademicYear: "113", AcademicTerm: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ss1", setting.ID)
	assert.False(t, setting.Enabled)
	assert.Empty(t, repo.created)
}

func TestSubThemeSettingServiceUpdateFallbackCreatesMissingRow(t *testing.T) {
	repo := &mockSubThemeSettingRepo{}
	subThemes := &mockSubThemeFinder{subThemes: map[string]*models.SubTheme{
		"st1": {ID: "st1", ThemeID: "th1"},
	}}
	svc := NewSubThemeSettingService(repo, subThemes, nil, nil, nil)

	setting, err := svc.Update(context.Background(), "st1", UpdateSubThemeSettingRequest{
		Enabled: boolPtr(true), AcademicYear: "113", AcademicTerm: "2",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "st1", setting.SubThemeID)
	assert.Equal(t, "113", setting.AcademicYear)
	assert.Equal(t, "2", setting.AcademicTerm)
	assert.True(t, setting.Enabled)
}

func TestSubThemeSettingServiceUpdateWithoutYearTermMisses(t *testing.T) {
	svc := NewSubThemeSettingService(&mockSubThemeSettingRepo{}, &mockSubThemeFinder{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), "st1", UpdateSubThemeSettingRequest{Enabled: boolPtr(true)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubThemeSettingServiceUpdateUnknownSubTheme(t *testing.T) {
	svc := NewSubThemeSettingService(&mockSubThemeSettingRepo{}, &mockSubThemeFinder{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), "ghost", UpdateSubThemeSettingRequest{
		Enabled: boolPtr(true), AcademicYear: "113", AcademicTerm: "1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
