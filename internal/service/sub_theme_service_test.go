package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type mockSubThemeRepo struct {
	subThemes   map[string]*models.SubTheme
	entryCounts map[string]int
	nextID      int
	createErr   error
}

func (m *mockSubThemeRepo) ListByTheme(ctx context.Context, themeID string) ([]models.SubTheme, error) {
	var out []models.SubTheme
	for _, st := range m.subThemes {
		if st.ThemeID == themeID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockSubThemeRepo) FindByID(ctx context.Context, id string) (*models.SubTheme, error) {
	if st, ok := m.subThemes[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubThemeRepo) Create(ctx context.Context, subTheme *models.SubTheme) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.subThemes == nil {
		m.subThemes = make(map[string]*models.SubTheme)
	}
	m.nextID++
	subTheme.ID = fmt.Sprintf("st%d", m.nextID)
	cp := *subTheme
	m.subThemes[subTheme.ID] = &cp
	return nil
}

func (m *mockSubThemeRepo) Update(ctx context.Context, subTheme *models.SubTheme) error {
	cp := *subTheme
	m.subThemes[subTheme.ID] = &cp
	return nil
}

func (m *mockSubThemeRepo) Delete(ctx context.Context, id string) error {
	delete(m.subThemes, id)
	return nil
}

func (m *mockSubThemeRepo) CountEntries(ctx context.Context, id string) (int, error) {
	return m.entryCounts[id], nil
}

func newSubThemeServiceForTest(repo *mockSubThemeRepo, themes *mockThemeFinder) *SubThemeService {
	if themes == nil {
		themes = &mockThemeFinder{}
	}
	return NewSubThemeService(repo, themes, nil, nil)
}

func TestSubThemeServiceCreateRequiresExistingTheme(t *testing.T) {
	svc := newSubThemeServiceForTest(&mockSubThemeRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateSubThemeRequest{
		ThemeID: "missing", SubThemeCode: "01", SubThemeName: "消除貧窮", SubThemeEnglishName: "No Poverty",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "theme not found", appErr.Message)
}

func TestSubThemeServiceCreateUnderTheme(t *testing.T) {
	repo := &mockSubThemeRepo{}
	themes := &mockThemeFinder{themes: map[string]*models.Theme{
		"A101": {ID: "th1", ThemeCode: "A101"},
	}}
	svc := newSubThemeServiceForTest(repo, themes)

	st, err := svc.Create(context.Background(), CreateSubThemeRequest{
		ThemeID: "th1", SubThemeCode: "01", SubThemeName: "消除貧窮", SubThemeEnglishName: "No Poverty",
	})
	require.NoError(t, err)
	assert.Equal(t, "th1", st.ThemeID)
	assert.Len(t, repo.subThemes, 1)
}

func TestSubThemeServiceDeleteRejectsWhileEntriesExist(t *testing.T) {
	repo := &mockSubThemeRepo{
		subThemes:   map[string]*models.SubTheme{"st1": {ID: "st1", ThemeID: "th1", SubThemeCode: "01"}},
		entryCounts: map[string]int{"st1": 3},
	}
	svc := newSubThemeServiceForTest(repo, nil)

	err := svc.Delete(context.Background(), "st1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErr.Code)
	assert.Equal(t, "sub-theme still has course entries", appErr.Message)
	assert.Contains(t, repo.subThemes, "st1")

	// With the course entries cleared the sub-theme can be removed.
	repo.entryCounts["st1"] = 0
	require.NoError(t, svc.Delete(context.Background(), "st1"))
	assert.NotContains(t, repo.subThemes, "st1")
}

func TestSubThemeServiceDeleteMissing(t *testing.T) {
	svc := newSubThemeServiceForTest(&mockSubThemeRepo{}, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
