package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
)

type mockThemeRepo struct {
	themes         map[string]*models.Theme
	subThemeCounts map[string]int
	nextID         int
	createErr      error
}

func (m *mockThemeRepo) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	out := make([]models.Theme, 0, len(m.themes))
	for _, theme := range m.themes {
		out = append(out, *theme)
	}
	return out, len(out), nil
}

func (m *mockThemeRepo) FindByID(ctx context.Context, id string) (*models.Theme, error) {
	if theme, ok := m.themes[id]; ok {
		cp := *theme
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockThemeRepo) FindByCode(ctx context.Context, code string) (*models.Theme, error) {
	for _, theme := range m.themes {
		if theme.ThemeCode == code {
			cp := *theme
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockThemeRepo) Create(ctx context.Context, theme *models.Theme) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.themes == nil {
		m.themes = make(map[string]*models.Theme)
	}
	m.nextID++
	theme.ID = fmt.Sprintf("th%d", m.nextID)
	cp := *theme
	m.themes[theme.ID] = &cp
	return nil
}

func (m *mockThemeRepo) Update(ctx context.Context, theme *models.Theme) error {
	cp := *theme
	m.themes[theme.ID] = &cp
	return nil
}

func (m *mockThemeRepo) Delete(ctx context.Context, id string) error {
	delete(m.themes, id)
	return nil
}

func (m *mockThemeRepo) CountSubThemes(ctx context.Context, id string) (int, error) {
	return m.subThemeCounts[id], nil
}

func newThemeServiceForTest(repo *mockThemeRepo, subs *mockSubThemeLister) *ThemeService {
	if subs == nil {
		subs = &mockSubThemeLister{}
	}
	return NewThemeService(repo, subs, nil, nil)
}

func TestThemeServiceCreateRejectsDuplicateCode(t *testing.T) {
	repo := &mockThemeRepo{createErr: &pq.Error{Code: "23505"}}
	svc := newThemeServiceForTest(repo, nil)

	_, err := svc.Create(context.Background(), CreateThemeRequest{
		ThemeCode: "A101", ThemeName: "SDGs", ThemeShortName: "SDGs", ThemeEnglishName: "SDGs",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "theme code already exists", appErr.Message)
}

func TestThemeServiceGetNestsSubThemes(t *testing.T) {
	repo := &mockThemeRepo{themes: map[string]*models.Theme{
		"th1": {ID: "th1", ThemeCode: "A101", ThemeName: "SDGs"},
	}}
	subs := &mockSubThemeLister{subThemes: []models.SubTheme{
		{ID: "st1", ThemeID: "th1", SubThemeCode: "01"},
		{ID: "st2", ThemeID: "th1", SubThemeCode: "02"},
	}}
	svc := newThemeServiceForTest(repo, subs)

	got, err := svc.Get(context.Background(), "th1")
	require.NoError(t, err)
	assert.Equal(t, "A101", got.ThemeCode)
	assert.Len(t, got.SubThemes, 2)
}

func TestThemeServiceDeleteRejectsWhileSubThemesExist(t *testing.T) {
	repo := &mockThemeRepo{
		themes:         map[string]*models.Theme{"th1": {ID: "th1", ThemeCode: "A101"}},
		subThemeCounts: map[string]int{"th1": 2},
	}
	svc := newThemeServiceForTest(repo, nil)

	err := svc.Delete(context.Background(), "th1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErr.Code)
	assert.Equal(t, "theme still has sub-themes", appErr.Message)
	assert.Contains(t, repo.themes, "th1")

	// Once the blocking sub-themes are gone the delete goes through.
	repo.subThemeCounts["th1"] = 0
	require.NoError(t, svc.Delete(context.Background(), "th1"))
	assert.NotContains(t, repo.themes, "th1")
}

func TestThemeServiceDeleteMissing(t *testing.T) {
	svc := newThemeServiceForTest(&mockThemeRepo{}, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
