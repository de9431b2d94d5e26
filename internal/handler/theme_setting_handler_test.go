package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	"github.com/noah-isme/course-themes-api/internal/service"
)

type themeSettingRepoStub struct {
	rows []models.ThemeSettingRow
}

func (s *themeSettingRepoStub) FindByID(ctx context.Context, id string) (*models.ThemeSetting, error) {
	return nil, sql.ErrNoRows
}

func (s *themeSettingRepoStub) FindByYearTermTheme(ctx context.Context, year, term, themeID string) (*models.ThemeSetting, error) {
	return nil, sql.ErrNoRows
}

func (s *themeSettingRepoStub) ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSetting, error) {
	return nil, nil
}

func (s *themeSettingRepoStub) ListRows(ctx context.Context, year, term string) ([]models.ThemeSettingRow, error) {
	return s.rows, nil
}

func (s *themeSettingRepoStub) CreateWithSubThemes(ctx context.Context, setting *models.ThemeSetting, subThemeIDs []string) (int, error) {
	return 0, nil
}

func (s *themeSettingRepoStub) Update(ctx context.Context, setting *models.ThemeSetting) error {
	return nil
}

func (s *themeSettingRepoStub) DeleteWithSubThemes(ctx context.Context, setting *models.ThemeSetting) error {
	return nil
}

func newThemeSettingHandlerForTest(rows []models.ThemeSettingRow) *ThemeSettingHandler {
	svc := service.NewThemeSettingService(&themeSettingRepoStub{rows: rows}, nil, nil, nil, nil, nil, nil)
	return NewThemeSettingHandler(svc)
}

func TestThemeSettingHandlerListRequiresYearTerm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newThemeSettingHandlerForTest(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/theme-settings", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThemeSettingHandlerOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	enabled := true
	handler := newThemeSettingHandlerForTest([]models.ThemeSettingRow{
		{SettingID: "ts1", ThemeID: "th1", ThemeCode: "A101", ThemeName: "SDGs主題", ScaleMax: 5,
			SubThemeID: strPtrTest("st1"), SubThemeCode: strPtrTest("01"), SubThemeName: strPtrTest("消除貧窮"), SubThemeEnabled: &enabled},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/theme-settings/overview?academic_year=113&academic_term=1", nil)
	c.Request = req

	handler.Overview(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_themes":1`)
	assert.Contains(t, w.Body.String(), `"enabled_sub_themes":1`)
}

func TestThemeSettingHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newThemeSettingHandlerForTest(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/theme-settings", strings.NewReader(`invalid`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThemeSettingHandlerGetMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newThemeSettingHandlerForTest(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/theme-settings/nope", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
