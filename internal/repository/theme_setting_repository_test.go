package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
)

func TestThemeSettingRepositoryCreateWithSubThemes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeSettingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO year_term_theme_settings").
		WithArgs(sqlmock.AnyArg(), "113", "1", "th1", true, 5, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO year_term_sub_theme_settings").
		WithArgs(sqlmock.AnyArg(), "113", "1", "st1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// second sub-theme already has a row, ON CONFLICT swallows it
	mock.ExpectExec("INSERT INTO year_term_sub_theme_settings").
		WithArgs(sqlmock.AnyArg(), "113", "1", "st2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	setting := &models.ThemeSetting{
		AcademicYear:      "113",
		AcademicTerm:      "1",
		ThemeID:           "th1",
		FillInWeekEnabled: true,
		ScaleMax:          5,
	}
	created, err := repo.CreateWithSubThemes(context.Background(), setting, []string{"st1", "st2"})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.NotEmpty(t, setting.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeSettingRepositoryCreateWithSubThemesRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeSettingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO year_term_theme_settings").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, err := repo.CreateWithSubThemes(context.Background(), &models.ThemeSetting{AcademicYear: "113", AcademicTerm: "1", ThemeID: "th1"}, nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeSettingRepositoryDeleteWithSubThemes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeSettingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2 AND sub_theme_id IN (SELECT id FROM sub_themes WHERE theme_id = $3)")).
		WithArgs("113", "1", "th1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM year_term_theme_settings WHERE id = $1")).
		WithArgs("ts1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteWithSubThemes(context.Background(), &models.ThemeSetting{ID: "ts1", AcademicYear: "113", AcademicTerm: "1", ThemeID: "th1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeSettingRepositoryReplaceYearTerm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeSettingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2")).
		WithArgs("113", "2").
		WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM year_term_theme_settings WHERE academic_year = $1 AND academic_term = $2")).
		WithArgs("113", "2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO year_term_theme_settings").
		WithArgs(sqlmock.AnyArg(), "113", "2", "th1", false, 5, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO year_term_sub_theme_settings").
		WithArgs(sqlmock.AnyArg(), "113", "2", "st1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO year_term_sub_theme_settings").
		WithArgs(sqlmock.AnyArg(), "113", "2", "st2", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sources := []CopySource{{
		Setting:     models.ThemeSetting{ThemeID: "th1", ScaleMax: 5, SelectMostRelevantEnabled: true},
		SubThemeIDs: []string{"st1", "st2"},
		Enabled:     map[string]bool{"st1": true},
	}}
	deletedThemes, deletedSubs, createdSubs, err := repo.ReplaceYearTerm(context.Background(), "113", "2", sources)
	require.NoError(t, err)
	assert.Equal(t, 2, deletedThemes)
	assert.Equal(t, 6, deletedSubs)
	assert.Equal(t, 2, createdSubs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeSettingRepositoryListRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeSettingRepository(db)

	rows := sqlmock.NewRows([]string{
		"setting_id", "theme_id", "theme_code", "theme_name", "theme_short_name",
		"fill_in_week_enabled", "scale_max", "select_most_relevant_enabled",
		"sub_theme_setting_id", "sub_theme_id", "sub_theme_code", "sub_theme_name", "sub_theme_enabled",
	}).
		AddRow("ts1", "th1", "A101", "SDGs", "SDGs", false, 5, false, "ss1", "st1", "01", "消除貧窮", true).
		AddRow("ts1", "th1", "A101", "SDGs", "SDGs", false, 5, false, nil, "st2", "02", "消除飢餓", nil)
	mock.ExpectQuery("FROM year_term_theme_settings ts").
		WithArgs("113", "1").
		WillReturnRows(rows)

	got, err := repo.ListRows(context.Background(), "113", "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A101", got[0].ThemeCode)
	require.NotNil(t, got[0].SubThemeEnabled)
	assert.True(t, *got[0].SubThemeEnabled)
	assert.Nil(t, got[1].SubThemeSettingID)
	assert.Nil(t, got[1].SubThemeEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
