package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestThemeRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "theme_code", "theme_name", "theme_short_name", "theme_english_name", "chinese_link", "english_link", "created_at", "updated_at"}).
		AddRow("th1", "A101", "SDGs", "SDGs", "SDGs", nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, theme_code, theme_name, theme_short_name, theme_english_name, chinese_link, english_link, created_at, updated_at FROM themes WHERE 1=1 ORDER BY theme_code ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM themes WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ThemeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(LOWER(theme_code) LIKE $1 OR LOWER(theme_name) LIKE $1)")).
		WithArgs("%sdg%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "theme_code", "theme_name", "theme_short_name", "theme_english_name", "chinese_link", "english_link", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%sdg%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.ThemeFilter{Search: "SDG"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeRepository(db)

	mock.ExpectExec("INSERT INTO themes").
		WithArgs(sqlmock.AnyArg(), "A101", "SDGs", "SDGs", "SDGs", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	theme := &models.Theme{ThemeCode: "A101", ThemeName: "SDGs", ThemeShortName: "SDGs", ThemeEnglishName: "SDGs"}
	require.NoError(t, repo.Create(context.Background(), theme))
	assert.NotEmpty(t, theme.ID)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM themes WHERE id = $1")).
		WithArgs(theme.ID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), theme.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeRepositoryCountSubThemes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThemeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sub_themes WHERE theme_id = $1")).
		WithArgs("th1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountSubThemes(context.Background(), "th1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(context.DeadlineExceeded))
	assert.False(t, IsUniqueViolation(nil))
}
