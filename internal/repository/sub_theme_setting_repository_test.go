package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subThemeSettingRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "academic_year", "academic_term", "sub_theme_id", "enabled", "created_at", "updated_at"}).
		AddRow("ss1", "113", "1", "st1", false, now, now)
}

func TestSubThemeSettingRepositoryFindEnabledByCodeFiltersDisabled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubThemeSettingRepository(db)

	mock.ExpectQuery(`ss\.enabled = TRUE`).
		WithArgs("113", "1", "A101", "01").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindEnabledByCode(context.Background(), "113", "1", "A101", "01")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubThemeSettingRepositoryFindByCodeIgnoresEnabledFlag(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubThemeSettingRepository(db)

	// The codes-only lookup ends at the sub-theme predicate and carries no
	// enabled filter, so a disabled row still resolves.
	mock.ExpectQuery(`st\.sub_theme_code = \$4\s*$`).
		WithArgs("113", "1", "A101", "01").
		WillReturnRows(subThemeSettingRows())

	setting, err := repo.FindByCode(context.Background(), "113", "1", "A101", "01")
	require.NoError(t, err)
	assert.Equal(t, "st1", setting.SubThemeID)
	assert.False(t, setting.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubThemeSettingRepositoryCountEnabled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubThemeSettingRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM year_term_sub_theme_settings`).
		WithArgs("113", "1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountEnabled(context.Background(), "113", "1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
