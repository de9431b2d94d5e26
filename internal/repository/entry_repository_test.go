package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
)

func TestEntryRepositoryFindByNaturalKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subj_no", "ps_class_nbr", "academic_year", "academic_term", "sub_theme_id", "indicator_value", "week_numbers", "is_most_relevant", "created_at", "updated_at"}).
		AddRow("e1", "GEN101", "1234", "113", "1", "st1", "4", []byte("[3,5]"), false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE subj_no = $1 AND ps_class_nbr = $2 AND academic_year = $3 AND academic_term = $4 AND sub_theme_id = $5")).
		WithArgs("GEN101", "1234", "113", "1", "st1").
		WillReturnRows(rows)

	entry, err := repo.FindByNaturalKey(context.Background(), models.EntryKey{
		SubjNo: "GEN101", PsClassNbr: "1234", AcademicYear: "113", AcademicTerm: "1", SubThemeID: "st1",
	})
	require.NoError(t, err)
	assert.Equal(t, "4", entry.IndicatorValue)
	assert.Equal(t, models.WeekNumbers{3, 5}, entry.WeekNumbers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryDeleteByIDReportsMiss(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_entries WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_entries WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryReplaceCourseEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_entries WHERE subj_no = $1 AND ps_class_nbr = $2 AND academic_year = $3 AND academic_term = $4")).
		WithArgs("GEN101", "1234", "113", "2").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO course_entries").
		WithArgs(sqlmock.AnyArg(), "GEN101", "1234", "113", "2", "st1", "4", sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.CourseEntry{{
		SubjNo: "GEN101", PsClassNbr: "1234", AcademicYear: "113", AcademicTerm: "2",
		SubThemeID: "st1", IndicatorValue: "4", WeekNumbers: models.WeekNumbers{3, 5},
	}}
	deleted, err := repo.ReplaceCourseEntries(context.Background(), "GEN101", "1234", "113", "2", entries)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryExistsForCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("GEN101", "1234", "113", "1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForCourse(context.Background(), "GEN101", "1234", "113", "1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepositoryHasMostRelevantSibling(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntryRepository(db)

	mock.ExpectQuery("is_most_relevant = TRUE").
		WithArgs("GEN101", "1234", "113", "1", "th1", "e1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.HasMostRelevantSibling(context.Background(), "GEN101", "1234", "113", "1", "th1", "e1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
