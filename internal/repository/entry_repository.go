package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-themes-api/internal/models"
)

// EntryRepository handles persistence for course entries.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository instantiates an entry repository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = "id, subj_no, ps_class_nbr, academic_year, academic_term, sub_theme_id, indicator_value, week_numbers, is_most_relevant, created_at, updated_at"

const entryDetailQuery = `
	SELECT e.id, e.subj_no, e.ps_class_nbr, e.academic_year, e.academic_term, e.sub_theme_id,
	       e.indicator_value, e.week_numbers, e.is_most_relevant, e.created_at, e.updated_at,
	       t.id AS theme_id, t.theme_code, st.sub_theme_code, st.sub_theme_name
	FROM course_entries e
	JOIN sub_themes st ON st.id = e.sub_theme_id
	JOIN themes t ON t.id = st.theme_id`

// FindByID loads an entry by identifier.
func (r *EntryRepository) FindByID(ctx context.Context, id string) (*models.CourseEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM course_entries WHERE id = $1", entryColumns)
	var entry models.CourseEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByNaturalKey loads an entry by its natural key.
func (r *EntryRepository) FindByNaturalKey(ctx context.Context, key models.EntryKey) (*models.CourseEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM course_entries WHERE subj_no = $1 AND ps_class_nbr = $2 AND academic_year = $3 AND academic_term = $4 AND sub_theme_id = $5", entryColumns)
	var entry models.CourseEntry
	if err := r.db.GetContext(ctx, &entry, query, key.SubjNo, key.PsClassNbr, key.AcademicYear, key.AcademicTerm, key.SubThemeID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new entry record.
func (r *EntryRepository) Create(ctx context.Context, entry *models.CourseEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO course_entries (id, subj_no, ps_class_nbr, academic_year, academic_term, sub_theme_id, indicator_value, week_numbers, is_most_relevant, created_at, updated_at) VALUES (:id, :subj_no, :ps_class_nbr, :academic_year, :academic_term, :sub_theme_id, :indicator_value, :week_numbers, :is_most_relevant, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

// Update modifies the mutable fields of an entry.
func (r *EntryRepository) Update(ctx context.Context, entry *models.CourseEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE course_entries SET indicator_value = :indicator_value, week_numbers = :week_numbers, is_most_relevant = :is_most_relevant, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// DeleteByID removes an entry and reports whether a row was deleted.
func (r *EntryRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete entry rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteByNaturalKey removes an entry by natural key and reports whether a
// row was deleted.
func (r *EntryRepository) DeleteByNaturalKey(ctx context.Context, key models.EntryKey) (bool, error) {
	const query = `DELETE FROM course_entries WHERE subj_no = $1 AND ps_class_nbr = $2 AND academic_year = $3 AND academic_term = $4 AND sub_theme_id = $5`
	res, err := r.db.ExecContext(ctx, query, key.SubjNo, key.PsClassNbr, key.AcademicYear, key.AcademicTerm, key.SubThemeID)
	if err != nil {
		return false, fmt.Errorf("delete entry by key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete entry by key rows affected: %w", err)
	}
	return n > 0, nil
}

// ListByCourse returns the entries of one course section with catalog labels.
func (r *EntryRepository) ListByCourse(ctx context.Context, subjNo, psClassNbr, year, term string) ([]models.EntryDetail, error) {
	query := entryDetailQuery + ` WHERE e.subj_no = $1 AND e.ps_class_nbr = $2 AND e.academic_year = $3 AND e.academic_term = $4 ORDER BY t.theme_code ASC, st.sub_theme_code ASC`
	var entries []models.EntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, subjNo, psClassNbr, year, term); err != nil {
		return nil, fmt.Errorf("list course entries: %w", err)
	}
	return entries, nil
}

// ListByYearTerm returns all entries of a year-term with catalog labels.
func (r *EntryRepository) ListByYearTerm(ctx context.Context, year, term string) ([]models.EntryDetail, error) {
	query := entryDetailQuery + ` WHERE e.academic_year = $1 AND e.academic_term = $2 ORDER BY e.subj_no ASC, e.ps_class_nbr ASC, t.theme_code ASC, st.sub_theme_code ASC`
	var entries []models.EntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, year, term); err != nil {
		return nil, fmt.Errorf("list year-term entries: %w", err)
	}
	return entries, nil
}

// ListCoursesBySubTheme returns the course sections holding entries against
// one sub-theme in a year-term.
func (r *EntryRepository) ListCoursesBySubTheme(ctx context.Context, year, term, subThemeID string) ([]models.CourseRef, error) {
	const query = `SELECT DISTINCT subj_no, ps_class_nbr, academic_year, academic_term FROM course_entries WHERE academic_year = $1 AND academic_term = $2 AND sub_theme_id = $3 ORDER BY subj_no ASC, ps_class_nbr ASC`
	var courses []models.CourseRef
	if err := r.db.SelectContext(ctx, &courses, query, year, term, subThemeID); err != nil {
		return nil, fmt.Errorf("list courses by sub-theme: %w", err)
	}
	return courses, nil
}

// ExistsForCourse reports whether the course section holds any entry for the
// year-term.
func (r *EntryRepository) ExistsForCourse(ctx context.Context, subjNo, psClassNbr, year, term string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM course_entries WHERE subj_no = $1 AND ps_class_nbr = $2 AND academic_year = $3 AND academic_term = $4)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, subjNo, psClassNbr, year, term); err != nil {
		return false, fmt.Errorf("check course entries: %w", err)
	}
	return exists, nil
}

// HasMostRelevantSibling reports whether another entry of the same course,
// year-term and theme already holds the most-relevant flag.
func (r *EntryRepository) HasMostRelevantSibling(ctx context.Context, subjNo, psClassNbr, year, term, themeID, excludeEntryID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM course_entries e
			JOIN sub_themes st ON st.id = e.sub_theme_id
			WHERE e.subj_no = $1 AND e.ps_class_nbr = $2
			  AND e.academic_year = $3 AND e.academic_term = $4
			  AND st.theme_id = $5
			  AND e.is_most_relevant = TRUE
			  AND e.id <> $6
		)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, subjNo, psClassNbr, year, term, themeID, excludeEntryID); err != nil {
		return false, fmt.Errorf("check most-relevant sibling: %w", err)
	}
	return exists, nil
}

// ReplaceCourseEntries deletes the existing target entries of the course
// section and inserts the provided replacements in one transaction. It
// returns the number of rows deleted.
func (r *EntryRepository) ReplaceCourseEntries(ctx context.Context, subjNo, psClassNbr, year, term string, entries []models.CourseEntry) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin copy entries tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM course_entries WHERE subj_no = $1 AND ps_class_nbr = $2 AND academic_year = $3 AND academic_term = $4`, subjNo, psClassNbr, year, term)
	if err != nil {
		return 0, fmt.Errorf("delete target entries: %w", err)
	}
	deleted := 0
	if n, raErr := res.RowsAffected(); raErr == nil {
		deleted = int(n)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO course_entries (id, subj_no, ps_class_nbr, academic_year, academic_term, sub_theme_id, indicator_value, week_numbers, is_most_relevant, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, insert, entry.ID, entry.SubjNo, entry.PsClassNbr, entry.AcademicYear, entry.AcademicTerm, entry.SubThemeID, entry.IndicatorValue, entry.WeekNumbers, entry.IsMostRelevant, now); err != nil {
			return 0, fmt.Errorf("copy entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit copy entries tx: %w", err)
	}
	return deleted, nil
}
