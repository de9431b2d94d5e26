package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-themes-api/internal/models"
)

// SubThemeRepository handles persistence for catalog sub-themes.
type SubThemeRepository struct {
	db *sqlx.DB
}

// NewSubThemeRepository instantiates a sub-theme repository.
func NewSubThemeRepository(db *sqlx.DB) *SubThemeRepository {
	return &SubThemeRepository{db: db}
}

const subThemeColumns = "id, theme_id, sub_theme_code, sub_theme_name, sub_theme_english_name, content, english_content, created_at, updated_at"

// ListByTheme returns all sub-themes of a theme ordered by code.
func (r *SubThemeRepository) ListByTheme(ctx context.Context, themeID string) ([]models.SubTheme, error) {
	query := fmt.Sprintf("SELECT %s FROM sub_themes WHERE theme_id = $1 ORDER BY sub_theme_code ASC", subThemeColumns)
	var subThemes []models.SubTheme
	if err := r.db.SelectContext(ctx, &subThemes, query, themeID); err != nil {
		return nil, fmt.Errorf("list sub-themes: %w", err)
	}
	return subThemes, nil
}

// FindByID loads a sub-theme by identifier.
func (r *SubThemeRepository) FindByID(ctx context.Context, id string) (*models.SubTheme, error) {
	query := fmt.Sprintf("SELECT %s FROM sub_themes WHERE id = $1", subThemeColumns)
	var subTheme models.SubTheme
	if err := r.db.GetContext(ctx, &subTheme, query, id); err != nil {
		return nil, err
	}
	return &subTheme, nil
}

// Create inserts a new sub-theme record.
func (r *SubThemeRepository) Create(ctx context.Context, subTheme *models.SubTheme) error {
	if subTheme.ID == "" {
		subTheme.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subTheme.CreatedAt.IsZero() {
		subTheme.CreatedAt = now
	}
	subTheme.UpdatedAt = now

	const query = `INSERT INTO sub_themes (id, theme_id, sub_theme_code, sub_theme_name, sub_theme_english_name, content, english_content, created_at, updated_at) VALUES (:id, :theme_id, :sub_theme_code, :sub_theme_name, :sub_theme_english_name, :content, :english_content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subTheme); err != nil {
		return fmt.Errorf("create sub-theme: %w", err)
	}
	return nil
}

// Update modifies an existing sub-theme.
func (r *SubThemeRepository) Update(ctx context.Context, subTheme *models.SubTheme) error {
	subTheme.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sub_themes SET sub_theme_code = :sub_theme_code, sub_theme_name = :sub_theme_name, sub_theme_english_name = :sub_theme_english_name, content = :content, english_content = :english_content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subTheme); err != nil {
		return fmt.Errorf("update sub-theme: %w", err)
	}
	return nil
}

// Delete removes a sub-theme permanently.
func (r *SubThemeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sub_themes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sub-theme: %w", err)
	}
	return nil
}

// CountEntries returns the number of course entries referencing the sub-theme.
func (r *SubThemeRepository) CountEntries(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_entries WHERE sub_theme_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count sub-theme entries: %w", err)
	}
	return count, nil
}
