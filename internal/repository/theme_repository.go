package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-themes-api/internal/models"
)

// ThemeRepository handles persistence for catalog themes.
type ThemeRepository struct {
	db *sqlx.DB
}

// NewThemeRepository instantiates a theme repository.
func NewThemeRepository(db *sqlx.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

const themeColumns = "id, theme_code, theme_name, theme_short_name, theme_english_name, chinese_link, english_link, created_at, updated_at"

// List returns themes matching provided filters.
func (r *ThemeRepository) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	base := "FROM themes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(theme_code) LIKE $%d OR LOWER(theme_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "theme_code"
	}
	allowedSorts := map[string]bool{
		"theme_code": true,
		"theme_name": true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "theme_code"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", themeColumns, base, sortBy, order, size, offset)

	var themes []models.Theme
	if err := r.db.SelectContext(ctx, &themes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list themes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count themes: %w", err)
	}

	return themes, total, nil
}

// FindByID loads a theme by identifier.
func (r *ThemeRepository) FindByID(ctx context.Context, id string) (*models.Theme, error) {
	query := fmt.Sprintf("SELECT %s FROM themes WHERE id = $1", themeColumns)
	var theme models.Theme
	if err := r.db.GetContext(ctx, &theme, query, id); err != nil {
		return nil, err
	}
	return &theme, nil
}

// FindByCode loads a theme by its business key.
func (r *ThemeRepository) FindByCode(ctx context.Context, code string) (*models.Theme, error) {
	query := fmt.Sprintf("SELECT %s FROM themes WHERE theme_code = $1", themeColumns)
	var theme models.Theme
	if err := r.db.GetContext(ctx, &theme, query, code); err != nil {
		return nil, err
	}
	return &theme, nil
}

// Create inserts a new theme record.
func (r *ThemeRepository) Create(ctx context.Context, theme *models.Theme) error {
	if theme.ID == "" {
		theme.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if theme.CreatedAt.IsZero() {
		theme.CreatedAt = now
	}
	theme.UpdatedAt = now

	const query = `INSERT INTO themes (id, theme_code, theme_name, theme_short_name, theme_english_name, chinese_link, english_link, created_at, updated_at) VALUES (:id, :theme_code, :theme_name, :theme_short_name, :theme_english_name, :chinese_link, :english_link, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, theme); err != nil {
		return fmt.Errorf("create theme: %w", err)
	}
	return nil
}

// Update modifies an existing theme.
func (r *ThemeRepository) Update(ctx context.Context, theme *models.Theme) error {
	theme.UpdatedAt = time.Now().UTC()
	const query = `UPDATE themes SET theme_code = :theme_code, theme_name = :theme_name, theme_short_name = :theme_short_name, theme_english_name = :theme_english_name, chinese_link = :chinese_link, english_link = :english_link, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, theme); err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	return nil
}

// Delete removes a theme permanently.
func (r *ThemeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM themes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete theme: %w", err)
	}
	return nil
}

// CountSubThemes returns the number of sub-themes referencing the theme.
func (r *ThemeRepository) CountSubThemes(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM sub_themes WHERE theme_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count theme sub-themes: %w", err)
	}
	return count, nil
}
