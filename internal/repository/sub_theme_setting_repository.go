package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-themes-api/internal/models"
)

// SubThemeSettingRepository handles persistence for year-term sub-theme
// settings.
type SubThemeSettingRepository struct {
	db *sqlx.DB
}

// NewSubThemeSettingRepository instantiates a sub-theme-setting repository.
func NewSubThemeSettingRepository(db *sqlx.DB) *SubThemeSettingRepository {
	return &SubThemeSettingRepository{db: db}
}

const subThemeSettingColumns = "id, academic_year, academic_term, sub_theme_id, enabled, created_at, updated_at"

// FindByID loads a sub-theme setting by identifier.
func (r *SubThemeSettingRepository) FindByID(ctx context.Context, id string) (*models.SubThemeSetting, error) {
	query := fmt.Sprintf("SELECT %s FROM year_term_sub_theme_settings WHERE id = $1", subThemeSettingColumns)
	var setting models.SubThemeSetting
	if err := r.db.GetContext(ctx, &setting, query, id); err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindByYearTermSubTheme loads the setting addressed by its natural key.
func (r *SubThemeSettingRepository) FindByYearTermSubTheme(ctx context.Context, year, term, subThemeID string) (*models.SubThemeSetting, error) {
	query := fmt.Sprintf("SELECT %s FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2 AND sub_theme_id = $3", subThemeSettingColumns)
	var setting models.SubThemeSetting
	if err := r.db.GetContext(ctx, &setting, query, year, term, subThemeID); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Create inserts a new sub-theme setting.
func (r *SubThemeSettingRepository) Create(ctx context.Context, setting *models.SubThemeSetting) error {
	if setting.ID == "" {
		setting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if setting.CreatedAt.IsZero() {
		setting.CreatedAt = now
	}
	setting.UpdatedAt = now

	const query = `INSERT INTO year_term_sub_theme_settings (id, academic_year, academic_term, sub_theme_id, enabled, created_at, updated_at) VALUES (:id, :academic_year, :academic_term, :sub_theme_id, :enabled, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("create sub-theme setting: %w", err)
	}
	return nil
}

// UpdateEnabled flips the enable flag in place.
func (r *SubThemeSettingRepository) UpdateEnabled(ctx context.Context, id string, enabled bool) error {
	const query = `UPDATE year_term_sub_theme_settings SET enabled = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, enabled, time.Now().UTC()); err != nil {
		return fmt.Errorf("update sub-theme setting: %w", err)
	}
	return nil
}

// ListStatusByTheme returns every catalog sub-theme of the theme with its
// year-term enable flag. Missing setting rows read as disabled.
func (r *SubThemeSettingRepository) ListStatusByTheme(ctx context.Context, year, term, themeID string) ([]models.SubThemeStatus, error) {
	const query = `
		SELECT ss.id AS setting_id,
		       st.id AS sub_theme_id,
		       st.sub_theme_code,
		       st.sub_theme_name,
		       COALESCE(ss.enabled, FALSE) AS enabled
		FROM sub_themes st
		LEFT JOIN year_term_sub_theme_settings ss
		       ON ss.sub_theme_id = st.id
		      AND ss.academic_year = $1
		      AND ss.academic_term = $2
		WHERE st.theme_id = $3
		ORDER BY st.sub_theme_code ASC`
	var statuses []models.SubThemeStatus
	if err := r.db.SelectContext(ctx, &statuses, query, year, term, themeID); err != nil {
		return nil, fmt.Errorf("list sub-theme statuses: %w", err)
	}
	return statuses, nil
}

// EnabledPair identifies one enabled sub-theme by catalog codes.
type EnabledPair struct {
	ThemeCode    string `db:"theme_code"`
	SubThemeCode string `db:"sub_theme_code"`
	SubThemeID   string `db:"sub_theme_id"`
}

// ListEnabledPairs returns the (theme_code, sub_theme_code) pairs enabled in
// the year-term, keyed for copy filtering and entry resolution.
func (r *SubThemeSettingRepository) ListEnabledPairs(ctx context.Context, year, term string) ([]EnabledPair, error) {
	const query = `
		SELECT t.theme_code, st.sub_theme_code, st.id AS sub_theme_id
		FROM year_term_sub_theme_settings ss
		JOIN sub_themes st ON st.id = ss.sub_theme_id
		JOIN themes t ON t.id = st.theme_id
		WHERE ss.academic_year = $1 AND ss.academic_term = $2 AND ss.enabled = TRUE
		ORDER BY t.theme_code ASC, st.sub_theme_code ASC`
	var pairs []EnabledPair
	if err := r.db.SelectContext(ctx, &pairs, query, year, term); err != nil {
		return nil, fmt.Errorf("list enabled pairs: %w", err)
	}
	return pairs, nil
}

// CountEnabled returns the number of enabled sub-theme settings in the
// year-term.
func (r *SubThemeSettingRepository) CountEnabled(ctx context.Context, year, term string) (int, error) {
	const query = `SELECT COUNT(*) FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2 AND enabled = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, year, term); err != nil {
		return 0, fmt.Errorf("count enabled sub-theme settings: %w", err)
	}
	return count, nil
}

// ListByYearTerm returns all explicit setting rows for a year-term, used to
// carry enable flags during copies.
func (r *SubThemeSettingRepository) ListByYearTerm(ctx context.Context, year, term string) ([]models.SubThemeSetting, error) {
	query := fmt.Sprintf("SELECT %s FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2", subThemeSettingColumns)
	var settings []models.SubThemeSetting
	if err := r.db.SelectContext(ctx, &settings, query, year, term); err != nil {
		return nil, fmt.Errorf("list sub-theme settings: %w", err)
	}
	return settings, nil
}

// FindEnabledByCode resolves a sub-theme through an enabled setting for the
// year-term, addressed by catalog codes.
func (r *SubThemeSettingRepository) FindEnabledByCode(ctx context.Context, year, term, themeCode, subThemeCode string) (*models.SubThemeSetting, error) {
	const query = `
		SELECT ss.id, ss.academic_year, ss.academic_term, ss.sub_theme_id, ss.enabled, ss.created_at, ss.updated_at
		FROM year_term_sub_theme_settings ss
		JOIN sub_themes st ON st.id = ss.sub_theme_id
		JOIN themes t ON t.id = st.theme_id
		WHERE ss.academic_year = $1 AND ss.academic_term = $2
		  AND t.theme_code = $3 AND st.sub_theme_code = $4
		  AND ss.enabled = TRUE`
	var setting models.SubThemeSetting
	if err := r.db.GetContext(ctx, &setting, query, year, term, themeCode, subThemeCode); err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindByCode resolves a sub-theme through any setting row for the year-term,
// regardless of the enable flag. Deleting an entry by its catalog codes must
// keep working after the setting is toggled off.
func (r *SubThemeSettingRepository) FindByCode(ctx context.Context, year, term, themeCode, subThemeCode string) (*models.SubThemeSetting, error) {
	const query = `
		SELECT ss.id, ss.academic_year, ss.academic_term, ss.sub_theme_id, ss.enabled, ss.created_at, ss.updated_at
		FROM year_term_sub_theme_settings ss
		JOIN sub_themes st ON st.id = ss.sub_theme_id
		JOIN themes t ON t.id = st.theme_id
		WHERE ss.academic_year = $1 AND ss.academic_term = $2
		  AND t.theme_code = $3 AND st.sub_theme_code = $4`
	var setting models.SubThemeSetting
	if err := r.db.GetContext(ctx, &setting, query, year, term, themeCode, subThemeCode); err != nil {
		return nil, err
	}
	return &setting, nil
}
