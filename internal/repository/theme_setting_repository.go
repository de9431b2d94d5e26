package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-themes-api/internal/models"
)

// ThemeSettingRepository handles persistence for year-term theme settings.
type ThemeSettingRepository struct {
	db *sqlx.DB
}

// NewThemeSettingRepository instantiates a theme-setting repository.
func NewThemeSettingRepository(db *sqlx.DB) *ThemeSettingRepository {
	return &ThemeSettingRepository{db: db}
}

const themeSettingColumns = "id, academic_year, academic_term, theme_id, fill_in_week_enabled, scale_max, select_most_relevant_enabled, created_at, updated_at"

// FindByID loads a theme setting by identifier.
func (r *ThemeSettingRepository) FindByID(ctx context.Context, id string) (*models.ThemeSetting, error) {
	query := fmt.Sprintf("SELECT %s FROM year_term_theme_settings WHERE id = $1", themeSettingColumns)
	var setting models.ThemeSetting
	if err := r.db.GetContext(ctx, &setting, query, id); err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindByYearTermTheme loads the setting for one theme in one year-term.
func (r *ThemeSettingRepository) FindByYearTermTheme(ctx context.Context, year, term, themeID string) (*models.ThemeSetting, error) {
	query := fmt.Sprintf("SELECT %s FROM year_term_theme_settings WHERE academic_year = $1 AND academic_term = $2 AND theme_id = $3", themeSettingColumns)
	var setting models.ThemeSetting
	if err := r.db.GetContext(ctx, &setting, query, year, term, themeID); err != nil {
		return nil, err
	}
	return &setting, nil
}

// ListByYearTerm returns all theme settings for a year-term.
func (r *ThemeSettingRepository) ListByYearTerm(ctx context.Context, year, term string) ([]models.ThemeSetting, error) {
	const query = `SELECT s.id, s.academic_year, s.academic_term, s.theme_id, s.fill_in_week_enabled, s.scale_max, s.select_most_relevant_enabled, s.created_at, s.updated_at FROM year_term_theme_settings s JOIN themes t ON t.id = s.theme_id WHERE s.academic_year = $1 AND s.academic_term = $2 ORDER BY t.theme_code ASC`
	var settings []models.ThemeSetting
	if err := r.db.SelectContext(ctx, &settings, query, year, term); err != nil {
		return nil, fmt.Errorf("list theme settings: %w", err)
	}
	return settings, nil
}

// ListRows returns the flat join of active themes and every catalog sub-theme
// with its enable flag for the year-term. Sub-themes lacking a setting row
// surface with a NULL setting id.
func (r *ThemeSettingRepository) ListRows(ctx context.Context, year, term string) ([]models.ThemeSettingRow, error) {
	const query = `
		SELECT ts.id AS setting_id,
		       t.id AS theme_id,
		       t.theme_code,
		       t.theme_name,
		       t.theme_short_name,
		       ts.fill_in_week_enabled,
		       ts.scale_max,
		       ts.select_most_relevant_enabled,
		       ss.id AS sub_theme_setting_id,
		       st.id AS sub_theme_id,
		       st.sub_theme_code,
		       st.sub_theme_name,
		       ss.enabled AS sub_theme_enabled
		FROM year_term_theme_settings ts
		JOIN themes t ON t.id = ts.theme_id
		LEFT JOIN sub_themes st ON st.theme_id = t.id
		LEFT JOIN year_term_sub_theme_settings ss
		       ON ss.sub_theme_id = st.id
		      AND ss.academic_year = ts.academic_year
		      AND ss.academic_term = ts.academic_term
		WHERE ts.academic_year = $1 AND ts.academic_term = $2
		ORDER BY t.theme_code ASC, st.sub_theme_code ASC`
	var rows []models.ThemeSettingRow
	if err := r.db.SelectContext(ctx, &rows, query, year, term); err != nil {
		return nil, fmt.Errorf("list theme setting rows: %w", err)
	}
	return rows, nil
}

// CreateWithSubThemes inserts the theme setting and materializes an enabled
// sub-theme setting for every catalog sub-theme of the theme, skipping rows
// that already exist, in one transaction. It returns the number of sub-theme
// settings inserted.
func (r *ThemeSettingRepository) CreateWithSubThemes(ctx context.Context, setting *models.ThemeSetting, subThemeIDs []string) (int, error) {
	if setting.ID == "" {
		setting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if setting.CreatedAt.IsZero() {
		setting.CreatedAt = now
	}
	setting.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create theme setting tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertSetting = `INSERT INTO year_term_theme_settings (id, academic_year, academic_term, theme_id, fill_in_week_enabled, scale_max, select_most_relevant_enabled, created_at, updated_at) VALUES (:id, :academic_year, :academic_term, :theme_id, :fill_in_week_enabled, :scale_max, :select_most_relevant_enabled, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertSetting, setting); err != nil {
		return 0, fmt.Errorf("create theme setting: %w", err)
	}

	const insertSub = `INSERT INTO year_term_sub_theme_settings (id, academic_year, academic_term, sub_theme_id, enabled, created_at, updated_at) VALUES ($1, $2, $3, $4, TRUE, $5, $5) ON CONFLICT (academic_year, academic_term, sub_theme_id) DO NOTHING`
	created := 0
	var res sql.Result
	for _, subThemeID := range subThemeIDs {
		res, err = tx.ExecContext(ctx, insertSub, uuid.NewString(), setting.AcademicYear, setting.AcademicTerm, subThemeID, now)
		if err != nil {
			return 0, fmt.Errorf("materialize sub-theme setting: %w", err)
		}
		if n, raErr := res.RowsAffected(); raErr == nil {
			created += int(n)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create theme setting tx: %w", err)
	}
	return created, nil
}

// Update modifies an existing theme setting.
func (r *ThemeSettingRepository) Update(ctx context.Context, setting *models.ThemeSetting) error {
	setting.UpdatedAt = time.Now().UTC()
	const query = `UPDATE year_term_theme_settings SET fill_in_week_enabled = :fill_in_week_enabled, scale_max = :scale_max, select_most_relevant_enabled = :select_most_relevant_enabled, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("update theme setting: %w", err)
	}
	return nil
}

// DeleteWithSubThemes removes the sub-theme settings scoped to the setting's
// theme and year-term first, then the theme setting itself, in one
// transaction.
func (r *ThemeSettingRepository) DeleteWithSubThemes(ctx context.Context, setting *models.ThemeSetting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete theme setting tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteSubs = `DELETE FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2 AND sub_theme_id IN (SELECT id FROM sub_themes WHERE theme_id = $3)`
	if _, err = tx.ExecContext(ctx, deleteSubs, setting.AcademicYear, setting.AcademicTerm, setting.ThemeID); err != nil {
		return fmt.Errorf("delete scoped sub-theme settings: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM year_term_theme_settings WHERE id = $1`, setting.ID); err != nil {
		return fmt.Errorf("delete theme setting: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete theme setting tx: %w", err)
	}
	return nil
}

// CopySource bundles everything the copy operation carries from one source
// theme: the setting, the theme's sub-theme ids and the source enable flags.
type CopySource struct {
	Setting     models.ThemeSetting
	SubThemeIDs []string
	Enabled     map[string]bool
}

// ReplaceYearTerm wipes all settings of the target year-term and re-creates
// them from the provided sources in one transaction. It returns the two
// deletion counts and the number of sub-theme settings inserted.
func (r *ThemeSettingRepository) ReplaceYearTerm(ctx context.Context, year, term string, sources []CopySource) (deletedThemes, deletedSubs, createdSubs int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("begin copy settings tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM year_term_sub_theme_settings WHERE academic_year = $1 AND academic_term = $2`, year, term)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("delete target sub-theme settings: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil {
		deletedSubs = int(n)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM year_term_theme_settings WHERE academic_year = $1 AND academic_term = $2`, year, term)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("delete target theme settings: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil {
		deletedThemes = int(n)
	}

	now := time.Now().UTC()
	const insertSetting = `INSERT INTO year_term_theme_settings (id, academic_year, academic_term, theme_id, fill_in_week_enabled, scale_max, select_most_relevant_enabled, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	const insertSub = `INSERT INTO year_term_sub_theme_settings (id, academic_year, academic_term, sub_theme_id, enabled, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6) ON CONFLICT (academic_year, academic_term, sub_theme_id) DO NOTHING`

	for _, src := range sources {
		if _, err = tx.ExecContext(ctx, insertSetting, uuid.NewString(), year, term, src.Setting.ThemeID, src.Setting.FillInWeekEnabled, src.Setting.ScaleMax, src.Setting.SelectMostRelevantEnabled, now); err != nil {
			return 0, 0, 0, fmt.Errorf("copy theme setting: %w", err)
		}
		for _, subThemeID := range src.SubThemeIDs {
			res, err = tx.ExecContext(ctx, insertSub, uuid.NewString(), year, term, subThemeID, src.Enabled[subThemeID], now)
			if err != nil {
				return 0, 0, 0, fmt.Errorf("copy sub-theme setting: %w", err)
			}
			if n, raErr := res.RowsAffected(); raErr == nil {
				createdSubs += int(n)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, 0, fmt.Errorf("commit copy settings tx: %w", err)
	}
	return deletedThemes, deletedSubs, createdSubs, nil
}
