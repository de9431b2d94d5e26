package models

import "time"

// YearTerm identifies one semester's configuration scope.
type YearTerm struct {
	AcademicYear string `db:"academic_year" json:"academic_year"`
	AcademicTerm string `db:"academic_term" json:"academic_term"`
}

// ThemeSetting activates a theme for one year-term with shared configuration.
type ThemeSetting struct {
	ID                        string    `db:"id" json:"id"`
	AcademicYear              string    `db:"academic_year" json:"academic_year"`
	AcademicTerm              string    `db:"academic_term" json:"academic_term"`
	ThemeID                   string    `db:"theme_id" json:"theme_id"`
	FillInWeekEnabled         bool      `db:"fill_in_week_enabled" json:"fill_in_week_enabled"`
	ScaleMax                  int       `db:"scale_max" json:"scale_max"`
	SelectMostRelevantEnabled bool      `db:"select_most_relevant_enabled" json:"select_most_relevant_enabled"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}

// SubThemeSetting is the per-year-term enable flag for one sub-theme.
type SubThemeSetting struct {
	ID           string    `db:"id" json:"id"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	AcademicTerm string    `db:"academic_term" json:"academic_term"`
	SubThemeID   string    `db:"sub_theme_id" json:"sub_theme_id"`
	Enabled      bool      `db:"enabled" json:"enabled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubThemeStatus joins a catalog sub-theme with its year-term enable flag.
// SettingID and Enabled come from a LEFT JOIN; a missing setting row reads
// as disabled.
type SubThemeStatus struct {
	SettingID    *string `db:"setting_id" json:"setting_id,omitempty"`
	SubThemeID   string  `db:"sub_theme_id" json:"sub_theme_id"`
	SubThemeCode string  `db:"sub_theme_code" json:"sub_theme_code"`
	SubThemeName string  `db:"sub_theme_name" json:"sub_theme_name"`
	Enabled      bool    `db:"enabled" json:"enabled"`
}

// ThemeSettingDetail returns a theme setting joined with the owning theme and
// the status of every catalog sub-theme for that year-term.
type ThemeSettingDetail struct {
	ThemeSetting
	ThemeCode      string           `db:"theme_code" json:"theme_code"`
	ThemeName      string           `db:"theme_name" json:"theme_name"`
	ThemeShortName string           `db:"theme_short_name" json:"theme_short_name"`
	SubThemes      []SubThemeStatus `json:"sub_themes"`
}

// ThemeSettingRow is the flat join row the overview and exports are built from.
type ThemeSettingRow struct {
	SettingID                 string  `db:"setting_id"`
	ThemeID                   string  `db:"theme_id"`
	ThemeCode                 string  `db:"theme_code"`
	ThemeName                 string  `db:"theme_name"`
	ThemeShortName            string  `db:"theme_short_name"`
	FillInWeekEnabled         bool    `db:"fill_in_week_enabled"`
	ScaleMax                  int     `db:"scale_max"`
	SelectMostRelevantEnabled bool    `db:"select_most_relevant_enabled"`
	SubThemeSettingID         *string `db:"sub_theme_setting_id"`
	SubThemeID                *string `db:"sub_theme_id"`
	SubThemeCode              *string `db:"sub_theme_code"`
	SubThemeName              *string `db:"sub_theme_name"`
	SubThemeEnabled           *bool   `db:"sub_theme_enabled"`
}

// YearTermOverview groups flat setting rows into nested theme structures
// with summary counts.
type YearTermOverview struct {
	AcademicYear         string               `json:"academic_year"`
	AcademicTerm         string               `json:"academic_term"`
	TotalThemes          int                  `json:"total_themes"`
	TotalSubThemes       int                  `json:"total_sub_themes"`
	EnabledSubThemes     int                  `json:"enabled_sub_themes"`
	Themes               []ThemeSettingDetail `json:"themes"`
}

// CopySettingsResult reports the outcome of a settings copy.
type CopySettingsResult struct {
	ThemesCount        int `json:"themes_count"`
	SubThemesCount     int `json:"sub_themes_count"`
	DeletedThemesCount int `json:"deleted_themes_count"`
	DeletedSubsCount   int `json:"deleted_sub_themes_count"`
}

// CopyEntriesResult reports the outcome of a course-entry copy.
type CopyEntriesResult struct {
	CopiedCount  int `json:"copied_count"`
	SkippedCount int `json:"skipped_count"`
	DeletedCount int `json:"deleted_count"`
}
