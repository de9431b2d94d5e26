package models

import "time"

// Theme represents a top-level cross-curricular category (e.g. SDGs).
type Theme struct {
	ID               string    `db:"id" json:"id"`
	ThemeCode        string    `db:"theme_code" json:"theme_code"`
	ThemeName        string    `db:"theme_name" json:"theme_name"`
	ThemeShortName   string    `db:"theme_short_name" json:"theme_short_name"`
	ThemeEnglishName string    `db:"theme_english_name" json:"theme_english_name"`
	ChineseLink      *string   `db:"chinese_link" json:"chinese_link,omitempty"`
	EnglishLink      *string   `db:"english_link" json:"english_link,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// SubTheme represents one indicator under a theme.
type SubTheme struct {
	ID                  string    `db:"id" json:"id"`
	ThemeID             string    `db:"theme_id" json:"theme_id"`
	SubThemeCode        string    `db:"sub_theme_code" json:"sub_theme_code"`
	SubThemeName        string    `db:"sub_theme_name" json:"sub_theme_name"`
	SubThemeEnglishName string    `db:"sub_theme_english_name" json:"sub_theme_english_name"`
	Content             *string   `db:"content" json:"content,omitempty"`
	EnglishContent      *string   `db:"english_content" json:"english_content,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// ThemeWithSubThemes nests catalog sub-themes under their theme.
type ThemeWithSubThemes struct {
	Theme
	SubThemes []SubTheme `json:"sub_themes"`
}

// ThemeFilter captures filtering criteria for listing themes.
type ThemeFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
