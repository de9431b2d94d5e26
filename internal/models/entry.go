package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WeekNumbers is an ordered list of teaching weeks stored as a JSON column.
type WeekNumbers []int

// Value implements driver.Valuer.
func (w WeekNumbers) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner.
func (w *WeekNumbers) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported week_numbers type %T", src)
	}
	return json.Unmarshal(raw, w)
}

// CourseEntry is one instructor-filed indicator value for a course against
// one enabled sub-theme in one year-term.
type CourseEntry struct {
	ID             string      `db:"id" json:"id"`
	SubjNo         string      `db:"subj_no" json:"subj_no"`
	PsClassNbr     string      `db:"ps_class_nbr" json:"ps_class_nbr"`
	AcademicYear   string      `db:"academic_year" json:"academic_year"`
	AcademicTerm   string      `db:"academic_term" json:"academic_term"`
	SubThemeID     string      `db:"sub_theme_id" json:"sub_theme_id"`
	IndicatorValue string      `db:"indicator_value" json:"indicator_value"`
	WeekNumbers    WeekNumbers `db:"week_numbers" json:"week_numbers,omitempty"`
	IsMostRelevant bool        `db:"is_most_relevant" json:"is_most_relevant"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// EntryKey is the natural key of a course entry.
type EntryKey struct {
	SubjNo       string `json:"subj_no"`
	PsClassNbr   string `json:"ps_class_nbr"`
	AcademicYear string `json:"academic_year"`
	AcademicTerm string `json:"academic_term"`
	SubThemeID   string `json:"sub_theme_id"`
}

// EntryDetail joins an entry with its catalog labels for listings and exports.
type EntryDetail struct {
	CourseEntry
	ThemeID      string `db:"theme_id" json:"theme_id"`
	ThemeCode    string `db:"theme_code" json:"theme_code"`
	SubThemeCode string `db:"sub_theme_code" json:"sub_theme_code"`
	SubThemeName string `db:"sub_theme_name" json:"sub_theme_name"`
}

// BatchEntryOutcome reports the result of one item in a batch create.
type BatchEntryOutcome struct {
	Index int          `json:"index"`
	Entry *CourseEntry `json:"entry,omitempty"`
	Error string       `json:"error,omitempty"`
}

// CourseFormSubTheme is one selectable sub-theme on the entry form with the
// instructor's current value, if any.
type CourseFormSubTheme struct {
	SubThemeID     string      `json:"sub_theme_id"`
	SubThemeCode   string      `json:"sub_theme_code"`
	SubThemeName   string      `json:"sub_theme_name"`
	EntryID        *string     `json:"entry_id,omitempty"`
	IndicatorValue *string     `json:"indicator_value,omitempty"`
	WeekNumbers    WeekNumbers `json:"week_numbers,omitempty"`
	IsMostRelevant *bool       `json:"is_most_relevant,omitempty"`
}

// CourseFormTheme is one active theme on the entry form.
type CourseFormTheme struct {
	ThemeID                   string               `json:"theme_id"`
	ThemeCode                 string               `json:"theme_code"`
	ThemeName                 string               `json:"theme_name"`
	FillInWeekEnabled         bool                 `json:"fill_in_week_enabled"`
	ScaleMax                  int                  `json:"scale_max"`
	SelectMostRelevantEnabled bool                 `json:"select_most_relevant_enabled"`
	SubThemes                 []CourseFormSubTheme `json:"sub_themes"`
}

// CourseFormData is the nested payload the entry form renders from.
type CourseFormData struct {
	SubjNo       string            `json:"subj_no"`
	PsClassNbr   string            `json:"ps_class_nbr"`
	AcademicYear string            `json:"academic_year"`
	AcademicTerm string            `json:"academic_term"`
	Themes       []CourseFormTheme `json:"themes"`
}

// CourseRef identifies one course section holding entries.
type CourseRef struct {
	SubjNo       string `db:"subj_no" json:"subj_no"`
	PsClassNbr   string `db:"ps_class_nbr" json:"ps_class_nbr"`
	AcademicYear string `db:"academic_year" json:"academic_year"`
	AcademicTerm string `db:"academic_term" json:"academic_term"`
}
