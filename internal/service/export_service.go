package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-themes-api/internal/models"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/export"
)

type exportEntryLister interface {
	ListByYearTerm(ctx context.Context, year, term string) ([]models.EntryDetail, error)
}

type rosterLister interface {
	List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRow, error)
}

// themeOrder fixes the column ordering of exports across theme families.
var themeOrder = []string{"A101", "A301", "A401", "A501", "A601"}

// sdgsColumnNames maps SDG sub-theme codes to their numeric column labels.
var sdgsColumnNames = map[string]string{
	"01": "1.消除貧窮", "02": "2.消除飢餓", "03": "3.健康與福祉",
	"04": "4.教育品質", "05": "5.性別平等", "06": "6.淨水與衛生",
	"07": "7.可負擔能源", "08": "8.就業與經濟成長", "09": "9.工業、創新基礎建設",
	"10": "10.減少不平等", "11": "11.永續城市", "12": "12.責任消費與生產",
	"13": "13.氣候行動", "14": "14.海洋生態", "15": "15.陸地生態",
	"16": "16.和平與正義制度", "17": "17.全球夥伴",
}

// weekColumnNames maps (theme_code, sub_theme_code) pairs to shared week
// column labels. Pairs without an entry fall back to the sub-theme name.
var weekColumnNames = map[[2]string]string{
	{"A301", "1020"}: "實作週次",
	{"A301", "1080"}: "人文關懷週次",
	{"A301", "1120"}: "媒體識讀或資訊判讀週次",
	{"A301", "1130"}: "媒體識讀或資訊判讀週次",
	{"A401", "1010"}: "資訊科技週次",
	{"A501", "1010"}: "在地關懷週次",
}

// subThemeColumnName applies the per-theme naming convention for indicator
// columns.
func subThemeColumnName(themeCode, subThemeCode, subThemeName string) string {
	switch themeCode {
	case "A101":
		if name, ok := sdgsColumnNames[subThemeCode]; ok {
			return name
		}
		return subThemeName
	case "A401":
		if subThemeName == "資訊科技" {
			return "資訊科技(UCAN)"
		}
		return "UCAN" + subThemeName
	case "A501":
		return subThemeName + "(USR)"
	case "A601":
		return "STEAM" + subThemeName
	default:
		return subThemeName + "(主題:指標主題)"
	}
}

func weekColumnName(themeCode, subThemeCode, subThemeName string) string {
	if name, ok := weekColumnNames[[2]string{themeCode, subThemeCode}]; ok {
		return name
	}
	return subThemeName + "週次"
}

const (
	colMostRelevantCode = "most_relevant_code"
	colMostRelevantName = "most_relevant_name"
	colIndicator        = "indicator"
	colWeek             = "week"
)

type exportColumn struct {
	kind         string
	name         string
	themeCode    string
	subThemeCode string
}

// ExportService pivots normalized entries into wide per-course datasets.
type ExportService struct {
	rows    settingRowLister
	entries exportEntryLister
	roster  rosterLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService creates a new export service instance.
func NewExportService(rows settingRowLister, entries exportEntryLister, roster rosterLister, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{rows: rows, entries: entries, roster: roster, csv: csv, pdf: pdf, logger: logger}
}

// YearTermDataset builds the simple per-year-term export: one row per
// course section, indicator and week columns derived from the enabled
// configuration.
func (s *ExportService) YearTermDataset(ctx context.Context, year, term string) (*export.Dataset, error) {
	details, err := s.loadDetails(ctx, year, term)
	if err != nil {
		return nil, err
	}

	entryDetails, err := s.entries.ListByYearTerm(ctx, year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}

	headers := []string{"學年期", "OPMS_COURSE_NO", "PS_CLASS_NBR", "課程名稱"}
	columns := make([]exportColumn, 0)

	for _, themeCode := range themeOrder {
		detail := findDetail(details, themeCode)
		if detail == nil {
			continue
		}

		if detail.SelectMostRelevantEnabled {
			codeCol := detail.ThemeName + "最相關子主題代碼"
			nameCol := detail.ThemeName + "最相關子主題名稱"
			headers = append(headers, codeCol, nameCol)
			columns = append(columns,
				exportColumn{kind: colMostRelevantCode, name: codeCol, themeCode: themeCode},
				exportColumn{kind: colMostRelevantName, name: nameCol, themeCode: themeCode})
		}

		for _, st := range detail.SubThemes {
			if !st.Enabled {
				continue
			}
			indicatorCol := subThemeColumnName(themeCode, st.SubThemeCode, st.SubThemeName)
			headers = append(headers, indicatorCol)
			columns = append(columns, exportColumn{kind: colIndicator, name: indicatorCol, themeCode: themeCode, subThemeCode: st.SubThemeCode})

			if detail.FillInWeekEnabled {
				weekCol := weekColumnName(themeCode, st.SubThemeCode, st.SubThemeName)
				if !containsHeader(headers, weekCol) {
					headers = append(headers, weekCol)
				}
				columns = append(columns, exportColumn{kind: colWeek, name: weekCol, themeCode: themeCode, subThemeCode: st.SubThemeCode})
			}
		}
	}

	names, err := s.courseNames(ctx, year, term)
	if err != nil {
		return nil, err
	}

	courses := groupEntriesByCourse(entryDetails)
	rows := make([]map[string]string, 0, len(courses))
	for _, course := range courses {
		row := map[string]string{
			"學年期":           year + term,
			"OPMS_COURSE_NO": course.subjNo,
			"PS_CLASS_NBR":   course.psClassNbr,
			"課程名稱":          names[course.subjNo+"|"+course.psClassNbr],
		}
		fillThemeColumns(row, columns, course)
		rows = append(rows, row)
	}

	return &export.Dataset{Headers: headers, Rows: rows}, nil
}

// FilteredDataset builds the roster-joined multi-year-term export. Column
// structure derives from the first requested year-term's configuration; row
// order follows the registrar's roster.
func (s *ExportService) FilteredDataset(ctx context.Context, filter models.RosterFilter) (*export.Dataset, error) {
	if len(filter.YearTerms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one year-term is required")
	}

	rosterRows, err := s.roster.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster courses")
	}
	if len(rosterRows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no courses match the filters")
	}

	first := filter.YearTerms[0]
	details, err := s.loadDetails(ctx, first.AcademicYear, first.AcademicTerm)
	if err != nil {
		return nil, err
	}

	headers := []string{
		"序號", "學年期", "選課號碼", "開課系所", "學院", "科目內碼", "課程名稱",
		"課程英文名稱", "教師姓名", "學分", "選課人數", "班級", "課別", "校區", "備註",
	}
	columns := make([]exportColumn, 0)

	for _, themeCode := range themeOrder {
		detail := findDetail(details, themeCode)
		if detail == nil {
			continue
		}
		shortName := detail.ThemeShortName
		if shortName == "" {
			shortName = detail.ThemeName
		}

		if detail.SelectMostRelevantEnabled {
			col := shortName + "-最相關"
			headers = append(headers, col)
			columns = append(columns, exportColumn{kind: colMostRelevantName, name: col, themeCode: themeCode})
		}

		for _, st := range detail.SubThemes {
			if !st.Enabled {
				continue
			}
			col := shortName + "-" + st.SubThemeName
			headers = append(headers, col)
			columns = append(columns, exportColumn{kind: colIndicator, name: col, themeCode: themeCode, subThemeCode: st.SubThemeCode})
		}
	}

	entriesByCourse := make(map[string]*courseEntries)
	for _, yt := range filter.YearTerms {
		entryDetails, err := s.entries.ListByYearTerm(ctx, yt.AcademicYear, yt.AcademicTerm)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
		}
		for _, course := range groupEntriesByCourse(entryDetails) {
			entriesByCourse[course.psClassNbr+"|"+course.year+"|"+course.term] = course
		}
	}

	rows := make([]map[string]string, 0, len(rosterRows))
	for _, rosterRow := range rosterRows {
		row := map[string]string{
			"序號":     strconv.Itoa(rosterRow.RowSeq),
			"學年期":    rosterRow.AcademicYear + rosterRow.AcademicTerm,
			"選課號碼":   rosterRow.PsClassNbr,
			"開課系所":   strValue(rosterRow.DeptName),
			"學院":     strValue(rosterRow.CollegeName),
			"科目內碼":   rosterRow.SubjNo,
			"課程名稱":   rosterRow.SubjName,
			"課程英文名稱": strValue(rosterRow.SubjEngName),
			"教師姓名":   strValue(rosterRow.TeacherName),
			"學分":     strValue(rosterRow.Credit),
			"選課人數":   intValue(rosterRow.Enrollment),
			"班級":     strValue(rosterRow.ClassName),
			"課別":     strValue(rosterRow.CourseType),
			"校區":     strValue(rosterRow.Campus),
			"備註":     strValue(rosterRow.Remark),
		}

		course := entriesByCourse[rosterRow.PsClassNbr+"|"+rosterRow.AcademicYear+"|"+rosterRow.AcademicTerm]
		if course == nil {
			course = &courseEntries{bySubTheme: map[string]*models.EntryDetail{}}
		}
		fillThemeColumns(row, columns, course)
		rows = append(rows, row)
	}

	return &export.Dataset{Headers: headers, Rows: rows}, nil
}

// RenderCSV encodes the dataset as UTF-8 CSV with a BOM prefix.
func (s *ExportService) RenderCSV(data export.Dataset) ([]byte, error) {
	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return out, nil
}

// RenderPDF encodes the dataset as a tabular PDF.
func (s *ExportService) RenderPDF(data export.Dataset, title string) ([]byte, error) {
	out, err := s.pdf.Render(data, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return out, nil
}

func (s *ExportService) loadDetails(ctx context.Context, year, term string) ([]models.ThemeSettingDetail, error) {
	rows, err := s.rows.ListRows(ctx, year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	details := groupSettingRows(year, term, rows)
	if len(details) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no theme settings for year-term %s-%s", year, term))
	}
	return details, nil
}

func (s *ExportService) courseNames(ctx context.Context, year, term string) (map[string]string, error) {
	names := make(map[string]string)
	if s.roster == nil {
		return names, nil
	}
	rosterRows, err := s.roster.List(ctx, models.RosterFilter{YearTerms: []models.YearTerm{{AcademicYear: year, AcademicTerm: term}}})
	if err != nil {
		s.logger.Warn("roster lookup failed, course names left blank", zap.Error(err))
		return names, nil
	}
	for _, row := range rosterRows {
		names[row.SubjNo+"|"+row.PsClassNbr] = row.SubjName
	}
	return names, nil
}

// courseEntries collects one course section's entries keyed by sub-theme
// code.
type courseEntries struct {
	subjNo     string
	psClassNbr string
	year       string
	term       string
	bySubTheme map[string]*models.EntryDetail
}

func groupEntriesByCourse(entries []models.EntryDetail) []*courseEntries {
	courses := make([]*courseEntries, 0)
	index := make(map[string]int)
	for i := range entries {
		entry := &entries[i]
		key := entry.SubjNo + "|" + entry.PsClassNbr
		pos, ok := index[key]
		if !ok {
			courses = append(courses, &courseEntries{
				subjNo:     entry.SubjNo,
				psClassNbr: entry.PsClassNbr,
				year:       entry.AcademicYear,
				term:       entry.AcademicTerm,
				bySubTheme: map[string]*models.EntryDetail{},
			})
			pos = len(courses) - 1
			index[key] = pos
		}
		courses[pos].bySubTheme[entry.SubThemeCode] = entry
	}
	return courses
}

func fillThemeColumns(row map[string]string, columns []exportColumn, course *courseEntries) {
	mostRelevant := make(map[string]*models.EntryDetail)
	for _, entry := range course.bySubTheme {
		if entry.IsMostRelevant {
			if _, ok := mostRelevant[entry.ThemeCode]; !ok {
				mostRelevant[entry.ThemeCode] = entry
			}
		}
	}

	for _, col := range columns {
		switch col.kind {
		case colMostRelevantCode:
			if entry := mostRelevant[col.themeCode]; entry != nil {
				row[col.name] = entry.SubThemeCode
			} else {
				row[col.name] = ""
			}
		case colMostRelevantName:
			if entry := mostRelevant[col.themeCode]; entry != nil {
				row[col.name] = entry.SubThemeName
			} else {
				row[col.name] = ""
			}
		case colIndicator:
			if entry := course.bySubTheme[col.subThemeCode]; entry != nil {
				row[col.name] = entry.IndicatorValue
			} else {
				row[col.name] = ""
			}
		case colWeek:
			if entry := course.bySubTheme[col.subThemeCode]; entry != nil && len(entry.WeekNumbers) > 0 {
				row[col.name] = joinWeeks(entry.WeekNumbers)
			} else if row[col.name] == "" {
				row[col.name] = ""
			}
		}
	}
}

func joinWeeks(weeks models.WeekNumbers) string {
	parts := make([]string, 0, len(weeks))
	for _, w := range weeks {
		parts = append(parts, strconv.Itoa(w))
	}
	return strings.Join(parts, ",")
}

func findDetail(details []models.ThemeSettingDetail, themeCode string) *models.ThemeSettingDetail {
	for i := range details {
		if details[i].ThemeCode == themeCode {
			return &details[i]
		}
	}
	return nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
