package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-themes-api/internal/models"
	appErrors "github.com/noah-isme/course-themes-api/pkg/errors"
	"github.com/noah-isme/course-themes-api/pkg/export"
)

type mockExportEntryLister struct {
	byYearTerm map[string][]models.EntryDetail
}

func (m *mockExportEntryLister) ListByYearTerm(ctx context.Context, year, term string) ([]models.EntryDetail, error) {
	return m.byYearTerm[year+"|"+term], nil
}

type mockRosterLister struct {
	rows []models.RosterRow
}

func (m *mockRosterLister) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRow, error) {
	return m.rows, nil
}

func intPtr(n int) *int { return &n }

// exportSettingRows configures two themes for 113-1: SDGs with the
// most-relevant flag on, and a second theme with the week flag on whose
// sub-themes share one week column.
func exportSettingRows() []models.ThemeSettingRow {
	enabled := true
	disabled := false
	return []models.ThemeSettingRow{
		{SettingID: "ts1", ThemeID: "th1", ThemeCode: "A101", ThemeName: "SDGs主題", ThemeShortName: "SDGs",
			ScaleMax: 5, SelectMostRelevantEnabled: true,
			SubThemeID: strPtr("st1"), SubThemeCode: strPtr("01"), SubThemeName: strPtr("消除貧窮"), SubThemeEnabled: &enabled},
		{SettingID: "ts1", ThemeID: "th1", ThemeCode: "A101", ThemeName: "SDGs主題", ThemeShortName: "SDGs",
			ScaleMax: 5, SelectMostRelevantEnabled: true,
			SubThemeID: strPtr("st2"), SubThemeCode: strPtr("02"), SubThemeName: strPtr("消除飢餓"), SubThemeEnabled: &disabled},
		{SettingID: "ts2", ThemeID: "th3", ThemeCode: "A301", ThemeName: "校訂主軸", ThemeShortName: "校訂",
			ScaleMax: 5, FillInWeekEnabled: true,
			SubThemeID: strPtr("st5"), SubThemeCode: strPtr("1120"), SubThemeName: strPtr("媒體識讀"), SubThemeEnabled: &enabled},
		{SettingID: "ts2", ThemeID: "th3", ThemeCode: "A301", ThemeName: "校訂主軸", ThemeShortName: "校訂",
			ScaleMax: 5, FillInWeekEnabled: true,
			SubThemeID: strPtr("st6"), SubThemeCode: strPtr("1130"), SubThemeName: strPtr("資訊判讀"), SubThemeEnabled: &enabled},
	}
}

func exportEntryDetails() []models.EntryDetail {
	return []models.EntryDetail{
		{
			CourseEntry: models.CourseEntry{
				ID: "e1", SubjNo: "GEN101", PsClassNbr: "1234", AcademicYear: "113", AcademicTerm: "1",
				SubThemeID: "st1", IndicatorValue: "4", IsMostRelevant: true,
			},
			ThemeCode: "A101", SubThemeCode: "01", SubThemeName: "消除貧窮",
		},
		{
			CourseEntry: models.CourseEntry{
				ID: "e2", SubjNo: "GEN101", PsClassNbr: "1234", AcademicYear: "113", AcademicTerm: "1",
				SubThemeID: "st5", IndicatorValue: "Y", WeekNumbers: models.WeekNumbers{3, 5},
			},
			ThemeCode: "A301", SubThemeCode: "1120", SubThemeName: "媒體識讀",
		},
	}
}

func newExportServiceForTest(rows *mockRowLister, entries *mockExportEntryLister, roster *mockRosterLister) *ExportService {
	if entries == nil {
		entries = &mockExportEntryLister{}
	}
	if roster == nil {
		roster = &mockRosterLister{}
	}
	return NewExportService(rows, entries, roster, export.NewCSVExporter(), export.NewPDFExporter(), nil)
}

func TestExportServiceYearTermDatasetColumns(t *testing.T) {
	rows := &mockRowLister{rows: exportSettingRows()}
	entries := &mockExportEntryLister{byYearTerm: map[string][]models.EntryDetail{
		"113|1": exportEntryDetails(),
	}}
	roster := &mockRosterLister{rows: []models.RosterRow{
		{RowSeq: 1, SubjNo: "GEN101", PsClassNbr: "1234", AcademicYear: "113", AcademicTerm: "1", SubjName: "永續發展概論"},
	}}
	svc := newExportServiceForTest(rows, entries, roster)

	data, err := svc.YearTermDataset(context.Background(), "113", "1")
	require.NoError(t, err)

	// the shared week column appears once even though both sub-themes feed it
	assert.Equal(t, []string{
		"學年期", "OPMS_COURSE_NO", "PS_CLASS_NBR", "課程名稱",
		"SDGs主題最相關子主題代碼", "SDGs主題最相關子主題名稱",
		"1.消除貧窮",
		"媒體識讀(主題:指標主題)",
		"媒體識讀或資訊判讀週次",
		"資訊判讀(主題:指標主題)",
	}, data.Headers)

	require.Len(t, data.Rows, 1)
	row := data.Rows[0]
	assert.Equal(t, "1131", row["學年期"])
	assert.Equal(t, "GEN101", row["OPMS_COURSE_NO"])
	assert.Equal(t, "1234", row["PS_CLASS_NBR"])
	assert.Equal(t, "永續發展概論", row["課程名稱"])
	assert.Equal(t, "01", row["SDGs主題最相關子主題代碼"])
	assert.Equal(t, "消除貧窮", row["SDGs主題最相關子主題名稱"])
	assert.Equal(t, "4", row["1.消除貧窮"])
	assert.Equal(t, "Y", row["媒體識讀(主題:指標主題)"])
	assert.Equal(t, "3,5", row["媒體識讀或資訊判讀週次"])
	assert.Equal(t, "", row["資訊判讀(主題:指標主題)"])
}

func TestExportServiceYearTermDatasetNoSettings(t *testing.T) {
	svc := newExportServiceForTest(&mockRowLister{}, nil, nil)

	_, err := svc.YearTermDataset(context.Background(), "120", "1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceFilteredDataset(t *testing.T) {
	rows := &mockRowLister{rows: exportSettingRows()}
	entries := &mockExportEntryLister{byYearTerm: map[string][]models.EntryDetail{
		"113|1": exportEntryDetails(),
	}}
	roster := &mockRosterLister{rows: []models.RosterRow{
		{
			RowSeq: 1, SubjNo: "GEN101", PsClassNbr: "1234", AcademicYear: "113", AcademicTerm: "1",
			SubjName: "永續發展概論", TeacherName: strPtr("林老師"), Credit: strPtr("2"), Enrollment: intPtr(45),
		},
		{RowSeq: 2, SubjNo: "GEN102", PsClassNbr: "5678", AcademicYear: "113", AcademicTerm: "1", SubjName: "媒體素養"},
	}}
	svc := newExportServiceForTest(rows, entries, roster)

	data, err := svc.FilteredDataset(context.Background(), models.RosterFilter{
		YearTerms: []models.YearTerm{{AcademicYear: "113", AcademicTerm: "1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"序號", "學年期", "選課號碼", "開課系所", "學院", "科目內碼", "課程名稱",
		"課程英文名稱", "教師姓名", "學分", "選課人數", "班級", "課別", "校區", "備註",
		"SDGs-最相關", "SDGs-消除貧窮", "校訂-媒體識讀", "校訂-資訊判讀",
	}, data.Headers)

	require.Len(t, data.Rows, 2)
	first := data.Rows[0]
	assert.Equal(t, "1", first["序號"])
	assert.Equal(t, "1131", first["學年期"])
	assert.Equal(t, "1234", first["選課號碼"])
	assert.Equal(t, "林老師", first["教師姓名"])
	assert.Equal(t, "45", first["選課人數"])
	assert.Equal(t, "消除貧窮", first["SDGs-最相關"])
	assert.Equal(t, "4", first["SDGs-消除貧窮"])
	assert.Equal(t, "Y", first["校訂-媒體識讀"])

	// roster courses without entries still produce a row
	second := data.Rows[1]
	assert.Equal(t, "媒體素養", second["課程名稱"])
	assert.Equal(t, "", second["SDGs-最相關"])
	assert.Equal(t, "", second["SDGs-消除貧窮"])
}

func TestExportServiceFilteredDatasetRequiresYearTerms(t *testing.T) {
	svc := newExportServiceForTest(&mockRowLister{}, nil, nil)

	_, err := svc.FilteredDataset(context.Background(), models.RosterFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceFilteredDatasetNoCourses(t *testing.T) {
	svc := newExportServiceForTest(&mockRowLister{rows: exportSettingRows()}, nil, &mockRosterLister{})

	_, err := svc.FilteredDataset(context.Background(), models.RosterFilter{
		YearTerms: []models.YearTerm{{AcademicYear: "113", AcademicTerm: "1"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
