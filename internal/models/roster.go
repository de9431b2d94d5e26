package models

// RosterRow is one course section read from the external roster schema,
// enriched with department and instructor labels for the filtered export.
type RosterRow struct {
	RowSeq       int     `db:"row_seq" json:"row_seq"`
	SubjNo       string  `db:"subj_no" json:"subj_no"`
	PsClassNbr   string  `db:"ps_class_nbr" json:"ps_class_nbr"`
	AcademicYear string  `db:"academic_year" json:"academic_year"`
	AcademicTerm string  `db:"academic_term" json:"academic_term"`
	SubjName     string  `db:"subj_name" json:"subj_name"`
	SubjEngName  *string `db:"subj_eng_name" json:"subj_eng_name,omitempty"`
	Credit       *string `db:"credit" json:"credit,omitempty"`
	DeptCode     *string `db:"dept_code" json:"dept_code,omitempty"`
	DeptName     *string `db:"dept_name" json:"dept_name,omitempty"`
	CollegeName  *string `db:"college_name" json:"college_name,omitempty"`
	ClassCode    *string `db:"class_code" json:"class_code,omitempty"`
	ClassName    *string `db:"class_name" json:"class_name,omitempty"`
	TeacherID    *string `db:"teacher_id" json:"teacher_id,omitempty"`
	TeacherName  *string `db:"teacher_name" json:"teacher_name,omitempty"`
	CourseType   *string `db:"course_type" json:"course_type,omitempty"`
	Campus       *string `db:"campus" json:"campus,omitempty"`
	Enrollment   *int    `db:"enrollment" json:"enrollment,omitempty"`
	Remark       *string `db:"remark" json:"remark,omitempty"`
}

// RosterFilter narrows the filtered export to selected year-terms and
// organizational units.
type RosterFilter struct {
	YearTerms []YearTerm `json:"year_terms" validate:"required,min=1,dive"`
	DeptCodes []string   `json:"dept_codes,omitempty"`
	SubjNos   []string   `json:"subj_nos,omitempty"`
}
