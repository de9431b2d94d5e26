package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-themes-api/internal/models"
)

// RosterRepository reads course sections from the external roster schema.
// The roster tables are maintained by the registrar system and are read-only
// from this service.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository instantiates a roster repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// List returns roster rows for the requested year-terms, optionally narrowed
// to departments or subject numbers, preserving the registrar's row order.
func (r *RosterRepository) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRow, error) {
	if len(filter.YearTerms) == 0 {
		return nil, nil
	}

	var args []interface{}
	ytConds := make([]string, 0, len(filter.YearTerms))
	for _, yt := range filter.YearTerms {
		ytConds = append(ytConds, fmt.Sprintf("(c.academic_year = $%d AND c.academic_term = $%d)", len(args)+1, len(args)+2))
		args = append(args, yt.AcademicYear, yt.AcademicTerm)
	}

	query := `
		SELECT ROW_NUMBER() OVER (ORDER BY c.academic_year, c.academic_term, c.subj_no, c.ps_class_nbr) AS row_seq,
		       c.subj_no, c.ps_class_nbr, c.academic_year, c.academic_term,
		       c.subj_name, c.subj_eng_name, c.credit,
		       d.dept_code, d.dept_name, d.college_name,
		       c.class_code, c.class_name,
		       c.teacher_id, p.teacher_name,
		       c.course_type, c.campus, c.enrollment, c.remark
		FROM roster_courses c
		LEFT JOIN roster_departments d ON d.dept_code = c.dept_code
		LEFT JOIN roster_employees p ON p.teacher_id = c.teacher_id
		WHERE (` + strings.Join(ytConds, " OR ") + ")"

	if len(filter.DeptCodes) > 0 {
		placeholders := make([]string, 0, len(filter.DeptCodes))
		for _, code := range filter.DeptCodes {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, code)
		}
		query += " AND c.dept_code IN (" + strings.Join(placeholders, ", ") + ")"
	}

	if len(filter.SubjNos) > 0 {
		placeholders := make([]string, 0, len(filter.SubjNos))
		for _, subjNo := range filter.SubjNos {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, subjNo)
		}
		query += " AND c.subj_no IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY row_seq ASC"

	var rows []models.RosterRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster courses: %w", err)
	}
	return rows, nil
}
