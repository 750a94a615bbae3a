package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const assignmentProjection = `l.id, l.title, l.description, l.order_num, l.created_at,
	l.assignment_type, l.assignment_instructions AS instructions, l.assignment_max_points AS max_points,
	l.assignment_due_date AS due_date, l.assignment_late_submission_allowed AS late_submission_allowed,
	l.assignment_late_penalty_percent AS late_penalty_percent,
	m.id AS module_id, m.title AS module_title, m.order_num AS module_order,
	c.id AS course_id, c.code AS course_code, c.title AS course_title,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.lecture_id = l.id) AS total_submissions,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.lecture_id = l.id AND s.status IN ` + gradedStatusesSQL + `) AS graded_submissions,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.lecture_id = l.id AND s.status IN ` + pendingStatusesSQL + `) AS pending_submissions,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.lecture_id = l.id AND s.status = 'GRADING') AS grading_submissions`

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	CourseID string
	ModuleID string
	Search   string
	Page     Page
}

// AssignmentRow joins an assignment lecture with its module, course and submission counts.
type AssignmentRow struct {
	ID                    string
	Title                 string
	Description           string
	OrderNum              int
	CreatedAt             time.Time
	AssignmentType        string
	Instructions          string
	MaxPoints             float64
	DueDate               *time.Time
	LateSubmissionAllowed bool
	LatePenaltyPercent    float64
	ModuleID              string
	ModuleTitle           string
	ModuleOrder           int
	CourseID              string
	CourseCode            string
	CourseTitle           string
	TotalSubmissions      int64
	GradedSubmissions     int64
	PendingSubmissions    int64
	GradingSubmissions    int64
}

// AssignmentRepository lists gradable lectures across courses.
type AssignmentRepository interface {
	List(ctx context.Context, filter AssignmentFilter) ([]AssignmentRow, int64, error)
	GetByID(ctx context.Context, id string) (AssignmentRow, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository constructs the assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("lectures AS l").
		Joins("JOIN modules m ON m.id = l.module_id").
		Joins("JOIN courses c ON c.id = m.course_id").
		Where("l.type = ?", models.LectureTypeAssignment)
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]AssignmentRow, int64, error) {
	query := r.base(ctx)
	if filter.CourseID != "" {
		query = query.Where("m.course_id = ?", filter.CourseID)
	}
	if filter.ModuleID != "" {
		query = query.Where("l.module_id = ?", filter.ModuleID)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("(LOWER(l.title) LIKE ? ESCAPE '\\' OR LOWER(l.description) LIKE ? ESCAPE '\\')", like, like)
	}

	rows := make([]AssignmentRow, 0)
	total, err := findPage(query, filter.Page, assignmentProjection, "c.code, m.order_num, l.order_num, l.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (AssignmentRow, error) {
	var row AssignmentRow
	if err := findOne(r.base(ctx).Where("l.id = ?", id), assignmentProjection, &row); err != nil {
		return AssignmentRow{}, err
	}
	return row, nil
}
