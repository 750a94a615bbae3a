package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const submissionProjection = `s.id, s.lecture_id AS assignment_id, l.title AS assignment_title,
	l.assignment_max_points AS max_points, l.assignment_due_date AS due_date,
	c.id AS course_id, c.code AS course_code, c.title AS course_title,
	s.user_id AS student_id, u.email AS student_email, u.first_name AS student_first_name, u.last_name AS student_last_name,
	s.submission_number, s.submitted_at, s.status, s.auto_score, s.manual_score, s.final_score,
	s.is_late, s.days_late, s.penalty_applied, s.graded_by, s.graded_at,
	g.first_name AS grader_first_name, g.last_name AS grader_last_name`

const submissionStatsProjection = `COUNT(*) AS total_submissions,
	COALESCE(SUM(CASE WHEN s.status = 'SUBMITTED' THEN 1 ELSE 0 END), 0) AS submitted_count,
	COALESCE(SUM(CASE WHEN s.status = 'GRADING' THEN 1 ELSE 0 END), 0) AS grading_count,
	COALESCE(SUM(CASE WHEN s.status IN ` + gradedStatusesSQL + ` THEN 1 ELSE 0 END), 0) AS graded_count,
	COALESCE(SUM(CASE WHEN s.status IN ` + pendingStatusesSQL + ` THEN 1 ELSE 0 END), 0) AS pending_count,
	COALESCE(SUM(CASE WHEN s.is_late THEN 1 ELSE 0 END), 0) AS late_count,
	COALESCE(SUM(CASE WHEN s.is_late THEN 0 ELSE 1 END), 0) AS on_time_count,
	AVG(CASE WHEN s.status IN ` + gradedStatusesSQL + ` THEN s.final_score END) AS average_final_score`

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	CourseID     string
	AssignmentID string
	Status       string
	IsLate       *bool
	StudentEmail string
	Page         Page
}

// SubmissionStatsFilter scopes the statistics overview.
type SubmissionStatsFilter struct {
	CourseID     string
	AssignmentID string
}

// SubmissionRow joins a submission with its assignment, course, student and grader.
type SubmissionRow struct {
	ID               string
	AssignmentID     string
	AssignmentTitle  string
	MaxPoints        float64
	DueDate          *time.Time
	CourseID         string
	CourseCode       string
	CourseTitle      string
	StudentID        string
	StudentEmail     string
	StudentFirstName string
	StudentLastName  string
	SubmissionNumber int
	SubmittedAt      time.Time
	Status           string
	AutoScore        float64
	ManualScore      *float64
	FinalScore       float64
	IsLate           bool
	DaysLate         int
	PenaltyApplied   float64
	GradedBy         *string
	GradedAt         *time.Time
	GraderFirstName  *string
	GraderLastName   *string
}

// SubmissionStats aggregates submissions for the overview endpoint.
type SubmissionStats struct {
	TotalSubmissions  int64
	SubmittedCount    int64
	GradingCount      int64
	GradedCount       int64
	PendingCount      int64
	LateCount         int64
	OnTimeCount       int64
	AverageFinalScore *float64
}

// SubmissionDetail is a submission with its assignment chain, student, grader and grade history.
type SubmissionDetail struct {
	Submission models.Submission
	Grader     *models.User
	History    []models.SubmissionGradeHistory
}

// SubmissionTx is the set of submission operations bound to one store transaction.
type SubmissionTx interface {
	FindAssignment(id string) (models.Lecture, error)
	LockActiveEnrollment(userID, courseID string) (models.Enrollment, error)
	CountAttempts(assignmentID, studentID string) (int64, error)
	Create(submission *models.Submission) error
	LockSubmission(id string) (models.Submission, error)
	Save(submission *models.Submission) error
	CreateHistory(history *models.SubmissionGradeHistory) error
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]SubmissionRow, int64, error)
	GetDetail(ctx context.Context, id string) (SubmissionDetail, error)
	Stats(ctx context.Context, filter SubmissionStatsFilter) (SubmissionStats, error)
	Transaction(ctx context.Context, fn func(tx SubmissionTx) error) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]SubmissionRow, int64, error) {
	query := r.db.WithContext(ctx).
		Table("assignment_submissions AS s").
		Joins("JOIN lectures l ON l.id = s.lecture_id").
		Joins("JOIN modules m ON m.id = l.module_id").
		Joins("JOIN courses c ON c.id = m.course_id").
		Joins("JOIN users u ON u.id = s.user_id").
		Joins("LEFT JOIN users g ON g.id = s.graded_by")

	if filter.CourseID != "" {
		query = query.Where("m.course_id = ?", filter.CourseID)
	}
	if filter.AssignmentID != "" {
		query = query.Where("s.lecture_id = ?", filter.AssignmentID)
	}
	if filter.Status != "" {
		query = query.Where("s.status = ?", filter.Status)
	}
	if filter.IsLate != nil {
		query = query.Where("s.is_late = ?", *filter.IsLate)
	}
	if filter.StudentEmail != "" {
		query = query.Where("LOWER(u.email) LIKE ? ESCAPE '\\'", likePattern(filter.StudentEmail))
	}

	rows := make([]SubmissionRow, 0)
	total, err := findPage(query, filter.Page, submissionProjection, "s.submitted_at DESC, s.submission_number DESC, s.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *submissionRepository) GetDetail(ctx context.Context, id string) (SubmissionDetail, error) {
	db := r.db.WithContext(ctx)

	var submission models.Submission
	if err := db.
		Preload("Assignment.Module.Course").
		Preload("Student").
		First(&submission, "id = ?", id).Error; err != nil {
		return SubmissionDetail{}, err
	}

	detail := SubmissionDetail{Submission: submission}

	if submission.GradedBy != nil {
		var grader models.User
		err := db.First(&grader, "id = ?", *submission.GradedBy).Error
		switch {
		case err == nil:
			detail.Grader = &grader
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return SubmissionDetail{}, err
		}
	}

	if err := db.Where("submission_id = ?", submission.ID).
		Order("graded_at DESC").
		Find(&detail.History).Error; err != nil {
		return SubmissionDetail{}, err
	}

	return detail, nil
}

func (r *submissionRepository) Stats(ctx context.Context, filter SubmissionStatsFilter) (SubmissionStats, error) {
	query := r.db.WithContext(ctx).Table("assignment_submissions AS s")
	if filter.CourseID != "" {
		query = query.
			Joins("JOIN lectures l ON l.id = s.lecture_id").
			Joins("JOIN modules m ON m.id = l.module_id").
			Where("m.course_id = ?", filter.CourseID)
	}
	if filter.AssignmentID != "" {
		query = query.Where("s.lecture_id = ?", filter.AssignmentID)
	}

	var stats SubmissionStats
	if err := query.Select(submissionStatsProjection).Scan(&stats).Error; err != nil {
		return SubmissionStats{}, err
	}
	return stats, nil
}

// Transaction runs fn inside one store transaction. Returning an error rolls every
// write back.
func (r *submissionRepository) Transaction(ctx context.Context, fn func(tx SubmissionTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&submissionTx{db: tx})
	})
}

type submissionTx struct {
	db *gorm.DB
}

func (t *submissionTx) FindAssignment(id string) (models.Lecture, error) {
	var lecture models.Lecture
	if err := t.db.Preload("Module").First(&lecture, "id = ?", id).Error; err != nil {
		return models.Lecture{}, err
	}
	return lecture, nil
}

// LockActiveEnrollment locks the student's enrollment row, serialising concurrent
// submissions by the same student to the same course.
func (t *submissionTx) LockActiveEnrollment(userID, courseID string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentStatusActive).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

func (t *submissionTx) CountAttempts(assignmentID, studentID string) (int64, error) {
	var count int64
	err := t.db.Model(&models.Submission{}).
		Where("lecture_id = ? AND user_id = ?", assignmentID, studentID).
		Count(&count).Error
	return count, err
}

func (t *submissionTx) Create(submission *models.Submission) error {
	return t.db.Omit(clause.Associations).Create(submission).Error
}

func (t *submissionTx) LockSubmission(id string) (models.Submission, error) {
	var submission models.Submission
	if err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Assignment").
		First(&submission, "id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (t *submissionTx) Save(submission *models.Submission) error {
	return t.db.Omit(clause.Associations).Save(submission).Error
}

func (t *submissionTx) CreateHistory(history *models.SubmissionGradeHistory) error {
	return t.db.Omit(clause.Associations).Create(history).Error
}
