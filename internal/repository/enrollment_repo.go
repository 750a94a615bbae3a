package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const enrollmentProjection = `e.id, e.user_id, e.course_id, e.role, e.status, e.enrolled_at, e.final_grade,
	c.code AS course_code, c.title AS course_title,
	u.email AS student_email, u.first_name AS student_first_name, u.last_name AS student_last_name,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.enrollment_id = e.id) AS submission_count,
	(SELECT AVG(s.final_score) FROM assignment_submissions s WHERE s.enrollment_id = e.id AND s.status IN ` + gradedStatusesSQL + `) AS average_score`

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	CourseID string
	UserID   string
	Status   string
	Page     Page
}

// EnrollmentRow denormalises the course and student onto an enrollment.
type EnrollmentRow struct {
	ID               string
	UserID           string
	CourseID         string
	Role             string
	Status           string
	EnrolledAt       time.Time
	FinalGrade       *float64
	CourseCode       string
	CourseTitle      string
	StudentEmail     string
	StudentFirstName string
	StudentLastName  string
	SubmissionCount  int64
	AverageScore     *float64
}

// EnrollmentRepository exposes persistence helpers for enrollments.
type EnrollmentRepository interface {
	List(ctx context.Context, filter EnrollmentFilter) ([]EnrollmentRow, int64, error)
	GetByID(ctx context.Context, id string) (EnrollmentRow, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs the enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("enrollments AS e").
		Joins("JOIN courses c ON c.id = e.course_id").
		Joins("JOIN users u ON u.id = e.user_id")
}

func (r *enrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]EnrollmentRow, int64, error) {
	query := r.base(ctx)
	if filter.CourseID != "" {
		query = query.Where("e.course_id = ?", filter.CourseID)
	}
	if filter.UserID != "" {
		query = query.Where("e.user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("e.status = ?", filter.Status)
	}

	rows := make([]EnrollmentRow, 0)
	total, err := findPage(query, filter.Page, enrollmentProjection, "e.enrolled_at DESC, e.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id string) (EnrollmentRow, error) {
	var row EnrollmentRow
	if err := findOne(r.base(ctx).Where("e.id = ?", id), enrollmentProjection, &row); err != nil {
		return EnrollmentRow{}, err
	}
	return row, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &models.Enrollment{}, id, updates)
}

func (r *enrollmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Enrollment{}, id)
}
