package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const courseProjection = `c.*,
	(SELECT COUNT(*) FROM modules m WHERE m.course_id = c.id) AS module_count,
	(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS enrollment_count`

// CourseFilter narrows course listings.
type CourseFilter struct {
	Status     string
	Category   string
	Difficulty string
	Search     string
	Page       Page
}

// CourseRow is a course with its module and enrollment counts.
type CourseRow struct {
	models.Course
	ModuleCount     int64
	EnrollmentCount int64
}

// CourseRepository exposes persistence helpers for courses.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]CourseRow, int64, error)
	GetByID(ctx context.Context, id string) (CourseRow, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	CountEnrollments(ctx context.Context, id string) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("courses AS c")
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]CourseRow, int64, error) {
	query := r.base(ctx)

	if filter.Status != "" {
		query = query.Where("c.status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("c.category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("c.difficulty_level = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("(LOWER(c.title) LIKE ? ESCAPE '\\' OR LOWER(c.description) LIKE ? ESCAPE '\\')", like, like)
	}

	rows := make([]CourseRow, 0)
	total, err := findPage(query, filter.Page, courseProjection, "c.created_at DESC, c.id", &rows)
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (CourseRow, error) {
	var row CourseRow
	if err := findOne(r.base(ctx).Where("c.id = ?", id), courseProjection, &row); err != nil {
		return CourseRow{}, err
	}
	return row, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &models.Course{}, id, updates)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Course{}, id)
}

func (r *courseRepository) CountEnrollments(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("course_id = ?", id).Count(&count).Error
	return count, err
}
