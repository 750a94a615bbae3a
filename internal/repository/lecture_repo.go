package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const lectureProjection = `l.*,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.lecture_id = l.id) AS submission_count,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.lecture_id = l.id AND s.status IN ` + gradedStatusesSQL + `) AS graded_count`

// LectureFilter narrows lecture listings to one module.
type LectureFilter struct {
	ModuleID string
	Type     string
	Page     Page
}

// LectureRow is a lecture with its submission counts.
type LectureRow struct {
	models.Lecture
	SubmissionCount int64
	GradedCount     int64
}

// LectureRepository exposes persistence helpers for lectures and assignments.
type LectureRepository interface {
	List(ctx context.Context, filter LectureFilter) ([]LectureRow, int64, error)
	GetByID(ctx context.Context, id string) (LectureRow, error)
	Create(ctx context.Context, lecture *models.Lecture) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	NextOrderNum(ctx context.Context, moduleID string) (int, error)
}

type lectureRepository struct {
	db *gorm.DB
}

// NewLectureRepository constructs the lecture repository.
func NewLectureRepository(db *gorm.DB) LectureRepository {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("lectures AS l")
}

func (r *lectureRepository) List(ctx context.Context, filter LectureFilter) ([]LectureRow, int64, error) {
	query := r.base(ctx).Where("l.module_id = ?", filter.ModuleID)
	if filter.Type != "" {
		query = query.Where("l.type = ?", filter.Type)
	}

	rows := make([]LectureRow, 0)
	total, err := findPage(query, filter.Page, lectureProjection, "l.order_num, l.created_at, l.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *lectureRepository) GetByID(ctx context.Context, id string) (LectureRow, error) {
	var row LectureRow
	if err := findOne(r.base(ctx).Where("l.id = ?", id), lectureProjection, &row); err != nil {
		return LectureRow{}, err
	}
	return row, nil
}

func (r *lectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	return r.db.WithContext(ctx).Create(lecture).Error
}

func (r *lectureRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &models.Lecture{}, id, updates)
}

func (r *lectureRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Lecture{}, id)
}

func (r *lectureRepository) NextOrderNum(ctx context.Context, moduleID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Lecture{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(order_num), 0)").
		Scan(&max).Error
	return max + 1, err
}
