package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const moduleProjection = `m.*,
	(SELECT COUNT(*) FROM lectures l WHERE l.module_id = m.id) AS lecture_count,
	(SELECT COUNT(*) FROM lectures l WHERE l.module_id = m.id AND l.type = 'ASSIGNMENT') AS assignment_count`

// ModuleFilter narrows module listings to one course.
type ModuleFilter struct {
	CourseID string
	Page     Page
}

// ModuleRow is a module with its lecture counts.
type ModuleRow struct {
	models.Module
	LectureCount    int64
	AssignmentCount int64
}

// ModuleRepository exposes persistence helpers for modules.
type ModuleRepository interface {
	List(ctx context.Context, filter ModuleFilter) ([]ModuleRow, int64, error)
	GetByID(ctx context.Context, id string) (ModuleRow, error)
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	NextOrderNum(ctx context.Context, courseID string) (int, error)
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository constructs the module repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("modules AS m")
}

func (r *moduleRepository) List(ctx context.Context, filter ModuleFilter) ([]ModuleRow, int64, error) {
	query := r.base(ctx).Where("m.course_id = ?", filter.CourseID)

	rows := make([]ModuleRow, 0)
	total, err := findPage(query, filter.Page, moduleProjection, "m.order_num, m.created_at, m.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *moduleRepository) GetByID(ctx context.Context, id string) (ModuleRow, error) {
	var row ModuleRow
	if err := findOne(r.base(ctx).Where("m.id = ?", id), moduleProjection, &row); err != nil {
		return ModuleRow{}, err
	}
	return row, nil
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &models.Module{}, id, updates)
}

func (r *moduleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(r.db.WithContext(ctx), &models.Module{}, id)
}

func (r *moduleRepository) NextOrderNum(ctx context.Context, courseID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Module{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(order_num), 0)").
		Scan(&max).Error
	return max + 1, err
}
