package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/models"
)

const studentProjection = `u.id, u.email, u.first_name, u.last_name, u.account_status, u.created_at,
	(SELECT COUNT(*) FROM enrollments e WHERE e.user_id = u.id AND e.role = 'STUDENT') AS enrolled_courses,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.user_id = u.id) AS total_submissions,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.user_id = u.id AND s.status IN ` + gradedStatusesSQL + `) AS graded_submissions,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.user_id = u.id AND s.status IN ` + pendingStatusesSQL + `) AS pending_submissions,
	(SELECT COUNT(*) FROM assignment_submissions s WHERE s.user_id = u.id AND s.is_late) AS late_submissions,
	(SELECT AVG(s.final_score) FROM assignment_submissions s WHERE s.user_id = u.id AND s.status IN ` + gradedStatusesSQL + `) AS average_score`

const hasStudentRoleSQL = `EXISTS (SELECT 1 FROM user_roles ur JOIN roles r ON r.id = ur.role_id
	WHERE ur.user_id = u.id AND r.name = ?)`

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search string
	Status string
	Page   Page
}

// StudentRow is a student with enrollment and submission statistics.
type StudentRow struct {
	ID                 string
	Email              string
	FirstName          string
	LastName           string
	AccountStatus      string
	CreatedAt          time.Time
	EnrolledCourses    int64
	TotalSubmissions   int64
	GradedSubmissions  int64
	PendingSubmissions int64
	LateSubmissions    int64
	AverageScore       *float64
	Roles              []string `gorm:"-"`
}

// StudentRepository exposes persistence helpers for users holding the STUDENT role.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]StudentRow, int64, error)
	GetByID(ctx context.Context, id string) (StudentRow, error)
	Create(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, id string) (models.User, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users AS u").
		Where(hasStudentRoleSQL, models.RoleStudent)
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]StudentRow, int64, error) {
	query := r.base(ctx)
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query = query.Where("(LOWER(u.email) LIKE ? ESCAPE '\\' OR LOWER(u.first_name) LIKE ? ESCAPE '\\' OR LOWER(u.last_name) LIKE ? ESCAPE '\\')", like, like, like)
	}
	if filter.Status != "" {
		query = query.Where("u.account_status = ?", filter.Status)
	}

	rows := make([]StudentRow, 0)
	total, err := findPage(query, filter.Page, studentProjection, "u.last_name, u.first_name, u.id", &rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachRoles(ctx, rows); err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (StudentRow, error) {
	var row StudentRow
	if err := findOne(r.base(ctx).Where("u.id = ?", id), studentProjection, &row); err != nil {
		return StudentRow{}, err
	}

	rows := []StudentRow{row}
	if err := r.attachRoles(ctx, rows); err != nil {
		return StudentRow{}, err
	}
	return rows[0], nil
}

// Create inserts the user and links it to the STUDENT role in one transaction.
func (r *studentRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("name = ?", models.RoleStudent).First(&role).Error; err != nil {
			return err
		}
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Association("Roles").Append(&role); err != nil {
			return err
		}
		return nil
	})
}

func (r *studentRepository) FindUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *studentRepository) attachRoles(ctx context.Context, rows []StudentRow) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var links []struct {
		UserID string
		Name   string
	}
	if err := r.db.WithContext(ctx).
		Table("user_roles ur").
		Select("ur.user_id, r.name").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("ur.user_id IN ?", ids).
		Order("r.name").
		Scan(&links).Error; err != nil {
		return err
	}

	byUser := make(map[string][]string, len(rows))
	for _, link := range links {
		byUser[link.UserID] = append(byUser[link.UserID], link.Name)
	}
	for i := range rows {
		rows[i].Roles = byUser[rows[i].ID]
		if rows[i].Roles == nil {
			rows[i].Roles = []string{}
		}
	}
	return nil
}
