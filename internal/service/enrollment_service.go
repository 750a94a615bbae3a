package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

// EnrollmentService manages course enrollments.
type EnrollmentService interface {
	List(ctx context.Context, req dto.EnrollmentListRequest) (dto.ListResponse[dto.EnrollmentResponse], error)
	Create(ctx context.Context, req dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	Update(ctx context.Context, id string, req dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type enrollmentService struct {
	repo      repository.EnrollmentRepository
	courses   repository.CourseRepository
	users     repository.StudentRepository
	stats     StatsInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo repository.EnrollmentRepository, courses repository.CourseRepository, users repository.StudentRepository, stats StatsInvalidator, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		courses:   courses,
		users:     users,
		stats:     stats,
		validator: validate,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
		now:       time.Now,
	}
}

func (s *enrollmentService) List(ctx context.Context, req dto.EnrollmentListRequest) (dto.ListResponse[dto.EnrollmentResponse], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.EnrollmentResponse]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.EnrollmentFilter{
		CourseID: req.CourseID,
		UserID:   req.UserID,
		Status:   req.Status,
		Page:     page(req.ListParams),
	})
	if err != nil {
		return dto.ListResponse[dto.EnrollmentResponse]{}, err
	}

	items := lo.Map(rows, func(row repository.EnrollmentRow, _ int) dto.EnrollmentResponse { return enrollmentResponse(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *enrollmentService) Create(ctx context.Context, req dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if _, err := s.users.FindUser(ctx, req.UserID); err != nil {
		return dto.EnrollmentResponse{}, storeError(err, ErrUserNotFound, "")
	}
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return dto.EnrollmentResponse{}, storeError(err, ErrCourseNotFound, "")
	}

	enrollment := models.Enrollment{
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		Role:       lo.Ternary(req.Role == "", models.RoleStudent, req.Role),
		Status:     lo.Ternary(req.Status == "", models.EnrollmentStatusActive, req.Status),
		EnrolledAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, storeError(err, ErrEnrollmentNotFound, "user is already enrolled in this course")
	}

	s.logger.Info().Str("enrollment_id", enrollment.ID).Str("course_id", enrollment.CourseID).Msg("user enrolled")
	return s.get(ctx, enrollment.ID)
}

func (s *enrollmentService) Update(ctx context.Context, id string, req dto.EnrollmentUpdateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "role", req.Role)
	setIfPresent(updates, "status", req.Status)
	setIfPresent(updates, "final_grade", req.FinalGrade)

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return dto.EnrollmentResponse{}, storeError(err, ErrEnrollmentNotFound, "")
		}
	}
	return s.get(ctx, id)
}

func (s *enrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, ErrEnrollmentNotFound, "")
	}
	invalidateStats(ctx, s.stats)
	return nil
}

func (s *enrollmentService) get(ctx context.Context, id string) (dto.EnrollmentResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.EnrollmentResponse{}, storeError(err, ErrEnrollmentNotFound, "")
	}
	return enrollmentResponse(row), nil
}

func enrollmentResponse(row repository.EnrollmentRow) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:              row.ID,
		UserID:          row.UserID,
		CourseID:        row.CourseID,
		Role:            row.Role,
		Status:          row.Status,
		EnrolledAt:      row.EnrolledAt,
		FinalGrade:      row.FinalGrade,
		CourseCode:      row.CourseCode,
		CourseTitle:     row.CourseTitle,
		StudentEmail:    row.StudentEmail,
		StudentName:     fullName(row.StudentFirstName, row.StudentLastName),
		SubmissionCount: row.SubmissionCount,
		AverageScore:    roundScore(row.AverageScore),
	}
}
