package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

// StudentService lists and registers students.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) (dto.ListResponse[dto.StudentResponse], error)
	Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.ListResponse[dto.StudentResponse], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.StudentResponse]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.StudentFilter{
		Search: req.Search,
		Status: req.Status,
		Page:   page(req.ListParams),
	})
	if err != nil {
		return dto.ListResponse[dto.StudentResponse]{}, err
	}

	items := lo.Map(rows, func(row repository.StudentRow, _ int) dto.StudentResponse { return studentResponse(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	user := models.User{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		AccountStatus: models.AccountStatusActive,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.StudentResponse{}, storeError(err, ErrUserNotFound, "email already registered")
	}

	row, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return dto.StudentResponse{}, storeError(err, ErrUserNotFound, "")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("student registered")
	return studentResponse(row), nil
}

func studentResponse(row repository.StudentRow) dto.StudentResponse {
	roles := row.Roles
	if roles == nil {
		roles = []string{}
	}
	return dto.StudentResponse{
		ID:                 row.ID,
		Email:              row.Email,
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		AccountStatus:      row.AccountStatus,
		Roles:              roles,
		EnrolledCourses:    row.EnrolledCourses,
		TotalSubmissions:   row.TotalSubmissions,
		GradedSubmissions:  row.GradedSubmissions,
		PendingSubmissions: row.PendingSubmissions,
		LateSubmissions:    row.LateSubmissions,
		AverageScore:       roundScore(row.AverageScore),
		CreatedAt:          row.CreatedAt,
	}
}
