package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

// AssignmentService lists gradable lectures with their submission status counts.
type AssignmentService interface {
	List(ctx context.Context, req dto.AssignmentListRequest) (dto.ListResponse[dto.AssignmentResponse], error)
	Get(ctx context.Context, id string) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, req dto.AssignmentListRequest) (dto.ListResponse[dto.AssignmentResponse], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.AssignmentResponse]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.AssignmentFilter{
		CourseID: req.CourseID,
		ModuleID: req.ModuleID,
		Search:   req.Search,
		Page:     page(req.ListParams),
	})
	if err != nil {
		return dto.ListResponse[dto.AssignmentResponse]{}, err
	}

	items := lo.Map(rows, func(row repository.AssignmentRow, _ int) dto.AssignmentResponse { return assignmentResponse(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *assignmentService) Get(ctx context.Context, id string) (dto.AssignmentResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, storeError(err, ErrAssignmentNotFound, "")
	}
	return assignmentResponse(row), nil
}

func assignmentResponse(row repository.AssignmentRow) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:                    row.ID,
		Title:                 row.Title,
		Description:           row.Description,
		AssignmentType:        row.AssignmentType,
		Instructions:          row.Instructions,
		MaxPoints:             row.MaxPoints,
		DueDate:               row.DueDate,
		LateSubmissionAllowed: row.LateSubmissionAllowed,
		LatePenaltyPercent:    row.LatePenaltyPercent,
		OrderNum:              row.OrderNum,
		ModuleID:              row.ModuleID,
		ModuleTitle:           row.ModuleTitle,
		ModuleOrder:           row.ModuleOrder,
		CourseID:              row.CourseID,
		CourseCode:            row.CourseCode,
		CourseTitle:           row.CourseTitle,
		TotalSubmissions:      row.TotalSubmissions,
		GradedSubmissions:     row.GradedSubmissions,
		PendingSubmissions:    row.PendingSubmissions,
		GradingSubmissions:    row.GradingSubmissions,
		CreatedAt:             row.CreatedAt,
	}
}
