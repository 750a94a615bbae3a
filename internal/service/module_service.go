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

// ModuleService manages the modules of a course.
type ModuleService interface {
	List(ctx context.Context, req dto.ModuleListRequest) (dto.ListResponse[dto.ModuleResponse], error)
	Create(ctx context.Context, req dto.ModuleCreateRequest) (dto.ModuleResponse, error)
	Update(ctx context.Context, id string, req dto.ModuleUpdateRequest) (dto.ModuleResponse, error)
	Delete(ctx context.Context, id string) error
}

type moduleService struct {
	repo      repository.ModuleRepository
	courses   repository.CourseRepository
	stats     StatsInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewModuleService constructs the module service.
func NewModuleService(repo repository.ModuleRepository, courses repository.CourseRepository, stats StatsInvalidator, validate *validator.Validate, logger zerolog.Logger) ModuleService {
	return &moduleService{
		repo:      repo,
		courses:   courses,
		stats:     stats,
		validator: validate,
		logger:    logger.With().Str("component", "module_service").Logger(),
	}
}

func (s *moduleService) List(ctx context.Context, req dto.ModuleListRequest) (dto.ListResponse[dto.ModuleResponse], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.ModuleResponse]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.ModuleFilter{CourseID: req.CourseID, Page: page(req.ListParams)})
	if err != nil {
		return dto.ListResponse[dto.ModuleResponse]{}, err
	}

	items := lo.Map(rows, func(row repository.ModuleRow, _ int) dto.ModuleResponse { return moduleResponse(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *moduleService) Create(ctx context.Context, req dto.ModuleCreateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ModuleResponse{}, err
	}
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return dto.ModuleResponse{}, storeError(err, ErrCourseNotFound, "")
	}

	orderNum := req.OrderNum
	if orderNum == 0 {
		next, err := s.repo.NextOrderNum(ctx, req.CourseID)
		if err != nil {
			return dto.ModuleResponse{}, err
		}
		orderNum = next
	}

	module := models.Module{
		CourseID:    req.CourseID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OrderNum:    orderNum,
	}
	if err := s.repo.Create(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	return s.get(ctx, module.ID)
}

func (s *moduleService) Update(ctx context.Context, id string, req dto.ModuleUpdateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ModuleResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	setIfPresent(updates, "description", req.Description)
	setIfPresent(updates, "order_num", req.OrderNum)

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return dto.ModuleResponse{}, storeError(err, ErrModuleNotFound, "")
		}
	}
	return s.get(ctx, id)
}

func (s *moduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, ErrModuleNotFound, "")
	}
	invalidateStats(ctx, s.stats)
	return nil
}

func (s *moduleService) get(ctx context.Context, id string) (dto.ModuleResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ModuleResponse{}, storeError(err, ErrModuleNotFound, "")
	}
	return moduleResponse(row), nil
}

func moduleResponse(row repository.ModuleRow) dto.ModuleResponse {
	response := dto.NewModuleResponse(row.Module)
	response.LectureCount = row.LectureCount
	response.AssignmentCount = row.AssignmentCount
	return response
}
