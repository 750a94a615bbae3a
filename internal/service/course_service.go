package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

// CourseService manages courses.
type CourseService interface {
	List(ctx context.Context, req dto.CourseListRequest) (dto.ListResponse[dto.CourseResponse], error)
	Get(ctx context.Context, id string) (dto.CourseResponse, error)
	Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id string, req dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo      repository.CourseRepository
	stats     StatsInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService constructs the course service.
func NewCourseService(repo repository.CourseRepository, stats StatsInvalidator, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		stats:     stats,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

func (s *courseService) List(ctx context.Context, req dto.CourseListRequest) (dto.ListResponse[dto.CourseResponse], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.CourseResponse]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.CourseFilter{
		Status:     req.Status,
		Category:   strings.TrimSpace(req.Category),
		Difficulty: req.Difficulty,
		Search:     req.Search,
		Page:       page(req.ListParams),
	})
	if err != nil {
		return dto.ListResponse[dto.CourseResponse]{}, err
	}

	items := lo.Map(rows, func(row repository.CourseRow, _ int) dto.CourseResponse { return courseResponse(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *courseService) Get(ctx context.Context, id string) (dto.CourseResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, storeError(err, ErrCourseNotFound, "")
	}
	return courseResponse(row), nil
}

func (s *courseService) Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Code:             strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		ThumbnailURL:     req.ThumbnailURL,
		Category:         strings.TrimSpace(req.Category),
		DifficultyLevel:  lo.Ternary(req.DifficultyLevel == "", models.DifficultyBeginner, req.DifficultyLevel),
		EstimatedHours:   req.EstimatedHours,
		Status:           lo.Ternary(req.Status == "", models.CourseStatusDraft, req.Status),
		CreatedBy:        req.CreatedBy,
	}
	if course.Status == models.CourseStatusPublished {
		publishedAt := s.now().UTC()
		course.PublishedAt = &publishedAt
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, storeError(err, ErrCourseNotFound, "course code already exists")
	}

	s.logger.Info().Str("course_id", course.ID).Str("code", course.Code).Msg("course created")
	return s.Get(ctx, course.ID)
}

func (s *courseService) Update(ctx context.Context, id string, req dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, storeError(err, ErrCourseNotFound, "")
	}

	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["code"] = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	setIfPresent(updates, "description", req.Description)
	setIfPresent(updates, "short_description", req.ShortDescription)
	setIfPresent(updates, "thumbnail_url", req.ThumbnailURL)
	setIfPresent(updates, "category", req.Category)
	setIfPresent(updates, "difficulty_level", req.DifficultyLevel)
	setIfPresent(updates, "estimated_hours", req.EstimatedHours)
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == models.CourseStatusPublished && current.PublishedAt == nil {
			updates["published_at"] = s.now().UTC()
		}
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return dto.CourseResponse{}, storeError(err, ErrCourseNotFound, "course code already exists")
		}
	}

	return s.Get(ctx, id)
}

// Delete removes a course. Courses that still have enrollments are kept.
func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return storeError(err, ErrCourseNotFound, "")
	}

	enrollments, err := s.repo.CountEnrollments(ctx, id)
	if err != nil {
		return err
	}
	if enrollments > 0 {
		return conflictError("course has %d enrollments", enrollments)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, ErrCourseNotFound, "")
	}
	invalidateStats(ctx, s.stats)
	s.logger.Info().Str("course_id", id).Msg("course deleted")
	return nil
}

func courseResponse(row repository.CourseRow) dto.CourseResponse {
	response := dto.NewCourseResponse(row.Course)
	response.ModuleCount = row.ModuleCount
	response.EnrollmentCount = row.EnrollmentCount
	return response
}
