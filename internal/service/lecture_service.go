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

// LectureService manages lectures, including the configuration of assignment lectures.
type LectureService interface {
	List(ctx context.Context, req dto.LectureListRequest) (dto.ListResponse[dto.LectureResponse], error)
	Create(ctx context.Context, req dto.LectureCreateRequest) (dto.LectureResponse, error)
	Update(ctx context.Context, id string, req dto.LectureUpdateRequest) (dto.LectureResponse, error)
	Delete(ctx context.Context, id string) error
}

type lectureService struct {
	repo      repository.LectureRepository
	modules   repository.ModuleRepository
	stats     StatsInvalidator
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLectureService constructs the lecture service.
func NewLectureService(repo repository.LectureRepository, modules repository.ModuleRepository, stats StatsInvalidator, validate *validator.Validate, logger zerolog.Logger) LectureService {
	return &lectureService{
		repo:      repo,
		modules:   modules,
		stats:     stats,
		validator: validate,
		logger:    logger.With().Str("component", "lecture_service").Logger(),
		now:       time.Now,
	}
}

func (s *lectureService) List(ctx context.Context, req dto.LectureListRequest) (dto.ListResponse[dto.LectureResponse], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.LectureResponse]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.LectureFilter{ModuleID: req.ModuleID, Type: req.Type, Page: page(req.ListParams)})
	if err != nil {
		return dto.ListResponse[dto.LectureResponse]{}, err
	}

	items := lo.Map(rows, func(row repository.LectureRow, _ int) dto.LectureResponse { return lectureResponse(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *lectureService) Create(ctx context.Context, req dto.LectureCreateRequest) (dto.LectureResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LectureResponse{}, err
	}
	if _, err := s.modules.GetByID(ctx, req.ModuleID); err != nil {
		return dto.LectureResponse{}, storeError(err, ErrModuleNotFound, "")
	}

	lectureType := lo.Ternary(req.Type == "", models.LectureTypeVideo, req.Type)
	if lectureType != models.LectureTypeAssignment && req.Assignment != nil {
		return dto.LectureResponse{}, validationError("assignment_config requires type %s", models.LectureTypeAssignment)
	}

	orderNum := req.OrderNum
	if orderNum == 0 {
		next, err := s.repo.NextOrderNum(ctx, req.ModuleID)
		if err != nil {
			return dto.LectureResponse{}, err
		}
		orderNum = next
	}

	lecture := models.Lecture{
		ModuleID:    req.ModuleID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        lectureType,
		OrderNum:    orderNum,
	}
	if lectureType == models.LectureTypeAssignment {
		lecture.Assignment = s.applyAssignmentConfig(s.defaultAssignmentConfig(), req.Assignment)
	}

	if err := s.repo.Create(ctx, &lecture); err != nil {
		return dto.LectureResponse{}, err
	}

	return s.get(ctx, lecture.ID)
}

// Update patches a lecture. Turning a lecture into an assignment fills in the default
// assignment configuration; turning an assignment with submissions into another type
// is refused. Once any submission is graded, the grading rules of the assignment are frozen.
func (s *lectureService) Update(ctx context.Context, id string, req dto.LectureUpdateRequest) (dto.LectureResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LectureResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.LectureResponse{}, storeError(err, ErrLectureNotFound, "")
	}

	nextType := current.Type
	if req.Type != nil {
		nextType = *req.Type
	}
	if current.IsAssignment() && nextType != models.LectureTypeAssignment && current.SubmissionCount > 0 {
		return dto.LectureResponse{}, conflictError("assignment already has %d submissions", current.SubmissionCount)
	}
	if nextType != models.LectureTypeAssignment && req.Assignment != nil {
		return dto.LectureResponse{}, validationError("assignment_config requires type %s", models.LectureTypeAssignment)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	setIfPresent(updates, "description", req.Description)
	setIfPresent(updates, "type", req.Type)
	setIfPresent(updates, "order_num", req.OrderNum)

	if nextType == models.LectureTypeAssignment && (req.Assignment != nil || !current.IsAssignment()) {
		base := current.Assignment
		if !current.IsAssignment() {
			base = s.defaultAssignmentConfig()
		}
		config := s.applyAssignmentConfig(base, req.Assignment)
		if current.GradedCount > 0 && gradingRulesChanged(current.Assignment, config) {
			return dto.LectureResponse{}, conflictError("assignment has %d graded submissions; points, due date and late policy are frozen", current.GradedCount)
		}
		updates["assignment_type"] = config.Type
		updates["assignment_instructions"] = config.Instructions
		updates["assignment_max_points"] = config.MaxPoints
		updates["assignment_due_date"] = config.DueDate
		updates["assignment_late_submission_allowed"] = config.LateSubmissionAllowed
		updates["assignment_late_penalty_percent"] = config.LatePenaltyPercent
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return dto.LectureResponse{}, storeError(err, ErrLectureNotFound, "")
		}
	}
	return s.get(ctx, id)
}

func (s *lectureService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, ErrLectureNotFound, "")
	}
	invalidateStats(ctx, s.stats)
	return nil
}

func (s *lectureService) get(ctx context.Context, id string) (dto.LectureResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.LectureResponse{}, storeError(err, ErrLectureNotFound, "")
	}
	return lectureResponse(row), nil
}

func (s *lectureService) defaultAssignmentConfig() models.AssignmentConfig {
	due := s.now().UTC().AddDate(0, 0, models.DefaultAssignmentDueDays)
	return models.AssignmentConfig{
		Type:                  models.AssignmentTypeEssay,
		MaxPoints:             models.DefaultAssignmentMaxPoints,
		DueDate:               &due,
		LateSubmissionAllowed: true,
	}
}

func (s *lectureService) applyAssignmentConfig(config models.AssignmentConfig, req *dto.AssignmentConfigRequest) models.AssignmentConfig {
	if req == nil {
		return config
	}
	if req.AssignmentType != "" {
		config.Type = req.AssignmentType
	}
	if req.Instructions != "" {
		config.Instructions = req.Instructions
	}
	if req.MaxPoints != nil {
		config.MaxPoints = *req.MaxPoints
	}
	switch {
	case req.DueDate != nil:
		due := req.DueDate.UTC()
		config.DueDate = &due
	case req.DueDays != nil:
		due := s.now().UTC().AddDate(0, 0, *req.DueDays)
		config.DueDate = &due
	}
	if req.LateSubmissionAllowed != nil {
		config.LateSubmissionAllowed = *req.LateSubmissionAllowed
	}
	if req.LatePenaltyPercent != nil {
		config.LatePenaltyPercent = *req.LatePenaltyPercent
	}
	return config
}

// gradingRulesChanged reports whether next alters a field that stored final scores were
// computed from.
func gradingRulesChanged(current, next models.AssignmentConfig) bool {
	if current.MaxPoints != next.MaxPoints ||
		current.LateSubmissionAllowed != next.LateSubmissionAllowed ||
		current.LatePenaltyPercent != next.LatePenaltyPercent {
		return true
	}
	switch {
	case current.DueDate == nil && next.DueDate == nil:
		return false
	case current.DueDate == nil || next.DueDate == nil:
		return true
	default:
		return !current.DueDate.Equal(*next.DueDate)
	}
}

func lectureResponse(row repository.LectureRow) dto.LectureResponse {
	response := dto.NewLectureResponse(row.Lecture)
	response.SubmissionCount = row.SubmissionCount
	return response
}
