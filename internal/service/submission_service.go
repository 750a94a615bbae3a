package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/events"
	"github.com/noah-isme/b-learning-api/internal/grading"
	"github.com/noah-isme/b-learning-api/internal/middleware"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/observability"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

// SubmissionService accepts, grades and reports on assignment submissions.
type SubmissionService interface {
	List(ctx context.Context, req dto.SubmissionListRequest) (dto.ListResponse[dto.SubmissionListItem], error)
	Get(ctx context.Context, id string) (dto.SubmissionDetailResponse, error)
	Create(ctx context.Context, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, id string, req dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
	Transition(ctx context.Context, id string, req dto.SubmissionStatusRequest) (dto.SubmissionResponse, error)
	Stats(ctx context.Context, req dto.SubmissionStatsRequest) (dto.SubmissionStatsResponse, error)
}

// SubmissionServiceConfig carries the optional collaborators of the submission service.
type SubmissionServiceConfig struct {
	Stats      *StatsCache
	Publisher  events.Publisher
	LatePolicy grading.LatePolicy
	// AcceptSubmittedAt honours a client-supplied submitted_at. Only imports enable it;
	// otherwise the server clock stamps every submission.
	AcceptSubmittedAt bool
}

type submissionService struct {
	repo      repository.SubmissionRepository
	stats     *StatsCache
	backdate  bool
	publisher events.Publisher
	policy    grading.LatePolicy
	validator *validator.Validate
	content   *bluemonday.Policy
	feedback  *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(repo repository.SubmissionRepository, cfg SubmissionServiceConfig, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	policy := cfg.LatePolicy
	if policy == "" {
		policy = grading.LatePolicyReject
	}

	return &submissionService{
		repo:      repo,
		stats:     cfg.Stats,
		backdate:  cfg.AcceptSubmittedAt,
		publisher: publisher,
		policy:    policy,
		validator: validate,
		content:   bluemonday.UGCPolicy(),
		feedback:  bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/b-learning-api/internal/service/submission"),
		logger:    logger.With().Str("component", "submission_service").Logger(),
		now:       time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, req dto.SubmissionListRequest) (dto.ListResponse[dto.SubmissionListItem], error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ListResponse[dto.SubmissionListItem]{}, err
	}

	rows, total, err := s.repo.List(ctx, repository.SubmissionFilter{
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
		Status:       req.Status,
		IsLate:       req.IsLate,
		StudentEmail: req.StudentEmail,
		Page:         page(req.ListParams),
	})
	if err != nil {
		return dto.ListResponse[dto.SubmissionListItem]{}, err
	}

	items := lo.Map(rows, func(row repository.SubmissionRow, _ int) dto.SubmissionListItem { return submissionListItem(row) })
	return dto.NewListResponse(items, total, req.ListParams), nil
}

func (s *submissionService) Get(ctx context.Context, id string) (dto.SubmissionDetailResponse, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return dto.SubmissionDetailResponse{}, storeError(err, ErrSubmissionNotFound, "")
	}
	return submissionDetailResponse(detail), nil
}

func (s *submissionService) Create(ctx context.Context, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.create")
	span.SetAttributes(
		attribute.String("submission.assignment_id", req.AssignmentID),
		attribute.String("submission.student_id", req.StudentID),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	content := strings.TrimSpace(s.content.Sanitize(req.Content))
	if content == "" && len(req.FileURLs) == 0 && strings.TrimSpace(req.CodeSubmission) == "" {
		return dto.SubmissionResponse{}, validationError("submission needs content, files or code")
	}

	submittedAt := s.now().UTC()
	if req.SubmittedAt != nil {
		if !s.backdate {
			return dto.SubmissionResponse{}, validationError("submitted_at is set by the server")
		}
		submittedAt = req.SubmittedAt.UTC()
	}

	var submission models.Submission
	err := s.repo.Transaction(ctx, func(tx repository.SubmissionTx) error {
		assignment, err := tx.FindAssignment(req.AssignmentID)
		if err != nil {
			return storeError(err, ErrAssignmentNotFound, "")
		}
		if !assignment.IsAssignment() || assignment.Module == nil {
			return fmt.Errorf("%w: lecture %s does not accept submissions", ErrInvalidSubmission, assignment.ID)
		}

		enrollment, err := tx.LockActiveEnrollment(req.StudentID, assignment.Module.CourseID)
		if err != nil {
			return storeError(err, ErrNotEnrolled, "")
		}

		lateness, err := grading.Admit(assignment.GradingRules(), submittedAt, s.policy)
		if err != nil {
			observability.SubmissionsRejected().WithLabelValues("late").Inc()
			return fmt.Errorf("%w: %d day(s) past the due date and late submissions are not allowed", ErrSubmissionRejected, lateness.DaysLate)
		}

		attempts, err := tx.CountAttempts(assignment.ID, req.StudentID)
		if err != nil {
			return err
		}

		submission = models.Submission{
			AssignmentID:     assignment.ID,
			StudentID:        req.StudentID,
			EnrollmentID:     enrollment.ID,
			SubmissionNumber: int(attempts) + 1,
			SubmittedAt:      submittedAt,
			Content:          content,
			FileURLs:         req.FileURLs,
			CodeSubmission:   req.CodeSubmission,
			Status:           models.SubmissionStatusSubmitted,
			IsLate:           lateness.IsLate,
			DaysLate:         lateness.DaysLate,
		}
		return storeError(tx.Create(&submission), ErrSubmissionNotFound, "a concurrent submission took this attempt number, retry")
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_failed")
		return dto.SubmissionResponse{}, err
	}

	span.SetAttributes(
		attribute.String("submission.id", submission.ID),
		attribute.Int("submission.number", submission.SubmissionNumber),
		attribute.Bool("submission.is_late", submission.IsLate),
	)
	observability.SubmissionsCreated().WithLabelValues(strconv.FormatBool(submission.IsLate)).Inc()
	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("assignment_id", submission.AssignmentID).
		Int("submission_number", submission.SubmissionNumber).
		Bool("is_late", submission.IsLate).
		Msg("submission created")

	s.afterMutation(ctx, events.TypeSubmissionCreated, submission)
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Grade(ctx context.Context, id string, req dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.grade")
	span.SetAttributes(attribute.String("submission.id", id))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	var submission models.Submission
	var history models.SubmissionGradeHistory
	err := s.repo.Transaction(ctx, func(tx repository.SubmissionTx) error {
		current, err := tx.LockSubmission(id)
		if err != nil {
			return storeError(err, ErrSubmissionNotFound, "")
		}
		if !current.CanGrade() {
			return validationError("submission in status %s cannot be graded", current.Status)
		}
		if current.Assignment == nil {
			return ErrAssignmentNotFound
		}

		rules := current.Assignment.GradingRules()
		lateness := grading.EvaluateLateness(current.SubmittedAt, rules.DueDate)
		result, err := grading.Score(rules, lateness, *req.ManualScore, s.policy)
		switch {
		case errors.Is(err, grading.ErrScoreOutOfRange):
			return fmt.Errorf("%w: %s", ErrValidation, err.Error())
		case errors.Is(err, grading.ErrLateNotAllowed):
			return fmt.Errorf("%w: %s", ErrInvalidSubmission, err.Error())
		case err != nil:
			return err
		}

		gradedAt := s.now().UTC()
		manual := result.ManualScore
		feedback := strings.TrimSpace(s.feedback.Sanitize(req.Feedback))

		current.ManualScore = &manual
		current.IsLate = result.IsLate
		current.DaysLate = result.DaysLate
		current.PenaltyApplied = result.PenaltyApplied
		current.FinalScore = result.FinalScore
		current.Feedback = feedback
		current.RubricScores = dto.RubricToJSON(req.RubricScores)
		current.GradedBy = req.GradedBy
		current.GradedAt = &gradedAt
		current.Status = models.SubmissionStatusGraded
		if err := tx.Save(&current); err != nil {
			return err
		}

		history = models.SubmissionGradeHistory{
			SubmissionID:   current.ID,
			ManualScore:    manual,
			PenaltyApplied: result.PenaltyApplied,
			FinalScore:     result.FinalScore,
			Feedback:       feedback,
			GradedBy:       req.GradedBy,
			GradedAt:       gradedAt,
		}
		if err := tx.CreateHistory(&history); err != nil {
			return err
		}

		submission = current
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_failed")
		return dto.SubmissionResponse{}, err
	}

	span.SetAttributes(
		attribute.Float64("submission.final_score", submission.FinalScore),
		attribute.Float64("submission.penalty_applied", submission.PenaltyApplied),
	)
	observability.SubmissionsGraded().Inc()
	if submission.PenaltyApplied > 0 {
		observability.LatePenaltyPoints().Observe(submission.PenaltyApplied)
	}
	s.logger.Info().
		Str("submission_id", submission.ID).
		Float64("final_score", submission.FinalScore).
		Float64("penalty_applied", submission.PenaltyApplied).
		Msg("submission graded")

	s.afterMutation(ctx, events.TypeSubmissionGraded, submission)
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Transition(ctx context.Context, id string, req dto.SubmissionStatusRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubmissionResponse{}, err
	}

	var submission models.Submission
	err := s.repo.Transaction(ctx, func(tx repository.SubmissionTx) error {
		current, err := tx.LockSubmission(id)
		if err != nil {
			return storeError(err, ErrSubmissionNotFound, "")
		}
		if !current.CanTransitionTo(req.Status) {
			return validationError("cannot move submission from %s to %s", current.Status, req.Status)
		}
		current.Status = req.Status
		if err := tx.Save(&current); err != nil {
			return err
		}
		submission = current
		return nil
	})
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Str("submission_id", submission.ID).Str("status", submission.Status).Msg("submission status changed")
	s.afterMutation(ctx, events.TypeSubmissionStatus, submission)
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Stats(ctx context.Context, req dto.SubmissionStatsRequest) (dto.SubmissionStatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.stats")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.SubmissionStatsResponse{}, err
	}

	cacheKey := statsCachePrefix + lo.Ternary(req.CourseID == "", "all", req.CourseID) + ":" + lo.Ternary(req.AssignmentID == "", "all", req.AssignmentID)
	span.SetAttributes(attribute.String("stats.cache_key", cacheKey))

	if cached, ok := s.stats.get(ctx, cacheKey); ok {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("stats.cache_hit", true))
		return cached, nil
	}

	stats, err := s.repo.Stats(ctx, repository.SubmissionStatsFilter{CourseID: req.CourseID, AssignmentID: req.AssignmentID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats_failed")
		return dto.SubmissionStatsResponse{}, err
	}

	response := dto.SubmissionStatsResponse{
		TotalSubmissions:  stats.TotalSubmissions,
		SubmittedCount:    stats.SubmittedCount,
		GradingCount:      stats.GradingCount,
		GradedCount:       stats.GradedCount,
		PendingCount:      stats.PendingCount,
		LateCount:         stats.LateCount,
		OnTimeCount:       stats.OnTimeCount,
		AverageFinalScore: roundScore(stats.AverageFinalScore),
		GeneratedAt:       s.now().UTC(),
	}

	s.stats.set(ctx, cacheKey, response)

	return response, nil
}

// afterMutation runs the best-effort side effects of a committed submission change.
func (s *submissionService) afterMutation(ctx context.Context, eventType string, submission models.Submission) {
	s.stats.InvalidateStats(ctx)

	event := events.Event{
		Type:             eventType,
		SubmissionID:     submission.ID,
		AssignmentID:     submission.AssignmentID,
		StudentID:        submission.StudentID,
		SubmissionNumber: submission.SubmissionNumber,
		Status:           submission.Status,
		IsLate:           submission.IsLate,
		CorrelationID:    middleware.CorrelationIDFromContext(ctx),
	}
	if submission.IsGraded() {
		score := submission.FinalScore
		event.FinalScore = &score
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("submission_id", submission.ID).Str("event", eventType).Msg("failed to publish submission event")
	}
}

func submissionListItem(row repository.SubmissionRow) dto.SubmissionListItem {
	return dto.SubmissionListItem{
		ID:               row.ID,
		AssignmentID:     row.AssignmentID,
		AssignmentTitle:  row.AssignmentTitle,
		MaxPoints:        row.MaxPoints,
		DueDate:          row.DueDate,
		CourseID:         row.CourseID,
		CourseCode:       row.CourseCode,
		CourseTitle:      row.CourseTitle,
		StudentID:        row.StudentID,
		StudentEmail:     row.StudentEmail,
		StudentName:      fullName(row.StudentFirstName, row.StudentLastName),
		SubmissionNumber: row.SubmissionNumber,
		SubmittedAt:      row.SubmittedAt,
		Status:           row.Status,
		AutoScore:        row.AutoScore,
		ManualScore:      row.ManualScore,
		FinalScore:       row.FinalScore,
		IsLate:           row.IsLate,
		DaysLate:         row.DaysLate,
		PenaltyApplied:   row.PenaltyApplied,
		GradedBy:         row.GradedBy,
		GraderName:       optionalName(row.GraderFirstName, row.GraderLastName),
		GradedAt:         row.GradedAt,
	}
}

func submissionDetailResponse(detail repository.SubmissionDetail) dto.SubmissionDetailResponse {
	submission := detail.Submission
	response := dto.SubmissionDetailResponse{
		SubmissionResponse: dto.NewSubmissionResponse(submission),
		History:            dto.NewGradeHistoryResponses(detail.History),
	}

	if student := submission.Student; student != nil {
		response.StudentEmail = student.Email
		response.StudentName = student.FullName()
	}
	if grader := detail.Grader; grader != nil {
		response.GraderName = grader.FullName()
		response.GraderEmail = grader.Email
	}
	if assignment := submission.Assignment; assignment != nil {
		response.AssignmentTitle = assignment.Title
		response.AssignmentType = assignment.Assignment.Type
		response.Instructions = assignment.Assignment.Instructions
		response.MaxPoints = assignment.Assignment.MaxPoints
		response.DueDate = assignment.Assignment.DueDate
		response.LateSubmissionAllowed = assignment.Assignment.LateSubmissionAllowed
		response.LatePenaltyPercent = assignment.Assignment.LatePenaltyPercent
		if module := assignment.Module; module != nil {
			response.ModuleID = module.ID
			response.ModuleTitle = module.Title
			if course := module.Course; course != nil {
				response.CourseID = course.ID
				response.CourseCode = course.Code
				response.CourseTitle = course.Title
			}
		}
	}

	return response
}
