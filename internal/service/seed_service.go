package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/models"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// DemoCourseCode identifies the course created by SeedDemo.
const DemoCourseCode = "BL101"

// SeedService loads a small demo catalogue through the regular services.
type SeedService interface {
	SeedDemo(ctx context.Context, token string) (dto.SeedSummary, error)
}

// SeedDependencies are the services the seeder writes through.
type SeedDependencies struct {
	Courses     CourseService
	Modules     ModuleService
	Lectures    LectureService
	Students    StudentService
	Enrollments EnrollmentService
}

type seedService struct {
	deps    SeedDependencies
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(deps SeedDependencies, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		deps:    deps,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

type demoLecture struct {
	title      string
	kind       string
	assignment *dto.AssignmentConfigRequest
}

type demoModule struct {
	title    string
	lectures []demoLecture
}

func (s *seedService) SeedDemo(ctx context.Context, token string) (dto.SeedSummary, error) {
	if !s.enabled {
		return dto.SeedSummary{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return dto.SeedSummary{}, ErrSeedUnauthorized
	}

	course, err := s.deps.Courses.Create(ctx, dto.CourseCreateRequest{
		Code:             DemoCourseCode,
		Title:            "Blended Learning Foundations",
		Description:      "A demo course with video, reading and graded assignment lectures.",
		ShortDescription: "Demo course",
		Category:         "Computer Science",
		DifficultyLevel:  models.DifficultyBeginner,
		Status:           models.CourseStatusPublished,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return dto.SeedSummary{}, conflictError("demo course %s already seeded", DemoCourseCode)
		}
		return dto.SeedSummary{}, fmt.Errorf("seed course: %w", err)
	}

	summary := dto.SeedSummary{CourseID: course.ID, CourseCode: course.Code}

	for _, module := range demoCatalogue() {
		created, err := s.deps.Modules.Create(ctx, dto.ModuleCreateRequest{CourseID: course.ID, Title: module.title})
		if err != nil {
			return summary, fmt.Errorf("seed module %q: %w", module.title, err)
		}
		summary.Modules++

		for _, lecture := range module.lectures {
			createdLecture, err := s.deps.Lectures.Create(ctx, dto.LectureCreateRequest{
				ModuleID:   created.ID,
				Title:      lecture.title,
				Type:       lecture.kind,
				Assignment: lecture.assignment,
			})
			if err != nil {
				return summary, fmt.Errorf("seed lecture %q: %w", lecture.title, err)
			}
			summary.Lectures++
			if createdLecture.Assignment != nil {
				summary.Assignments = append(summary.Assignments, createdLecture.ID)
			}
		}
	}

	for _, student := range demoStudents() {
		created, err := s.deps.Students.Create(ctx, student)
		if err != nil {
			return summary, fmt.Errorf("seed student %s: %w", student.Email, err)
		}
		summary.Students = append(summary.Students, created.ID)

		if _, err := s.deps.Enrollments.Create(ctx, dto.EnrollmentCreateRequest{UserID: created.ID, CourseID: course.ID}); err != nil {
			return summary, fmt.Errorf("seed enrollment %s: %w", student.Email, err)
		}
		summary.Enrollments++
	}

	s.logger.Info().
		Str("course_id", summary.CourseID).
		Int("lectures", summary.Lectures).
		Int("students", len(summary.Students)).
		Msg("demo data seeded")
	return summary, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func demoCatalogue() []demoModule {
	maxPoints := 100.0
	penalty := 10.0
	strictPenalty := 0.0
	allowed := true
	forbidden := false
	essayDue := 7
	projectDue := 14

	return []demoModule{
		{
			title: "Getting started",
			lectures: []demoLecture{
				{title: "Welcome to the course", kind: models.LectureTypeVideo},
				{title: "Course handbook", kind: models.LectureTypeReading},
				{
					title: "Learning goals essay",
					kind:  models.LectureTypeAssignment,
					assignment: &dto.AssignmentConfigRequest{
						AssignmentType:        models.AssignmentTypeEssay,
						Instructions:          "Describe what you want to learn in 300 words.",
						MaxPoints:             &maxPoints,
						DueDays:               &essayDue,
						LateSubmissionAllowed: &allowed,
						LatePenaltyPercent:    &penalty,
					},
				},
			},
		},
		{
			title: "Building things",
			lectures: []demoLecture{
				{title: "Project walkthrough", kind: models.LectureTypeVideo},
				{
					title: "Mini project",
					kind:  models.LectureTypeAssignment,
					assignment: &dto.AssignmentConfigRequest{
						AssignmentType:        models.AssignmentTypeProject,
						Instructions:          "Ship a small project and link the repository.",
						MaxPoints:             &maxPoints,
						DueDays:               &projectDue,
						LateSubmissionAllowed: &forbidden,
						LatePenaltyPercent:    &strictPenalty,
					},
				},
			},
		},
	}
}

func demoStudents() []dto.StudentCreateRequest {
	return []dto.StudentCreateRequest{
		{Email: "ada.lovelace@demo.blearning.dev", FirstName: "Ada", LastName: "Lovelace"},
		{Email: "alan.turing@demo.blearning.dev", FirstName: "Alan", LastName: "Turing"},
		{Email: "grace.hopper@demo.blearning.dev", FirstName: "Grace", LastName: "Hopper"},
	}
}
