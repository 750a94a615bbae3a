package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/database"
	"github.com/noah-isme/b-learning-api/internal/events"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

var fixtureDue = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func newStatsCache(t *testing.T) *StatsCache {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsCache(client, time.Minute, testLogger())
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type fixture struct {
	db         *gorm.DB
	course     models.Course
	module     models.Module
	assignment models.Lecture
	video      models.Lecture
	student    models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect("sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &fixture{db: db}

	f.course = models.Course{Code: "CS101", Title: "Intro to Computing", Status: models.CourseStatusPublished}
	require.NoError(t, db.Create(&f.course).Error)

	f.module = models.Module{CourseID: f.course.ID, Title: "Basics", OrderNum: 1}
	require.NoError(t, db.Create(&f.module).Error)

	f.assignment = f.addAssignment(t, "Essay one", true, 10)

	f.video = models.Lecture{ModuleID: f.module.ID, Title: "Welcome video", Type: models.LectureTypeVideo, OrderNum: 1}
	require.NoError(t, db.Create(&f.video).Error)

	f.student = f.addStudent(t, "ada@example.com", "Ada", "Lovelace")
	f.enroll(t, f.student.ID, models.EnrollmentStatusActive)

	return f
}

func (f *fixture) addAssignment(t *testing.T, title string, lateAllowed bool, penalty float64) models.Lecture {
	t.Helper()
	due := fixtureDue
	lecture := models.Lecture{
		ModuleID: f.module.ID,
		Title:    title,
		Type:     models.LectureTypeAssignment,
		OrderNum: 2,
		Assignment: models.AssignmentConfig{
			Type:                  models.AssignmentTypeEssay,
			MaxPoints:             100,
			DueDate:               &due,
			LateSubmissionAllowed: lateAllowed,
			LatePenaltyPercent:    penalty,
		},
	}
	require.NoError(t, f.db.Create(&lecture).Error)
	return lecture
}

func (f *fixture) addStudent(t *testing.T, email, first, last string) models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: first, LastName: last}
	require.NoError(t, repository.NewStudentRepository(f.db).Create(context.Background(), &user))
	return user
}

func (f *fixture) enroll(t *testing.T, userID, status string) models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{UserID: userID, CourseID: f.course.ID, Status: status, EnrolledAt: time.Now().UTC()}
	require.NoError(t, f.db.Create(&enrollment).Error)
	return enrollment
}

// submissionService accepts submitted_at so tests can place attempts around the due date.
func (f *fixture) submissionService(cfg SubmissionServiceConfig) SubmissionService {
	cfg.AcceptSubmittedAt = true
	return NewSubmissionService(repository.NewSubmissionRepository(f.db), cfg, testValidator(), testLogger())
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
