package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/config"
	"github.com/noah-isme/b-learning-api/internal/database"
	"github.com/noah-isme/b-learning-api/internal/grading"
	"github.com/noah-isme/b-learning-api/internal/handler"
	"github.com/noah-isme/b-learning-api/internal/middleware"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/repository"
	"github.com/noah-isme/b-learning-api/internal/router"
	"github.com/noah-isme/b-learning-api/internal/service"
)

var fixtureDue = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

const testSeedToken = "seed-secret"

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	course     models.Course
	assignment models.Lecture
	video      models.Lecture
	student    models.User
	enrollment models.Enrollment
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	} `json:"errors"`
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect("sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	courseService := service.NewCourseService(courseRepo, nil, validate, logger)
	moduleService := service.NewModuleService(moduleRepo, courseRepo, nil, validate, logger)
	lectureService := service.NewLectureService(repository.NewLectureRepository(db), moduleRepo, nil, validate, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(repository.NewEnrollmentRepository(db), courseRepo, studentRepo, nil, validate, logger)
	seedService := service.NewSeedService(service.SeedDependencies{
		Courses:     courseService,
		Modules:     moduleService,
		Lectures:    lectureService,
		Students:    studentService,
		Enrollments: enrollmentService,
	}, true, testSeedToken, logger)

	submissionService := service.NewSubmissionService(repository.NewSubmissionRepository(db), service.SubmissionServiceConfig{
		LatePolicy:        grading.LatePolicyReject,
		AcceptSubmittedAt: true,
	}, validate, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger, RequestTimeout: 5 * time.Second})
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test", LatePolicy: grading.LatePolicyReject}, router.Dependencies{
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		ModuleHandler:     handler.NewModuleHandler(moduleService, logger),
		LectureHandler:    handler.NewLectureHandler(lectureService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(service.NewAssignmentService(repository.NewAssignmentRepository(db), validate, logger), logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, nil, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
	})

	env := &testEnv{app: app, db: db}

	env.course = models.Course{Code: "CS101", Title: "Intro to Computing", Status: models.CourseStatusPublished}
	require.NoError(t, db.Create(&env.course).Error)

	module := models.Module{CourseID: env.course.ID, Title: "Basics", OrderNum: 1}
	require.NoError(t, db.Create(&module).Error)

	due := fixtureDue
	env.assignment = models.Lecture{
		ModuleID: module.ID,
		Title:    "Essay one",
		Type:     models.LectureTypeAssignment,
		OrderNum: 2,
		Assignment: models.AssignmentConfig{
			Type:                  models.AssignmentTypeEssay,
			MaxPoints:             100,
			DueDate:               &due,
			LateSubmissionAllowed: true,
			LatePenaltyPercent:    10,
		},
	}
	require.NoError(t, db.Create(&env.assignment).Error)

	env.video = models.Lecture{ModuleID: module.ID, Title: "Welcome video", Type: models.LectureTypeVideo, OrderNum: 1}
	require.NoError(t, db.Create(&env.video).Error)

	env.student = models.User{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, studentRepo.Create(context.Background(), &env.student))

	env.enrollment = models.Enrollment{UserID: env.student.ID, CourseID: env.course.ID, EnrolledAt: time.Now().UTC()}
	require.NoError(t, db.Create(&env.enrollment).Error)

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	return e.doWithHeaders(t, method, path, body, nil)
}

func (e *testEnv) doWithHeaders(t *testing.T, method, path string, body interface{}, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}
