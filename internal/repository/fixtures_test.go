package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/b-learning-api/internal/database"
	"github.com/noah-isme/b-learning-api/internal/models"
)

var fixtureDue = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db         *gorm.DB
	course     models.Course
	module     models.Module
	assignment models.Lecture
	video      models.Lecture
	student    models.User
	enrollment models.Enrollment
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{db: db}

	f.course = models.Course{Code: "CS101", Title: "Intro to Computing", Description: "Programming basics", Status: models.CourseStatusPublished}
	require.NoError(t, db.Create(&f.course).Error)

	f.module = models.Module{CourseID: f.course.ID, Title: "Basics", OrderNum: 1}
	require.NoError(t, db.Create(&f.module).Error)

	due := fixtureDue
	f.assignment = models.Lecture{
		ModuleID: f.module.ID,
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
	require.NoError(t, db.Create(&f.assignment).Error)

	f.video = models.Lecture{ModuleID: f.module.ID, Title: "Welcome video", Type: models.LectureTypeVideo, OrderNum: 1}
	require.NoError(t, db.Create(&f.video).Error)

	f.student = f.addStudent(t, "ada@example.com", "Ada", "Lovelace")
	f.enrollment = f.enroll(t, f.student.ID)

	return f
}

func (f *fixture) addStudent(t *testing.T, email, first, last string) models.User {
	t.Helper()
	user := models.User{Email: email, FirstName: first, LastName: last}
	require.NoError(t, NewStudentRepository(f.db).Create(context.Background(), &user))
	return user
}

func (f *fixture) enroll(t *testing.T, userID string) models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{UserID: userID, CourseID: f.course.ID, EnrolledAt: time.Now().UTC()}
	require.NoError(t, f.db.Create(&enrollment).Error)
	return enrollment
}

func (f *fixture) addSubmission(t *testing.T, number int, status string, finalScore float64, late bool) models.Submission {
	t.Helper()
	submission := models.Submission{
		AssignmentID:     f.assignment.ID,
		StudentID:        f.student.ID,
		EnrollmentID:     f.enrollment.ID,
		SubmissionNumber: number,
		SubmittedAt:      fixtureDue.Add(time.Duration(number) * time.Hour),
		Status:           status,
		FinalScore:       finalScore,
		IsLate:           late,
	}
	require.NoError(t, f.db.Create(&submission).Error)
	return submission
}
