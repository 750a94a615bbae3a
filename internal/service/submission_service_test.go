package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/events"
	"github.com/noah-isme/b-learning-api/internal/grading"
	"github.com/noah-isme/b-learning-api/internal/models"
	"github.com/noah-isme/b-learning-api/internal/repository"
)

func submitAt(f *fixture, assignmentID string, at time.Time) dto.SubmissionCreateRequest {
	return dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    f.student.ID,
		Content:      "<p>My essay</p>",
		SubmittedAt:  timePtr(at),
	}
}

func TestSubmissionServiceCreateNumbersAttempts(t *testing.T) {
	f := newFixture(t)
	publisher := &recordingPublisher{}
	svc := f.submissionService(SubmissionServiceConfig{Publisher: publisher})
	ctx := context.Background()

	first, err := svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(-time.Hour)))
	require.NoError(t, err)
	second, err := svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(-30*time.Minute)))
	require.NoError(t, err)

	assert.Equal(t, 1, first.SubmissionNumber)
	assert.Equal(t, 2, second.SubmissionNumber)
	assert.Equal(t, models.SubmissionStatusSubmitted, first.Status)
	assert.False(t, first.IsLate)
	assert.Zero(t, first.FinalScore)
	assert.Zero(t, first.AutoScore)
	assert.Equal(t, []string{events.TypeSubmissionCreated, events.TypeSubmissionCreated}, publisher.types())
}

func TestSubmissionServiceCreateStripsUnsafeMarkup(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})

	req := submitAt(f, f.assignment.ID, fixtureDue.Add(-time.Hour))
	req.Content = `<p>Answer</p><script>alert("x")</script>`

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "<p>Answer</p>", created.Content)
}

func TestSubmissionServiceCreateRequiresWork(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})

	req := submitAt(f, f.assignment.ID, fixtureDue)
	req.Content = "  "

	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSubmissionServiceCreateRejectsNonAssignment(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})

	_, err := svc.Create(context.Background(), submitAt(f, f.video.ID, fixtureDue))
	require.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = svc.Create(context.Background(), submitAt(f, uuid.NewString(), fixtureDue))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmissionServiceCreateRequiresActiveEnrollment(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})

	outsider := f.addStudent(t, "grace@example.com", "Grace", "Hopper")
	req := submitAt(f, f.assignment.ID, fixtureDue)
	req.StudentID = outsider.ID
	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrNotEnrolled)

	dropped := f.addStudent(t, "alan@example.com", "Alan", "Turing")
	f.enroll(t, dropped.ID, models.EnrollmentStatusDropped)
	req.StudentID = dropped.ID
	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrNotEnrolled)

	var count int64
	require.NoError(t, f.db.Model(&models.Submission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmissionServiceLatePolicy(t *testing.T) {
	f := newFixture(t)
	strict := f.addAssignment(t, "No late work", false, 20)
	late := fixtureDue.Add(20 * time.Hour)

	rejecting := f.submissionService(SubmissionServiceConfig{LatePolicy: grading.LatePolicyReject})
	_, err := rejecting.Create(context.Background(), submitAt(f, strict.ID, late))
	require.ErrorIs(t, err, ErrSubmissionRejected)

	flagging := f.submissionService(SubmissionServiceConfig{LatePolicy: grading.LatePolicyFlag})
	created, err := flagging.Create(context.Background(), submitAt(f, strict.ID, late))
	require.NoError(t, err)
	assert.True(t, created.IsLate)
	assert.Equal(t, 1, created.DaysLate)
	assert.Equal(t, 1, created.SubmissionNumber)

	graded, err := flagging.Grade(context.Background(), created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(50)})
	require.NoError(t, err)
	assert.InDelta(t, 10, graded.PenaltyApplied, 0.001)
	assert.InDelta(t, 40, graded.FinalScore, 0.001)

	// a rejecting service refuses to grade a flagged submission it would never have admitted
	_, err = rejecting.Grade(context.Background(), created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(50)})
	require.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestSubmissionServiceGradeAppliesLatePenalty(t *testing.T) {
	f := newFixture(t)
	publisher := &recordingPublisher{}
	svc := f.submissionService(SubmissionServiceConfig{Publisher: publisher})
	ctx := context.Background()

	created, err := svc.Create(ctx, submitAt(f, f.assignment.ID, time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.True(t, created.IsLate)
	assert.Equal(t, 2, created.DaysLate)

	grader := f.addStudent(t, "ta@example.com", "Terry", "Assistant")
	graded, err := svc.Grade(ctx, created.ID, dto.GradeSubmissionRequest{
		ManualScore:  floatPtr(80),
		Feedback:     "<b>Good</b> work",
		RubricScores: map[string]float64{"clarity": 40, "depth": 40},
		GradedBy:     &grader.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.NotNil(t, graded.ManualScore)
	assert.InDelta(t, 80, *graded.ManualScore, 0.001)
	assert.InDelta(t, 16, graded.PenaltyApplied, 0.001)
	assert.InDelta(t, 64, graded.FinalScore, 0.001)
	assert.Equal(t, "Good work", graded.Feedback)
	assert.Equal(t, map[string]float64{"clarity": 40, "depth": 40}, graded.RubricScores)
	require.NotNil(t, graded.GradedAt)

	regraded, err := svc.Grade(ctx, created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(50), Feedback: "Revised"})
	require.NoError(t, err)
	assert.InDelta(t, 40, regraded.FinalScore, 0.001)
	assert.InDelta(t, 10, regraded.PenaltyApplied, 0.001)
	assert.Equal(t, "Revised", regraded.Feedback)
	assert.Nil(t, regraded.GradedBy)

	detail, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40, detail.FinalScore, 0.001)
	assert.Equal(t, "Ada Lovelace", detail.StudentName)
	assert.Equal(t, "CS101", detail.CourseCode)
	assert.Equal(t, "Essay one", detail.AssignmentTitle)
	assert.Len(t, detail.History, 2)

	assert.Equal(t, []string{
		events.TypeSubmissionCreated,
		events.TypeSubmissionGraded,
		events.TypeSubmissionGraded,
	}, publisher.types())
	last := publisher.events[2]
	require.NotNil(t, last.FinalScore)
	assert.InDelta(t, 40, *last.FinalScore, 0.001)
}

func TestSubmissionServiceGradeOnTime(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})

	created, err := svc.Create(context.Background(), submitAt(f, f.assignment.ID, time.Date(2024, time.January, 9, 23, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	graded, err := svc.Grade(context.Background(), created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(90)})
	require.NoError(t, err)
	assert.False(t, graded.IsLate)
	assert.Zero(t, graded.DaysLate)
	assert.Zero(t, graded.PenaltyApplied)
	assert.InDelta(t, 90, graded.FinalScore, 0.001)
}

func TestSubmissionServiceGradeValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})

	created, err := svc.Create(context.Background(), submitAt(f, f.assignment.ID, fixtureDue))
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(150)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Grade(context.Background(), created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(-1)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Grade(context.Background(), created.ID, dto.GradeSubmissionRequest{})
	require.Error(t, err)

	_, err = svc.Grade(context.Background(), uuid.NewString(), dto.GradeSubmissionRequest{ManualScore: floatPtr(10)})
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	var stored models.Submission
	require.NoError(t, f.db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, models.SubmissionStatusSubmitted, stored.Status)
	assert.Nil(t, stored.ManualScore)
}

func TestSubmissionServiceTransitions(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})
	ctx := context.Background()

	created, err := svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue))
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, dto.SubmissionStatusRequest{Status: models.SubmissionStatusReturned})
	require.ErrorIs(t, err, ErrValidation)

	moved, err := svc.Transition(ctx, created.ID, dto.SubmissionStatusRequest{Status: models.SubmissionStatusGrading})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusGrading, moved.Status)

	_, err = svc.Grade(ctx, created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(70)})
	require.NoError(t, err)

	returned, err := svc.Transition(ctx, created.ID, dto.SubmissionStatusRequest{Status: models.SubmissionStatusReturned})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusReturned, returned.Status)
	assert.InDelta(t, 70, returned.FinalScore, 0.001)

	_, err = svc.Grade(ctx, created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(75)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Transition(ctx, created.ID, dto.SubmissionStatusRequest{Status: models.SubmissionStatusGraded})
	require.Error(t, err)
}

func TestSubmissionServiceListFilters(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{})
	ctx := context.Background()

	onTime, err := svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(30*time.Hour)))
	require.NoError(t, err)
	_, err = svc.Grade(ctx, onTime.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(88)})
	require.NoError(t, err)

	late := true
	page, err := svc.List(ctx, dto.SubmissionListRequest{ListParams: dto.ListParams{Limit: 10}, IsLate: &late})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].DaysLate)
	assert.Equal(t, "Ada Lovelace", page.Items[0].StudentName)

	graded, err := svc.List(ctx, dto.SubmissionListRequest{ListParams: dto.ListParams{Limit: 10}, Status: models.SubmissionStatusGraded})
	require.NoError(t, err)
	assert.EqualValues(t, 1, graded.Total)

	empty, err := svc.List(ctx, dto.SubmissionListRequest{ListParams: dto.ListParams{Limit: 10, Offset: 5}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, empty.Total)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	_, err = svc.List(ctx, dto.SubmissionListRequest{ListParams: dto.ListParams{Limit: 10}, Status: "LOST"})
	require.Error(t, err)
}

func TestSubmissionServiceStatsCache(t *testing.T) {
	f := newFixture(t)
	svc := f.submissionService(SubmissionServiceConfig{Stats: newStatsCache(t)})
	ctx := context.Background()

	created, err := svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = svc.Grade(ctx, created.ID, dto.GradeSubmissionRequest{ManualScore: floatPtr(91.234)})
	require.NoError(t, err)

	first, err := svc.Stats(ctx, dto.SubmissionStatsRequest{CourseID: f.course.ID})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.EqualValues(t, 1, first.TotalSubmissions)
	assert.EqualValues(t, 1, first.GradedCount)
	assert.EqualValues(t, 1, first.OnTimeCount)
	require.NotNil(t, first.AverageFinalScore)
	assert.InDelta(t, 91.23, *first.AverageFinalScore, 0.001)

	second, err := svc.Stats(ctx, dto.SubmissionStatsRequest{CourseID: f.course.ID})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.EqualValues(t, 1, second.TotalSubmissions)

	_, err = svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(time.Hour)))
	require.NoError(t, err)

	third, err := svc.Stats(ctx, dto.SubmissionStatsRequest{CourseID: f.course.ID})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.EqualValues(t, 2, third.TotalSubmissions)
	assert.EqualValues(t, 1, third.PendingCount)
	assert.EqualValues(t, 1, third.LateCount)
}

func TestSubmissionServiceStampsServerTimeByDefault(t *testing.T) {
	f := newFixture(t)
	svc := NewSubmissionService(repository.NewSubmissionRepository(f.db), SubmissionServiceConfig{}, testValidator(), testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, submitAt(f, f.assignment.ID, fixtureDue.Add(-time.Hour)))
	require.ErrorIs(t, err, ErrValidation)

	before := time.Now().UTC()
	created, err := svc.Create(ctx, dto.SubmissionCreateRequest{
		AssignmentID: f.assignment.ID,
		StudentID:    f.student.ID,
		Content:      "Late but honest",
	})
	require.NoError(t, err)
	assert.False(t, created.SubmittedAt.Before(before.Add(-time.Second)))
	assert.True(t, created.IsLate)
}
