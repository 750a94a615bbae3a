package dto

import (
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gorm.io/datatypes"

	"github.com/noah-isme/b-learning-api/internal/models"
)

// NewCourseResponse converts a course model; aggregate counts are filled by the caller.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:               course.ID,
		Code:             course.Code,
		Title:            course.Title,
		Description:      course.Description,
		ShortDescription: course.ShortDescription,
		ThumbnailURL:     course.ThumbnailURL,
		Category:         course.Category,
		DifficultyLevel:  course.DifficultyLevel,
		EstimatedHours:   course.EstimatedHours,
		Status:           course.Status,
		PublishedAt:      course.PublishedAt,
		CreatedBy:        course.CreatedBy,
		CreatedAt:        course.CreatedAt,
		UpdatedAt:        course.UpdatedAt,
	}
}

// NewModuleResponse converts a module model.
func NewModuleResponse(module models.Module) ModuleResponse {
	return ModuleResponse{
		ID:          module.ID,
		CourseID:    module.CourseID,
		Title:       module.Title,
		Description: module.Description,
		OrderNum:    module.OrderNum,
		CreatedAt:   module.CreatedAt,
		UpdatedAt:   module.UpdatedAt,
	}
}

// NewLectureResponse converts a lecture model. Assignment configuration is only
// exposed for ASSIGNMENT lectures.
func NewLectureResponse(lecture models.Lecture) LectureResponse {
	response := LectureResponse{
		ID:          lecture.ID,
		ModuleID:    lecture.ModuleID,
		Title:       lecture.Title,
		Description: lecture.Description,
		Type:        lecture.Type,
		OrderNum:    lecture.OrderNum,
		CreatedAt:   lecture.CreatedAt,
		UpdatedAt:   lecture.UpdatedAt,
	}
	if lecture.IsAssignment() {
		response.Assignment = &AssignmentConfigResponse{
			AssignmentType:        lecture.Assignment.Type,
			Instructions:          lecture.Assignment.Instructions,
			MaxPoints:             lecture.Assignment.MaxPoints,
			DueDate:               lecture.Assignment.DueDate,
			LateSubmissionAllowed: lecture.Assignment.LateSubmissionAllowed,
			LatePenaltyPercent:    lecture.Assignment.LatePenaltyPercent,
		}
	}
	return response
}

// NewSubmissionResponse converts a submission model into a DTO.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	fileURLs := make([]string, 0, len(submission.FileURLs))
	fileURLs = append(fileURLs, submission.FileURLs...)

	return SubmissionResponse{
		ID:               submission.ID,
		AssignmentID:     submission.AssignmentID,
		StudentID:        submission.StudentID,
		EnrollmentID:     submission.EnrollmentID,
		SubmissionNumber: submission.SubmissionNumber,
		SubmittedAt:      submission.SubmittedAt,
		Content:          submission.Content,
		FileURLs:         fileURLs,
		CodeSubmission:   submission.CodeSubmission,
		Status:           submission.Status,
		AutoScore:        submission.AutoScore,
		ManualScore:      submission.ManualScore,
		FinalScore:       submission.FinalScore,
		IsLate:           submission.IsLate,
		DaysLate:         submission.DaysLate,
		PenaltyApplied:   submission.PenaltyApplied,
		Feedback:         submission.Feedback,
		RubricScores:     RubricFromJSON(submission.RubricScores),
		GradedBy:         submission.GradedBy,
		GradedAt:         submission.GradedAt,
	}
}

// NewGradeHistoryResponses converts audit rows, keeping their order.
func NewGradeHistoryResponses(history []models.SubmissionGradeHistory) []GradeHistoryResponse {
	return lo.Map(history, func(item models.SubmissionGradeHistory, _ int) GradeHistoryResponse {
		return GradeHistoryResponse{
			ManualScore:    item.ManualScore,
			PenaltyApplied: item.PenaltyApplied,
			FinalScore:     item.FinalScore,
			Feedback:       item.Feedback,
			GradedBy:       item.GradedBy,
			GradedAt:       item.GradedAt,
		}
	})
}

// RubricFromJSON reads rubric scores stored as a JSON object.
func RubricFromJSON(raw datatypes.JSONMap) map[string]float64 {
	if len(raw) == 0 {
		return map[string]float64{}
	}
	return lo.MapValues(raw, func(value interface{}, _ string) float64 {
		return cast.ToFloat64(value)
	})
}

// RubricToJSON stores rubric scores as a JSON object.
func RubricToJSON(scores map[string]float64) datatypes.JSONMap {
	if len(scores) == 0 {
		return nil
	}
	return datatypes.JSONMap(lo.MapValues(scores, func(value float64, _ string) interface{} {
		return value
	}))
}
