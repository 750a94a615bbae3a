package dto

import "time"

// EnrollmentListRequest filters enrollments by course, user and status.
type EnrollmentListRequest struct {
	ListParams
	CourseID string `validate:"omitempty,uuid"`
	UserID   string `validate:"omitempty,uuid"`
	Status   string `validate:"omitempty,oneof=ACTIVE COMPLETED DROPPED SUSPENDED"`
}

// EnrollmentCreateRequest enrolls a user into a course.
type EnrollmentCreateRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	CourseID string `json:"course_id" validate:"required,uuid"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT TA INSTRUCTOR"`
	Status   string `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED DROPPED SUSPENDED"`
}

// EnrollmentUpdateRequest allows changing role, status and final grade.
type EnrollmentUpdateRequest struct {
	Role       *string  `json:"role" validate:"omitempty,oneof=STUDENT TA INSTRUCTOR"`
	Status     *string  `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED DROPPED SUSPENDED"`
	FinalGrade *float64 `json:"final_grade" validate:"omitempty,gte=0,lte=100"`
}

// EnrollmentResponse denormalises the course and student onto an enrollment row.
type EnrollmentResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	CourseID        string    `json:"course_id"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	EnrolledAt      time.Time `json:"enrolled_at"`
	FinalGrade      *float64  `json:"final_grade"`
	CourseCode      string    `json:"course_code"`
	CourseTitle     string    `json:"course_title"`
	StudentEmail    string    `json:"student_email"`
	StudentName     string    `json:"student_name"`
	SubmissionCount int64     `json:"submission_count"`
	AverageScore    *float64  `json:"average_score"`
}
