package dto

import "time"

// StudentListRequest defines filters for listing students.
type StudentListRequest struct {
	ListParams
	Search string `validate:"omitempty,max=200"`
	Status string `validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// StudentCreateRequest registers a user holding the STUDENT role.
type StudentCreateRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}

// StudentResponse joins a student with enrollment and submission statistics.
type StudentResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	AccountStatus      string    `json:"account_status"`
	Roles              []string  `json:"roles"`
	EnrolledCourses    int64     `json:"enrolled_courses"`
	TotalSubmissions   int64     `json:"total_submissions"`
	GradedSubmissions  int64     `json:"graded_submissions"`
	PendingSubmissions int64     `json:"pending_submissions"`
	LateSubmissions    int64     `json:"late_submissions"`
	AverageScore       *float64  `json:"average_score"`
	CreatedAt          time.Time `json:"created_at"`
}
