package dto

import "time"

// AssignmentListRequest defines filters for listing assignments across courses.
type AssignmentListRequest struct {
	ListParams
	CourseID string `validate:"omitempty,uuid"`
	ModuleID string `validate:"omitempty,uuid"`
	Search   string `validate:"omitempty,max=200"`
}

// AssignmentResponse joins an assignment with its module, course and submission counts.
type AssignmentResponse struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	AssignmentType        string     `json:"assignment_type"`
	Instructions          string     `json:"instructions"`
	MaxPoints             float64    `json:"max_points"`
	DueDate               *time.Time `json:"due_date"`
	LateSubmissionAllowed bool       `json:"late_submission_allowed"`
	LatePenaltyPercent    float64    `json:"late_penalty_percent"`
	OrderNum              int        `json:"order_num"`
	ModuleID              string     `json:"module_id"`
	ModuleTitle           string     `json:"module_title"`
	ModuleOrder           int        `json:"module_order"`
	CourseID              string     `json:"course_id"`
	CourseCode            string     `json:"course_code"`
	CourseTitle           string     `json:"course_title"`
	TotalSubmissions      int64      `json:"total_submissions"`
	GradedSubmissions     int64      `json:"graded_submissions"`
	PendingSubmissions    int64      `json:"pending_submissions"`
	GradingSubmissions    int64      `json:"grading_submissions"`
	CreatedAt             time.Time  `json:"created_at"`
}
