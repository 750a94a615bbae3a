package dto

import "time"

// LectureListRequest lists the lectures of one module.
type LectureListRequest struct {
	ListParams
	ModuleID string `validate:"required,uuid"`
	Type     string `validate:"omitempty,oneof=VIDEO READING ASSIGNMENT"`
}

// AssignmentConfigRequest carries the grading configuration of an ASSIGNMENT lecture.
// DueDate wins over DueDays when both are present.
type AssignmentConfigRequest struct {
	AssignmentType        string     `json:"assignment_type" validate:"omitempty,oneof=ESSAY CODE FILE_UPLOAD PROBLEM_SET PROJECT"`
	Instructions          string     `json:"instructions" validate:"omitempty,max=20000"`
	MaxPoints             *float64   `json:"max_points" validate:"omitempty,gt=0"`
	DueDate               *time.Time `json:"due_date"`
	DueDays               *int       `json:"due_days" validate:"omitempty,min=0,max=365"`
	LateSubmissionAllowed *bool      `json:"late_submission_allowed"`
	LatePenaltyPercent    *float64   `json:"late_penalty_percent" validate:"omitempty,gte=0,lte=100"`
}

// LectureCreateRequest captures payloads for creating lectures.
type LectureCreateRequest struct {
	ModuleID    string                   `json:"module_id" validate:"required,uuid"`
	Title       string                   `json:"title" validate:"required,min=3,max=200"`
	Description string                   `json:"description" validate:"omitempty,max=10000"`
	Type        string                   `json:"type" validate:"omitempty,oneof=VIDEO READING ASSIGNMENT"`
	OrderNum    int                      `json:"order_num" validate:"omitempty,min=1"`
	Assignment  *AssignmentConfigRequest `json:"assignment_config"`
}

// LectureUpdateRequest allows patching lecture metadata and assignment configuration.
type LectureUpdateRequest struct {
	Title       *string                  `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string                  `json:"description" validate:"omitempty,max=10000"`
	Type        *string                  `json:"type" validate:"omitempty,oneof=VIDEO READING ASSIGNMENT"`
	OrderNum    *int                     `json:"order_num" validate:"omitempty,min=1"`
	Assignment  *AssignmentConfigRequest `json:"assignment_config"`
}

// AssignmentConfigResponse serialises the grading configuration of an assignment lecture.
type AssignmentConfigResponse struct {
	AssignmentType        string     `json:"assignment_type"`
	Instructions          string     `json:"instructions"`
	MaxPoints             float64    `json:"max_points"`
	DueDate               *time.Time `json:"due_date"`
	LateSubmissionAllowed bool       `json:"late_submission_allowed"`
	LatePenaltyPercent    float64    `json:"late_penalty_percent"`
}

// LectureResponse is the lecture projection with its submission count.
type LectureResponse struct {
	ID              string                    `json:"id"`
	ModuleID        string                    `json:"module_id"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description"`
	Type            string                    `json:"type"`
	OrderNum        int                       `json:"order_num"`
	Assignment      *AssignmentConfigResponse `json:"assignment_config,omitempty"`
	SubmissionCount int64                     `json:"submission_count"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}
