package dto

import "time"

// SubmissionListRequest defines filters for listing submissions.
type SubmissionListRequest struct {
	ListParams
	CourseID     string `validate:"omitempty,uuid"`
	AssignmentID string `validate:"omitempty,uuid"`
	Status       string `validate:"omitempty,oneof=DRAFT SUBMITTED GRADING GRADED RETURNED"`
	IsLate       *bool
	StudentEmail string `validate:"omitempty,max=255"`
}

// SubmissionCreateRequest captures a student's attempt at an assignment.
type SubmissionCreateRequest struct {
	AssignmentID   string     `json:"assignment_id" validate:"required,uuid"`
	StudentID      string     `json:"student_id" validate:"required,uuid"`
	Content        string     `json:"content" validate:"omitempty,max=100000"`
	FileURLs       []string   `json:"file_urls" validate:"omitempty,max=20,dive,url"`
	CodeSubmission string     `json:"code_submission" validate:"omitempty,max=200000"`
	SubmittedAt    *time.Time `json:"submitted_at"`
}

// GradeSubmissionRequest captures a manual grade.
type GradeSubmissionRequest struct {
	ManualScore  *float64           `json:"manual_score" validate:"required"`
	Feedback     string             `json:"feedback" validate:"omitempty,max=5000"`
	RubricScores map[string]float64 `json:"rubric_scores" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	GradedBy     *string            `json:"graded_by" validate:"omitempty,uuid"`
}

// SubmissionStatusRequest moves a submission along its lifecycle.
type SubmissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=GRADING RETURNED"`
}

// SubmissionResponse is the stored submission with its derived grading fields.
type SubmissionResponse struct {
	ID               string             `json:"id"`
	AssignmentID     string             `json:"assignment_id"`
	StudentID        string             `json:"student_id"`
	EnrollmentID     string             `json:"enrollment_id"`
	SubmissionNumber int                `json:"submission_number"`
	SubmittedAt      time.Time          `json:"submitted_at"`
	Content          string             `json:"content"`
	FileURLs         []string           `json:"file_urls"`
	CodeSubmission   string             `json:"code_submission"`
	Status           string             `json:"status"`
	AutoScore        float64            `json:"auto_score"`
	ManualScore      *float64           `json:"manual_score"`
	FinalScore       float64            `json:"final_score"`
	IsLate           bool               `json:"is_late"`
	DaysLate         int                `json:"days_late"`
	PenaltyApplied   float64            `json:"penalty_applied"`
	Feedback         string             `json:"feedback"`
	RubricScores     map[string]float64 `json:"rubric_scores"`
	GradedBy         *string            `json:"graded_by"`
	GradedAt         *time.Time         `json:"graded_at"`
}

// SubmissionListItem joins a submission with its student, assignment, course and grader.
type SubmissionListItem struct {
	ID               string     `json:"id"`
	AssignmentID     string     `json:"assignment_id"`
	AssignmentTitle  string     `json:"assignment_title"`
	MaxPoints        float64    `json:"max_points"`
	DueDate          *time.Time `json:"due_date"`
	CourseID         string     `json:"course_id"`
	CourseCode       string     `json:"course_code"`
	CourseTitle      string     `json:"course_title"`
	StudentID        string     `json:"student_id"`
	StudentEmail     string     `json:"student_email"`
	StudentName      string     `json:"student_name"`
	SubmissionNumber int        `json:"submission_number"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	Status           string     `json:"status"`
	AutoScore        float64    `json:"auto_score"`
	ManualScore      *float64   `json:"manual_score"`
	FinalScore       float64    `json:"final_score"`
	IsLate           bool       `json:"is_late"`
	DaysLate         int        `json:"days_late"`
	PenaltyApplied   float64    `json:"penalty_applied"`
	GradedBy         *string    `json:"graded_by"`
	GraderName       string     `json:"grader_name"`
	GradedAt         *time.Time `json:"graded_at"`
}

// GradeHistoryResponse is one audited grading action.
type GradeHistoryResponse struct {
	ManualScore    float64   `json:"manual_score"`
	PenaltyApplied float64   `json:"penalty_applied"`
	FinalScore     float64   `json:"final_score"`
	Feedback       string    `json:"feedback"`
	GradedBy       *string   `json:"graded_by"`
	GradedAt       time.Time `json:"graded_at"`
}

// SubmissionDetailResponse is the full joined projection of one submission.
type SubmissionDetailResponse struct {
	SubmissionResponse
	StudentEmail          string                 `json:"student_email"`
	StudentName           string                 `json:"student_name"`
	GraderName            string                 `json:"grader_name"`
	GraderEmail           string                 `json:"grader_email"`
	AssignmentTitle       string                 `json:"assignment_title"`
	AssignmentType        string                 `json:"assignment_type"`
	Instructions          string                 `json:"instructions"`
	MaxPoints             float64                `json:"max_points"`
	DueDate               *time.Time             `json:"due_date"`
	LateSubmissionAllowed bool                   `json:"late_submission_allowed"`
	LatePenaltyPercent    float64                `json:"late_penalty_percent"`
	ModuleID              string                 `json:"module_id"`
	ModuleTitle           string                 `json:"module_title"`
	CourseID              string                 `json:"course_id"`
	CourseCode            string                 `json:"course_code"`
	CourseTitle           string                 `json:"course_title"`
	History               []GradeHistoryResponse `json:"history"`
}

// SubmissionStatsRequest scopes the statistics overview.
type SubmissionStatsRequest struct {
	CourseID     string `validate:"omitempty,uuid"`
	AssignmentID string `validate:"omitempty,uuid"`
}

// SubmissionStatsResponse summarises submissions for the overview dashboard.
type SubmissionStatsResponse struct {
	TotalSubmissions  int64     `json:"total_submissions"`
	SubmittedCount    int64     `json:"submitted_count"`
	GradingCount      int64     `json:"grading_count"`
	GradedCount       int64     `json:"graded_count"`
	PendingCount      int64     `json:"pending_count"`
	LateCount         int64     `json:"late_count"`
	OnTimeCount       int64     `json:"on_time_count"`
	AverageFinalScore *float64  `json:"average_final_score"`
	GeneratedAt       time.Time `json:"generated_at"`
	CacheHit          bool      `json:"cache_hit"`
}
