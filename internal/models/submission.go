package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission statuses, in lifecycle order.
const (
	SubmissionStatusDraft     = "DRAFT"
	SubmissionStatusSubmitted = "SUBMITTED"
	SubmissionStatusGrading   = "GRADING"
	SubmissionStatusGraded    = "GRADED"
	SubmissionStatusReturned  = "RETURNED"
)

var submissionStatuses = map[string]struct{}{
	SubmissionStatusDraft:     {},
	SubmissionStatusSubmitted: {},
	SubmissionStatusGrading:   {},
	SubmissionStatusGraded:    {},
	SubmissionStatusReturned:  {},
}

// IsSubmissionStatus reports whether value names a known submission status.
func IsSubmissionStatus(value string) bool {
	_, ok := submissionStatuses[value]
	return ok
}

// Submission is one student's attempt at an assignment.
type Submission struct {
	Base
	AssignmentID     string                      `gorm:"column:lecture_id;type:uuid;not null;uniqueIndex:idx_submission_number" json:"assignment_id"`
	Assignment       *Lecture                    `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	StudentID        string                      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_submission_number;index" json:"student_id"`
	Student          *User                       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	EnrollmentID     string                      `gorm:"type:uuid;not null;index" json:"enrollment_id"`
	Enrollment       *Enrollment                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SubmissionNumber int                         `gorm:"not null;uniqueIndex:idx_submission_number" json:"submission_number"`
	SubmittedAt      time.Time                   `gorm:"not null;index" json:"submitted_at"`
	Content          string                      `gorm:"type:text" json:"content"`
	FileURLs         datatypes.JSONSlice[string] `gorm:"column:file_urls" json:"file_urls"`
	CodeSubmission   string                      `gorm:"type:text" json:"code_submission"`
	Status           string                      `gorm:"size:32;not null;default:SUBMITTED;index" json:"status"`
	AutoScore        float64                     `gorm:"not null;default:0" json:"auto_score"`
	ManualScore      *float64                    `json:"manual_score"`
	FinalScore       float64                     `gorm:"not null;default:0" json:"final_score"`
	IsLate           bool                        `gorm:"not null;default:false;index" json:"is_late"`
	DaysLate         int                         `gorm:"not null;default:0" json:"days_late"`
	PenaltyApplied   float64                     `gorm:"not null;default:0" json:"penalty_applied"`
	Feedback         string                      `gorm:"type:text" json:"feedback"`
	RubricScores     datatypes.JSONMap           `json:"rubric_scores"`
	GradedBy         *string                     `gorm:"type:uuid" json:"graded_by"`
	GradedAt         *time.Time                  `json:"graded_at"`
}

// TableName keeps the table name used by the original schema.
func (Submission) TableName() string {
	return "assignment_submissions"
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded || s.Status == SubmissionStatusReturned
}

// CanGrade reports whether a grade may be recorded in the current status.
func (s Submission) CanGrade() bool {
	switch s.Status {
	case SubmissionStatusSubmitted, SubmissionStatusGrading, SubmissionStatusGraded:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Only SUBMITTED -> GRADING and GRADED -> RETURNED are manual moves; GRADED is reached by grading.
func (s Submission) CanTransitionTo(next string) bool {
	switch {
	case s.Status == SubmissionStatusSubmitted && next == SubmissionStatusGrading:
		return true
	case s.Status == SubmissionStatusGraded && next == SubmissionStatusReturned:
		return true
	default:
		return false
	}
}

// SubmissionGradeHistory records each grading action for audit purposes.
type SubmissionGradeHistory struct {
	Base
	SubmissionID   string      `gorm:"type:uuid;not null;index" json:"submission_id"`
	Submission     *Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ManualScore    float64     `gorm:"not null" json:"manual_score"`
	PenaltyApplied float64     `gorm:"not null;default:0" json:"penalty_applied"`
	FinalScore     float64     `gorm:"not null" json:"final_score"`
	Feedback       string      `gorm:"type:text" json:"feedback"`
	GradedBy       *string     `gorm:"type:uuid" json:"graded_by"`
	GradedAt       time.Time   `gorm:"not null" json:"graded_at"`
}
