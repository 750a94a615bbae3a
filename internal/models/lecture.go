package models

import (
	"time"

	"github.com/noah-isme/b-learning-api/internal/grading"
)

// Lecture types.
const (
	LectureTypeVideo      = "VIDEO"
	LectureTypeReading    = "READING"
	LectureTypeAssignment = "ASSIGNMENT"
)

// Assignment types.
const (
	AssignmentTypeEssay        = "ESSAY"
	AssignmentTypeCode         = "CODE"
	AssignmentTypeFileUpload   = "FILE_UPLOAD"
	AssignmentTypeProblemSet   = "PROBLEM_SET"
	AssignmentTypeProject      = "PROJECT"
	DefaultAssignmentMaxPoints = 100
	DefaultAssignmentDueDays   = 7
)

// AssignmentConfig holds the grading configuration of an ASSIGNMENT lecture.
type AssignmentConfig struct {
	Type                  string     `gorm:"size:32" json:"assignment_type"`
	Instructions          string     `gorm:"type:text" json:"instructions"`
	MaxPoints             float64    `json:"max_points"`
	DueDate               *time.Time `json:"due_date"`
	LateSubmissionAllowed bool       `gorm:"not null" json:"late_submission_allowed"`
	LatePenaltyPercent    float64    `gorm:"not null;default:0" json:"late_penalty_percent"`
}

// Lecture is an ordered item of a module. Lectures of type ASSIGNMENT are gradable assignments.
type Lecture struct {
	Base
	ModuleID    string           `gorm:"type:uuid;not null;index" json:"module_id"`
	Module      *Module          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Type        string           `gorm:"size:32;not null;default:VIDEO;index" json:"type"`
	OrderNum    int              `gorm:"not null;default:1" json:"order_num"`
	Assignment  AssignmentConfig `gorm:"embedded;embeddedPrefix:assignment_" json:"assignment_config"`
}

// IsAssignment reports whether students may submit work for this lecture.
func (l Lecture) IsAssignment() bool {
	return l.Type == LectureTypeAssignment
}

// GradingRules converts the assignment configuration into grading rules.
func (l Lecture) GradingRules() grading.Rules {
	rules := grading.Rules{
		MaxPoints:             l.Assignment.MaxPoints,
		LateSubmissionAllowed: l.Assignment.LateSubmissionAllowed,
		LatePenaltyPercent:    l.Assignment.LatePenaltyPercent,
	}
	if rules.MaxPoints <= 0 {
		rules.MaxPoints = DefaultAssignmentMaxPoints
	}
	if l.Assignment.DueDate != nil {
		rules.DueDate = *l.Assignment.DueDate
	} else {
		// no deadline: nothing can be late
		rules.DueDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return rules
}
