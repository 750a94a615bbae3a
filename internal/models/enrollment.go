package models

import "time"

// Enrollment statuses.
const (
	EnrollmentStatusActive    = "ACTIVE"
	EnrollmentStatusCompleted = "COMPLETED"
	EnrollmentStatusDropped   = "DROPPED"
	EnrollmentStatusSuspended = "SUSPENDED"
)

// Enrollment links a user to a course in a given role.
type Enrollment struct {
	Base
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	User       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CourseID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id"`
	Course     *Course   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Role       string    `gorm:"size:32;not null;default:STUDENT" json:"role"`
	Status     string    `gorm:"size:32;not null;default:ACTIVE" json:"status"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
	FinalGrade *float64  `json:"final_grade"`
}

// IsActive reports whether the enrollment currently grants access to the course.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
