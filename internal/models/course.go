package models

import "time"

// Course statuses.
const (
	CourseStatusDraft     = "DRAFT"
	CourseStatusPublished = "PUBLISHED"
	CourseStatusArchived  = "ARCHIVED"
)

// Course difficulty levels.
const (
	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"
	DifficultyExpert       = "EXPERT"
)

// Course is the top-level container of modules and the unit students enroll into.
type Course struct {
	Base
	Code             string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	ShortDescription string     `gorm:"size:500" json:"short_description"`
	ThumbnailURL     string     `gorm:"size:500" json:"thumbnail_url"`
	Category         string     `gorm:"size:100;index" json:"category"`
	DifficultyLevel  string     `gorm:"size:32;not null;default:BEGINNER" json:"difficulty_level"`
	EstimatedHours   *float64   `json:"estimated_hours"`
	Status           string     `gorm:"size:32;not null;default:DRAFT;index" json:"status"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedBy        *string    `gorm:"type:uuid" json:"created_by"`
}

// Module groups lectures inside a course.
type Module struct {
	Base
	CourseID    string  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	OrderNum    int     `gorm:"not null;default:1" json:"order_num"`
}
