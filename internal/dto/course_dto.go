package dto

import "time"

// CourseListRequest defines filters for listing courses.
type CourseListRequest struct {
	ListParams
	Status     string `validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Category   string `validate:"omitempty,max=100"`
	Difficulty string `validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	Search     string `validate:"omitempty,max=200"`
}

// CourseCreateRequest captures payloads for creating courses.
type CourseCreateRequest struct {
	Code             string   `json:"code" validate:"required,min=2,max=50"`
	Title            string   `json:"title" validate:"required,min=3,max=200"`
	Description      string   `json:"description" validate:"omitempty,max=10000"`
	ShortDescription string   `json:"short_description" validate:"omitempty,max=500"`
	ThumbnailURL     string   `json:"thumbnail_url" validate:"omitempty,url,max=500"`
	Category         string   `json:"category" validate:"omitempty,max=100"`
	DifficultyLevel  string   `json:"difficulty_level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	EstimatedHours   *float64 `json:"estimated_hours" validate:"omitempty,gte=0"`
	Status           string   `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	CreatedBy        *string  `json:"created_by" validate:"omitempty,uuid"`
}

// CourseUpdateRequest allows patching course metadata.
type CourseUpdateRequest struct {
	Code             *string  `json:"code" validate:"omitempty,min=2,max=50"`
	Title            *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description      *string  `json:"description" validate:"omitempty,max=10000"`
	ShortDescription *string  `json:"short_description" validate:"omitempty,max=500"`
	ThumbnailURL     *string  `json:"thumbnail_url" validate:"omitempty,max=500"`
	Category         *string  `json:"category" validate:"omitempty,max=100"`
	DifficultyLevel  *string  `json:"difficulty_level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	EstimatedHours   *float64 `json:"estimated_hours" validate:"omitempty,gte=0"`
	Status           *string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// CourseResponse is the course projection with its module and enrollment counts.
type CourseResponse struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description"`
	ThumbnailURL     string     `json:"thumbnail_url"`
	Category         string     `json:"category"`
	DifficultyLevel  string     `json:"difficulty_level"`
	EstimatedHours   *float64   `json:"estimated_hours"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedBy        *string    `json:"created_by"`
	ModuleCount      int64      `json:"module_count"`
	EnrollmentCount  int64      `json:"enrollment_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ModuleListRequest lists the modules of one course.
type ModuleListRequest struct {
	ListParams
	CourseID string `validate:"required,uuid"`
}

// ModuleCreateRequest captures payloads for creating modules.
type ModuleCreateRequest struct {
	CourseID    string `json:"course_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	OrderNum    int    `json:"order_num" validate:"omitempty,min=1"`
}

// ModuleUpdateRequest allows patching module metadata.
type ModuleUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	OrderNum    *int    `json:"order_num" validate:"omitempty,min=1"`
}

// ModuleResponse is the module projection with lecture counts.
type ModuleResponse struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OrderNum        int       `json:"order_num"`
	LectureCount    int64     `json:"lecture_count"`
	AssignmentCount int64     `json:"assignment_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
