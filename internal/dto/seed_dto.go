package dto

// SeedSummary reports what the demo seeder created.
type SeedSummary struct {
	CourseID    string   `json:"course_id"`
	CourseCode  string   `json:"course_code"`
	Modules     int      `json:"modules"`
	Lectures    int      `json:"lectures"`
	Assignments []string `json:"assignments"`
	Students    []string `json:"students"`
	Enrollments int      `json:"enrollments"`
}
