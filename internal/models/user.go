package models

import "strings"

// Role names recognised by the platform.
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleTA         = "TA"
	RoleAdmin      = "ADMIN"
)

// Account statuses.
const (
	AccountStatusActive    = "ACTIVE"
	AccountStatusInactive  = "INACTIVE"
	AccountStatusSuspended = "SUSPENDED"
)

// DefaultRoles lists the roles seeded at migration time.
var DefaultRoles = []string{RoleStudent, RoleInstructor, RoleTA, RoleAdmin}

// Role is a named permission group.
type Role struct {
	Base
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

// User is any person known to the platform: students, instructors and teaching assistants.
type User struct {
	Base
	Email         string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName     string `gorm:"size:100;not null" json:"first_name"`
	LastName      string `gorm:"size:100;not null" json:"last_name"`
	AccountStatus string `gorm:"size:32;not null;default:ACTIVE" json:"account_status"`
	Roles         []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// FullName joins the first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether the user holds the named role.
func (u User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}
