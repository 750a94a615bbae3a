package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error classes surfaced to transport layers. Resource-specific errors wrap them, so
// callers match with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrNotEnrolled        = errors.New("student is not actively enrolled in the course")
	ErrInvalidSubmission  = errors.New("invalid submission")
	ErrSubmissionRejected = errors.New("submission rejected")
	ErrConflict           = errors.New("conflict")
)

// Resource lookups that found nothing.
var (
	ErrCourseNotFound     = fmt.Errorf("course %w", ErrNotFound)
	ErrModuleNotFound     = fmt.Errorf("module %w", ErrNotFound)
	ErrLectureNotFound    = fmt.Errorf("lecture %w", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("submission %w", ErrNotFound)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// storeError maps gorm sentinels onto the service taxonomy.
func storeError(err error, notFound error, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && duplicate != "":
		return conflictError("%s", duplicate)
	default:
		return err
	}
}
