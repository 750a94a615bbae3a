package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	limiter fiber.Handler
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance. limiter, when set, guards
// submission creation.
func NewSubmissionHandler(service service.SubmissionService, limiter fiber.Handler, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		limiter: limiter,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	if h.limiter != nil {
		router.Post("", h.limiter, h.create)
	} else {
		router.Post("", h.create)
	}
	router.Get("/stats/overview", h.stats)
	router.Get("/:id", h.get)
	router.Put("/:id/grade", h.grade)
	router.Put("/:id/status", h.transition)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultListLimit)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	isLate, err := parseQueryBool(c, "is_late")
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.SubmissionListRequest{
		ListParams:   params,
		CourseID:     queryString(c, "course_id"),
		AssignmentID: queryString(c, "assignment_id"),
		Status:       queryString(c, "status"),
		IsLate:       isLate,
		StudentEmail: queryString(c, "student_email"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submissions retrieved", result)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submission retrieved", detail)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	submission, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendCreated(c, "submission created", submission)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeSubmissionRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	submission, err := h.service.Grade(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submission graded", submission)
}

func (h *SubmissionHandler) transition(c *fiber.Ctx) error {
	var payload dto.SubmissionStatusRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	submission, err := h.service.Transition(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submission status updated", submission)
}

func (h *SubmissionHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), dto.SubmissionStatsRequest{
		CourseID:     queryString(c, "course_id"),
		AssignmentID: queryString(c, "assignment_id"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submission statistics retrieved", stats)
}
