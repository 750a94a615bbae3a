package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *EnrollmentHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultListLimit)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.EnrollmentListRequest{
		ListParams: params,
		CourseID:   queryString(c, "course_id"),
		UserID:     queryString(c, "user_id"),
		Status:     queryString(c, "status"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "enrollments retrieved", result)
}

func (h *EnrollmentHandler) create(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	enrollment, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendCreated(c, "enrollment created", enrollment)
}

func (h *EnrollmentHandler) update(c *fiber.Ctx) error {
	var payload dto.EnrollmentUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	enrollment, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "enrollment updated", enrollment)
}

func (h *EnrollmentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "enrollment deleted", nil)
}
