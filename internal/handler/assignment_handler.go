package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// AssignmentHandler exposes the read-only assignment catalogue.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultListLimit)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.AssignmentListRequest{
		ListParams: params,
		CourseID:   queryString(c, "course_id"),
		ModuleID:   queryString(c, "module_id"),
		Search:     queryString(c, "search"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignments retrieved", result)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	assignment, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "assignment retrieved", assignment)
}
