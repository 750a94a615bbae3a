package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultListLimit)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.StudentListRequest{
		ListParams: params,
		Search:     queryString(c, "search"),
		Status:     queryString(c, "status"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "students retrieved", result)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	student, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendCreated(c, "student created", student)
}
