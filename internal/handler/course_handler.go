package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultListLimit)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.CourseListRequest{
		ListParams: params,
		Status:     queryString(c, "status"),
		Category:   queryString(c, "category"),
		Difficulty: queryString(c, "difficulty"),
		Search:     queryString(c, "search"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "courses retrieved", result)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	course, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	course, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendCreated(c, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	var payload dto.CourseUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	course, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "course deleted", nil)
}
