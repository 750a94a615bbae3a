package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// LectureHandler exposes lecture endpoints.
type LectureHandler struct {
	service service.LectureService
	logger  zerolog.Logger
}

// NewLectureHandler constructs a lecture handler.
func NewLectureHandler(service service.LectureService, logger zerolog.Logger) *LectureHandler {
	return &LectureHandler{
		service: service,
		logger:  logger.With().Str("component", "lecture_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *LectureHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *LectureHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultChildrenSize)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.LectureListRequest{
		ListParams: params,
		ModuleID:   queryString(c, "module_id"),
		Type:       queryString(c, "type"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lectures retrieved", result)
}

func (h *LectureHandler) create(c *fiber.Ctx) error {
	var payload dto.LectureCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	lecture, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendCreated(c, "lecture created", lecture)
}

func (h *LectureHandler) update(c *fiber.Ctx) error {
	var payload dto.LectureUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	lecture, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lecture updated", lecture)
}

func (h *LectureHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "lecture deleted", nil)
}
