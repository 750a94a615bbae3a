package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// ModuleHandler exposes module endpoints.
type ModuleHandler struct {
	service service.ModuleService
	logger  zerolog.Logger
}

// NewModuleHandler constructs a module handler.
func NewModuleHandler(service service.ModuleService, logger zerolog.Logger) *ModuleHandler {
	return &ModuleHandler{
		service: service,
		logger:  logger.With().Str("component", "module_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ModuleHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ModuleHandler) list(c *fiber.Ctx) error {
	params, err := parseListParams(c, defaultChildrenSize)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), dto.ModuleListRequest{
		ListParams: params,
		CourseID:   queryString(c, "course_id"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "modules retrieved", result)
}

func (h *ModuleHandler) create(c *fiber.Ctx) error {
	var payload dto.ModuleCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	module, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendCreated(c, "module created", module)
}

func (h *ModuleHandler) update(c *fiber.Ctx) error {
	var payload dto.ModuleUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return writeError(c, h.logger, err)
	}

	module, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "module updated", module)
}

func (h *ModuleHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "module deleted", nil)
}
