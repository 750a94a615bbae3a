package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/middleware"
	"github.com/noah-isme/b-learning-api/internal/service"
	"github.com/noah-isme/b-learning-api/internal/utils"
)

// Default page sizes per collection.
const (
	defaultListLimit    = 50
	defaultChildrenSize = 100
)

func parseQueryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, key)
	}
	return parsed, nil
}

// parseListParams reads limit and offset. Range checks happen in the service validator.
func parseListParams(c *fiber.Ctx, defaultLimit int) (dto.ListParams, error) {
	limit, err := parseQueryInt(c, "limit", defaultLimit)
	if err != nil {
		return dto.ListParams{}, err
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return dto.ListParams{}, err
	}
	return dto.ListParams{Limit: limit, Offset: offset}, nil
}

func parseQueryBool(c *fiber.Ctx, key string) (*bool, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := cast.ToBoolE(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", service.ErrValidation, key)
	}
	return &parsed, nil
}

func queryString(c *fiber.Ctx, key string) string {
	return strings.TrimSpace(c.Query(key))
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: invalid request body", service.ErrValidation)
	}
	return nil
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised is logged
// and hidden behind a generic 500.
func writeError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendValidationError(c, validationErrors)
	case errors.Is(err, service.ErrValidation):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidSubmission), errors.Is(err, service.ErrSubmissionRejected):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrConflict):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return utils.SendError(c, fiber.StatusGatewayTimeout, "request timed out")
	default:
		log := middleware.RequestLogger(logger, c)
		log.Error().Err(err).Str("path", c.Path()).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
