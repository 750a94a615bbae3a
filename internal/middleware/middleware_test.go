package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDEchoesIncomingHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		require.Equal(t, "abc-123", CorrelationIDFromContext(c.UserContext()))
		return c.SendString(GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get(HeaderCorrelationID))
}

func TestCorrelationIDGeneratesWhenMissingOrOversized(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(HeaderCorrelationID)
	require.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, strings.Repeat("x", maxCorrelationIDLength+1))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Len(t, resp.Header.Get(HeaderCorrelationID), 36)
}

func TestDeadlineBoundsUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(Deadline(time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := c.UserContext().Deadline()
		require.True(t, ok)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimitRespondsWithEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit("submissions", 1, time.Minute))
	app.Post("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRequestLoggerAddsCorrelation(t *testing.T) {
	var buf strings.Builder
	base := zerolog.New(&buf)

	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		logger := RequestLogger(base, c)
		logger.Info().Msg("hello")
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "corr-1")
	_, err := app.Test(req)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"correlation_id":"corr-1"`)
}

func TestContextWithCorrelationIgnoresBlank(t *testing.T) {
	ctx := ContextWithCorrelation(context.Background(), "  ")
	require.Empty(t, CorrelationIDFromContext(ctx))
}
