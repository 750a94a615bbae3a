package utils_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/b-learning-api/internal/utils"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  []utils.FieldError     `json:"errors"`
}

func TestSendSuccessDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"hello": "world"})
	})
	app.Post("/", func(c *fiber.Ctx) error {
		return utils.SendCreated(c, "created", map[string]string{"id": "1"})
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload envelope
	decode(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.Equal(t, "world", payload.Data["hello"])

	resp = performRequest(t, app, http.MethodPost, "/")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestSendValidationErrorListsFields(t *testing.T) {
	type request struct {
		ManualScore *float64 `validate:"required"`
		Limit       int      `validate:"min=1,max=100"`
	}

	validate := validator.New()
	err := validate.Struct(request{Limit: 500})
	require.Error(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendValidationError(c, err)
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return utils.SendValidationError(c, errors.New("limit must be an integer"))
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload envelope
	decode(t, resp, &payload)
	require.False(t, payload.Success)
	require.Nil(t, payload.Data)
	require.Equal(t, []utils.FieldError{
		{Field: "manual_score", Rule: "required"},
		{Field: "limit", Rule: "max", Param: "100"},
	}, payload.Errors)

	resp = performRequest(t, app, http.MethodGet, "/plain")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var plain envelope
	decode(t, resp, &plain)
	require.Equal(t, "limit must be an integer", plain.Message)
	require.Empty(t, plain.Errors)
}

func performRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
