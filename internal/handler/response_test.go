package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-jewelry-store/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return apperror.Internal(errors.New("pq: connection refused"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("something odd")
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperror.Validation("Validation failed", apperror.Detail{Field: "items", Message: "is required"})
	})
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return errors.Wrap(apperror.Forbidden("Insufficient permissions"), "route guard")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string, Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body Response
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, string(raw), body
}

func TestErrorHandlerHidesInternalCauses(t *testing.T) {
	app := errorApp()

	status, raw, body := get(t, app, "/internal")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, raw, "connection refused")

	status, raw, body = get(t, app, "/plain")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error)
	assert.NotContains(t, raw, "something odd")
}

func TestErrorHandlerRendersKinds(t *testing.T) {
	app := errorApp()

	status, _, body := get(t, app, "/validation")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "items", body.Details[0].Field)

	status, _, body = get(t, app, "/wrapped")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Error)

	status, _, body = get(t, app, "/missing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Error)
}
