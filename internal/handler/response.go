package handler

import (
	"errors"
	"strconv"
	"strings"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/middleware"
	"go-jewelry-store/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Response is the envelope every endpoint replies with.
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Details []apperror.Detail `json:"details,omitempty"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{Success: true, Message: message, Data: data})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Message: message, Data: data})
}

var kindByStatus = map[int]apperror.Kind{
	fiber.StatusBadRequest:            apperror.KindValidation,
	fiber.StatusUnauthorized:          apperror.KindUnauthorized,
	fiber.StatusForbidden:             apperror.KindForbidden,
	fiber.StatusNotFound:              apperror.KindNotFound,
	fiber.StatusMethodNotAllowed:      apperror.KindNotFound,
	fiber.StatusConflict:              apperror.KindConflict,
	fiber.StatusRequestEntityTooLarge: apperror.KindValidation,
	fiber.StatusUpgradeRequired:       apperror.KindValidation,
	fiber.StatusTooManyRequests:       apperror.KindRateLimit,
	fiber.StatusServiceUnavailable:    apperror.KindServiceUnavailable,
}

// ErrorHandler renders any error returned by a handler or middleware in the
// response envelope. Internal causes are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, found := apperror.As(err); found {
		if appErr.Kind == apperror.KindInternal {
			logFailure(c, appErr)
		}
		return c.Status(appErr.Status()).JSON(Response{
			Success: false,
			Error:   string(appErr.Kind),
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if kind, known := kindByStatus[fe.Code]; known {
			return c.Status(fe.Code).JSON(Response{Success: false, Error: string(kind), Message: fe.Message})
		}
	}

	logFailure(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(Response{
		Success: false,
		Error:   string(apperror.KindInternal),
		Message: "Internal server error",
	})
}

func logFailure(c *fiber.Ctx, err error) {
	log.WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	}).WithError(err).Error("request failed")
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid JSON body")
	}
	return nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid ID format")
	}
	return id, nil
}

// actor returns the authenticated admin. Routes using it sit behind RequireAuth.
func actor(c *fiber.Ctx) (*model.Admin, error) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}
	return admin, nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("Invalid query parameter", apperror.Detail{Field: key, Message: "must be an integer"})
	}
	return n, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Validation("Invalid query parameter", apperror.Detail{Field: key, Message: "must be true or false"})
	}
	return &b, nil
}
