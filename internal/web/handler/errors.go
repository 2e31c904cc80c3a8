package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/bobasettings/bobasettings/internal/db/controller/setting"
	"github.com/bobasettings/bobasettings/internal/settings"
)

// ErrValueMissing is returned for write requests without a value.
var ErrValueMissing = errors.New("request body has no value")

// FieldError is a failed validation rule of a group field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// Status maps err to the HTTP status returned to the client.
func Status(err error) int {
	var (
		fiberErr      *fiber.Error
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, settings.ErrSettingNotFound),
		errors.Is(err, settings.ErrGroupNotRegistered),
		errors.Is(err, settings.ErrInvalidPropertyExpression):
		return fiber.StatusNotFound
	case errors.Is(err, settings.ErrConversion),
		errors.Is(err, settings.ErrArgumentNil),
		errors.Is(err, settings.ErrGroupAbstract),
		errors.Is(err, setting.ErrSettingNameEmpty),
		errors.Is(err, setting.ErrSettingNameTooLong),
		errors.Is(err, ErrValueMissing):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as ErrorResponse with the status of Status.
func Error(c *fiber.Ctx, err error) error {
	code := Status(err)

	resp := ErrorResponse{Error: err.Error()}

	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		resp.Error = "validation failed"
		for _, ve := range validationErr {
			resp.Fields = append(resp.Fields, FieldError{Field: ve.Field(), Tag: ve.Tag()})
		}
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		resp.Error = "internal server error"
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Int("status", code).Msg("request rejected")
	}

	return c.Status(code).JSON(resp)
}

// ValueRequest is the body of single value writes.
type ValueRequest struct {
	Value *string `json:"value"`
}

// ParseValue reads the value of a ValueRequest body.
func ParseValue(c *fiber.Ctx) (string, error) {
	var req ValueRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Value == nil {
		return "", ErrValueMissing
	}

	return *req.Value, nil
}
