package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	TextCode   string            `json:"text_code,omitempty"`
	Validation map[string]string `json:"validation,omitempty"`
}

// NewErrorResponder returns the application error boundary. Internal failures
// are logged with their detail and answered with a generic message.
func NewErrorResponder(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		status, body := ErrorToResponse(err)

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		} else {
			var richErr *errors.Error
			if errors.As(err, &richErr) && len(richErr.Metadata) > 0 {
				logger.Debug("request rejected",
					"path", c.Path(),
					"text_code", richErr.TextCode,
					"details", print.MaybePrettyJSON(richErr.Metadata),
				)
			}
		}

		return c.Status(status).JSON(body)
	}
}

// ErrorToResponse maps an error onto a status code and client safe body
func ErrorToResponse(err error) (int, ErrorResponse) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		msg := fiberErr.Message
		if fiberErr.Code >= fiber.StatusInternalServerError {
			msg = genericInternalServerError
		}
		return fiberErr.Code, ErrorResponse{Message: msg}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return fiber.StatusInternalServerError, ErrorResponse{
			Message:  genericInternalServerError,
			TextCode: TextCodeInternal,
		}
	}

	status := StatusFromError(richErr)

	if status >= fiber.StatusInternalServerError {
		return status, ErrorResponse{
			Message:  genericInternalServerError,
			TextCode: TextCodeInternal,
		}
	}

	return status, ErrorResponse{
		Message:    richErr.Message,
		TextCode:   richErr.TextCode,
		Validation: validationFields(richErr.Metadata),
	}
}

// StatusFromError prefers the explicit code and falls back to the category
func StatusFromError(richErr *errors.Error) int {
	if richErr == nil {
		return fiber.StatusInternalServerError
	}

	if richErr.Code >= 400 && richErr.Code < 600 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func validationFields(metadata map[string]any) map[string]string {
	if metadata == nil {
		return nil
	}
	fields, ok := metadata["fields"].(map[string]string)
	if !ok || len(fields) == 0 {
		return nil
	}
	return fields
}
