package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"quizgen/internal/apperror"
	"quizgen/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_FILE", "COMPILE_TIMEOUT")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromCtx(c),
	})
}

// writeServiceError maps a classified pipeline error onto a status code and body.
// Unclassified errors never leak their text.
func writeServiceError(c *fiber.Ctx, err error) error {
	msg := apperror.MessageOf(err)
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", msg)
	case apperror.KindExtraction:
		return writeError(c, fiber.StatusBadRequest, "EXTRACTION_FAILED", msg)
	case apperror.KindGeneration:
		return writeError(c, fiber.StatusInternalServerError, "GENERATION_FAILED", msg)
	case apperror.KindCompilationFailure:
		return writeError(c, fiber.StatusInternalServerError, "COMPILATION_FAILED", "PDF generation failed: "+msg)
	case apperror.KindCompilationTimeout:
		return writeError(c, fiber.StatusInternalServerError, "COMPILATION_TIMEOUT", msg)
	case apperror.KindCompilerUnavailable:
		return writeError(c, fiber.StatusInternalServerError, "COMPILER_UNAVAILABLE", msg)
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "File too large")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
