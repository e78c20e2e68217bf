package serverutils

import (
	"errors"

	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// NewErrorHandler builds the fiber ErrorHandler that turns any returned error
// into the response envelope. Unexpected errors are logged and masked.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, body := resolveError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method":     ctx.Method(),
				"path":       ctx.Path(),
				"request_id": ctx.Locals("requestid"),
				"error":      err.Error(),
			})
		}
		return ctx.Status(status).JSON(body)
	}
}

func resolveError(err error) (int, BaseResponse[any]) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, ErrorResponseWithData(fiber.StatusBadRequest, "Validation failed", validationErr.Fields)
	}

	if appErr, ok := apperror.As(err); ok {
		status := appErr.Status()
		message := appErr.Message
		if appErr.Kind == apperror.KindInternal && message == "" {
			message = "Internal server error"
		}
		if appErr.Details != nil {
			return status, ErrorResponseWithData(status, message, appErr.Details)
		}
		return status, ErrorResponse(status, message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, ErrorResponse(fiber.StatusNotFound, "Resource not found")
	}
	if IsDuplicateKey(err) {
		return fiber.StatusConflict, ErrorResponse(fiber.StatusConflict, "Resource already exists")
	}

	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "Internal server error")
}

func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
