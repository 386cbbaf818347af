package adaptor

import (
	"context"
	"errors"
	"net/http"

	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps usecase errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var conflict *usecase.ConflictError

	switch {
	case errors.As(err, &conflict):
		log.Info(operation+" failed - slot taken", zap.Error(err))
		utils.ResponseConflict(w, "Slot already taken", map[string]any{
			"date":        conflict.Date,
			"time":        conflict.Time,
			"suggestions": conflict.Suggestions,
		})

	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrTimeNotParseable):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, "Already exists", nil)

	case errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials")
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrAccountDisabled):
		log.Warn(operation+" failed - account deactivated")
		utils.ResponseForbidden(w, "Account is deactivated")

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		log.Warn(operation+" timed out", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Request timed out, try again")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
