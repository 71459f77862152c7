package services

import (
	"errors"

	"github.com/amacast/amacast-backend/internal/platform/apierr"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// serviceError passes through taxonomy errors raised inside a transaction
// and wraps anything else as a storage failure.
func serviceError(log *logger.Logger, op string, err error) error {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if log != nil {
		log.Error(op+" failed", "error", err)
	}
	return apierr.Storage(err)
}
