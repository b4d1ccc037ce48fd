package services

import (
	"errors"
	"fmt"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/utils/metrics"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means no row has the requested id. It is distinct from an empty result.
	ErrNotFound = errors.New("entity not found")

	// ErrRepositoryUnavailable wraps any failed repository read. Callers may retry.
	ErrRepositoryUnavailable = errors.New("directory temporarily unavailable")
)

// unavailable logs the underlying failure and returns the retrievable error
func unavailable(logger *zap.Logger, op string, kind model.EntityKind, err error) error {
	logger.Error("directory read failed",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %s %s", ErrRepositoryUnavailable, op, kind)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeUnavailable
	}
}
