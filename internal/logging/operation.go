package logging

import (
	"log/slog"
	"time"
)

// Operation wraps a unit of work with structured start/finish logging under
// an explicit operation name. It replaces implicit cross-cutting logging
// around orchestrator calls.
func Operation(logger *slog.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	attrs := []any{
		slog.String("operation", name),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		logger.Error("operation failed", attrs...)
		return err
	}
	logger.Info("operation completed", attrs...)
	return err
}
