package catalog

import (
	"context"
	"log"
	"time"

	"plantcare-backend/internal/model"
)

// loggingIngestion wraps an Ingestion with before/after operational logging.
type loggingIngestion struct {
	inner  Ingestion
	logger *log.Logger
}

// WithLogging wraps any ingestion capability with pre/post logging.
func WithLogging(inner Ingestion, logger *log.Logger) Ingestion {
	return &loggingIngestion{inner: inner, logger: logger}
}

func (l *loggingIngestion) Run(ctx context.Context) (*model.BackfillState, error) {
	l.logger.Printf("ingestion run requested")
	start := time.Now()

	state, err := l.inner.Run(ctx)

	elapsed := time.Since(start).Round(time.Millisecond)
	switch {
	case err != nil && state != nil:
		l.logger.Printf("ingestion run failed after %s at page %d: %v", elapsed, state.LastPage, err)
	case err != nil:
		l.logger.Printf("ingestion run failed after %s: %v", elapsed, err)
	default:
		l.logger.Printf("ingestion run finished in %s: %d items processed", elapsed, state.ProcessedItems)
	}
	return state, err
}
