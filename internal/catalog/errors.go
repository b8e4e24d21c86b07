package catalog

import (
	"errors"
	"fmt"
	"time"
)

// ErrIngestionRunning is returned when a run is requested for a process that
// already has one in flight. At most one run per process name may be active.
var ErrIngestionRunning = errors.New("ingestion already running for this process")

// RateLimitError signals that the catalog API quota is exhausted. It is
// retryable: the checkpoint holds the exact resume position and the caller is
// expected to try again after the quota resets.
type RateLimitError struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Quota API dépassé. Limite: %d requêtes. Temps d'attente avant reset: %s",
		e.Limit, formatWait(e.RetryAfter))
}

func formatWait(d time.Duration) string {
	if d <= 0 {
		return "inconnu"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dmin", minutes)
	default:
		return fmt.Sprintf("%d secondes", int(d.Seconds()))
	}
}

func (b rateLimitBody) exceeded() bool {
	return b.Exceeded != "" || (b.Limit > 0 && b.Remaining == 0)
}

func (b rateLimitBody) toError() *RateLimitError {
	var resetAt time.Time
	if b.Reset > 0 {
		resetAt = time.Unix(int64(b.Reset), 0).UTC()
	}
	return &RateLimitError{
		Limit:      int(b.Limit),
		Remaining:  int(b.Remaining),
		RetryAfter: time.Duration(b.RetryAfter) * time.Second,
		ResetAt:    resetAt,
	}
}
