package retry

import (
	"context"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// EventHandler handles retry lifecycle events
type EventHandler interface {
	// OnAttempt fires before every invocation of the operation
	OnAttempt(ctx context.Context, name string, attempt int)

	// OnRetry fires after a retryable failure, before the backoff wait
	OnRetry(ctx context.Context, name string, attempt int, delay time.Duration, err error)

	// OnSuccess fires when an attempt succeeds
	OnSuccess(ctx context.Context, name string, attempts int, elapsed time.Duration)

	// OnGiveUp fires when every attempt has failed with a retryable error
	OnGiveUp(ctx context.Context, name string, attempts int, err error)
}

// LoggingEventHandler logs retry events through a types.Logger
type LoggingEventHandler struct {
	logger types.Logger
}

// NewLoggingEventHandler creates an event handler that logs every event
func NewLoggingEventHandler(logger types.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{logger: logger}
}

// OnAttempt handles attempt events
func (h *LoggingEventHandler) OnAttempt(ctx context.Context, name string, attempt int) {
	if attempt > 1 {
		h.logger.Debugf("%s: attempt %d starting", name, attempt)
	}
}

// OnRetry handles retry events
func (h *LoggingEventHandler) OnRetry(ctx context.Context, name string, attempt int, delay time.Duration, err error) {
	h.logger.Debugf("%s: attempt %d failed, retrying in %v: %v", name, attempt, delay, err)
}

// OnSuccess handles success events
func (h *LoggingEventHandler) OnSuccess(ctx context.Context, name string, attempts int, elapsed time.Duration) {
	if attempts > 1 {
		h.logger.Infof("%s: succeeded on attempt %d after %v", name, attempts, elapsed)
	}
}

// OnGiveUp handles exhaustion events
func (h *LoggingEventHandler) OnGiveUp(ctx context.Context, name string, attempts int, err error) {
	h.logger.Errorf("%s: giving up after %d attempts, final error: %v", name, attempts, err)
}
