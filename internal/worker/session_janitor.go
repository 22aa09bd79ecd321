package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/stampcard/internal/adapter/transport"
)

// SessionExpirer exposes the subset of session management the janitor needs.
type SessionExpirer interface {
	ExpireStale() []int64
}

// SessionJanitor periodically resets stale password prompts and notifies the
// affected operators through the messaging transport.
type SessionJanitor struct {
	sessions SessionExpirer
	sender   transport.Sender
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

const expiredNotice = "Password prompt expired. Send /admin again."

// NewSessionJanitor constructs the janitor.
func NewSessionJanitor(sessions SessionExpirer, sender transport.Sender, interval time.Duration, logger *slog.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SessionJanitor{
		sessions: sessions,
		sender:   sender,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the background sweep loop.
func (j *SessionJanitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go j.run(runCtx)
}

// Stop waits for the sweep loop to finish.
func (j *SessionJanitor) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *SessionJanitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionJanitor) sweep(ctx context.Context) {
	expired := j.sessions.ExpireStale()
	for _, operatorID := range expired {
		j.logger.Info("password prompt expired", slog.Int64("operator", operatorID))
		if err := j.sender.Send(ctx, operatorID, expiredNotice); err != nil {
			var rateErr transport.TooManyRequestsError
			if errors.As(err, &rateErr) {
				j.logger.Warn("transport rate limited", slog.Duration("retry_after", rateErr.RetryAfter))
				return
			}
			j.logger.Error("expiry notice failed", slog.Int64("operator", operatorID), slog.String("error", err.Error()))
		}
	}
}
