package app

import (
	"context"

	"github.com/polkiloo/stampcard/internal/gateway"
)

// HealthChecker reports readiness of the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StampFacade is the application entry point the HTTP layer talks to.
type StampFacade struct {
	dispatcher *gateway.Dispatcher
	health     HealthChecker
}

func NewStampFacade(dispatcher *gateway.Dispatcher, health HealthChecker) *StampFacade {
	return &StampFacade{dispatcher: dispatcher, health: health}
}

func (f *StampFacade) Dispatch(ctx context.Context, ev gateway.InboundEvent) (*gateway.Response, error) {
	return f.dispatcher.Dispatch(ctx, ev)
}

func (f *StampFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
