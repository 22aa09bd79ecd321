package facade

import (
	"context"

	"github.com/polkiloo/stampcard/internal/gateway"
)

// EventFacadeStub provides controllable behaviour for the HTTP layer.
type EventFacadeStub struct {
	DispatchFn func(context.Context, gateway.InboundEvent) (*gateway.Response, error)
	HealthFn   func(context.Context) error
}

// Dispatch delegates to the override or echoes a default reply.
func (s EventFacadeStub) Dispatch(ctx context.Context, ev gateway.InboundEvent) (*gateway.Response, error) {
	if s.DispatchFn != nil {
		return s.DispatchFn(ctx, ev)
	}
	return &gateway.Response{Text: "ok"}, nil
}

// HealthCheck delegates to the override or reports healthy.
func (s EventFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}
