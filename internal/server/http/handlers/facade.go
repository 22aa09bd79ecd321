package handlers

import (
	"context"

	"github.com/polkiloo/stampcard/internal/gateway"
)

// EventFacade describes the application surface the HTTP layer exposes.
type EventFacade interface {
	Dispatch(ctx context.Context, ev gateway.InboundEvent) (*gateway.Response, error)
	HealthCheck(ctx context.Context) error
}
