package transport

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
)

// Module exposes the transport sender implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Sender, error) {
	return NewHTTPClient(p.Config.TransportAddress, p.Config.TransportToken, p.Logger)
}
