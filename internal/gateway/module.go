package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
	"github.com/polkiloo/stampcard/internal/pkg/token"
	"github.com/polkiloo/stampcard/internal/session"
	"github.com/polkiloo/stampcard/internal/usecase"
)

// Module provides the event dispatcher via fx.
var Module = fx.Provide(newDispatcher)

type dispatcherParams struct {
	fx.In

	Members  *usecase.MemberUseCase
	Admin    *usecase.AdminUseCase
	Ledger   *usecase.LedgerUseCase
	Sessions *session.Manager
	Tokens   *token.Codec
	Config   *config.Config
	Logger   *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(p.Members, p.Admin, p.Ledger, p.Sessions, p.Tokens, p.Config.PageSize, p.Config.HistoryLimit, p.Logger)
}
