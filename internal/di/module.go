package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/adapter/transport"
	"github.com/polkiloo/stampcard/internal/app"
	"github.com/polkiloo/stampcard/internal/config"
	"github.com/polkiloo/stampcard/internal/gateway"
	"github.com/polkiloo/stampcard/internal/logger"
	"github.com/polkiloo/stampcard/internal/pkg/auth"
	"github.com/polkiloo/stampcard/internal/pkg/token"
	"github.com/polkiloo/stampcard/internal/server/http/handlers"
	"github.com/polkiloo/stampcard/internal/server/http/router"
	"github.com/polkiloo/stampcard/internal/session"
	"github.com/polkiloo/stampcard/internal/storage/postgres"
	"github.com/polkiloo/stampcard/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		token.Module,
		postgres.Module,
		transport.Module,
		session.Module,
		usecase.Module,
		gateway.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.StampFacade) handlers.EventFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
