package session

import (
	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
	pkgAuth "github.com/polkiloo/stampcard/internal/pkg/auth"
)

// Module provides the operator session manager via fx.
var Module = fx.Provide(newManager)

type managerParams struct {
	fx.In

	Config *config.Config
	Hasher pkgAuth.PasswordHasher
}

func newManager(p managerParams) (*Manager, error) {
	return NewManager(p.Config.AdminPassword, p.Hasher, p.Config.SessionTTL)
}
