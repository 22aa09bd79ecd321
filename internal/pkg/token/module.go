package token

import (
	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
)

// Module provides the targeting token codec via fx.
var Module = fx.Provide(newCodec)

type codecParams struct {
	fx.In

	Config *config.Config
}

func newCodec(p codecParams) *Codec {
	return NewCodec(p.Config.BotHandle)
}
