package auth

import (
	"github.com/polkiloo/dispatch/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	opts := Options{TTL: p.Config.TokenTTL}
	if p.Config.TokenStrategy == config.TokenStrategyJWT {
		return NewJWTStrategy(p.Config.TokenSecret, opts)
	}
	return NewHMACStrategy(p.Config.TokenSecret, opts)
}
