package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/dispatch/internal/app"
	"github.com/polkiloo/dispatch/internal/config"
	"github.com/polkiloo/dispatch/internal/logger"
	"github.com/polkiloo/dispatch/internal/pkg/auth"
	"github.com/polkiloo/dispatch/internal/server/http/router"
	"github.com/polkiloo/dispatch/internal/storage/driver"
	"github.com/polkiloo/dispatch/internal/storage/records"
	"github.com/polkiloo/dispatch/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		driver.Module,
		records.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
