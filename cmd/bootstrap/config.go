package bootstrap

import (
	"go.uber.org/fx"

	"resbook/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
