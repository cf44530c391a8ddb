package bootstrap

import (
	"go.uber.org/fx"

	"resbook/cmd/bootstrap/components"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	SweeperModule,
)
