package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"resbook/internal/infra"
	"resbook/internal/infra/db"
	"resbook/internal/pkg/config"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
		NewQuerier,
		NewPoolDB,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

func NewQuerier(pool *pgxpool.Pool) infra.Querier {
	return pool
}

func NewPoolDB(pool *pgxpool.Pool) infra.DB {
	return pool
}
