package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"resbook/internal/handler/middleware"
	"resbook/internal/pkg/config"
	"resbook/internal/usecase/commands"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(startSweeper),
)

// startSweeper periodically flips expired holds to released. Expiry is
// enforced by timestamp everywhere holds are read, so the sweeper only
// reclaims listing visibility and storage; its cadence is not a
// correctness concern.
func startSweeper(lc fx.Lifecycle, cfg config.Config, holdCommands commands.HoldCommands, metrics *middleware.Metrics) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Reservation.SweepInterval)
				defer ticker.Stop()

				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						swept, err := holdCommands.SweepExpired(ctx)
						if err != nil {
							slog.Error("hold sweep failed", "error", err)
							continue
						}
						if swept > 0 {
							metrics.SweptHolds.Add(float64(swept))
							slog.Info("swept expired holds", "count", swept)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
