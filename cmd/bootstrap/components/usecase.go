package components

import (
	"go.uber.org/fx"

	"resbook/internal/infra"
	"resbook/internal/pkg/clock"
	"resbook/internal/pkg/config"
	"resbook/internal/usecase/commands"
	"resbook/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(
			resourceRepo commands.ResourceRepository,
			holdRepo commands.HoldRepository,
			occupancy commands.OccupancyReads,
			invalidator commands.AvailabilityInvalidator,
			db infra.DB,
			clk clock.Clock,
			cfg config.Config,
		) commands.HoldCommands {
			return commands.NewHoldCommands(resourceRepo, holdRepo, occupancy, invalidator, db, clk, cfg.Reservation.HoldTTL)
		},
		func(
			holdRepo commands.HoldRepository,
			bookingRepo commands.BookingRepository,
			resourceRepo commands.ResourceRepository,
			couponRepo commands.CouponRepository,
			occupancy commands.OccupancyReads,
			idempotency commands.IdempotencyRepository,
			notifications commands.NotificationRepository,
			invalidator commands.AvailabilityInvalidator,
			db infra.DB,
			clk clock.Clock,
			cfg config.Config,
		) commands.CheckoutCommands {
			return commands.NewCheckoutCommands(
				holdRepo, bookingRepo, resourceRepo, couponRepo,
				occupancy, idempotency, notifications, invalidator,
				db, clk, cfg.Reservation.IdempotencyTTL,
			)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewReservationQueries,
		queries.NewPricingQueries,
	),
)
