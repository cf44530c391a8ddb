package components

import (
	"go.uber.org/fx"

	"resbook/internal/infra/cache"
	"resbook/internal/infra/readstore"
	repo_impl "resbook/internal/infra/repository"
	"resbook/internal/usecase/commands"
	"resbook/internal/usecase/queries"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewResourceRepository,
			fx.As(new(commands.ResourceRepository)),
			fx.As(new(queries.ResourceReads)),
		),
		fx.Annotate(
			repo_impl.NewHoldRepository,
			fx.As(new(commands.HoldRepository)),
			fx.As(new(queries.HoldReads)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(queries.BookingReads)),
		),
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
			fx.As(new(queries.CouponReads)),
		),
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		// Read-side occupancy snapshot shared by commands and queries
		fx.Annotate(
			readstore.NewOccupancyReadStore,
			fx.As(new(commands.OccupancyReads)),
			fx.As(new(queries.OccupancyReads)),
		),
		fx.Annotate(
			func(c *cache.AvailabilityCache) *cache.AvailabilityCache { return c },
			fx.As(new(commands.AvailabilityInvalidator)),
			fx.As(new(queries.AvailabilityCache)),
		),
	),
)
