package components

import (
	"go.uber.org/fx"

	"resbook/internal/handler"
	"resbook/internal/handler/api"
	"resbook/internal/handler/middleware"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		middleware.NewAuthMiddleware,
		middleware.NewMetrics,
		api.NewAvailabilityHandler,
		api.NewHoldHandler,
		api.NewCheckoutHandler,
		api.NewBookingHandler,
		api.NewPricingHandler,
		func(
			availability *api.AvailabilityHandler,
			hold *api.HoldHandler,
			checkout *api.CheckoutHandler,
			booking *api.BookingHandler,
			pricing *api.PricingHandler,
		) handler.Handlers {
			return handler.Handlers{
				Availability: availability,
				Hold:         hold,
				Checkout:     checkout,
				Booking:      booking,
				Pricing:      pricing,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)
