package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/uri"
)

func VehiclesRouter(router fiber.Router, store Store, strategy *uri.Strategy) {
	router.Get("/", func(c *fiber.Ctx) error {
		positions, err := store.VehiclePositions(c.Context(), parseQuery(c))
		if err != nil {
			return sendError(c, fiber.StatusInternalServerError, err)
		}

		return render(c, lc.Collection{VehiclePositions: positions}, strategy)
	})
}

func AlertsRouter(router fiber.Router, store Store, strategy *uri.Strategy) {
	router.Get("/", func(c *fiber.Ctx) error {
		alerts, err := store.ServiceAlerts(c.Context(), parseQuery(c))
		if err != nil {
			return sendError(c, fiber.StatusInternalServerError, err)
		}

		return render(c, lc.Collection{ServiceAlerts: alerts}, strategy)
	})
}
