package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/uri"
)

func ConnectionsRouter(router fiber.Router, store Store, strategy *uri.Strategy) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listConnections(c, store, strategy)
	})
}

func listConnections(c *fiber.Ctx, store Store, strategy *uri.Strategy) error {
	query := parseQuery(c)

	// stored connections reference their line by URI
	if query.Line != "" {
		route, err := strategy.Line(query.Line)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, err)
		}
		query.Line = route
	}

	connections, err := store.Connections(c.Context(), query)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err)
	}

	return render(c, lc.Collection{Connections: connections}, strategy)
}
