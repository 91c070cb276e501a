package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/travigo/linkedconnections/pkg/api/routes"
	"github.com/travigo/linkedconnections/pkg/stats"
	"github.com/travigo/linkedconnections/pkg/uri"
)

type Options struct {
	Store       routes.Store
	Strategy    *uri.Strategy
	Datasources string
	Collector   *stats.Collector
}

func NewApp(options Options) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger(options.Collector))

	if options.Collector != nil {
		webApp.Get("/metrics", adaptor.HTTPHandler(options.Collector.Handler()))
	}

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.ConnectionsRouter(group.Group("/connections"), options.Store, options.Strategy)
	routes.VehiclesRouter(group.Group("/vehicles"), options.Store, options.Strategy)
	routes.AlertsRouter(group.Group("/alerts"), options.Store, options.Strategy)

	routes.DatasetsRouter(group.Group("/datasets"), options.Datasources)

	return webApp
}

func SetupServer(listen string, options Options) error {
	return NewApp(options).Listen(listen)
}
