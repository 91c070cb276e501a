package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/linkedconnections/pkg/dataimporter/manager"
)

func DatasetsRouter(router fiber.Router, directory string) {
	router.Get("/", func(c *fiber.Ctx) error {
		registered, err := manager.GetRegisteredDataSets(directory)
		if err != nil {
			return sendError(c, fiber.StatusInternalServerError, err)
		}

		return c.JSON(registered)
	})

	router.Get("/:identifier", func(c *fiber.Ctx) error {
		dataset, err := manager.GetDataset(directory, c.Params("identifier"))
		if err != nil {
			return sendError(c, fiber.StatusNotFound, err)
		}

		return c.JSON(dataset)
	})
}
