package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/linkedconnections/pkg/lc"
)

const Version = "v0.1"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
		"context": lc.Context(),
	})
}
