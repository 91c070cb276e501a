package routes

import (
	"bytes"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/linkedconnections/pkg/database"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/serialize"
	"github.com/travigo/linkedconnections/pkg/uri"
)

const (
	defaultLimit = 1000
	maximumLimit = 10000
)

// Store is where the routes read imported records from.
type Store interface {
	Connections(ctx context.Context, query database.Query) ([]lc.Connection, error)
	VehiclePositions(ctx context.Context, query database.Query) ([]lc.VehiclePosition, error)
	ServiceAlerts(ctx context.Context, query database.Query) ([]lc.ServiceAlert, error)
}

func parseQuery(c *fiber.Ctx) database.Query {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 || limit > maximumLimit {
		limit = maximumLimit
	}

	return database.Query{
		Dataset: c.Query("dataset"),
		Line:    c.Query("line"),
		Limit:   int64(limit),
	}
}

func sendError(c *fiber.Ctx, status int, err error) error {
	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

// render writes the collection in the format named by ?format=, JSON-LD by
// default.
func render(c *fiber.Ctx, collection lc.Collection, strategy *uri.Strategy) error {
	format, err := serialize.ParseFormat(c.Query("format", string(serialize.FormatJSONLD)))
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err)
	}

	var buffer bytes.Buffer
	err = serialize.Write(&buffer, collection, strategy, serialize.Options{
		Format: format,
		Pretty: c.QueryBool("pretty", false),
	})
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err)
	}

	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(buffer.Bytes())
}
