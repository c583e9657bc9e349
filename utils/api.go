package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/utils/response"
)

// MakeHTTPHandleFunc binds store to handler; a returned error means the
// dependency is down and is answered with 503
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			log.Warnw("dependency check failed", "path", c.Path(), "error", err)
			return response.ServiceUnavailable(c, "")
		}
		return nil
	}
}
