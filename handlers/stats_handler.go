package handlers

import (
	"github.com/vleclerc/guildhall/services"
	"github.com/gofiber/fiber/v2"
)

// GetFooterStats serves the cached site counters shown in the page footer.
func GetFooterStats(c *fiber.Ctx) error {
	return c.JSON(services.GetFooterStats())
}
