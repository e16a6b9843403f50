package mediaRoutes

import (
	mediaController "trainhub/controllers/media"
	"trainhub/middleware"
	"trainhub/validators/common"
	mediaValidator "trainhub/validators/media"

	"github.com/gofiber/fiber/v2"
)

func SetupMediaRoutes(router fiber.Router, h *mediaController.Controller, auth fiber.Handler) {
	mediaGroup := router.Group("/media", auth, middleware.Staff)

	mediaGroup.Post("/upload", mediaValidator.Upload(), h.Upload)
	mediaGroup.Get("/", mediaValidator.List(), h.List)
	mediaGroup.Get("/:id", common.ID(), h.Get)
	mediaGroup.Delete("/:id", middleware.AdminOnly, common.ID(), h.Delete)
}
