package aiRoutes

import (
	aiController "trainhub/controllers/ai"
	aiValidator "trainhub/validators/ai"

	"github.com/gofiber/fiber/v2"
)

func SetupAIRoutes(router fiber.Router, h *aiController.Controller, auth fiber.Handler) {
	aiGroup := router.Group("/ai", auth)

	aiGroup.Get("/context", h.Context)
	aiGroup.Post("/chat", aiValidator.Chat(), h.Chat)
}
