package notificationRoutes

import (
	notificationController "trainhub/controllers/notification"
	"trainhub/middleware"
	"trainhub/validators/common"
	notificationValidator "trainhub/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(router fiber.Router, h *notificationController.Controller, auth fiber.Handler) {
	notificationGroup := router.Group("/notifications", auth)

	notificationGroup.Get("/", notificationValidator.List(), h.List)
	notificationGroup.Post("/", middleware.AdminOnly, notificationValidator.Broadcast(), h.Broadcast)
	notificationGroup.Patch("/read-all", h.MarkAllRead)
	notificationGroup.Patch("/:id/read", common.ID(), h.MarkRead)
	notificationGroup.Delete("/:id", common.ID(), h.Delete)
}
