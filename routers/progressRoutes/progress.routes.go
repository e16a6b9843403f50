package progressRoutes

import (
	progressController "trainhub/controllers/progress"
	"trainhub/middleware"
	"trainhub/validators/common"
	progressValidator "trainhub/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(router fiber.Router, h *progressController.Controller, auth fiber.Handler) {
	progressGroup := router.Group("/progress", auth)

	progressGroup.Get("/me", h.Me)
	progressGroup.Get("/enrollments", h.Enrollments)
	progressGroup.Get("/courses/:courseId", common.ID("courseId"), h.Course)
	progressGroup.Post("/courses/:courseId/enroll", common.ID("courseId"), h.Enroll)
	progressGroup.Post("/learning-blocks/:id/start", common.ID(), progressValidator.Block(), h.StartBlock)
	progressGroup.Post("/learning-blocks/:id/complete", common.ID(), progressValidator.Block(), h.CompleteBlock)
	progressGroup.Get("/users/:userId", middleware.Staff, common.ID("userId"), h.User)
}
