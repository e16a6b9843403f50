package reportRoutes

import (
	reportController "trainhub/controllers/report"
	"trainhub/middleware"
	"trainhub/validators/common"
	reportValidator "trainhub/validators/report"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(router fiber.Router, h *reportController.Controller, auth fiber.Handler) {
	reportGroup := router.Group("/reports", auth, middleware.Staff)

	reportGroup.Get("/overview", middleware.AdminOnly, h.Overview)
	reportGroup.Get("/training-area/:id", common.ID(), reportValidator.Filter(), h.TrainingArea)
	reportGroup.Get("/frontliners", reportValidator.Filter(), h.Frontliners)
	reportGroup.Get("/assessments", reportValidator.Filter(), h.Assessments)
}
