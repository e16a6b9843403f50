package gamificationRoutes

import (
	gamificationController "trainhub/controllers/gamification"
	"trainhub/middleware"
	"trainhub/validators/common"
	gamificationValidator "trainhub/validators/gamification"

	"github.com/gofiber/fiber/v2"
)

func SetupGamificationRoutes(router fiber.Router, h *gamificationController.Controller, auth fiber.Handler) {
	gamificationGroup := router.Group("/gamification")

	// Public certificate check
	gamificationGroup.Get("/certificates/verify/:number", gamificationValidator.CertificateNumber(), h.Verify)

	gamificationGroup.Use(auth)

	badges := gamificationGroup.Group("/badges")
	badges.Get("/", h.ListBadges)
	badges.Get("/:id", common.ID(), h.GetBadge)
	badges.Post("/", middleware.AdminOnly, gamificationValidator.CreateBadge(), h.CreateBadge)
	badges.Put("/:id", middleware.AdminOnly, common.ID(), gamificationValidator.UpdateBadge(), h.UpdateBadge)
	badges.Delete("/:id", middleware.AdminOnly, common.ID(), h.DeleteBadge)

	gamificationGroup.Get("/users/:id/badges", common.ID(), h.UserBadges)
	gamificationGroup.Get("/certificates/me", h.MyCertificates)
	gamificationGroup.Get("/certificates", middleware.Staff, gamificationValidator.ListCertificates(), h.ListCertificates)
}
