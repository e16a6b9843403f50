package userRoutes

import (
	userController "trainhub/controllers/userControllers"
	"trainhub/middleware"
	"trainhub/validators/common"
	userValidator "trainhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(router fiber.Router, h *userController.Controller, auth fiber.Handler) {
	userGroup := router.Group("/users", auth)

	// Sub-admins
	userGroup.Post("/sub-admins", middleware.AdminOnly, userValidator.CreateSubAdmin(), h.CreateSubAdmin)
	userGroup.Get("/sub-admins", middleware.AdminOnly, h.ListSubAdmins)

	// Invitations
	userGroup.Post("/invitations", middleware.Staff, userValidator.CreateInvitation(), h.CreateInvitation)
	userGroup.Get("/invitations", middleware.Staff, userValidator.ListInvitations(), h.ListInvitations)
	userGroup.Delete("/invitations/:id", middleware.Staff, common.ID(), h.DeleteInvitation)

	// Users
	userGroup.Get("/", middleware.Staff, userValidator.ListUsers(), h.List)
	userGroup.Post("/", middleware.AdminOnly, userValidator.CreateUser(), h.Create)
	userGroup.Get("/:id", common.ID(), h.Get)
	userGroup.Put("/:id", middleware.Staff, common.ID(), userValidator.UpdateUser(), h.Update)
	userGroup.Patch("/:id/status", middleware.Staff, common.ID(), userValidator.SetStatus(), h.SetStatus)
	userGroup.Delete("/:id", middleware.AdminOnly, common.ID(), h.Delete)
}
