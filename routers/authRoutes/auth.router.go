package authRoutes

import (
	authController "trainhub/controllers/auth"
	authValidator "trainhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, h *authController.Controller, auth fiber.Handler) {
	authGroup := router.Group("/auth")

	authGroup.Post("/login", authValidator.Login(), h.Login)
	authGroup.Post("/register", authValidator.Register(), h.Register)
	authGroup.Post("/forgot-password", authValidator.ForgotPassword(), h.ForgotPassword)
	authGroup.Post("/reset-password", authValidator.ResetPassword(), h.ResetPassword)
	authGroup.Get("/me", auth, h.Me)
}
