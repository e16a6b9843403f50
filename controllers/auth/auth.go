package authController

import (
	"trainhub/middleware"
	"trainhub/services/user"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	users *user.Service
}

func New(users *user.Service) *Controller {
	return &Controller{users: users}
}

func (h *Controller) Login(c *fiber.Ctx) error {
	in := c.Locals("loginInput").(*user.LoginInput)

	session, err := h.users.Login(c.UserContext(), *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful", session)
}

// Register accepts an invitation and signs the new user in.
func (h *Controller) Register(c *fiber.Ctx) error {
	in := c.Locals("registerInput").(*user.RegisterInput)

	session, err := h.users.Register(c.UserContext(), *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful", session)
}

// ForgotPassword answers the same way whether or not the email exists.
func (h *Controller) ForgotPassword(c *fiber.Ctx) error {
	in := c.Locals("forgotPasswordInput").(*user.ForgotPasswordInput)

	if _, err := h.users.ForgotPassword(c.UserContext(), *in); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "If the email is registered, a reset link has been sent", nil)
}

func (h *Controller) ResetPassword(c *fiber.Ctx) error {
	in := c.Locals("resetPasswordInput").(*user.ResetPasswordInput)

	if err := h.users.ResetPassword(c.UserContext(), *in); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password has been reset", nil)
}

func (h *Controller) Me(c *fiber.Ctx) error {
	profile, err := h.users.Profile(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched", profile)
}
