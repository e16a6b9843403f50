package gamificationController

import (
	"trainhub/middleware"
	"trainhub/services/gamification"
	"trainhub/services/user"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	gamification *gamification.Service
	users        *user.Service
}

func New(svc *gamification.Service, users *user.Service) *Controller {
	return &Controller{gamification: svc, users: users}
}

func respond(c *fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, status, true, message, data)
}

func (h *Controller) ListBadges(c *fiber.Ctx) error {
	rows, err := h.gamification.ListBadges(c.UserContext())
	return respond(c, fiber.StatusOK, "Badges fetched", rows, err)
}

func (h *Controller) GetBadge(c *fiber.Ctx) error {
	row, err := h.gamification.GetBadge(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Badge fetched", row, err)
}

func (h *Controller) CreateBadge(c *fiber.Ctx) error {
	in := c.Locals("badgeInput").(*gamification.BadgeInput)
	row, err := h.gamification.CreateBadge(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Badge created", row, err)
}

func (h *Controller) UpdateBadge(c *fiber.Ctx) error {
	in := c.Locals("badgeUpdate").(*gamification.BadgeUpdate)
	row, err := h.gamification.UpdateBadge(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Badge updated", row, err)
}

func (h *Controller) DeleteBadge(c *fiber.Ctx) error {
	err := h.gamification.DeleteBadge(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Badge deleted", nil, err)
}

func (h *Controller) UserBadges(c *fiber.Ctx) error {
	userID := common.LocalID(c, "id")
	if err := h.users.CanView(c.UserContext(), middleware.CurrentActor(c), userID); err != nil {
		return err
	}
	rows, err := h.gamification.UserBadges(c.UserContext(), userID)
	return respond(c, fiber.StatusOK, "User badges fetched", rows, err)
}

func (h *Controller) ListCertificates(c *fiber.Ctx) error {
	f := c.Locals("certificateFilter").(*gamification.CertificateFilter)
	page, err := h.gamification.ListCertificates(c.UserContext(), *f)
	return respond(c, fiber.StatusOK, "Certificates fetched", page, err)
}

func (h *Controller) MyCertificates(c *fiber.Ctx) error {
	rows, err := h.gamification.MyCertificates(c.UserContext(), middleware.CurrentUserID(c))
	return respond(c, fiber.StatusOK, "Certificates fetched", rows, err)
}

func (h *Controller) Verify(c *fiber.Ctx) error {
	number := c.Locals("certificateNumber").(string)
	out, err := h.gamification.Verify(c.UserContext(), number)
	return respond(c, fiber.StatusOK, "Certificate verified", out, err)
}
