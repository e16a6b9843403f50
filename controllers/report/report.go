package reportController

import (
	"trainhub/middleware"
	"trainhub/services/report"
	"trainhub/services/user"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	reports *report.Service
	users   *user.Service
}

func New(reports *report.Service, users *user.Service) *Controller {
	return &Controller{reports: reports, users: users}
}

// filter scopes sub-admin reports to their own frontliners.
func (h *Controller) filter(c *fiber.Ctx) (report.Filter, error) {
	var f report.Filter
	if v, ok := c.Locals("reportFilter").(*report.Filter); ok {
		f = *v
	}
	actor := middleware.CurrentActor(c)
	if actor.IsSubAdmin() {
		id, err := h.users.SubAdminIDOf(c.UserContext(), actor.ID)
		if err != nil {
			return f, err
		}
		f.SubAdminID = &id
	}
	return f, nil
}

func (h *Controller) Overview(c *fiber.Ctx) error {
	out, err := h.reports.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overview report fetched", out)
}

func (h *Controller) TrainingArea(c *fiber.Ctx) error {
	f, err := h.filter(c)
	if err != nil {
		return err
	}
	out, err := h.reports.TrainingArea(c.UserContext(), common.LocalID(c, "id"), f)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training area report fetched", out)
}

func (h *Controller) Frontliners(c *fiber.Ctx) error {
	f, err := h.filter(c)
	if err != nil {
		return err
	}
	out, err := h.reports.Frontliners(c.UserContext(), f)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Frontliner report fetched", out)
}

func (h *Controller) Assessments(c *fiber.Ctx) error {
	f, err := h.filter(c)
	if err != nil {
		return err
	}
	out, err := h.reports.Assessments(c.UserContext(), f)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment report fetched", out)
}
