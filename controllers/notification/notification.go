package notificationController

import (
	"trainhub/middleware"
	"trainhub/services/notification"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	notifications *notification.Service
}

func New(svc *notification.Service) *Controller {
	return &Controller{notifications: svc}
}

func (h *Controller) List(c *fiber.Ctx) error {
	f := c.Locals("notificationFilter").(*notification.ListFilter)
	userID := middleware.CurrentUserID(c)

	page, err := h.notifications.List(c.UserContext(), userID, *f)
	if err != nil {
		return err
	}
	unread, err := h.notifications.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched", fiber.Map{
		"notifications": page,
		"unreadCount":   unread,
	})
}

func (h *Controller) MarkRead(c *fiber.Ctx) error {
	row, err := h.notifications.MarkRead(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "id"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read", row)
}

func (h *Controller) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notifications.MarkAllRead(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications marked as read", fiber.Map{"updated": n})
}

func (h *Controller) Delete(c *fiber.Ctx) error {
	if err := h.notifications.Delete(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "id")); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification deleted", nil)
}

func (h *Controller) Broadcast(c *fiber.Ctx) error {
	in := c.Locals("broadcastInput").(*notification.BroadcastInput)

	n, err := h.notifications.Broadcast(c.UserContext(), *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notification sent", fiber.Map{"recipients": n})
}
