package progressController

import (
	"trainhub/middleware"
	"trainhub/services/progress"
	"trainhub/services/user"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	progress *progress.Service
	users    *user.Service
}

func New(progressSvc *progress.Service, users *user.Service) *Controller {
	return &Controller{progress: progressSvc, users: users}
}

func respond(c *fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, status, true, message, data)
}

func (h *Controller) Me(c *fiber.Ctx) error {
	summary, err := h.progress.Summary(c.UserContext(), middleware.CurrentUserID(c))
	return respond(c, fiber.StatusOK, "Progress fetched", summary, err)
}

// User returns another user's progress to admins and their sub-admin.
func (h *Controller) User(c *fiber.Ctx) error {
	userID := common.LocalID(c, "userId")
	if err := h.users.CanView(c.UserContext(), middleware.CurrentActor(c), userID); err != nil {
		return err
	}
	summary, err := h.progress.Summary(c.UserContext(), userID)
	return respond(c, fiber.StatusOK, "Progress fetched", summary, err)
}

func (h *Controller) Course(c *fiber.Ctx) error {
	view, err := h.progress.Course(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "courseId"))
	return respond(c, fiber.StatusOK, "Course progress fetched", view, err)
}

func (h *Controller) StartBlock(c *fiber.Ctx) error {
	in := c.Locals("blockInput").(*progress.BlockInput)
	row, err := h.progress.StartBlock(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Learning block started", row, err)
}

func (h *Controller) CompleteBlock(c *fiber.Ctx) error {
	in := c.Locals("blockInput").(*progress.BlockInput)
	result, err := h.progress.CompleteBlock(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Learning block completed", result, err)
}

func (h *Controller) Enroll(c *fiber.Ctx) error {
	row, err := h.progress.Enroll(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "courseId"))
	return respond(c, fiber.StatusCreated, "Enrolled in course", row, err)
}

func (h *Controller) Enrollments(c *fiber.Ctx) error {
	rows, err := h.progress.Enrollments(c.UserContext(), middleware.CurrentUserID(c))
	return respond(c, fiber.StatusOK, "Enrollments fetched", rows, err)
}
