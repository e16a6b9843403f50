package userController

import (
	"trainhub/middleware"
	"trainhub/services/user"
	"trainhub/utils"
	"trainhub/validators/common"
	userValidator "trainhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	users *user.Service
}

func New(users *user.Service) *Controller {
	return &Controller{users: users}
}

func (h *Controller) List(c *fiber.Ctx) error {
	f := c.Locals("userFilter").(*user.ListFilter)

	page, err := h.users.List(c.UserContext(), middleware.CurrentActor(c), *f)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched", page)
}

func (h *Controller) Get(c *fiber.Ctx) error {
	profile, err := h.users.Get(c.UserContext(), middleware.CurrentActor(c), common.LocalID(c, "id"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched", profile)
}

func (h *Controller) Create(c *fiber.Ctx) error {
	in := c.Locals("createUserInput").(*user.CreateUserInput)

	profile, err := h.users.Create(c.UserContext(), *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created", profile)
}

// Update lets sub-admins edit their own frontliners but not promote them.
func (h *Controller) Update(c *fiber.Ctx) error {
	in := c.Locals("updateUserInput").(*user.UpdateUserInput)
	id := common.LocalID(c, "id")
	actor := middleware.CurrentActor(c)

	if err := h.users.CanView(c.UserContext(), actor, id); err != nil {
		return err
	}
	if !actor.IsAdmin() && in.UserType != nil {
		return utils.Forbidden("Only admins can change the user type")
	}

	profile, err := h.users.Update(c.UserContext(), id, *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated", profile)
}

func (h *Controller) SetStatus(c *fiber.Ctx) error {
	in := c.Locals("statusInput").(*userValidator.StatusInput)
	id := common.LocalID(c, "id")
	actor := middleware.CurrentActor(c)

	if id == actor.ID {
		return utils.BadRequest("You cannot change your own status")
	}
	if err := h.users.CanView(c.UserContext(), actor, id); err != nil {
		return err
	}

	u, err := h.users.SetStatus(c.UserContext(), id, *in.IsActive)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated", u)
}

func (h *Controller) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), middleware.CurrentActor(c), common.LocalID(c, "id")); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted", nil)
}

func (h *Controller) CreateSubAdmin(c *fiber.Ctx) error {
	in := c.Locals("createSubAdminInput").(*user.CreateSubAdminInput)

	profile, err := h.users.CreateSubAdmin(c.UserContext(), *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Sub-admin created", profile)
}

func (h *Controller) ListSubAdmins(c *fiber.Ctx) error {
	rows, err := h.users.ListSubAdmins(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sub-admins fetched", rows)
}

func (h *Controller) CreateInvitation(c *fiber.Ctx) error {
	in := c.Locals("invitationInput").(*user.InvitationInput)

	inv, err := h.users.CreateInvitation(c.UserContext(), middleware.CurrentActor(c), *in)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Invitation sent", inv)
}

func (h *Controller) ListInvitations(c *fiber.Ctx) error {
	f := c.Locals("invitationFilter").(*user.InvitationFilter)

	rows, err := h.users.ListInvitations(c.UserContext(), middleware.CurrentActor(c), *f)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invitations fetched", rows)
}

func (h *Controller) DeleteInvitation(c *fiber.Ctx) error {
	if err := h.users.DeleteInvitation(c.UserContext(), middleware.CurrentActor(c), common.LocalID(c, "id")); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invitation revoked", nil)
}
