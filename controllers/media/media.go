package mediaController

import (
	"mime/multipart"

	"trainhub/middleware"
	"trainhub/services/media"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	media *media.Service
}

func New(svc *media.Service) *Controller {
	return &Controller{media: svc}
}

func (h *Controller) Upload(c *fiber.Ctx) error {
	file := c.Locals("uploadFile").(*multipart.FileHeader)

	row, err := h.media.Upload(c.UserContext(), middleware.CurrentUserID(c), file)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded", row)
}

func (h *Controller) List(c *fiber.Ctx) error {
	f := c.Locals("mediaFilter").(*media.ListFilter)

	page, err := h.media.List(c.UserContext(), *f)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Files fetched", page)
}

func (h *Controller) Get(c *fiber.Ctx) error {
	row, err := h.media.Get(c.UserContext(), common.LocalID(c, "id"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "File fetched", row)
}

func (h *Controller) Delete(c *fiber.Ctx) error {
	if err := h.media.Delete(c.UserContext(), common.LocalID(c, "id")); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "File deleted", nil)
}
