package aiController

import (
	"trainhub/middleware"
	"trainhub/services/ai"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	ai *ai.Service
}

func New(svc *ai.Service) *Controller {
	return &Controller{ai: svc}
}

func (h *Controller) Context(c *fiber.Ctx) error {
	tc, err := h.ai.Context(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training context fetched", tc)
}

// Chat relays the upstream body as it arrives. fasthttp closes the stream
// once it has been written out.
func (h *Controller) Chat(c *fiber.Ctx) error {
	in := c.Locals("chatInput").(*ai.ChatInput)

	stream, err := h.ai.Chat(c.UserContext(), middleware.CurrentUserID(c), *in)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, stream.ContentType)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Status(stream.StatusCode)
	return c.SendStream(stream.Body)
}
