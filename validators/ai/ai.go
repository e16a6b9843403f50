package aiValidator

import (
	"strings"

	"trainhub/services/ai"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func Chat() fiber.Handler {
	return common.Body("chatInput", func(in *ai.ChatInput) []string {
		in.Message = strings.TrimSpace(in.Message)
		if in.Message == "" {
			return []string{"message is a required field"}
		}
		return nil
	})
}
