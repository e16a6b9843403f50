package notificationValidator

import (
	"trainhub/services/notification"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func Broadcast() fiber.Handler {
	return common.Body("broadcastInput", func(in *notification.BroadcastInput) []string {
		if len(in.UserIDs) == 0 && in.UserType == "" {
			return []string{"userIds or userType is required"}
		}
		if in.Type == "" {
			in.Type = notification.TypeGeneral
		}
		return nil
	})
}

func List() fiber.Handler {
	return common.Query[notification.ListFilter]("notificationFilter")
}
