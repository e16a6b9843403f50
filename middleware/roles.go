package middleware

import (
	"trainhub/models"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthorizeRoles returns a middleware that only lets the given user types through.
// It must run after JWTMiddleware.
func AuthorizeRoles(roles ...models.UserType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == 0 {
			return utils.Unauthorized("Unauthorized: User ID not found")
		}

		userType := CurrentUserType(c)
		for _, role := range roles {
			if role == userType {
				return c.Next()
			}
		}
		return utils.Forbidden("You do not have permission to access this resource!")
	}
}

// AdminOnly gates a route to admins.
var AdminOnly = AuthorizeRoles(models.UserTypeAdmin)

// Staff gates a route to admins and sub-admins.
var Staff = AuthorizeRoles(models.UserTypeAdmin, models.UserTypeSubAdmin)
