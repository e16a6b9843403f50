package middleware

import (
	"errors"

	"trainhub/logger"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler builds the fiber error handler that renders every returned
// error in the response envelope.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ce *utils.CustomError
		if errors.As(err, &ce) {
			body := fiber.Map{
				"success": false,
				"message": ce.Message,
			}
			if len(ce.Errors) > 0 {
				body["errors"] = ce.Errors
			}
			if ce.StatusCode >= fiber.StatusInternalServerError {
				log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", ce.Message)
			}
			return c.Status(ce.StatusCode).JSON(body)
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
