package authValidator

import (
	"strings"

	"trainhub/services/user"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func normalizeEmail(email *string) {
	*email = strings.ToLower(strings.TrimSpace(*email))
}

// Login validator middleware
func Login() fiber.Handler {
	return common.Body("loginInput", func(in *user.LoginInput) []string {
		normalizeEmail(&in.Email)
		return nil
	})
}

// Register validates an invitation acceptance.
func Register() fiber.Handler {
	return common.Body("registerInput", func(in *user.RegisterInput) []string {
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			return []string{"name is a required field"}
		}
		return nil
	})
}

func ForgotPassword() fiber.Handler {
	return common.Body("forgotPasswordInput", func(in *user.ForgotPasswordInput) []string {
		normalizeEmail(&in.Email)
		return nil
	})
}

func ResetPassword() fiber.Handler {
	return common.Body[user.ResetPasswordInput]("resetPasswordInput")
}
