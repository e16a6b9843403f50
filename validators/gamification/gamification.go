package gamificationValidator

import (
	"strings"

	"trainhub/services/gamification"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func CreateBadge() fiber.Handler {
	return common.Body("badgeInput", func(in *gamification.BadgeInput) []string {
		in.Name = strings.TrimSpace(in.Name)
		return nil
	})
}

func UpdateBadge() fiber.Handler {
	return common.Body("badgeUpdate", func(in *gamification.BadgeUpdate) []string {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			in.Name = &name
		}
		return nil
	})
}

func ListCertificates() fiber.Handler {
	return common.Query[gamification.CertificateFilter]("certificateFilter")
}

// CertificateNumber checks the :number path parameter.
func CertificateNumber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
		if !strings.HasPrefix(number, "CERT-") {
			return common.Fail([]string{"number must be a certificate number"})
		}
		c.Locals("certificateNumber", number)
		return c.Next()
	}
}
