package reportValidator

import (
	"strings"

	"trainhub/services/report"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func Filter() fiber.Handler {
	return common.Query("reportFilter", func(in *report.Filter) []string {
		in.Search = strings.TrimSpace(in.Search)
		in.SubAdminID = nil
		if len(in.Search) > 100 {
			return []string{"search must be a maximum of 100 characters in length"}
		}
		return nil
	})
}
