package progressValidator

import (
	"trainhub/services/progress"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

// Block reads the optional courseId from the body or the query string.
func Block() fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := new(progress.BlockInput)
		if len(c.Body()) > 0 {
			if errs := common.ParseBody(c, in); len(errs) > 0 {
				return common.Fail(errs)
			}
		}
		if in.CourseID == nil {
			if id := c.QueryInt("courseId"); id > 0 {
				courseID := uint(id)
				in.CourseID = &courseID
			}
		}
		c.Locals("blockInput", in)
		return c.Next()
	}
}
