package mediaValidator

import (
	"trainhub/services/media"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

// Upload requires a multipart "file" field within the size limit.
func Upload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return common.Fail([]string{"file is a required field"})
		}
		if file.Size == 0 {
			return common.Fail([]string{"file must not be empty"})
		}
		if file.Size > media.MaxUploadSize {
			return common.Fail([]string{"file exceeds the 200MB limit"})
		}
		c.Locals("uploadFile", file)
		return c.Next()
	}
}

func List() fiber.Handler {
	return common.Query[media.ListFilter]("mediaFilter")
}
