package trainingRoutes

import (
	trainingController "trainhub/controllers/training"
	"trainhub/middleware"
	"trainhub/validators/common"
	trainingValidator "trainhub/validators/training"

	"github.com/gofiber/fiber/v2"
)

func SetupTrainingRoutes(router fiber.Router, h *trainingController.Controller, auth fiber.Handler) {
	trainingGroup := router.Group("/training", auth)
	admin := middleware.AdminOnly

	// Training areas
	areas := trainingGroup.Group("/training-areas")
	areas.Get("/", trainingValidator.List(), h.ListTrainingAreas)
	areas.Get("/:id", common.ID(), h.GetTrainingArea)
	areas.Post("/", admin, trainingValidator.CreateTrainingArea(), h.CreateTrainingArea)
	areas.Put("/:id", admin, common.ID(), trainingValidator.UpdateTrainingArea(), h.UpdateTrainingArea)
	areas.Delete("/:id", admin, common.ID(), h.DeleteTrainingArea)

	// Modules
	modules := trainingGroup.Group("/modules")
	modules.Get("/", trainingValidator.List(), h.ListModules)
	modules.Get("/:id", common.ID(), h.GetModule)
	modules.Post("/", admin, trainingValidator.CreateModule(), h.CreateModule)
	modules.Put("/:id", admin, common.ID(), trainingValidator.UpdateModule(), h.UpdateModule)
	modules.Delete("/:id", admin, common.ID(), h.DeleteModule)

	// Courses
	courses := trainingGroup.Group("/courses")
	courses.Get("/", trainingValidator.List(), h.ListCourses)
	courses.Get("/:id", common.ID(), h.GetCourse)
	courses.Get("/:id/content", common.ID(), h.Content)
	courses.Post("/", admin, trainingValidator.CreateCourse(), h.CreateCourse)
	courses.Put("/:id", admin, common.ID(), trainingValidator.UpdateCourse(), h.UpdateCourse)
	courses.Delete("/:id", admin, common.ID(), h.DeleteCourse)

	// Course units
	courses.Get("/:id/units", common.ID(), h.ListCourseUnits)
	courses.Post("/:id/units", admin, common.ID(), trainingValidator.AddCourseUnit(), h.AddCourseUnit)
	courses.Put("/:id/units/order", admin, common.ID(), trainingValidator.ReorderCourseUnits(), h.ReorderCourseUnits)
	courses.Delete("/:id/units/:unitId", admin, common.ID("id", "unitId"), h.RemoveCourseUnit)

	// Units
	units := trainingGroup.Group("/units")
	units.Get("/", trainingValidator.List(), h.ListUnits)
	units.Get("/:id", common.ID(), h.GetUnit)
	units.Post("/", admin, trainingValidator.CreateUnit(), h.CreateUnit)
	units.Put("/:id", admin, common.ID(), trainingValidator.UpdateUnit(), h.UpdateUnit)
	units.Delete("/:id", admin, common.ID(), h.DeleteUnit)

	// Learning blocks
	blocks := trainingGroup.Group("/learning-blocks")
	blocks.Get("/", trainingValidator.List(), h.ListLearningBlocks)
	blocks.Get("/:id", common.ID(), h.GetLearningBlock)
	blocks.Post("/", admin, trainingValidator.CreateLearningBlock(), h.CreateLearningBlock)
	blocks.Put("/:id", admin, common.ID(), trainingValidator.UpdateLearningBlock(), h.UpdateLearningBlock)
	blocks.Delete("/:id", admin, common.ID(), h.DeleteLearningBlock)
}
