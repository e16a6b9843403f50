package assessmentRoutes

import (
	assessmentController "trainhub/controllers/assessment"
	"trainhub/middleware"
	assessmentValidator "trainhub/validators/assessment"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func SetupAssessmentRoutes(router fiber.Router, h *assessmentController.Controller, auth fiber.Handler) {
	assessmentGroup := router.Group("/assessments", auth)
	admin := middleware.AdminOnly

	assessments := assessmentGroup.Group("/assessments")
	assessments.Get("/", assessmentValidator.List(), h.List)
	assessments.Get("/:id", common.ID(), h.Get)
	assessments.Post("/", admin, assessmentValidator.CreateAssessment(), h.Create)
	assessments.Put("/:id", admin, common.ID(), assessmentValidator.UpdateAssessment(), h.Update)
	assessments.Delete("/:id", admin, common.ID(), h.Delete)

	// Questions
	assessments.Get("/:id/questions", middleware.Staff, common.ID(), h.ListQuestions)
	assessments.Post("/:id/questions", admin, common.ID(), assessmentValidator.CreateQuestion(), h.CreateQuestion)
	questions := assessmentGroup.Group("/questions")
	questions.Put("/:id", admin, common.ID(), assessmentValidator.UpdateQuestion(), h.UpdateQuestion)
	questions.Delete("/:id", admin, common.ID(), h.DeleteQuestion)

	// Attempts
	assessments.Post("/:id/attempts", common.ID(), assessmentValidator.Submit(), h.Submit)
	assessments.Get("/:id/attempts", common.ID(), assessmentValidator.ListAttempts(), h.ListAttempts)
}
