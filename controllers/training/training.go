package trainingController

import (
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/services/training"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	training *training.Service
}

func New(svc *training.Service) *Controller {
	return &Controller{training: svc}
}

func respond(c *fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, status, true, message, data)
}

// filter returns the list filter; learners only ever see published content.
func filter(c *fiber.Ctx) training.ListFilter {
	var f training.ListFilter
	if v, ok := c.Locals("trainingFilter").(*training.ListFilter); ok {
		f = *v
	}
	if !middleware.CurrentActor(c).IsStaff() {
		f.Status = models.ContentPublished
	}
	return f
}

// Training areas

func (h *Controller) ListTrainingAreas(c *fiber.Ctx) error {
	rows, err := h.training.ListTrainingAreas(c.UserContext(), filter(c))
	return respond(c, fiber.StatusOK, "Training areas fetched", rows, err)
}

func (h *Controller) GetTrainingArea(c *fiber.Ctx) error {
	row, err := h.training.GetTrainingArea(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Training area fetched", row, err)
}

func (h *Controller) CreateTrainingArea(c *fiber.Ctx) error {
	in := c.Locals("trainingAreaInput").(*training.TrainingAreaInput)
	row, err := h.training.CreateTrainingArea(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Training area created", row, err)
}

func (h *Controller) UpdateTrainingArea(c *fiber.Ctx) error {
	in := c.Locals("trainingAreaUpdate").(*training.TrainingAreaUpdate)
	row, err := h.training.UpdateTrainingArea(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Training area updated", row, err)
}

func (h *Controller) DeleteTrainingArea(c *fiber.Ctx) error {
	err := h.training.DeleteTrainingArea(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Training area deleted", nil, err)
}

// Modules

func (h *Controller) ListModules(c *fiber.Ctx) error {
	rows, err := h.training.ListModules(c.UserContext(), filter(c))
	return respond(c, fiber.StatusOK, "Modules fetched", rows, err)
}

func (h *Controller) GetModule(c *fiber.Ctx) error {
	row, err := h.training.GetModule(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Module fetched", row, err)
}

func (h *Controller) CreateModule(c *fiber.Ctx) error {
	in := c.Locals("moduleInput").(*training.ModuleInput)
	row, err := h.training.CreateModule(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Module created", row, err)
}

func (h *Controller) UpdateModule(c *fiber.Ctx) error {
	in := c.Locals("moduleUpdate").(*training.ModuleUpdate)
	row, err := h.training.UpdateModule(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Module updated", row, err)
}

func (h *Controller) DeleteModule(c *fiber.Ctx) error {
	err := h.training.DeleteModule(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Module deleted", nil, err)
}

// Courses

func (h *Controller) ListCourses(c *fiber.Ctx) error {
	rows, err := h.training.ListCourses(c.UserContext(), filter(c))
	return respond(c, fiber.StatusOK, "Courses fetched", rows, err)
}

func (h *Controller) GetCourse(c *fiber.Ctx) error {
	row, err := h.training.GetCourse(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Course fetched", row, err)
}

func (h *Controller) CreateCourse(c *fiber.Ctx) error {
	in := c.Locals("courseInput").(*training.CourseInput)
	row, err := h.training.CreateCourse(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Course created", row, err)
}

func (h *Controller) UpdateCourse(c *fiber.Ctx) error {
	in := c.Locals("courseUpdate").(*training.CourseUpdate)
	row, err := h.training.UpdateCourse(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Course updated", row, err)
}

func (h *Controller) DeleteCourse(c *fiber.Ctx) error {
	err := h.training.DeleteCourse(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Course deleted", nil, err)
}

// Content returns the course tree for the player. Drafts are only shown to staff.
func (h *Controller) Content(c *fiber.Ctx) error {
	publishedOnly := !middleware.CurrentActor(c).IsStaff()
	content, err := h.training.Content(c.UserContext(), common.LocalID(c, "id"), publishedOnly)
	return respond(c, fiber.StatusOK, "Course content fetched", content, err)
}

// Course units

func (h *Controller) ListCourseUnits(c *fiber.Ctx) error {
	rows, err := h.training.ListCourseUnits(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Course units fetched", rows, err)
}

func (h *Controller) AddCourseUnit(c *fiber.Ctx) error {
	in := c.Locals("courseUnitInput").(*training.CourseUnitInput)
	row, err := h.training.AddCourseUnit(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusCreated, "Unit added to course", row, err)
}

func (h *Controller) ReorderCourseUnits(c *fiber.Ctx) error {
	in := c.Locals("reorderInput").(*training.ReorderInput)
	rows, err := h.training.ReorderCourseUnits(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Course units reordered", rows, err)
}

func (h *Controller) RemoveCourseUnit(c *fiber.Ctx) error {
	err := h.training.RemoveCourseUnit(c.UserContext(), common.LocalID(c, "id"), common.LocalID(c, "unitId"))
	return respond(c, fiber.StatusOK, "Unit removed from course", nil, err)
}

// Units

func (h *Controller) ListUnits(c *fiber.Ctx) error {
	rows, err := h.training.ListUnits(c.UserContext(), filter(c))
	return respond(c, fiber.StatusOK, "Units fetched", rows, err)
}

func (h *Controller) GetUnit(c *fiber.Ctx) error {
	row, err := h.training.GetUnit(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Unit fetched", row, err)
}

func (h *Controller) CreateUnit(c *fiber.Ctx) error {
	in := c.Locals("unitInput").(*training.UnitInput)
	row, err := h.training.CreateUnit(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Unit created", row, err)
}

func (h *Controller) UpdateUnit(c *fiber.Ctx) error {
	in := c.Locals("unitUpdate").(*training.UnitUpdate)
	row, err := h.training.UpdateUnit(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Unit updated", row, err)
}

func (h *Controller) DeleteUnit(c *fiber.Ctx) error {
	err := h.training.DeleteUnit(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Unit deleted", nil, err)
}

// Learning blocks

func (h *Controller) ListLearningBlocks(c *fiber.Ctx) error {
	rows, err := h.training.ListLearningBlocks(c.UserContext(), filter(c))
	return respond(c, fiber.StatusOK, "Learning blocks fetched", rows, err)
}

func (h *Controller) GetLearningBlock(c *fiber.Ctx) error {
	row, err := h.training.GetLearningBlock(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Learning block fetched", row, err)
}

func (h *Controller) CreateLearningBlock(c *fiber.Ctx) error {
	in := c.Locals("learningBlockInput").(*training.LearningBlockInput)
	row, err := h.training.CreateLearningBlock(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Learning block created", row, err)
}

func (h *Controller) UpdateLearningBlock(c *fiber.Ctx) error {
	in := c.Locals("learningBlockUpdate").(*training.LearningBlockUpdate)
	row, err := h.training.UpdateLearningBlock(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Learning block updated", row, err)
}

func (h *Controller) DeleteLearningBlock(c *fiber.Ctx) error {
	err := h.training.DeleteLearningBlock(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Learning block deleted", nil, err)
}
