package assessmentController

import (
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/services/assessment"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	assessments *assessment.Service
}

func New(svc *assessment.Service) *Controller {
	return &Controller{assessments: svc}
}

func respond(c *fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, status, true, message, data)
}

func (h *Controller) List(c *fiber.Ctx) error {
	f := c.Locals("assessmentFilter").(*assessment.ListFilter)
	if !middleware.CurrentActor(c).IsStaff() {
		f.Status = models.ContentPublished
	}
	rows, err := h.assessments.List(c.UserContext(), *f)
	return respond(c, fiber.StatusOK, "Assessments fetched", rows, err)
}

// Get returns the answer key to staff and the learner view to everyone else.
func (h *Controller) Get(c *fiber.Ctx) error {
	id := common.LocalID(c, "id")
	actor := middleware.CurrentActor(c)
	if actor.IsStaff() {
		detail, err := h.assessments.Detail(c.UserContext(), id)
		return respond(c, fiber.StatusOK, "Assessment fetched", detail, err)
	}
	view, err := h.assessments.LearnerView(c.UserContext(), id, actor.ID)
	return respond(c, fiber.StatusOK, "Assessment fetched", view, err)
}

func (h *Controller) Create(c *fiber.Ctx) error {
	in := c.Locals("assessmentInput").(*assessment.AssessmentInput)
	row, err := h.assessments.Create(c.UserContext(), *in)
	return respond(c, fiber.StatusCreated, "Assessment created", row, err)
}

func (h *Controller) Update(c *fiber.Ctx) error {
	in := c.Locals("assessmentUpdate").(*assessment.AssessmentUpdate)
	row, err := h.assessments.Update(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Assessment updated", row, err)
}

func (h *Controller) Delete(c *fiber.Ctx) error {
	err := h.assessments.Delete(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Assessment deleted", nil, err)
}

func (h *Controller) ListQuestions(c *fiber.Ctx) error {
	rows, err := h.assessments.ListQuestions(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Questions fetched", rows, err)
}

func (h *Controller) CreateQuestion(c *fiber.Ctx) error {
	in := c.Locals("questionInput").(*assessment.QuestionInput)
	row, err := h.assessments.CreateQuestion(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusCreated, "Question created", row, err)
}

func (h *Controller) UpdateQuestion(c *fiber.Ctx) error {
	in := c.Locals("questionUpdate").(*assessment.QuestionUpdate)
	row, err := h.assessments.UpdateQuestion(c.UserContext(), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusOK, "Question updated", row, err)
}

func (h *Controller) DeleteQuestion(c *fiber.Ctx) error {
	err := h.assessments.DeleteQuestion(c.UserContext(), common.LocalID(c, "id"))
	return respond(c, fiber.StatusOK, "Question deleted", nil, err)
}

func (h *Controller) Submit(c *fiber.Ctx) error {
	in := c.Locals("submitInput").(*assessment.SubmitInput)
	result, err := h.assessments.Submit(c.UserContext(), middleware.CurrentUserID(c), common.LocalID(c, "id"), *in)
	return respond(c, fiber.StatusCreated, "Attempt submitted", result, err)
}

func (h *Controller) ListAttempts(c *fiber.Ctx) error {
	f := c.Locals("attemptFilter").(*assessment.AttemptFilter)
	rows, err := h.assessments.ListAttempts(c.UserContext(), middleware.CurrentActor(c), common.LocalID(c, "id"), *f)
	return respond(c, fiber.StatusOK, "Attempts fetched", rows, err)
}
