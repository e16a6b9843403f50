package assessmentValidator

import (
	"strings"

	"trainhub/models"
	"trainhub/services/assessment"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func CreateAssessment() fiber.Handler {
	return common.Body("assessmentInput", func(in *assessment.AssessmentInput) []string {
		in.Title = strings.TrimSpace(in.Title)
		if in.TrainingAreaID == nil && in.ModuleID == nil && in.CourseID == nil && in.UnitID == nil {
			return []string{"one of trainingAreaId, moduleId, courseId or unitId is required"}
		}
		if in.Placement == "" {
			in.Placement = models.PlacementEnd
		}
		return nil
	})
}

func UpdateAssessment() fiber.Handler {
	return common.Body("assessmentUpdate", func(in *assessment.AssessmentUpdate) []string {
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			in.Title = &title
		}
		return nil
	})
}

func List() fiber.Handler {
	return common.Query[assessment.ListFilter]("assessmentFilter")
}

func mcqOptions(questionType string, opts []string) []string {
	if questionType == models.QuestionMCQ && opts != nil && len(opts) < 2 {
		return []string{"options must contain at least 2 entries for mcq questions"}
	}
	return nil
}

func CreateQuestion() fiber.Handler {
	return common.Body("questionInput", func(in *assessment.QuestionInput) []string {
		if in.Type == "" {
			in.Type = models.QuestionMCQ
		}
		if in.Type == models.QuestionMCQ && in.Options == nil {
			return []string{"options is a required field for mcq questions"}
		}
		return mcqOptions(in.Type, in.Options)
	})
}

func UpdateQuestion() fiber.Handler {
	return common.Body("questionUpdate", func(in *assessment.QuestionUpdate) []string {
		if in.Type == nil {
			return nil
		}
		return mcqOptions(*in.Type, in.Options)
	})
}

func Submit() fiber.Handler {
	return common.Body("submitInput", func(in *assessment.SubmitInput) []string {
		for id := range in.Answers {
			if strings.TrimSpace(id) == "" {
				return []string{"answers keys must be question ids"}
			}
		}
		return nil
	})
}

func ListAttempts() fiber.Handler {
	return common.Query[assessment.AttemptFilter]("attemptFilter")
}
