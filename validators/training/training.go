package trainingValidator

import (
	"strings"

	"trainhub/models"
	"trainhub/services/training"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func CreateTrainingArea() fiber.Handler {
	return common.Body("trainingAreaInput", func(in *training.TrainingAreaInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateTrainingArea() fiber.Handler {
	return common.Body("trainingAreaUpdate", func(in *training.TrainingAreaUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func CreateModule() fiber.Handler {
	return common.Body("moduleInput", func(in *training.ModuleInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateModule() fiber.Handler {
	return common.Body("moduleUpdate", func(in *training.ModuleUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func CreateCourse() fiber.Handler {
	return common.Body("courseInput", func(in *training.CourseInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateCourse() fiber.Handler {
	return common.Body("courseUpdate", func(in *training.CourseUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func CreateUnit() fiber.Handler {
	return common.Body("unitInput", func(in *training.UnitInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateUnit() fiber.Handler {
	return common.Body("unitUpdate", func(in *training.UnitUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func AddCourseUnit() fiber.Handler {
	return common.Body[training.CourseUnitInput]("courseUnitInput")
}

func ReorderCourseUnits() fiber.Handler {
	return common.Body("reorderInput", func(in *training.ReorderInput) []string {
		seen := make(map[uint]bool, len(in.UnitIDs))
		for _, id := range in.UnitIDs {
			if seen[id] {
				return []string{"unitIds must not contain duplicates"}
			}
			seen[id] = true
		}
		return nil
	})
}

// blockMedia requires the URL matching the block type.
func blockMedia(blockType models.BlockType, videoURL, imageURL, content string) []string {
	switch blockType {
	case models.BlockVideo:
		if strings.TrimSpace(videoURL) == "" {
			return []string{"videoUrl is required for video blocks"}
		}
	case models.BlockImage:
		if strings.TrimSpace(imageURL) == "" {
			return []string{"imageUrl is required for image blocks"}
		}
	case models.BlockText:
		if strings.TrimSpace(content) == "" {
			return []string{"content is required for text blocks"}
		}
	}
	return nil
}

func CreateLearningBlock() fiber.Handler {
	return common.Body("learningBlockInput", func(in *training.LearningBlockInput) []string {
		trim(&in.Title)
		return blockMedia(in.Type, in.VideoURL, in.ImageURL, in.Content)
	})
}

// UpdateLearningBlock rejects clearing the media field a block type relies on.
func UpdateLearningBlock() fiber.Handler {
	return common.Body("learningBlockUpdate", func(in *training.LearningBlockUpdate) []string {
		trim(in.Title)
		if in.Type == nil {
			return nil
		}
		orKeep := func(s *string) string {
			if s == nil {
				return "keep"
			}
			return *s
		}
		return blockMedia(*in.Type, orKeep(in.VideoURL), orKeep(in.ImageURL), orKeep(in.Content))
	})
}

func List() fiber.Handler {
	return common.Query[training.ListFilter]("trainingFilter")
}
