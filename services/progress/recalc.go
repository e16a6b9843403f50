package progress

import (
	"time"

	"trainhub/models"
	"trainhub/utils"

	"gorm.io/gorm"
)

// StatusFor maps a completion percentage to a progress status.
func StatusFor(pct float64) models.ProgressStatus {
	switch {
	case pct >= 100:
		return models.StatusCompleted
	case pct > 0:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}

// Mean averages child percentages over total children, missing children
// counting as 0, rounded to two decimals.
func Mean(percentages []float64, total int) float64 {
	if total <= 0 {
		return 0
	}
	sum := 0.0
	for _, p := range percentages {
		sum += p
	}
	return utils.Round2(sum / float64(total))
}

func apply(p *models.ProgressFields, pct float64, now time.Time) {
	p.CompletionPercentage = utils.Round2(pct)
	p.Status = StatusFor(p.CompletionPercentage)
	if p.CompletionPercentage > 0 && p.StartedAt == nil {
		p.StartedAt = &now
	}
	if p.Status == models.StatusCompleted {
		if p.CompletedAt == nil {
			p.CompletedAt = &now
		}
	} else {
		p.CompletedAt = nil
	}
}

type progressRow[T any] interface {
	*T
	Progress() *models.ProgressFields
}

// save loads or initialises the row matching keys and overwrites its progress.
func save[T any, P progressRow[T]](tx *gorm.DB, keys map[string]interface{}, pct float64, now time.Time) (*T, error) {
	var row T
	if err := tx.Where(keys).FirstOrInit(&row).Error; err != nil {
		return nil, err
	}
	apply(P(&row).Progress(), pct, now)
	if err := tx.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CourseUpdate is the recomputed state of one course after a block change.
type CourseUpdate struct {
	CourseID             uint                  `json:"courseId"`
	UnitPercentage       float64               `json:"unitPercentage"`
	CompletionPercentage float64               `json:"completionPercentage"`
	Status               models.ProgressStatus `json:"status"`
}

// recalculate recomputes unit, course, module and training area progress
// for every course containing the unit.
func recalculate(tx *gorm.DB, userID, unitID uint, now time.Time) ([]CourseUpdate, error) {
	unitPct, err := unitPercentage(tx, userID, unitID)
	if err != nil {
		return nil, err
	}

	var courseIDs []uint
	if err := tx.Model(&models.CourseUnit{}).Where("unit_id = ?", unitID).Pluck("course_id", &courseIDs).Error; err != nil {
		return nil, err
	}

	updates := make([]CourseUpdate, 0, len(courseIDs))
	modules := map[uint]bool{}
	for _, courseID := range courseIDs {
		if _, err := save[models.UserUnitProgress](tx, map[string]interface{}{
			"user_id": userID, "unit_id": unitID, "course_id": courseID,
		}, unitPct, now); err != nil {
			return nil, err
		}

		cp, err := recalculateCourse(tx, userID, courseID, now)
		if err != nil {
			return nil, err
		}
		updates = append(updates, CourseUpdate{
			CourseID:             courseID,
			UnitPercentage:       unitPct,
			CompletionPercentage: cp.CompletionPercentage,
			Status:               cp.Status,
		})

		var course models.Course
		if err := tx.Select("id", "module_id").First(&course, courseID).Error; err != nil {
			return nil, err
		}
		modules[course.ModuleID] = true
	}

	areas := map[uint]bool{}
	for moduleID := range modules {
		if err := recalculateModule(tx, userID, moduleID, now); err != nil {
			return nil, err
		}
		var m models.Module
		if err := tx.Select("id", "training_area_id").First(&m, moduleID).Error; err != nil {
			return nil, err
		}
		areas[m.TrainingAreaID] = true
	}
	for areaID := range areas {
		if err := recalculateTrainingArea(tx, userID, areaID, now); err != nil {
			return nil, err
		}
	}
	return updates, nil
}

func unitPercentage(tx *gorm.DB, userID, unitID uint) (float64, error) {
	var blockIDs []uint
	if err := tx.Model(&models.LearningBlock{}).
		Where("unit_id = ? AND status = ?", unitID, models.ContentPublished).
		Pluck("id", &blockIDs).Error; err != nil {
		return 0, err
	}
	if len(blockIDs) == 0 {
		return 0, nil
	}
	var pcts []float64
	if err := tx.Model(&models.UserLearningBlockProgress{}).
		Where("user_id = ? AND learning_block_id IN ?", userID, blockIDs).
		Pluck("completion_percentage", &pcts).Error; err != nil {
		return 0, err
	}
	return Mean(pcts, len(blockIDs)), nil
}

func recalculateCourse(tx *gorm.DB, userID, courseID uint, now time.Time) (*models.UserCourseProgress, error) {
	// only published units count, matching what the learner can walk
	var unitIDs []uint
	if err := tx.Model(&models.CourseUnit{}).
		Joins("JOIN units ON units.id = course_units.unit_id").
		Where("course_units.course_id = ? AND units.status = ?", courseID, models.ContentPublished).
		Pluck("course_units.unit_id", &unitIDs).Error; err != nil {
		return nil, err
	}
	var pcts []float64
	if len(unitIDs) > 0 {
		if err := tx.Model(&models.UserUnitProgress{}).
			Where("user_id = ? AND course_id = ? AND unit_id IN ?", userID, courseID, unitIDs).
			Pluck("completion_percentage", &pcts).Error; err != nil {
			return nil, err
		}
	}
	cp, err := save[models.UserCourseProgress](tx, map[string]interface{}{
		"user_id": userID, "course_id": courseID,
	}, Mean(pcts, len(unitIDs)), now)
	if err != nil {
		return nil, err
	}
	return cp, syncEnrollment(tx, userID, courseID, &cp.ProgressFields)
}

// syncEnrollment mirrors course progress onto an existing enrollment.
func syncEnrollment(tx *gorm.DB, userID, courseID uint, p *models.ProgressFields) error {
	return tx.Model(&models.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{
			"status":              p.Status,
			"progress_percentage": p.CompletionPercentage,
			"completed_at":        p.CompletedAt,
		}).Error
}

func recalculateModule(tx *gorm.DB, userID, moduleID uint, now time.Time) error {
	var courseIDs []uint
	if err := tx.Model(&models.Course{}).
		Where("module_id = ? AND status = ?", moduleID, models.ContentPublished).
		Pluck("id", &courseIDs).Error; err != nil {
		return err
	}
	var pcts []float64
	if len(courseIDs) > 0 {
		if err := tx.Model(&models.UserCourseProgress{}).
			Where("user_id = ? AND course_id IN ?", userID, courseIDs).
			Pluck("completion_percentage", &pcts).Error; err != nil {
			return err
		}
	}
	_, err := save[models.UserModuleProgress](tx, map[string]interface{}{
		"user_id": userID, "module_id": moduleID,
	}, Mean(pcts, len(courseIDs)), now)
	return err
}

func recalculateTrainingArea(tx *gorm.DB, userID, areaID uint, now time.Time) error {
	var moduleIDs []uint
	if err := tx.Model(&models.Module{}).
		Where("training_area_id = ? AND status = ?", areaID, models.ContentPublished).
		Pluck("id", &moduleIDs).Error; err != nil {
		return err
	}
	var pcts []float64
	if len(moduleIDs) > 0 {
		if err := tx.Model(&models.UserModuleProgress{}).
			Where("user_id = ? AND module_id IN ?", userID, moduleIDs).
			Pluck("completion_percentage", &pcts).Error; err != nil {
			return err
		}
	}
	_, err := save[models.UserTrainingAreaProgress](tx, map[string]interface{}{
		"user_id": userID, "training_area_id": areaID,
	}, Mean(pcts, len(moduleIDs)), now)
	return err
}
