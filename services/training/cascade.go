package training

import (
	"trainhub/models"

	"gorm.io/gorm"
)

// deleteAssessmentsWhere removes matching assessments with their questions and attempts.
func deleteAssessmentsWhere(tx *gorm.DB, query string, args ...interface{}) error {
	var ids []uint
	if err := tx.Model(&models.Assessment{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return err
	}
	return DeleteAssessments(tx, ids)
}

// DeleteAssessments removes assessments by id with their questions and attempts.
// Certificates keep existing with the assessment reference cleared.
func DeleteAssessments(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("assessment_id IN ?", ids).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	if err := tx.Where("assessment_id IN ?", ids).Delete(&models.AssessmentAttempt{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Certificate{}).Where("assessment_id IN ?", ids).Update("assessment_id", nil).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Assessment{}).Error
}

func deleteModules(tx *gorm.DB, moduleIDs []uint) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	var courseIDs []uint
	if err := tx.Model(&models.Course{}).Where("module_id IN ?", moduleIDs).Pluck("id", &courseIDs).Error; err != nil {
		return err
	}
	if err := deleteCourses(tx, courseIDs); err != nil {
		return err
	}
	if err := deleteAssessmentsWhere(tx, "module_id IN ?", moduleIDs); err != nil {
		return err
	}
	if err := tx.Where("module_id IN ?", moduleIDs).Delete(&models.UserModuleProgress{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", moduleIDs).Delete(&models.Module{}).Error
}

// deleteCourses removes courses with their unit links, assessments, progress
// and enrollments. Linked units are standalone and survive.
func deleteCourses(tx *gorm.DB, courseIDs []uint) error {
	if len(courseIDs) == 0 {
		return nil
	}
	if err := deleteAssessmentsWhere(tx, "course_id IN ?", courseIDs); err != nil {
		return err
	}
	for _, table := range []interface{}{
		&models.CourseUnit{},
		&models.UserCourseProgress{},
		&models.UserUnitProgress{},
		&models.CourseEnrollment{},
	} {
		if err := tx.Where("course_id IN ?", courseIDs).Delete(table).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(&models.Certificate{}).Where("course_id IN ?", courseIDs).Update("course_id", nil).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", courseIDs).Delete(&models.Course{}).Error
}

func deleteUnit(tx *gorm.DB, unitID uint) error {
	var blockIDs []uint
	if err := tx.Model(&models.LearningBlock{}).Where("unit_id = ?", unitID).Pluck("id", &blockIDs).Error; err != nil {
		return err
	}
	if len(blockIDs) > 0 {
		if err := tx.Where("learning_block_id IN ?", blockIDs).Delete(&models.UserLearningBlockProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", blockIDs).Delete(&models.LearningBlock{}).Error; err != nil {
			return err
		}
	}
	if err := deleteAssessmentsWhere(tx, "unit_id = ?", unitID); err != nil {
		return err
	}
	if err := tx.Where("unit_id = ?", unitID).Delete(&models.UserUnitProgress{}).Error; err != nil {
		return err
	}
	if err := tx.Where("unit_id = ?", unitID).Delete(&models.CourseUnit{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Unit{}, unitID).Error
}
