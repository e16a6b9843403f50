package training

import (
	"context"
	"errors"
	"strings"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"gorm.io/gorm"
)

// Units

func (s *Service) ListUnits(ctx context.Context, f ListFilter) ([]models.Unit, error) {
	q := applyFilter(s.db.WithContext(ctx), f, "name")
	if f.CourseID > 0 {
		q = q.Where("id IN (?)", s.db.Model(&models.CourseUnit{}).Select("unit_id").Where("course_id = ?", f.CourseID))
	}
	var rows []models.Unit
	err := q.Order("name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetUnit(ctx context.Context, id uint) (*models.Unit, error) {
	return common.FindByID[models.Unit](ctx, s.db, id, "Unit")
}

func (s *Service) CreateUnit(ctx context.Context, in UnitInput) (*models.Unit, error) {
	if err := common.EnsureOptional[models.Course](ctx, s.db, in.CourseID, "Course"); err != nil {
		return nil, err
	}
	row := models.Unit{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Duration:    in.Duration,
		Status:      statusOr(in.Status, models.ContentDraft),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if in.CourseID == nil {
			return nil
		}
		order, err := nextUnitOrder(tx, *in.CourseID)
		if err != nil {
			return err
		}
		return tx.Create(&models.CourseUnit{CourseID: *in.CourseID, UnitID: row.ID, Order: order}).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateUnit(ctx context.Context, id uint, in UnitUpdate) (*models.Unit, error) {
	row, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "duration", in.Duration)
	utils.SetIfPresent(updates, "status", in.Status)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetUnit(ctx, id)
}

func (s *Service) DeleteUnit(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Unit](ctx, s.db, id, "Unit"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteUnit(tx, id)
	})
}

// Course units

func nextUnitOrder(tx *gorm.DB, courseID uint) (int, error) {
	var max int
	if err := tx.Model(&models.CourseUnit{}).Where("course_id = ?", courseID).
		Select("COALESCE(MAX(sort_order), 0)").Row().Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *Service) ListCourseUnits(ctx context.Context, courseID uint) ([]models.CourseUnit, error) {
	if err := common.EnsureExists[models.Course](ctx, s.db, courseID, "Course"); err != nil {
		return nil, err
	}
	var rows []models.CourseUnit
	err := s.db.WithContext(ctx).Preload("Unit").Where("course_id = ?", courseID).
		Order("sort_order asc, id asc").Find(&rows).Error
	return rows, err
}

func (s *Service) AddCourseUnit(ctx context.Context, courseID uint, in CourseUnitInput) (*models.CourseUnit, error) {
	if err := common.EnsureExists[models.Course](ctx, s.db, courseID, "Course"); err != nil {
		return nil, err
	}
	if err := common.EnsureExists[models.Unit](ctx, s.db, in.UnitID, "Unit"); err != nil {
		return nil, err
	}
	linked, err := common.Exists[models.CourseUnit](ctx, s.db, "course_id = ? AND unit_id = ?", courseID, in.UnitID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, utils.Conflict("Unit is already part of this course")
	}

	link := models.CourseUnit{CourseID: courseID, UnitID: in.UnitID}
	if in.Order != nil {
		link.Order = *in.Order
	} else if link.Order, err = nextUnitOrder(s.db.WithContext(ctx), courseID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("Unit").First(&link, link.ID).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ReorderCourseUnits assigns sort_order 1..n following the given unit ids.
func (s *Service) ReorderCourseUnits(ctx context.Context, courseID uint, in ReorderInput) ([]models.CourseUnit, error) {
	if err := common.EnsureExists[models.Course](ctx, s.db, courseID, "Course"); err != nil {
		return nil, err
	}
	var linked []uint
	if err := s.db.WithContext(ctx).Model(&models.CourseUnit{}).Where("course_id = ?", courseID).Pluck("unit_id", &linked).Error; err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(linked))
	for _, id := range linked {
		known[id] = true
	}
	seen := make(map[uint]bool, len(in.UnitIDs))
	for _, id := range in.UnitIDs {
		if !known[id] {
			return nil, utils.BadRequest("Validation failed!", "unit "+utils.Itoa(id)+" is not part of this course")
		}
		if seen[id] {
			return nil, utils.BadRequest("Validation failed!", "unit "+utils.Itoa(id)+" is listed twice")
		}
		seen[id] = true
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, unitID := range in.UnitIDs {
			if err := tx.Model(&models.CourseUnit{}).Where("course_id = ? AND unit_id = ?", courseID, unitID).
				Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ListCourseUnits(ctx, courseID)
}

func (s *Service) RemoveCourseUnit(ctx context.Context, courseID, unitID uint) error {
	var link models.CourseUnit
	if err := s.db.WithContext(ctx).Where("course_id = ? AND unit_id = ?", courseID, unitID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Unit is not part of this course")
		}
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ? AND unit_id = ?", courseID, unitID).Delete(&models.UserUnitProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&link).Error
	})
}

// Learning blocks

func (s *Service) ListLearningBlocks(ctx context.Context, f ListFilter) ([]models.LearningBlock, error) {
	q := applyFilter(s.db.WithContext(ctx), f, "title")
	if f.UnitID > 0 {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	var rows []models.LearningBlock
	err := q.Order("unit_id asc, sort_order asc, id asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetLearningBlock(ctx context.Context, id uint) (*models.LearningBlock, error) {
	return common.FindByID[models.LearningBlock](ctx, s.db, id, "Learning block")
}

func (s *Service) CreateLearningBlock(ctx context.Context, in LearningBlockInput) (*models.LearningBlock, error) {
	if err := common.EnsureExists[models.Unit](ctx, s.db, in.UnitID, "Unit"); err != nil {
		return nil, err
	}
	row := models.LearningBlock{
		UnitID:      in.UnitID,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Content:     in.Content,
		VideoURL:    in.VideoURL,
		ImageURL:    in.ImageURL,
		XPPoints:    10,
		Duration:    in.Duration,
		Status:      statusOr(in.Status, models.ContentPublished),
	}
	if in.XPPoints != nil {
		row.XPPoints = *in.XPPoints
	}
	if in.Order != nil {
		row.Order = *in.Order
	} else {
		var max int
		if err := s.db.WithContext(ctx).Model(&models.LearningBlock{}).Where("unit_id = ?", in.UnitID).
			Select("COALESCE(MAX(sort_order), 0)").Row().Scan(&max); err != nil {
			return nil, err
		}
		row.Order = max + 1
	}
	zeroXP := row.XPPoints == 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	// zero values are skipped on insert and would pick up the column default
	if zeroXP {
		row.XPPoints = 0
		if err := s.db.WithContext(ctx).Model(&row).Update("xp_points", 0).Error; err != nil {
			return nil, err
		}
	}
	return &row, nil
}

func (s *Service) UpdateLearningBlock(ctx context.Context, id uint, in LearningBlockUpdate) (*models.LearningBlock, error) {
	row, err := s.GetLearningBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "type", in.Type)
	utils.SetIfPresent(updates, "title", in.Title)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "content", in.Content)
	utils.SetIfPresent(updates, "video_url", in.VideoURL)
	utils.SetIfPresent(updates, "image_url", in.ImageURL)
	utils.SetIfPresent(updates, "sort_order", in.Order)
	utils.SetIfPresent(updates, "xp_points", in.XPPoints)
	utils.SetIfPresent(updates, "duration", in.Duration)
	utils.SetIfPresent(updates, "status", in.Status)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetLearningBlock(ctx, id)
}

func (s *Service) DeleteLearningBlock(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.LearningBlock](ctx, s.db, id, "Learning block"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("learning_block_id = ?", id).Delete(&models.UserLearningBlockProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LearningBlock{}, id).Error
	})
}
