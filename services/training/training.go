package training

import (
	"context"
	"strings"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func applyFilter(q *gorm.DB, f ListFilter, nameColumn string) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q = q.Where("LOWER("+nameColumn+") LIKE ?", common.Like(strings.ToLower(term)))
	}
	return q
}

// Training areas

func (s *Service) ListTrainingAreas(ctx context.Context, f ListFilter) ([]models.TrainingArea, error) {
	var rows []models.TrainingArea
	err := applyFilter(s.db.WithContext(ctx), f, "name").Order("name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetTrainingArea(ctx context.Context, id uint) (*models.TrainingArea, error) {
	return common.FindByID[models.TrainingArea](ctx, s.db, id, "Training area")
}

func (s *Service) CreateTrainingArea(ctx context.Context, in TrainingAreaInput) (*models.TrainingArea, error) {
	row := models.TrainingArea{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Status:      statusOr(in.Status, models.ContentDraft),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateTrainingArea(ctx context.Context, id uint, in TrainingAreaUpdate) (*models.TrainingArea, error) {
	row, err := s.GetTrainingArea(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "image_url", in.ImageURL)
	utils.SetIfPresent(updates, "status", in.Status)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetTrainingArea(ctx, id)
}

// DeleteTrainingArea removes the area and everything below it.
func (s *Service) DeleteTrainingArea(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.TrainingArea](ctx, s.db, id, "Training area"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&models.Module{}).Where("training_area_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if err := deleteModules(tx, moduleIDs); err != nil {
			return err
		}
		if err := deleteAssessmentsWhere(tx, "training_area_id = ?", id); err != nil {
			return err
		}
		if err := tx.Where("training_area_id = ?", id).Delete(&models.UserTrainingAreaProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Certificate{}).Where("training_area_id = ?", id).Update("training_area_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TrainingArea{}, id).Error
	})
}

// Modules

func (s *Service) ListModules(ctx context.Context, f ListFilter) ([]models.Module, error) {
	q := applyFilter(s.db.WithContext(ctx), f, "name")
	if f.TrainingAreaID > 0 {
		q = q.Where("training_area_id = ?", f.TrainingAreaID)
	}
	var rows []models.Module
	err := q.Order("name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetModule(ctx context.Context, id uint) (*models.Module, error) {
	return common.FindByID[models.Module](ctx, s.db, id, "Module")
}

func (s *Service) CreateModule(ctx context.Context, in ModuleInput) (*models.Module, error) {
	if err := common.EnsureExists[models.TrainingArea](ctx, s.db, in.TrainingAreaID, "Training area"); err != nil {
		return nil, err
	}
	row := models.Module{
		TrainingAreaID: in.TrainingAreaID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		Status:         statusOr(in.Status, models.ContentDraft),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateModule(ctx context.Context, id uint, in ModuleUpdate) (*models.Module, error) {
	row, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.EnsureOptional[models.TrainingArea](ctx, s.db, in.TrainingAreaID, "Training area"); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "training_area_id", in.TrainingAreaID)
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "image_url", in.ImageURL)
	utils.SetIfPresent(updates, "status", in.Status)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetModule(ctx, id)
}

func (s *Service) DeleteModule(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Module](ctx, s.db, id, "Module"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteModules(tx, []uint{id})
	})
}

// Courses

func (s *Service) ListCourses(ctx context.Context, f ListFilter) ([]models.Course, error) {
	q := applyFilter(s.db.WithContext(ctx), f, "name")
	if f.ModuleID > 0 {
		q = q.Where("module_id = ?", f.ModuleID)
	}
	if f.TrainingAreaID > 0 {
		q = q.Where("module_id IN (?)", s.db.Model(&models.Module{}).Select("id").Where("training_area_id = ?", f.TrainingAreaID))
	}
	var rows []models.Course
	err := q.Order("name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return common.FindByID[models.Course](ctx, s.db, id, "Course")
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (*models.Course, error) {
	if err := common.EnsureExists[models.Module](ctx, s.db, in.ModuleID, "Module"); err != nil {
		return nil, err
	}
	row := models.Course{
		ModuleID:    in.ModuleID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Level:       in.Level,
		Language:    in.Language,
		Duration:    in.Duration,
		Status:      statusOr(in.Status, models.ContentDraft),
	}
	if row.Level == "" {
		row.Level = "beginner"
	}
	if row.Language == "" {
		row.Language = "en"
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateCourse(ctx context.Context, id uint, in CourseUpdate) (*models.Course, error) {
	row, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.EnsureOptional[models.Module](ctx, s.db, in.ModuleID, "Module"); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "module_id", in.ModuleID)
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "image_url", in.ImageURL)
	utils.SetIfPresent(updates, "level", in.Level)
	utils.SetIfPresent(updates, "language", in.Language)
	utils.SetIfPresent(updates, "duration", in.Duration)
	utils.SetIfPresent(updates, "status", in.Status)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetCourse(ctx, id)
}

func (s *Service) DeleteCourse(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Course](ctx, s.db, id, "Course"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCourses(tx, []uint{id})
	})
}
