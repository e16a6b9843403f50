package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"gorm.io/gorm"
)

type AssetInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type AssetUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type SubAssetInput struct {
	AssetID uint   `json:"assetId" validate:"required"`
	Name    string `json:"name" validate:"required,min=2,max=100"`
}

type SubAssetUpdate struct {
	AssetID *uint   `json:"assetId" validate:"omitempty,min=1"`
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
}

type RoleCategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type RoleInput struct {
	CategoryID uint   `json:"categoryId" validate:"required"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
}

type RoleUpdate struct {
	CategoryID *uint   `json:"categoryId" validate:"omitempty,min=1"`
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
}

type BulkRolesInput struct {
	CategoryID uint     `json:"categoryId" validate:"required"`
	Names      []string `json:"names" validate:"required,min=1,dive,required,min=2,max=100"`
}

type SeniorityLevelInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Rank int    `json:"rank" validate:"min=0"`
}

type SeniorityLevelUpdate struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=100"`
	Rank *int    `json:"rank" validate:"omitempty,min=0"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) nameTaken(ctx context.Context, model interface{}, name string, excludeID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(model).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Conflict(fmt.Sprintf("%q already exists", name))
	}
	return nil
}

// Assets

func (s *Service) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	err := s.db.WithContext(ctx).Preload("SubAssets", func(db *gorm.DB) *gorm.DB {
		return db.Order("name asc")
	}).Order("name asc").Find(&assets).Error
	return assets, err
}

func (s *Service) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).Preload("SubAssets").First(&asset, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFound("Asset not found")
		}
		return nil, err
	}
	return &asset, nil
}

func (s *Service) CreateAsset(ctx context.Context, in AssetInput) (*models.Asset, error) {
	if err := s.nameTaken(ctx, &models.Asset{}, in.Name, 0); err != nil {
		return nil, err
	}
	asset := models.Asset{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *Service) UpdateAsset(ctx context.Context, id uint, in AssetUpdate) (*models.Asset, error) {
	asset, err := common.FindByID[models.Asset](ctx, s.db, id, "Asset")
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := s.nameTaken(ctx, &models.Asset{}, *in.Name, id); err != nil {
			return nil, err
		}
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "description", in.Description)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(asset).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetAsset(ctx, id)
}

// DeleteAsset removes the asset with its sub-assets and detaches users.
func (s *Service) DeleteAsset(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Asset](ctx, s.db, id, "Asset"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subAssets := tx.Model(&models.SubAsset{}).Select("id").Where("asset_id = ?", id)
		if err := tx.Model(&models.User{}).Where("sub_asset_id IN (?)", subAssets).Update("sub_asset_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("asset_id = ?", id).Update("asset_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&models.SubAsset{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Asset{}, id).Error
	})
}

// Sub-assets

func (s *Service) ListSubAssets(ctx context.Context, assetID uint) ([]models.SubAsset, error) {
	var rows []models.SubAsset
	q := s.db.WithContext(ctx).Order("name asc")
	if assetID > 0 {
		q = q.Where("asset_id = ?", assetID)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Service) GetSubAsset(ctx context.Context, id uint) (*models.SubAsset, error) {
	return common.FindByID[models.SubAsset](ctx, s.db, id, "Sub-asset")
}

func (s *Service) CreateSubAsset(ctx context.Context, in SubAssetInput) (*models.SubAsset, error) {
	if err := common.EnsureExists[models.Asset](ctx, s.db, in.AssetID, "Asset"); err != nil {
		return nil, err
	}
	row := models.SubAsset{AssetID: in.AssetID, Name: strings.TrimSpace(in.Name)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateSubAsset(ctx context.Context, id uint, in SubAssetUpdate) (*models.SubAsset, error) {
	row, err := s.GetSubAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.EnsureOptional[models.Asset](ctx, s.db, in.AssetID, "Asset"); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "asset_id", in.AssetID)
	utils.SetIfPresent(updates, "name", in.Name)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetSubAsset(ctx, id)
}

func (s *Service) DeleteSubAsset(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.SubAsset](ctx, s.db, id, "Sub-asset"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("sub_asset_id = ?", id).Update("sub_asset_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SubAsset{}, id).Error
	})
}

// Role categories and roles

func (s *Service) ListRoleCategories(ctx context.Context) ([]models.RoleCategory, error) {
	var rows []models.RoleCategory
	err := s.db.WithContext(ctx).Preload("Roles", func(db *gorm.DB) *gorm.DB {
		return db.Order("name asc")
	}).Order("name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetRoleCategory(ctx context.Context, id uint) (*models.RoleCategory, error) {
	var row models.RoleCategory
	if err := s.db.WithContext(ctx).Preload("Roles").First(&row, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFound("Role category not found")
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) CreateRoleCategory(ctx context.Context, in RoleCategoryInput) (*models.RoleCategory, error) {
	if err := s.nameTaken(ctx, &models.RoleCategory{}, in.Name, 0); err != nil {
		return nil, err
	}
	row := models.RoleCategory{Name: strings.TrimSpace(in.Name)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateRoleCategory(ctx context.Context, id uint, in RoleCategoryInput) (*models.RoleCategory, error) {
	row, err := common.FindByID[models.RoleCategory](ctx, s.db, id, "Role category")
	if err != nil {
		return nil, err
	}
	if err := s.nameTaken(ctx, &models.RoleCategory{}, in.Name, id); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(row).Update("name", strings.TrimSpace(in.Name)).Error; err != nil {
		return nil, err
	}
	return s.GetRoleCategory(ctx, id)
}

// DeleteRoleCategory removes the category with its roles and detaches users.
func (s *Service) DeleteRoleCategory(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.RoleCategory](ctx, s.db, id, "Role category"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := tx.Model(&models.Role{}).Select("id").Where("category_id = ?", id)
		if err := tx.Model(&models.User{}).Where("role_id IN (?)", roles).Update("role_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("role_category_id = ?", id).Update("role_category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Role{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.RoleCategory{}, id).Error
	})
}

func (s *Service) ListRoles(ctx context.Context, categoryID uint) ([]models.Role, error) {
	var rows []models.Role
	q := s.db.WithContext(ctx).Order("name asc")
	if categoryID > 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Service) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	return common.FindByID[models.Role](ctx, s.db, id, "Role")
}

func (s *Service) CreateRole(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := common.EnsureExists[models.RoleCategory](ctx, s.db, in.CategoryID, "Role category"); err != nil {
		return nil, err
	}
	row := models.Role{CategoryID: in.CategoryID, Name: strings.TrimSpace(in.Name)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateRoles inserts all names in one statement.
func (s *Service) CreateRoles(ctx context.Context, in BulkRolesInput) ([]models.Role, error) {
	if err := common.EnsureExists[models.RoleCategory](ctx, s.db, in.CategoryID, "Role category"); err != nil {
		return nil, err
	}
	rows := make([]models.Role, 0, len(in.Names))
	for _, name := range in.Names {
		rows = append(rows, models.Role{CategoryID: in.CategoryID, Name: strings.TrimSpace(name)})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) UpdateRole(ctx context.Context, id uint, in RoleUpdate) (*models.Role, error) {
	row, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.EnsureOptional[models.RoleCategory](ctx, s.db, in.CategoryID, "Role category"); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "category_id", in.CategoryID)
	utils.SetIfPresent(updates, "name", in.Name)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetRole(ctx, id)
}

func (s *Service) DeleteRole(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Role](ctx, s.db, id, "Role"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("role_id = ?", id).Update("role_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}

// Seniority levels

func (s *Service) ListSeniorityLevels(ctx context.Context) ([]models.SeniorityLevel, error) {
	var rows []models.SeniorityLevel
	err := s.db.WithContext(ctx).Order("rank asc, name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetSeniorityLevel(ctx context.Context, id uint) (*models.SeniorityLevel, error) {
	return common.FindByID[models.SeniorityLevel](ctx, s.db, id, "Seniority level")
}

func (s *Service) CreateSeniorityLevel(ctx context.Context, in SeniorityLevelInput) (*models.SeniorityLevel, error) {
	if err := s.nameTaken(ctx, &models.SeniorityLevel{}, in.Name, 0); err != nil {
		return nil, err
	}
	row := models.SeniorityLevel{Name: strings.TrimSpace(in.Name), Rank: in.Rank}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateSeniorityLevel(ctx context.Context, id uint, in SeniorityLevelUpdate) (*models.SeniorityLevel, error) {
	row, err := s.GetSeniorityLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := s.nameTaken(ctx, &models.SeniorityLevel{}, *in.Name, id); err != nil {
			return nil, err
		}
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "rank", in.Rank)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetSeniorityLevel(ctx, id)
}

func (s *Service) DeleteSeniorityLevel(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.SeniorityLevel](ctx, s.db, id, "Seniority level"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("seniority_level_id = ?", id).Update("seniority_level_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SeniorityLevel{}, id).Error
	})
}
