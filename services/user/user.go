package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"trainhub/config"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/services/email"
	"trainhub/utils"

	"gorm.io/gorm"
)

// ProfileFields are the optional organisation fields shared by create inputs.
type ProfileFields struct {
	EID              *string    `json:"eid" validate:"omitempty,max=50"`
	PhoneNumber      string     `json:"phoneNumber" validate:"omitempty,max=20"`
	Organization     string     `json:"organization" validate:"max=150"`
	Department       string     `json:"department" validate:"max=150"`
	Nationality      string     `json:"nationality" validate:"max=100"`
	Gender           string     `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	AssetID          *uint      `json:"assetId" validate:"omitempty,min=1"`
	SubAssetID       *uint      `json:"subAssetId" validate:"omitempty,min=1"`
	RoleCategoryID   *uint      `json:"roleCategoryId" validate:"omitempty,min=1"`
	RoleID           *uint      `json:"roleId" validate:"omitempty,min=1"`
	SeniorityLevelID *uint      `json:"seniorityLevelId" validate:"omitempty,min=1"`
}

type CreateUserInput struct {
	Name       string          `json:"name" validate:"required,min=2,max=150"`
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required,min=8,max=72"`
	UserType   models.UserType `json:"userType" validate:"omitempty,oneof=admin sub_admin user"`
	SubAdminID *uint           `json:"subAdminId" validate:"omitempty,min=1"`
	JobTitle   string          `json:"jobTitle" validate:"max=150"`
	StartDate  *time.Time      `json:"startDate"`
	ProfileFields
}

// UpdateUserInput only carries the fields present in the request.
type UpdateUserInput struct {
	Name             *string          `json:"name" validate:"omitempty,min=2,max=150"`
	Email            *string          `json:"email" validate:"omitempty,email"`
	Password         *string          `json:"password" validate:"omitempty,min=8,max=72"`
	UserType         *models.UserType `json:"userType" validate:"omitempty,oneof=admin sub_admin user"`
	EID              *string          `json:"eid" validate:"omitempty,max=50"`
	PhoneNumber      *string          `json:"phoneNumber" validate:"omitempty,max=20"`
	Organization     *string          `json:"organization" validate:"omitempty,max=150"`
	Department       *string          `json:"department" validate:"omitempty,max=150"`
	Nationality      *string          `json:"nationality" validate:"omitempty,max=100"`
	Gender           *string          `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth      *time.Time       `json:"dateOfBirth"`
	AssetID          *uint            `json:"assetId" validate:"omitempty,min=1"`
	SubAssetID       *uint            `json:"subAssetId" validate:"omitempty,min=1"`
	RoleCategoryID   *uint            `json:"roleCategoryId" validate:"omitempty,min=1"`
	RoleID           *uint            `json:"roleId" validate:"omitempty,min=1"`
	SeniorityLevelID *uint            `json:"seniorityLevelId" validate:"omitempty,min=1"`
	IsActive         *bool            `json:"isActive"`
}

type ListFilter struct {
	UserType models.UserType `query:"userType" validate:"omitempty,oneof=admin sub_admin user"`
	AssetID  uint            `query:"assetId"`
	RoleID   uint            `query:"roleId"`
	IsActive *bool           `query:"isActive"`
	Search   string          `query:"search" validate:"omitempty,max=100"`
	Page     int             `query:"page" validate:"omitempty,min=1"`
	Limit    int             `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Profile is a user with its role specific extension row.
type Profile struct {
	models.User
	SubAdmin   *models.SubAdmin   `json:"subAdmin,omitempty"`
	NormalUser *models.NormalUser `json:"normalUser,omitempty"`
}

type Service struct {
	db     *gorm.DB
	mailer common.Mailer
	cfg    *config.Config
}

func NewService(db *gorm.DB, mailer common.Mailer, cfg *config.Config) *Service {
	return &Service{db: db, mailer: mailer, cfg: cfg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) ensureUniqueIdentity(ctx context.Context, email string, eid *string, excludeID uint) error {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Conflict("A user with this email already exists")
	}

	if eid != nil && strings.TrimSpace(*eid) != "" {
		q = s.db.WithContext(ctx).Model(&models.User{}).Where("eid = ?", strings.TrimSpace(*eid))
		if excludeID > 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.Conflict("A user with this EID already exists")
		}
	}
	return nil
}

func (s *Service) ensureTaxonomy(ctx context.Context, assetID, subAssetID, roleCategoryID, roleID, seniorityID *uint) error {
	if err := common.EnsureOptional[models.Asset](ctx, s.db, assetID, "Asset"); err != nil {
		return err
	}
	if err := common.EnsureOptional[models.SubAsset](ctx, s.db, subAssetID, "Sub-asset"); err != nil {
		return err
	}
	if err := common.EnsureOptional[models.RoleCategory](ctx, s.db, roleCategoryID, "Role category"); err != nil {
		return err
	}
	if err := common.EnsureOptional[models.Role](ctx, s.db, roleID, "Role"); err != nil {
		return err
	}
	return common.EnsureOptional[models.SeniorityLevel](ctx, s.db, seniorityID, "Seniority level")
}

func cleanEID(eid *string) *string {
	if eid == nil {
		return nil
	}
	v := strings.TrimSpace(*eid)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Service) newUser(in CreateUserInput) (*models.User, error) {
	hashed, err := utils.HashPassword(in.Password, s.cfg.SaltRound)
	if err != nil {
		return nil, err
	}
	userType := in.UserType
	if userType == "" {
		userType = models.UserTypeUser
	}
	return &models.User{
		Name:             strings.TrimSpace(in.Name),
		Email:            normalizeEmail(in.Email),
		EID:              cleanEID(in.EID),
		PhoneNumber:      in.PhoneNumber,
		Password:         hashed,
		UserType:         userType,
		Organization:     in.Organization,
		Department:       in.Department,
		Nationality:      in.Nationality,
		Gender:           in.Gender,
		DateOfBirth:      in.DateOfBirth,
		AssetID:          in.AssetID,
		SubAssetID:       in.SubAssetID,
		RoleCategoryID:   in.RoleCategoryID,
		RoleID:           in.RoleID,
		SeniorityLevelID: in.SeniorityLevelID,
		IsActive:         true,
	}, nil
}

// createWithExtension inserts the user and its sub_admin or normal_user row.
func createWithExtension(tx *gorm.DB, u *models.User, subAdminID *uint, jobTitle string, startDate *time.Time) error {
	if err := tx.Create(u).Error; err != nil {
		return err
	}
	switch u.UserType {
	case models.UserTypeSubAdmin:
		return tx.Create(&models.SubAdmin{UserID: u.ID, JobTitle: jobTitle}).Error
	case models.UserTypeUser:
		if startDate == nil {
			now := time.Now()
			startDate = &now
		}
		if err := tx.Create(&models.NormalUser{UserID: u.ID, SubAdminID: subAdminID, StartDate: startDate}).Error; err != nil {
			return err
		}
		if subAdminID != nil {
			return tx.Model(&models.SubAdmin{}).Where("id = ?", *subAdminID).
				Update("total_frontliners", gorm.Expr("total_frontliners + 1")).Error
		}
	}
	return nil
}

// Create adds a user of any type. Admin only.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*Profile, error) {
	if err := s.ensureUniqueIdentity(ctx, normalizeEmail(in.Email), in.EID, 0); err != nil {
		return nil, err
	}
	if err := s.ensureTaxonomy(ctx, in.AssetID, in.SubAssetID, in.RoleCategoryID, in.RoleID, in.SeniorityLevelID); err != nil {
		return nil, err
	}
	if err := common.EnsureOptional[models.SubAdmin](ctx, s.db, in.SubAdminID, "Sub-admin"); err != nil {
		return nil, err
	}

	u, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createWithExtension(tx, u, in.SubAdminID, in.JobTitle, in.StartDate)
	})
	if err != nil {
		return nil, err
	}

	s.mailer.Dispatch(email.TypeWelcome, u.Email, u.Name, map[string]interface{}{
		"Name": u.Name,
		"Link": s.cfg.FrontendURL + "/login",
	})
	return s.Profile(ctx, u.ID)
}

// Profile loads a user with its extension rows.
func (s *Service) Profile(ctx context.Context, id uint) (*Profile, error) {
	u, err := common.FindByID[models.User](ctx, s.db, id, "User")
	if err != nil {
		return nil, err
	}
	p := &Profile{User: *u}
	switch u.UserType {
	case models.UserTypeSubAdmin:
		var sa models.SubAdmin
		if err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&sa).Error; err == nil {
			p.SubAdmin = &sa
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	case models.UserTypeUser:
		var nu models.NormalUser
		if err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&nu).Error; err == nil {
			p.NormalUser = &nu
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return p, nil
}

// SubAdminIDOf returns the sub_admins.id of a sub-admin user.
func (s *Service) SubAdminIDOf(ctx context.Context, userID uint) (uint, error) {
	var sa models.SubAdmin
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sa).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.Forbidden("Sub-admin profile not found")
		}
		return 0, err
	}
	return sa.ID, nil
}

// managedUsers restricts a query on users to the frontliners of a sub-admin.
func (s *Service) managedUsers(ctx context.Context, q *gorm.DB, actor common.Actor) (*gorm.DB, error) {
	subAdminID, err := s.SubAdminIDOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	managed := s.db.Model(&models.NormalUser{}).Select("user_id").Where("sub_admin_id = ?", subAdminID)
	return q.Where("users.id IN (?)", managed), nil
}

// CanView reports whether the actor may read the given user's data.
func (s *Service) CanView(ctx context.Context, actor common.Actor, userID uint) error {
	if actor.IsAdmin() || actor.ID == userID {
		return nil
	}
	if !actor.IsSubAdmin() {
		return utils.Forbidden("You do not have permission to access this user")
	}
	q, err := s.managedUsers(ctx, s.db.WithContext(ctx).Model(&models.User{}), actor)
	if err != nil {
		return err
	}
	var count int64
	if err := q.Where("users.id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.Forbidden("You do not have permission to access this user")
	}
	return nil
}

// List returns users visible to the actor: admins see everyone, sub-admins
// only their own frontliners.
func (s *Service) List(ctx context.Context, actor common.Actor, f ListFilter) (utils.Page[models.User], error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if actor.IsSubAdmin() {
		var err error
		if q, err = s.managedUsers(ctx, q, actor); err != nil {
			return utils.Page[models.User]{}, err
		}
	}
	if f.UserType != "" {
		q = q.Where("user_type = ?", f.UserType)
	}
	if f.AssetID > 0 {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	if f.RoleID > 0 {
		q = q.Where("role_id = ?", f.RoleID)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := common.Like(strings.ToLower(term))
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(eid, '')) LIKE ?)", like, like, like)
	}
	return common.Paginate[models.User](q, utils.NewPagination(f.Page, f.Limit), "created_at desc, id desc")
}

func (s *Service) Get(ctx context.Context, actor common.Actor, id uint) (*Profile, error) {
	if err := common.EnsureExists[models.User](ctx, s.db, id, "User"); err != nil {
		return nil, err
	}
	if err := s.CanView(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.Profile(ctx, id)
}

// Update applies only the provided fields.
func (s *Service) Update(ctx context.Context, id uint, in UpdateUserInput) (*Profile, error) {
	u, err := common.FindByID[models.User](ctx, s.db, id, "User")
	if err != nil {
		return nil, err
	}

	addr := u.Email
	if in.Email != nil {
		addr = normalizeEmail(*in.Email)
		in.Email = &addr
	}
	if in.Email != nil || in.EID != nil {
		if err := s.ensureUniqueIdentity(ctx, addr, in.EID, id); err != nil {
			return nil, err
		}
	}
	if err := s.ensureTaxonomy(ctx, in.AssetID, in.SubAssetID, in.RoleCategoryID, in.RoleID, in.SeniorityLevelID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "email", in.Email)
	utils.SetIfPresent(updates, "user_type", in.UserType)
	if in.EID != nil {
		updates["eid"] = cleanEID(in.EID)
	}
	utils.SetIfPresent(updates, "phone_number", in.PhoneNumber)
	utils.SetIfPresent(updates, "organization", in.Organization)
	utils.SetIfPresent(updates, "department", in.Department)
	utils.SetIfPresent(updates, "nationality", in.Nationality)
	utils.SetIfPresent(updates, "gender", in.Gender)
	utils.SetIfPresent(updates, "date_of_birth", in.DateOfBirth)
	utils.SetIfPresent(updates, "asset_id", in.AssetID)
	utils.SetIfPresent(updates, "sub_asset_id", in.SubAssetID)
	utils.SetIfPresent(updates, "role_category_id", in.RoleCategoryID)
	utils.SetIfPresent(updates, "role_id", in.RoleID)
	utils.SetIfPresent(updates, "seniority_level_id", in.SeniorityLevelID)
	utils.SetIfPresent(updates, "is_active", in.IsActive)
	if in.Password != nil {
		hashed, err := utils.HashPassword(*in.Password, s.cfg.SaltRound)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(u).Updates(updates).Error; err != nil {
				return err
			}
			if in.UserType != nil {
				return ensureExtension(tx, id, *in.UserType)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s.Profile(ctx, id)
}

// ensureExtension creates the extension row a user type requires when missing.
func ensureExtension(tx *gorm.DB, userID uint, userType models.UserType) error {
	switch userType {
	case models.UserTypeSubAdmin:
		var count int64
		if err := tx.Model(&models.SubAdmin{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return tx.Create(&models.SubAdmin{UserID: userID}).Error
		}
	case models.UserTypeUser:
		var count int64
		if err := tx.Model(&models.NormalUser{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			now := time.Now()
			return tx.Create(&models.NormalUser{UserID: userID, StartDate: &now}).Error
		}
	}
	return nil
}

func (s *Service) SetStatus(ctx context.Context, id uint, isActive bool) (*models.User, error) {
	u, err := common.FindByID[models.User](ctx, s.db, id, "User")
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("is_active", isActive).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// userOwnedTables lists rows removed together with their user.
var userOwnedTables = []interface{}{
	&models.PasswordReset{},
	&models.AssessmentAttempt{},
	&models.UserTrainingAreaProgress{},
	&models.UserModuleProgress{},
	&models.UserCourseProgress{},
	&models.UserUnitProgress{},
	&models.UserLearningBlockProgress{},
	&models.UserBadge{},
	&models.Certificate{},
	&models.Notification{},
	&models.CourseEnrollment{},
}

// Delete removes a user and everything owned by it.
func (s *Service) Delete(ctx context.Context, actor common.Actor, id uint) error {
	if actor.ID == id {
		return utils.BadRequest("You cannot delete your own account")
	}
	if err := common.EnsureExists[models.User](ctx, s.db, id, "User"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range userOwnedTables {
			if err := tx.Where("user_id = ?", id).Delete(table).Error; err != nil {
				return err
			}
		}

		var nu models.NormalUser
		err := tx.Where("user_id = ?", id).First(&nu).Error
		if err == nil {
			if nu.SubAdminID != nil {
				if err := tx.Model(&models.SubAdmin{}).Where("id = ? AND total_frontliners > 0", *nu.SubAdminID).
					Update("total_frontliners", gorm.Expr("total_frontliners - 1")).Error; err != nil {
					return err
				}
			}
			if err := tx.Delete(&nu).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var sa models.SubAdmin
		err = tx.Where("user_id = ?", id).First(&sa).Error
		if err == nil {
			if err := tx.Model(&models.NormalUser{}).Where("sub_admin_id = ?", sa.ID).Update("sub_admin_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Invitation{}).Where("sub_admin_id = ?", sa.ID).Update("sub_admin_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&sa).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
