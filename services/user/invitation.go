package user

import (
	"context"
	"time"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/services/email"
	"trainhub/utils"
)

type CreateSubAdminInput struct {
	Name     string `json:"name" validate:"required,min=2,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	JobTitle string `json:"jobTitle" validate:"max=150"`
	ProfileFields
}

type InvitationInput struct {
	Email      string          `json:"email" validate:"required,email"`
	UserType   models.UserType `json:"userType" validate:"omitempty,oneof=sub_admin user"`
	SubAdminID *uint           `json:"subAdminId" validate:"omitempty,min=1"`
}

type InvitationFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=pending accepted expired"`
}

// CreateSubAdmin inserts the user and its sub_admin row together.
func (s *Service) CreateSubAdmin(ctx context.Context, in CreateSubAdminInput) (*Profile, error) {
	return s.Create(ctx, CreateUserInput{
		Name:          in.Name,
		Email:         in.Email,
		Password:      in.Password,
		UserType:      models.UserTypeSubAdmin,
		JobTitle:      in.JobTitle,
		ProfileFields: in.ProfileFields,
	})
}

func (s *Service) ListSubAdmins(ctx context.Context) ([]models.SubAdmin, error) {
	var rows []models.SubAdmin
	err := s.db.WithContext(ctx).Preload("User").Order("id asc").Find(&rows).Error
	return rows, err
}

// CreateInvitation stores a pending invitation and emails the link.
// Sub-admins can only invite frontliners, who are assigned to them.
func (s *Service) CreateInvitation(ctx context.Context, actor common.Actor, in InvitationInput) (*models.Invitation, error) {
	addr := normalizeEmail(in.Email)
	userType := in.UserType
	if userType == "" {
		userType = models.UserTypeUser
	}

	subAdminID := in.SubAdminID
	if actor.IsSubAdmin() {
		if userType != models.UserTypeUser {
			return nil, utils.Forbidden("Sub-admins can only invite frontliners")
		}
		id, err := s.SubAdminIDOf(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		subAdminID = &id
	} else if err := common.EnsureOptional[models.SubAdmin](ctx, s.db, subAdminID, "Sub-admin"); err != nil {
		return nil, err
	}
	if userType != models.UserTypeUser {
		subAdminID = nil
	}

	registered, err := common.Exists[models.User](ctx, s.db, "email = ?", addr)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, utils.Conflict("A user with this email already exists")
	}
	pending, err := common.Exists[models.Invitation](ctx, s.db, "email = ? AND status = ? AND expires_at > ?", addr, models.InvitationPending, time.Now())
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, utils.Conflict("A pending invitation already exists for this email")
	}

	inv := models.Invitation{
		Email:      addr,
		Token:      utils.GenerateToken(),
		UserType:   userType,
		InvitedBy:  actor.ID,
		SubAdminID: subAdminID,
		Status:     models.InvitationPending,
		ExpiresAt:  time.Now().Add(time.Duration(s.cfg.InvitationTTLHours) * time.Hour),
	}
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, err
	}

	var inviter models.User
	_ = s.db.WithContext(ctx).Select("name").First(&inviter, actor.ID).Error
	s.mailer.Dispatch(email.TypeInvitation, inv.Email, "", map[string]interface{}{
		"InviterName": inviter.Name,
		"UserType":    string(inv.UserType),
		"ExpiresAt":   inv.ExpiresAt.Format("02 Jan 2006 15:04"),
		"Link":        s.cfg.FrontendURL + "/register?token=" + inv.Token,
	})
	return &inv, nil
}

func (s *Service) ListInvitations(ctx context.Context, actor common.Actor, f InvitationFilter) ([]models.Invitation, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if actor.IsSubAdmin() {
		q = q.Where("invited_by = ?", actor.ID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []models.Invitation
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Service) DeleteInvitation(ctx context.Context, actor common.Actor, id uint) error {
	inv, err := common.FindByID[models.Invitation](ctx, s.db, id, "Invitation")
	if err != nil {
		return err
	}
	if actor.IsSubAdmin() && inv.InvitedBy != actor.ID {
		return utils.Forbidden("You can only revoke your own invitations")
	}
	return s.db.WithContext(ctx).Delete(inv).Error
}

// ExpireInvitations flags pending invitations past their expiry.
func (s *Service) ExpireInvitations(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationPending, now).
		Update("status", models.InvitationExpired)
	return res.RowsAffected, res.Error
}

