package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"trainhub/middleware"
	"trainhub/models"
	"trainhub/services/email"
	"trainhub/utils"

	"gorm.io/gorm"
)

const passwordResetTTL = time.Hour

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput accepts an invitation.
type RegisterInput struct {
	Token       string  `json:"token" validate:"required"`
	Name        string  `json:"name" validate:"required,min=2,max=150"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string  `json:"phoneNumber" validate:"omitempty,max=20"`
	EID         *string `json:"eid" validate:"omitempty,max=50"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is returned by login and registration.
type Session struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

func (s *Service) issueSession(ctx context.Context, u *models.User) (*Session, error) {
	token, err := middleware.GenerateJWT(u.ID, u.UserType, u.Email)
	if err != nil {
		return nil, err
	}
	profile, err := s.Profile(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: profile}, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !utils.CheckPassword(u.Password, in.Password) {
		return nil, utils.Unauthorized("Invalid email or password")
	}
	if !u.IsActive {
		return nil, utils.Forbidden("Your account is deactivated")
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&u).Update("last_login_at", now).Error; err != nil {
		return nil, err
	}
	return s.issueSession(ctx, &u)
}

// Register creates the invited account and marks the invitation accepted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).Where("token = ?", in.Token).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Invitation not found")
		}
		return nil, err
	}
	if inv.Status != models.InvitationPending {
		return nil, utils.BadRequest("Invitation is no longer valid")
	}
	if time.Now().After(inv.ExpiresAt) {
		if err := s.db.WithContext(ctx).Model(&inv).Update("status", models.InvitationExpired).Error; err != nil {
			return nil, err
		}
		return nil, utils.BadRequest("Invitation has expired")
	}
	if err := s.ensureUniqueIdentity(ctx, inv.Email, in.EID, 0); err != nil {
		return nil, err
	}

	u, err := s.newUser(CreateUserInput{
		Name:          in.Name,
		Email:         inv.Email,
		Password:      in.Password,
		UserType:      inv.UserType,
		ProfileFields: ProfileFields{EID: in.EID, PhoneNumber: in.PhoneNumber},
	})
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createWithExtension(tx, u, inv.SubAdminID, "", nil); err != nil {
			return err
		}
		return tx.Model(&inv).Update("status", models.InvitationAccepted).Error
	})
	if err != nil {
		return nil, err
	}

	s.mailer.Dispatch(email.TypeWelcome, u.Email, u.Name, map[string]interface{}{
		"Name": u.Name,
		"Link": s.cfg.FrontendURL + "/login",
	})
	return s.issueSession(ctx, u)
}

// ForgotPassword issues a reset token when the email belongs to a user.
// Unknown emails succeed silently and return nil.
func (s *Service) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (*models.PasswordReset, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	reset := models.PasswordReset{
		UserID:    u.ID,
		Token:     utils.GenerateToken(),
		ExpiresAt: time.Now().Add(passwordResetTTL),
	}
	if err := s.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return nil, err
	}

	s.mailer.Dispatch(email.TypePasswordReset, u.Email, u.Name, map[string]interface{}{
		"Name": u.Name,
		"Link": s.cfg.FrontendURL + "/reset-password?token=" + reset.Token,
	})
	return &reset, nil
}

func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	var reset models.PasswordReset
	err := s.db.WithContext(ctx).
		Where("token = ? AND used = ? AND expires_at > ?", strings.TrimSpace(in.Token), false, time.Now()).
		First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.BadRequest("Invalid or expired reset token")
		}
		return err
	}

	hashed, err := utils.HashPassword(in.Password, s.cfg.SaltRound)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).Update("password", hashed).Error; err != nil {
			return err
		}
		return tx.Model(&reset).Update("used", true).Error
	})
}

// PurgePasswordResets deletes used or expired reset tokens.
func (s *Service) PurgePasswordResets(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("used = ? OR expires_at < ?", true, now).Delete(&models.PasswordReset{})
	return res.RowsAffected, res.Error
}
