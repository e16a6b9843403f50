package gamification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/services/notification"
	"trainhub/utils"

	"gorm.io/gorm"
)

const certificateValidity = 1

type BadgeInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,max=500"`
	XPThreshold int    `json:"xpThreshold" validate:"min=0"`
}

type BadgeUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=500"`
	XPThreshold *int    `json:"xpThreshold" validate:"omitempty,min=0"`
}

type CertificateFilter struct {
	UserID   uint `query:"userId"`
	CourseID uint `query:"courseId"`
	Page     int  `query:"page" validate:"omitempty,min=1"`
	Limit    int  `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Verification is the public answer for a certificate number.
type Verification struct {
	Valid       bool                `json:"valid"`
	Expired     bool                `json:"expired"`
	HolderName  string              `json:"holderName"`
	Certificate *models.Certificate `json:"certificate"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Badges

func (s *Service) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var rows []models.Badge
	err := s.db.WithContext(ctx).Order("xp_threshold asc, name asc").Find(&rows).Error
	return rows, err
}

func (s *Service) GetBadge(ctx context.Context, id uint) (*models.Badge, error) {
	return common.FindByID[models.Badge](ctx, s.db, id, "Badge")
}

func (s *Service) badgeNameTaken(ctx context.Context, name string, excludeID uint) error {
	q := s.db.WithContext(ctx).Model(&models.Badge{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.Conflict("A badge with this name already exists")
	}
	return nil
}

func (s *Service) CreateBadge(ctx context.Context, in BadgeInput) (*models.Badge, error) {
	if err := s.badgeNameTaken(ctx, in.Name, 0); err != nil {
		return nil, err
	}
	row := models.Badge{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		XPThreshold: in.XPThreshold,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateBadge(ctx context.Context, id uint, in BadgeUpdate) (*models.Badge, error) {
	row, err := s.GetBadge(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := s.badgeNameTaken(ctx, *in.Name, id); err != nil {
			return nil, err
		}
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "name", in.Name)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "image_url", in.ImageURL)
	utils.SetIfPresent(updates, "xp_threshold", in.XPThreshold)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetBadge(ctx, id)
}

func (s *Service) DeleteBadge(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Badge](ctx, s.db, id, "Badge"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", id).Delete(&models.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Badge{}, id).Error
	})
}

func (s *Service) UserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	if err := common.EnsureExists[models.User](ctx, s.db, userID, "User"); err != nil {
		return nil, err
	}
	var rows []models.UserBadge
	err := s.db.WithContext(ctx).Preload("Badge").Where("user_id = ?", userID).Order("awarded_at asc").Find(&rows).Error
	return rows, err
}

// AwardXP adds xp to the user and awards every badge whose threshold the new
// total reaches. It runs on tx and returns the newly awarded badges.
func AwardXP(tx *gorm.DB, userID uint, xp int) ([]models.Badge, error) {
	if xp > 0 {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("xp_points", gorm.Expr("xp_points + ?", xp)).Error; err != nil {
			return nil, err
		}
	}
	return AwardBadges(tx, userID)
}

// AwardBadges grants badges the user qualifies for but does not hold yet.
func AwardBadges(tx *gorm.DB, userID uint) ([]models.Badge, error) {
	var u models.User
	if err := tx.Select("id", "xp_points").First(&u, userID).Error; err != nil {
		return nil, err
	}

	held := tx.Model(&models.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)
	var badges []models.Badge
	if err := tx.Where("xp_threshold <= ? AND id NOT IN (?)", u.XPPoints, held).
		Order("xp_threshold asc").Find(&badges).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for _, b := range badges {
		if err := tx.Create(&models.UserBadge{UserID: userID, BadgeID: b.ID, AwardedAt: now}).Error; err != nil {
			return nil, err
		}
		if err := notification.Notify(tx, userID, notification.TypeBadge,
			"New badge earned", fmt.Sprintf("You earned the %q badge.", b.Name)); err != nil {
			return nil, err
		}
	}
	return badges, nil
}

// Certificates

// IssueCertificate creates a certificate valid for one year on tx.
func IssueCertificate(tx *gorm.DB, userID uint, title string, courseID, trainingAreaID, assessmentID *uint) (*models.Certificate, error) {
	now := time.Now()
	expires := now.AddDate(certificateValidity, 0, 0)
	cert := models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		TrainingAreaID:    trainingAreaID,
		AssessmentID:      assessmentID,
		Title:             title,
		CertificateNumber: utils.GenerateCertificateNumber(now),
		IssuedAt:          now,
		ExpiresAt:         &expires,
	}
	if err := tx.Create(&cert).Error; err != nil {
		return nil, err
	}
	if err := notification.Notify(tx, userID, notification.TypeCertificate,
		"Certificate issued", fmt.Sprintf("You earned the certificate %q (%s).", title, cert.CertificateNumber)); err != nil {
		return nil, err
	}
	return &cert, nil
}

func (s *Service) ListCertificates(ctx context.Context, f CertificateFilter) (utils.Page[models.Certificate], error) {
	q := s.db.WithContext(ctx).Model(&models.Certificate{})
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.CourseID > 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	return common.Paginate[models.Certificate](q, utils.NewPagination(f.Page, f.Limit), "issued_at desc, id desc")
}

func (s *Service) MyCertificates(ctx context.Context, userID uint) ([]models.Certificate, error) {
	var rows []models.Certificate
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("issued_at desc").Find(&rows).Error
	return rows, err
}

func (s *Service) Verify(ctx context.Context, number string) (*Verification, error) {
	var cert models.Certificate
	if err := s.db.WithContext(ctx).Where("certificate_number = ?", strings.TrimSpace(number)).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Certificate not found")
		}
		return nil, err
	}
	var holder models.User
	if err := s.db.WithContext(ctx).Select("id", "name").First(&holder, cert.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	expired := cert.ExpiresAt != nil && cert.ExpiresAt.Before(time.Now())
	return &Verification{
		Valid:       !expired,
		Expired:     expired,
		HolderName:  holder.Name,
		Certificate: &cert,
	}, nil
}

// ExpiringCertificates lists certificates expiring before the cutoff that
// have not been reminded yet.
func (s *Service) ExpiringCertificates(ctx context.Context, now, cutoff time.Time) ([]models.Certificate, error) {
	var rows []models.Certificate
	err := s.db.WithContext(ctx).
		Where("reminder_sent = ? AND expires_at IS NOT NULL AND expires_at BETWEEN ? AND ?", false, now, cutoff).
		Find(&rows).Error
	return rows, err
}

func (s *Service) MarkReminded(ctx context.Context, certID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cert models.Certificate
		if err := tx.First(&cert, certID).Error; err != nil {
			return err
		}
		if err := tx.Model(&cert).Update("reminder_sent", true).Error; err != nil {
			return err
		}
		return notification.Notify(tx, cert.UserID, notification.TypeCertificateExpiry,
			"Certificate expiring", fmt.Sprintf("Your certificate %q expires on %s.", cert.Title, cert.ExpiresAt.Format("02 Jan 2006")))
	})
}
