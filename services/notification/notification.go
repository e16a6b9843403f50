package notification

import (
	"context"
	"time"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"gorm.io/gorm"
)

// Notification types.
const (
	TypeGeneral           = "general"
	TypeBadge             = "badge"
	TypeCertificate       = "certificate"
	TypeCertificateExpiry = "certificate_expiry"
	TypeAssessment        = "assessment"
)

type BroadcastInput struct {
	Title    string          `json:"title" validate:"required,min=2,max=200"`
	Message  string          `json:"message" validate:"required,max=5000"`
	Type     string          `json:"type" validate:"omitempty,max=30"`
	UserIDs  []uint          `json:"userIds" validate:"omitempty,dive,min=1"`
	UserType models.UserType `json:"userType" validate:"omitempty,oneof=admin sub_admin user"`
}

type ListFilter struct {
	UnreadOnly bool `query:"unreadOnly"`
	Page       int  `query:"page" validate:"omitempty,min=1"`
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=100"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Notify stores a notification using tx, so it can join a caller's transaction.
func Notify(tx *gorm.DB, userID uint, notificationType, title, message string) error {
	return tx.Create(&models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}).Error
}

func (s *Service) List(ctx context.Context, userID uint, f ListFilter) (utils.Page[models.Notification], error) {
	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	return common.Paginate[models.Notification](q, utils.NewPagination(f.Page, f.Limit), "created_at desc, id desc")
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

func (s *Service) own(ctx context.Context, userID, id uint) (*models.Notification, error) {
	n, err := common.FindByID[models.Notification](ctx, s.db, id, "Notification")
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, utils.NotFound("Notification not found")
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	n, err := s.own(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(n).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &now
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	n, err := s.own(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(n).Error
}

// Broadcast sends one notification to each listed user, or to every active
// user of a type when no ids are given. It returns the number created.
func (s *Service) Broadcast(ctx context.Context, in BroadcastInput) (int, error) {
	if len(in.UserIDs) == 0 && in.UserType == "" {
		return 0, utils.BadRequest("Validation failed!", "userIds or userType is required")
	}

	var userIDs []uint
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true)
	if len(in.UserIDs) > 0 {
		q = q.Where("id IN ?", in.UserIDs)
	}
	if in.UserType != "" {
		q = q.Where("user_type = ?", in.UserType)
	}
	if err := q.Pluck("id", &userIDs).Error; err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, utils.NotFound("No matching users")
	}

	kind := in.Type
	if kind == "" {
		kind = TypeGeneral
	}
	rows := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.Notification{UserID: id, Title: in.Title, Message: in.Message, Type: kind})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, 200).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}
