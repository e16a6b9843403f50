package ai

import (
	"context"
	"io"
	"net/http"
	"time"

	"trainhub/config"
	"trainhub/logger"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatInput struct {
	Message string    `json:"message" validate:"required,max=4000"`
	History []Message `json:"history" validate:"omitempty,max=50,dive"`
}

type CourseContext struct {
	CourseID             uint    `json:"courseId"`
	Name                 string  `json:"name"`
	Status               string  `json:"status"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// TrainingContext is the learner snapshot sent along with every chat message.
type TrainingContext struct {
	UserID        uint            `json:"userId"`
	Name          string          `json:"name"`
	UserType      models.UserType `json:"userType"`
	XPPoints      int             `json:"xpPoints"`
	Asset         string          `json:"asset,omitempty"`
	Role          string          `json:"role,omitempty"`
	Courses       []CourseContext `json:"courses"`
	Badges        []string        `json:"badges"`
	Certificates  []string        `json:"certificates"`
	TrainingAreas []string        `json:"trainingAreas"`
}

type chatRequest struct {
	Message string           `json:"message"`
	History []Message        `json:"history"`
	Context *TrainingContext `json:"context"`
}

// Stream is an upstream response body the caller relays and closes.
type Stream struct {
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
}

type Service struct {
	db     *gorm.DB
	client *resty.Client
	log    *logger.Logger
}

func NewService(db *gorm.DB, cfg *config.Config, log *logger.Logger) *Service {
	client := resty.New().
		SetBaseURL(cfg.AIBackendURL).
		SetTimeout(time.Duration(cfg.AITimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Service{db: db, client: client, log: log}
}

// Context assembles the learner's training snapshot.
func (s *Service) Context(ctx context.Context, userID uint) (*TrainingContext, error) {
	u, err := common.FindByID[models.User](ctx, s.db, userID, "User")
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	out := &TrainingContext{
		UserID:   u.ID,
		Name:     u.Name,
		UserType: u.UserType,
		XPPoints: u.XPPoints,
	}
	if u.AssetID != nil {
		var names []string
		if err := db.Model(&models.Asset{}).Where("id = ?", *u.AssetID).Pluck("name", &names).Error; err != nil {
			return nil, err
		}
		if len(names) > 0 {
			out.Asset = names[0]
		}
	}
	if u.RoleID != nil {
		var names []string
		if err := db.Model(&models.Role{}).Where("id = ?", *u.RoleID).Pluck("name", &names).Error; err != nil {
			return nil, err
		}
		if len(names) > 0 {
			out.Role = names[0]
		}
	}

	err = db.Table("user_course_progress AS p").
		Select("p.course_id AS course_id, c.name AS name, p.status AS status, p.completion_percentage AS completion_percentage").
		Joins("JOIN courses c ON c.id = p.course_id").
		Where("p.user_id = ?", userID).
		Order("p.updated_at desc").
		Scan(&out.Courses).Error
	if err != nil {
		return nil, err
	}
	if err := db.Table("user_badges AS ub").Joins("JOIN badges b ON b.id = ub.badge_id").
		Where("ub.user_id = ?", userID).Order("ub.awarded_at asc").
		Pluck("b.name", &out.Badges).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Certificate{}).Where("user_id = ?", userID).
		Order("issued_at desc").Pluck("title", &out.Certificates).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.TrainingArea{}).Where("status = ?", models.ContentPublished).
		Order("name asc").Pluck("name", &out.TrainingAreas).Error; err != nil {
		return nil, err
	}

	if out.Courses == nil {
		out.Courses = []CourseContext{}
	}
	if out.Badges == nil {
		out.Badges = []string{}
	}
	if out.Certificates == nil {
		out.Certificates = []string{}
	}
	if out.TrainingAreas == nil {
		out.TrainingAreas = []string{}
	}
	return out, nil
}

// Chat forwards the message with the learner context to the AI backend and
// returns the unread response body. ctx must stay alive until the body is
// consumed.
func (s *Service) Chat(ctx context.Context, userID uint, in ChatInput) (*Stream, error) {
	tc, err := s.Context(ctx, userID)
	if err != nil {
		return nil, err
	}
	history := in.History
	if history == nil {
		history = []Message{}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetBody(chatRequest{Message: in.Message, History: history, Context: tc}).
		Post("/chat")
	if err != nil {
		s.log.Error("ai backend request failed", "error", err)
		return nil, utils.NewCustomError(http.StatusBadGateway, "AI service unavailable")
	}

	body := resp.RawBody()
	if resp.StatusCode() >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(body, 4096))
		body.Close()
		s.log.Warn("ai backend returned an error", "status", resp.StatusCode(), "body", string(detail))
		return nil, utils.NewCustomError(http.StatusBadGateway, "AI service returned an error")
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	return &Stream{StatusCode: resp.StatusCode(), ContentType: contentType, Body: body}, nil
}
