package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"trainhub/config"
	"trainhub/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email type keys.
const (
	TypeInvitation        = "invitation"
	TypePasswordReset     = "password_reset"
	TypeWelcome           = "welcome"
	TypeCertificateIssued = "certificate_issued"
	TypeCertificateExpiry = "certificate_expiry"
)

type emailType struct {
	template string
	subject  string
}

var emailTypes = map[string]emailType{
	TypeInvitation:        {"invitation.html", "You're invited to join the training platform"},
	TypePasswordReset:     {"password_reset.html", "Reset your password"},
	TypeWelcome:           {"welcome.html", "Welcome aboard"},
	TypeCertificateIssued: {"certificate_issued.html", "Your certificate is ready"},
	TypeCertificateExpiry: {"certificate_expiry.html", "Your certificate expires soon"},
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, toName, subject, html string) error
}

// Service renders typed emails and hands them to a Sender.
type Service struct {
	sender  Sender
	log     *logger.Logger
	appName string
}

// NewService picks SendGrid when an API key is configured, otherwise a sender
// that only logs.
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	var sender Sender
	if cfg.SendgridAPIKey != "" {
		sender = &sendgridSender{
			client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
			from:   sgmail.NewEmail(cfg.EmailSenderName, cfg.EmailSender),
		}
	} else {
		sender = &logSender{log: log}
	}
	return NewServiceWithSender(sender, cfg.EmailSenderName, log)
}

func NewServiceWithSender(sender Sender, appName string, log *logger.Logger) *Service {
	return &Service{sender: sender, log: log, appName: appName}
}

// Render executes the template registered for typeKey.
func (s *Service) Render(typeKey string, data map[string]interface{}) (string, string, error) {
	et, ok := emailTypes[typeKey]
	if !ok {
		return "", "", fmt.Errorf("unknown email type %q", typeKey)
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["AppName"] = s.appName

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, et.template, data); err != nil {
		return "", "", err
	}
	return et.subject, buf.String(), nil
}

func (s *Service) Send(ctx context.Context, typeKey, to, toName string, data map[string]interface{}) error {
	subject, html, err := s.Render(typeKey, data)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, to, toName, subject, html)
}

// Dispatch sends in the background and only logs failures.
func (s *Service) Dispatch(typeKey, to, toName string, data map[string]interface{}) {
	go func() {
		if err := s.Send(context.Background(), typeKey, to, toName, data); err != nil {
			s.log.Error("email send failed", "type", typeKey, "to", to, "error", err)
		}
	}()
}

type sendgridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func (s *sendgridSender) Send(ctx context.Context, to, toName, subject, html string) error {
	msg := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail(toName, to), "", html)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type logSender struct {
	log *logger.Logger
}

func (s *logSender) Send(_ context.Context, to, _, subject, _ string) error {
	s.log.Info("email (not sent, no SendGrid key)", "to", to, "subject", subject)
	return nil
}
