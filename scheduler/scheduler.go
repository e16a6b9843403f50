package scheduler

import (
	"context"
	"time"

	"trainhub/logger"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/services/email"
	"trainhub/services/gamification"
	"trainhub/services/user"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderWindow is how far ahead certificate expiry reminders look.
const ReminderWindow = 30 * 24 * time.Hour

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron         *cron.Cron
	db           *gorm.DB
	users        *user.Service
	gamification *gamification.Service
	mailer       common.Mailer
	log          *logger.Logger
	now          func() time.Time
}

func New(db *gorm.DB, users *user.Service, gam *gamification.Service, mailer common.Mailer, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		db:           db,
		users:        users,
		gamification: gam,
		mailer:       mailer,
		log:          log.With("component", "scheduler"),
		now:          time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"@every 15m", "expire-invitations", s.ExpireInvitations},
		{"@hourly", "purge-password-resets", s.PurgePasswordResets},
		// daily at 9 AM
		{"0 9 * * *", "certificate-reminders", s.SendCertificateReminders},
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() {
			if err := job.run(context.Background()); err != nil {
				s.log.Error("job failed", "job", job.name, "error", err)
			}
		}); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(jobs))
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) ExpireInvitations(ctx context.Context) error {
	n, err := s.users.ExpireInvitations(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("invitations expired", "count", n)
	}
	return nil
}

func (s *Scheduler) PurgePasswordResets(ctx context.Context) error {
	n, err := s.users.PurgePasswordResets(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("password resets purged", "count", n)
	}
	return nil
}

// SendCertificateReminders notifies holders of certificates expiring within
// ReminderWindow. Each certificate is reminded once.
func (s *Scheduler) SendCertificateReminders(ctx context.Context) error {
	now := s.now()
	certs, err := s.gamification.ExpiringCertificates(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return err
	}

	for _, cert := range certs {
		var u models.User
		if err := s.db.WithContext(ctx).Select("id", "name", "email").First(&u, cert.UserID).Error; err != nil {
			s.log.Warn("certificate holder lookup failed", "certificateId", cert.ID, "error", err)
			continue
		}
		if err := s.gamification.MarkReminded(ctx, cert.ID); err != nil {
			s.log.Warn("certificate reminder failed", "certificateId", cert.ID, "error", err)
			continue
		}
		s.mailer.Dispatch(email.TypeCertificateExpiry, u.Email, u.Name, map[string]interface{}{
			"Name":              u.Name,
			"Title":             cert.Title,
			"CertificateNumber": cert.CertificateNumber,
			"ExpiresAt":         cert.ExpiresAt.Format("02 Jan 2006"),
		})
	}
	if len(certs) > 0 {
		s.log.Info("certificate reminders sent", "count", len(certs))
	}
	return nil
}
