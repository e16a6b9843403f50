package scheduler

import (
	"context"
	"testing"
	"time"

	"trainhub/logger"
	"trainhub/models"
	"trainhub/services/email"
	"trainhub/services/gamification"
	"trainhub/services/user"
	"trainhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T) (*Scheduler, *gorm.DB, *testutil.Mailer) {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.DB(t)
	mailer := &testutil.Mailer{}
	s := New(db, user.NewService(db, mailer, cfg), gamification.NewService(db), mailer, logger.Nop())
	return s, db, mailer
}

func TestExpireInvitations(t *testing.T) {
	s, db, _ := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	stale := models.Invitation{Email: "stale@example.com", Token: "a", Status: models.InvitationPending, ExpiresAt: now.Add(-time.Minute)}
	fresh := models.Invitation{Email: "fresh@example.com", Token: "b", Status: models.InvitationPending, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)

	require.NoError(t, s.ExpireInvitations(context.Background()))

	require.NoError(t, db.First(&stale, stale.ID).Error)
	require.NoError(t, db.First(&fresh, fresh.ID).Error)
	assert.Equal(t, models.InvitationExpired, stale.Status)
	assert.Equal(t, models.InvitationPending, fresh.Status)
}

func TestSendCertificateReminders(t *testing.T) {
	s, db, mailer := newTestScheduler(t)
	now := time.Now()
	s.now = func() time.Time { return now }
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	soon := now.Add(10 * 24 * time.Hour)
	later := now.Add(90 * 24 * time.Hour)
	require.NoError(t, db.Create(&models.Certificate{UserID: learner.ID, Title: "Fire Safety", CertificateNumber: "CERT-SOON", IssuedAt: now, ExpiresAt: &soon}).Error)
	require.NoError(t, db.Create(&models.Certificate{UserID: learner.ID, Title: "First Aid", CertificateNumber: "CERT-LATER", IssuedAt: now, ExpiresAt: &later}).Error)

	ctx := context.Background()
	require.NoError(t, s.SendCertificateReminders(ctx))
	require.NoError(t, s.SendCertificateReminders(ctx))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, email.TypeCertificateExpiry, sent[0].Type)
	assert.Equal(t, "learner@example.com", sent[0].To)
	assert.Equal(t, "CERT-SOON", sent[0].Data["CertificateNumber"])

	var notes int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", learner.ID).Count(&notes).Error)
	assert.Equal(t, int64(1), notes)
}

func TestStartRegistersJobs(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Len(t, s.cron.Entries(), 3)
}
