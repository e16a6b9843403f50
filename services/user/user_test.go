package user

import (
	"context"
	"net/http"
	"testing"
	"time"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/services/email"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testutil.Mailer) {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.DB(t)
	mailer := &testutil.Mailer{}
	return NewService(db, mailer, cfg), mailer
}

func strPtr(s string) *string { return &s }

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserInput{Name: "Other", Email: " ALICE@example.com ", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateAddsExtensionRow(t *testing.T) {
	svc, mailer := newTestService(t)
	ctx := context.Background()

	sa, err := svc.CreateSubAdmin(ctx, CreateSubAdminInput{Name: "Sam", Email: "sam@example.com", Password: "password123", JobTitle: "Lead"})
	require.NoError(t, err)
	require.NotNil(t, sa.SubAdmin)
	assert.Equal(t, "Lead", sa.SubAdmin.JobTitle)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Fran", Email: "fran@example.com", Password: "password123", SubAdminID: &sa.SubAdmin.ID})
	require.NoError(t, err)
	require.NotNil(t, u.NormalUser)
	assert.Equal(t, models.UserTypeUser, u.UserType)
	assert.Equal(t, sa.SubAdmin.ID, *u.NormalUser.SubAdminID)

	var refreshed models.SubAdmin
	require.NoError(t, svc.db.First(&refreshed, sa.SubAdmin.ID).Error)
	assert.Equal(t, 1, refreshed.TotalFrontliners)

	sent := mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, email.TypeWelcome, sent[1].Type)
	assert.Equal(t, "fran@example.com", sent[1].To)
}

func TestCreateUnknownTaxonomy(t *testing.T) {
	svc, _ := newTestService(t)
	missing := uint(42)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Bob", Email: "bob@example.com", Password: "password123",
		ProfileFields: ProfileFields{AssetID: &missing},
	})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestUpdateOnlyTouchesGivenFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{
		Name: "Carol", Email: "carol@example.com", Password: "password123",
		ProfileFields: ProfileFields{Department: "Ops", PhoneNumber: "555"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateUserInput{Department: strPtr("Security")})
	require.NoError(t, err)
	assert.Equal(t, "Security", updated.Department)
	assert.Equal(t, "Carol", updated.Name)
	assert.Equal(t, "555", updated.PhoneNumber)
	assert.Equal(t, "carol@example.com", updated.Email)
}

func TestUpdateEmailConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Name: "Dan", Email: "dan@example.com", Password: "password123"})
	require.NoError(t, err)
	eve, err := svc.Create(ctx, CreateUserInput{Name: "Eve", Email: "eve@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, eve.ID, UpdateUserInput{Email: strPtr("DAN@example.com")})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	_, err = svc.Update(ctx, eve.ID, UpdateUserInput{Email: strPtr("eve@example.com")})
	assert.NoError(t, err)
}

func TestSubAdminSeesOnlyOwnFrontliners(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sa, err := svc.CreateSubAdmin(ctx, CreateSubAdminInput{Name: "Sue", Email: "sue@example.com", Password: "password123"})
	require.NoError(t, err)
	mine, err := svc.Create(ctx, CreateUserInput{Name: "Mine", Email: "mine@example.com", Password: "password123", SubAdminID: &sa.SubAdmin.ID})
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateUserInput{Name: "Other", Email: "other@example.com", Password: "password123"})
	require.NoError(t, err)

	actor := common.Actor{ID: sa.ID, Type: models.UserTypeSubAdmin}
	page, err := svc.List(ctx, actor, ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mine.ID, page.Items[0].ID)

	assert.NoError(t, svc.CanView(ctx, actor, mine.ID))
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(svc.CanView(ctx, actor, other.ID)))

	learner := common.Actor{ID: mine.ID, Type: models.UserTypeUser}
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(svc.CanView(ctx, learner, other.ID)))
}

func TestDeleteRemovesOwnedRows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin := testutil.User(t, svc.db, models.UserTypeAdmin, "root@example.com")

	u, err := svc.Create(ctx, CreateUserInput{Name: "Gone", Email: "gone@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, svc.db.Create(&models.Notification{UserID: u.ID, Type: "general", Title: "hi", Message: "hello"}).Error)

	actor := common.Actor{ID: admin.ID, Type: models.UserTypeAdmin}
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(svc.Delete(ctx, actor, admin.ID)))
	require.NoError(t, svc.Delete(ctx, actor, u.ID))

	var users, extensions, notes int64
	svc.db.Model(&models.User{}).Where("id = ?", u.ID).Count(&users)
	svc.db.Model(&models.NormalUser{}).Where("user_id = ?", u.ID).Count(&extensions)
	svc.db.Model(&models.Notification{}).Where("user_id = ?", u.ID).Count(&notes)
	assert.Zero(t, users)
	assert.Zero(t, extensions)
	assert.Zero(t, notes)

	assert.Equal(t, http.StatusNotFound, utils.StatusOf(svc.Delete(ctx, actor, u.ID)))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateUserInput{Name: "Hank", Email: "hank@example.com", Password: "password123"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, LoginInput{Email: "HANK@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotNil(t, session.User.LastLoginAt)

	_, err = svc.Login(ctx, LoginInput{Email: "hank@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, utils.StatusOf(err))

	_, err = svc.SetStatus(ctx, session.User.ID, false)
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "hank@example.com", Password: "password123"})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
}

func TestInvitationRegistration(t *testing.T) {
	svc, mailer := newTestService(t)
	ctx := context.Background()
	admin := testutil.User(t, svc.db, models.UserTypeAdmin, "root@example.com")
	actor := common.Actor{ID: admin.ID, Type: models.UserTypeAdmin}

	inv, err := svc.CreateInvitation(ctx, actor, InvitationInput{Email: "New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", inv.Email)
	assert.Equal(t, models.UserTypeUser, inv.UserType)

	_, err = svc.CreateInvitation(ctx, actor, InvitationInput{Email: "new@example.com"})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	session, err := svc.Register(ctx, RegisterInput{Token: inv.Token, Name: "Newbie", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", session.User.Email)
	require.NotNil(t, session.User.NormalUser)

	_, err = svc.Register(ctx, RegisterInput{Token: inv.Token, Name: "Again", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	types := []string{}
	for _, m := range mailer.Sent() {
		types = append(types, m.Type)
	}
	assert.Equal(t, []string{email.TypeInvitation, email.TypeWelcome}, types)
}

func TestSubAdminInvitationsAssignThemselves(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sa := testutil.User(t, svc.db, models.UserTypeSubAdmin, "lead@example.com")
	actor := common.Actor{ID: sa.ID, Type: models.UserTypeSubAdmin}

	_, err := svc.CreateInvitation(ctx, actor, InvitationInput{Email: "boss@example.com", UserType: models.UserTypeSubAdmin})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	inv, err := svc.CreateInvitation(ctx, actor, InvitationInput{Email: "crew@example.com"})
	require.NoError(t, err)
	subAdminID, err := svc.SubAdminIDOf(ctx, sa.ID)
	require.NoError(t, err)
	require.NotNil(t, inv.SubAdminID)
	assert.Equal(t, subAdminID, *inv.SubAdminID)
}

func TestExpireInvitations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, svc.db.Create(&models.Invitation{Email: "old@example.com", Token: "old", Status: models.InvitationPending, ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, svc.db.Create(&models.Invitation{Email: "new@example.com", Token: "new", Status: models.InvitationPending, ExpiresAt: now.Add(time.Hour)}).Error)

	n, err := svc.ExpireInvitations(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Register(ctx, RegisterInput{Token: "old", Name: "Late", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestPasswordReset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateUserInput{Name: "Ivy", Email: "ivy@example.com", Password: "password123"})
	require.NoError(t, err)

	none, err := svc.ForgotPassword(ctx, ForgotPasswordInput{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Nil(t, none)

	reset, err := svc.ForgotPassword(ctx, ForgotPasswordInput{Email: "ivy@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{Token: reset.Token, Password: "new-password"}))

	_, err = svc.Login(ctx, LoginInput{Email: "ivy@example.com", Password: "new-password"})
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Token: reset.Token, Password: "another-one"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	n, err := svc.PurgePasswordResets(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
