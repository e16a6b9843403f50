package notification

import (
	"context"
	"net/http"
	"testing"

	"trainhub/models"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	svc := NewService(db)
	ctx := context.Background()

	a := testutil.User(t, db, models.UserTypeUser, "a@example.com")
	b := testutil.User(t, db, models.UserTypeUser, "b@example.com")
	inactive := testutil.User(t, db, models.UserTypeUser, "c@example.com")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	testutil.User(t, db, models.UserTypeSubAdmin, "lead@example.com")

	_, err := svc.Broadcast(ctx, BroadcastInput{Title: "Hi", Message: "Hello"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	n, err := svc.Broadcast(ctx, BroadcastInput{Title: "Hi", Message: "Hello", UserType: models.UserTypeUser})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Broadcast(ctx, BroadcastInput{Title: "Only A", Message: "Hello", UserIDs: []uint{a.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Broadcast(ctx, BroadcastInput{Title: "Nobody", Message: "Hello", UserIDs: []uint{inactive.ID}})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	count, err := svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = svc.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	page, err := svc.List(ctx, b.ID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, TypeGeneral, page.Items[0].Type)
}

func TestReadAndDelete(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	svc := NewService(db)
	ctx := context.Background()

	owner := testutil.User(t, db, models.UserTypeUser, "owner@example.com")
	other := testutil.User(t, db, models.UserTypeUser, "other@example.com")

	for _, title := range []string{"One", "Two", "Three"} {
		require.NoError(t, Notify(db, owner.ID, TypeGeneral, title, "body"))
	}
	page, err := svc.List(ctx, owner.ID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	first := page.Items[0]

	_, err = svc.MarkRead(ctx, other.ID, first.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	read, err := svc.MarkRead(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)

	unread, err := svc.List(ctx, owner.ID, ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)

	marked, err := svc.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	count, err := svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = svc.Delete(ctx, other.ID, first.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
	require.NoError(t, svc.Delete(ctx, owner.ID, first.ID))

	page, err = svc.List(ctx, owner.ID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}
