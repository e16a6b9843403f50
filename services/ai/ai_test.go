package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainhub/logger"
	"trainhub/models"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, backend string) (*Service, *gorm.DB) {
	t.Helper()
	cfg := testutil.Config(t)
	cfg.AIBackendURL = backend
	db := testutil.DB(t)
	return NewService(db, cfg, logger.Nop()), db
}

func TestContext(t *testing.T) {
	svc, db := newTestService(t, "http://127.0.0.1:1")
	seed := testutil.SeedCourse(t, db, 1)

	asset := models.Asset{Name: "Terminal 1"}
	require.NoError(t, db.Create(&asset).Error)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")
	require.NoError(t, db.Model(learner).Update("asset_id", asset.ID).Error)
	require.NoError(t, db.Create(&models.UserCourseProgress{
		UserID: learner.ID, CourseID: seed.Course.ID,
		ProgressFields: models.ProgressFields{Status: models.StatusInProgress, CompletionPercentage: 50},
	}).Error)

	tc, err := svc.Context(context.Background(), learner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Terminal 1", tc.Asset)
	assert.Empty(t, tc.Role)
	require.Len(t, tc.Courses, 1)
	assert.Equal(t, seed.Course.Name, tc.Courses[0].Name)
	assert.Equal(t, 50.0, tc.Courses[0].CompletionPercentage)
	assert.Equal(t, []string{seed.Area.Name}, tc.TrainingAreas)
	assert.Equal(t, []string{}, tc.Badges)

	_, err = svc.Context(context.Background(), 999)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestChatRelaysStream(t *testing.T) {
	var got chatRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: hello\n\n")
	}))
	defer backend.Close()

	svc, db := newTestService(t, backend.URL)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	stream, err := svc.Chat(context.Background(), learner.ID, ChatInput{
		Message: "What next?",
		History: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	defer stream.Body.Close()

	body, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: hello\n\n", string(body))
	assert.Equal(t, http.StatusOK, stream.StatusCode)
	assert.Equal(t, "text/event-stream", stream.ContentType)

	assert.Equal(t, "What next?", got.Message)
	require.Len(t, got.History, 1)
	require.NotNil(t, got.Context)
	assert.Equal(t, learner.ID, got.Context.UserID)
}

func TestChatUpstreamError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	svc, db := newTestService(t, backend.URL)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	_, err := svc.Chat(context.Background(), learner.ID, ChatInput{Message: "hello"})
	assert.Equal(t, http.StatusBadGateway, utils.StatusOf(err))
}

func TestChatBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	svc, db := newTestService(t, url)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	_, err := svc.Chat(context.Background(), learner.ID, ChatInput{Message: "hello"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, utils.StatusOf(err))
}
