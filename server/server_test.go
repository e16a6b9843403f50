package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainhub/cache"
	"trainhub/logger"
	"trainhub/models"
	"trainhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.DB(t)
	log := logger.Nop()
	svc := NewServices(db, cfg, log, cache.Noop{}, &testutil.Mailer{})
	return New(cfg, log, db, svc), db
}

func do(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	status, env := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestLoginAndMe(t *testing.T) {
	app, db := newTestApp(t)
	testutil.User(t, db, models.UserTypeAdmin, "admin@example.com")

	status, env := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, env = do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Errors)

	status, env = do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "Admin@Example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)

	status, _ = do(t, app, http.MethodGet, "/api/auth/me", "Bearer "+session.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateAssessmentAppliesDefaults(t *testing.T) {
	app, db := newTestApp(t)
	admin := testutil.User(t, db, models.UserTypeAdmin, "admin@example.com")
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")
	seeded := testutil.SeedCourse(t, db, 1)

	payload := fiber.Map{"trainingAreaId": seeded.Area.ID, "title": "Quiz", "placement": "end"}

	status, _ := do(t, app, http.MethodPost, "/api/assessments/assessments", testutil.Token(t, learner), payload)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := do(t, app, http.MethodPost, "/api/assessments/assessments", testutil.Token(t, admin), payload)
	require.Equal(t, http.StatusCreated, status, env.Message)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Nil(t, created["passingScore"])
	assert.Equal(t, float64(3), created["maxRetakes"])
	assert.Equal(t, float64(50), created["xpPoints"])
	assert.Equal(t, "end", created["placement"])

	status, _ = do(t, app, http.MethodPost, "/api/assessments/assessments", testutil.Token(t, admin), fiber.Map{"title": "Orphan"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReportsAreStaffOnly(t *testing.T) {
	app, db := newTestApp(t)
	admin := testutil.User(t, db, models.UserTypeAdmin, "admin@example.com")
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	status, _ := do(t, app, http.MethodGet, "/api/reports/training-area/999", testutil.Token(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/api/reports/overview", testutil.Token(t, learner), nil)
	assert.Equal(t, http.StatusForbidden, status)

	seeded := testutil.SeedCourse(t, db, 2)
	status, env := do(t, app, http.MethodGet, fmt.Sprintf("/api/reports/training-area/%d", seeded.Area.ID), testutil.Token(t, admin), nil)
	assert.Equal(t, http.StatusOK, status, env.Message)
}

func TestRevokedAccountsLoseAccess(t *testing.T) {
	app, db := newTestApp(t)
	admin := testutil.User(t, db, models.UserTypeAdmin, "admin@example.com")
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")
	adminToken := testutil.Token(t, admin)
	learnerToken := testutil.Token(t, learner)

	status, _ := do(t, app, http.MethodGet, "/api/progress/me", learnerToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, app, http.MethodGet, "/api/reports/overview", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, db.Model(learner).Update("is_active", false).Error)
	for _, path := range []string{"/api/auth/me", "/api/progress/me"} {
		status, env := do(t, app, http.MethodGet, path, learnerToken, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.False(t, env.Success)
	}

	require.NoError(t, db.Model(admin).Update("user_type", models.UserTypeUser).Error)
	status, _ = do(t, app, http.MethodGet, "/api/reports/overview", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	require.NoError(t, db.Delete(&models.User{}, admin.ID).Error)
	status, _ = do(t, app, http.MethodGet, "/api/auth/me", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
