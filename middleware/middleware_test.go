package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainhub/logger"
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApp(db *gorm.DB) *fiber.App {
	auth := middleware.JWTMiddleware(db)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger.Nop())})
	whoami := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": middleware.CurrentUserID(c), "type": middleware.CurrentUserType(c)})
	}
	app.Get("/me", auth, whoami)
	app.Get("/admin", auth, middleware.AdminOnly, whoami)
	app.Get("/staff", auth, middleware.Staff, whoami)
	return app
}

func call(t *testing.T, app *fiber.App, path, auth string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestJWTMiddleware(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	app := newApp(db)
	u := testutil.User(t, db, models.UserTypeUser, "u@example.com")

	status, body := call(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = call(t, app, "/me", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, "/me", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, "/me", testutil.Token(t, u))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(u.ID), body["id"])
	assert.Equal(t, "user", body["type"])
}

func TestTokenSignedWithOtherKeyIsRejected(t *testing.T) {
	cfg := testutil.Config(t)
	db := testutil.DB(t)
	admin := testutil.User(t, db, models.UserTypeAdmin, "a@example.com")
	token := testutil.Token(t, admin)

	cfg.JWTKey = "rotated"
	status, _ := call(t, newApp(db), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAccountStateIsReadFromDatabase(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	app := newApp(db)

	ghost, err := middleware.GenerateJWT(999, models.UserTypeAdmin, "ghost@example.com")
	require.NoError(t, err)
	status, _ := call(t, app, "/me", "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := testutil.User(t, db, models.UserTypeAdmin, "boss@example.com")
	token := testutil.Token(t, admin)
	status, _ = call(t, app, "/admin", token)
	assert.Equal(t, http.StatusOK, status)

	// demoted after the token was issued
	require.NoError(t, db.Model(admin).Update("user_type", models.UserTypeUser).Error)
	status, body := call(t, app, "/me", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user", body["type"])
	status, _ = call(t, app, "/admin", token)
	assert.Equal(t, http.StatusForbidden, status)

	require.NoError(t, db.Model(admin).Update("is_active", false).Error)
	status, body = call(t, app, "/me", token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Your account is deactivated", body["message"])
}

func TestRoleGates(t *testing.T) {
	testutil.Config(t)
	db := testutil.DB(t)
	app := newApp(db)

	tokens := map[models.UserType]string{
		models.UserTypeAdmin:    testutil.Token(t, testutil.User(t, db, models.UserTypeAdmin, "admin@example.com")),
		models.UserTypeSubAdmin: testutil.Token(t, testutil.User(t, db, models.UserTypeSubAdmin, "lead@example.com")),
		models.UserTypeUser:     testutil.Token(t, testutil.User(t, db, models.UserTypeUser, "user@example.com")),
	}

	tests := []struct {
		path     string
		userType models.UserType
		want     int
	}{
		{"/admin", models.UserTypeAdmin, http.StatusOK},
		{"/admin", models.UserTypeSubAdmin, http.StatusForbidden},
		{"/admin", models.UserTypeUser, http.StatusForbidden},
		{"/staff", models.UserTypeAdmin, http.StatusOK},
		{"/staff", models.UserTypeSubAdmin, http.StatusOK},
		{"/staff", models.UserTypeUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+string(tt.userType), func(t *testing.T) {
			status, _ := call(t, app, tt.path, tokens[tt.userType])
			assert.Equal(t, tt.want, status)
		})
	}
}
