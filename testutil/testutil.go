// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"trainhub/config"
	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// Config installs a test configuration as config.AppConfig.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Port:                  "0",
		LogMode:               "test",
		JWTKey:                "test-secret",
		SaltRound:             4,
		UploadDir:             t.TempDir(),
		PublicBaseURL:         "http://localhost:3000",
		FrontendURL:           "http://localhost:5173",
		CorsOrigins:           "*",
		AIBackendURL:          "http://127.0.0.1:1",
		AITimeoutSeconds:      5,
		EmailSender:           "no-reply@test.local",
		EmailSenderName:       "TrainHub",
		ReportCacheTTLSeconds: 60,
		InvitationTTLHours:    72,
	}
	config.AppConfig = cfg
	return cfg
}

// DB opens a fresh migrated in-memory sqlite database for one test.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()), atomic.AddInt64(&dbCounter, 1))

	db, err := database.Open(sqlite.Open(name))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

// User inserts a user of the given type with password "password123".
func User(t *testing.T, db *gorm.DB, userType models.UserType, email string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123", 4)
	require.NoError(t, err)

	u := &models.User{
		Name:     strings.Split(email, "@")[0],
		Email:    email,
		Password: hash,
		UserType: userType,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)

	switch userType {
	case models.UserTypeSubAdmin:
		require.NoError(t, db.Create(&models.SubAdmin{UserID: u.ID}).Error)
	case models.UserTypeUser:
		require.NoError(t, db.Create(&models.NormalUser{UserID: u.ID}).Error)
	}
	return u
}

// Token signs a JWT for u. Config must have been called first.
func Token(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(u.ID, u.UserType, u.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

// Course builds a published training area > module > course > unit chain
// with the given number of published text blocks.
type Course struct {
	Area   models.TrainingArea
	Module models.Module
	Course models.Course
	Unit   models.Unit
	Blocks []models.LearningBlock
}

func SeedCourse(t *testing.T, db *gorm.DB, blocks int) *Course {
	t.Helper()
	c := &Course{}
	c.Area = models.TrainingArea{Name: "Safety", Status: models.ContentPublished}
	require.NoError(t, db.Create(&c.Area).Error)
	c.Module = models.Module{TrainingAreaID: c.Area.ID, Name: "Fire", Status: models.ContentPublished}
	require.NoError(t, db.Create(&c.Module).Error)
	c.Course = models.Course{ModuleID: c.Module.ID, Name: "Extinguishers", Status: models.ContentPublished}
	require.NoError(t, db.Create(&c.Course).Error)
	c.Unit = models.Unit{Name: "Basics", Status: models.ContentPublished}
	require.NoError(t, db.Create(&c.Unit).Error)
	require.NoError(t, db.Create(&models.CourseUnit{CourseID: c.Course.ID, UnitID: c.Unit.ID, Order: 1}).Error)

	for i := 0; i < blocks; i++ {
		b := models.LearningBlock{
			UnitID:   c.Unit.ID,
			Type:     models.BlockText,
			Title:    fmt.Sprintf("Block %d", i+1),
			Content:  "text",
			Order:    i + 1,
			XPPoints: 10,
			Status:   models.ContentPublished,
		}
		require.NoError(t, db.Create(&b).Error)
		c.Blocks = append(c.Blocks, b)
	}
	return c
}

// Sent is one recorded email.
type Sent struct {
	Type string
	To   string
	Data map[string]interface{}
}

// Mailer records dispatched emails instead of sending them.
type Mailer struct {
	mu   sync.Mutex
	sent []Sent
}

func (m *Mailer) Dispatch(typeKey, to, toName string, data map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Sent{Type: typeKey, To: to, Data: data})
}

func (m *Mailer) Sent() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sent(nil), m.sent...)
}
