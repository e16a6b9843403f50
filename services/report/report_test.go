package report

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"trainhub/cache"
	"trainhub/logger"
	"trainhub/models"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryCache keeps values in process for tests.
type memoryCache struct {
	mu   sync.Mutex
	sets int
	data map[string]*Overview
}

func (m *memoryCache) Get(_ context.Context, key string, dst interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	*dst.(*Overview) = *v
	return nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]*Overview{}
	}
	m.data[key] = value.(*Overview)
	m.sets++
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func newTestService(t *testing.T, c cache.Cache) (*Service, *gorm.DB) {
	t.Helper()
	testutil.Config(t)
	db := testutil.DB(t)
	return NewService(db, c, time.Minute, logger.Nop()), db
}

// seedLearners creates a course with one completed and one half way learner.
func seedLearners(t *testing.T, db *gorm.DB) (*testutil.Course, *models.User, *models.User) {
	t.Helper()
	seed := testutil.SeedCourse(t, db, 2)
	done := testutil.User(t, db, models.UserTypeUser, "done@example.com")
	half := testutil.User(t, db, models.UserTypeUser, "half@example.com")
	require.NoError(t, db.Model(done).Update("xp_points", 20).Error)

	for _, p := range []struct {
		user   *models.User
		pct    float64
		status models.ProgressStatus
	}{
		{done, 100, models.StatusCompleted},
		{half, 50, models.StatusInProgress},
	} {
		fields := models.ProgressFields{Status: p.status, CompletionPercentage: p.pct}
		require.NoError(t, db.Create(&models.UserTrainingAreaProgress{UserID: p.user.ID, TrainingAreaID: seed.Area.ID, ProgressFields: fields}).Error)
		require.NoError(t, db.Create(&models.UserModuleProgress{UserID: p.user.ID, ModuleID: seed.Module.ID, ProgressFields: fields}).Error)
		require.NoError(t, db.Create(&models.UserCourseProgress{UserID: p.user.ID, CourseID: seed.Course.ID, ProgressFields: fields}).Error)
	}
	return seed, done, half
}

func TestTrainingAreaNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.TrainingArea(context.Background(), 999, Filter{})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestTrainingAreaReport(t *testing.T) {
	svc, db := newTestService(t, nil)
	seed, done, _ := seedLearners(t, db)

	out, err := svc.TrainingArea(context.Background(), seed.Area.ID, Filter{})
	require.NoError(t, err)

	st := out.GeneralStats
	assert.Equal(t, int64(1), st.TotalModules)
	assert.Equal(t, int64(1), st.TotalCourses)
	assert.Equal(t, int64(2), st.EnrolledUsers)
	assert.Equal(t, int64(1), st.CompletedUsers)
	assert.Equal(t, int64(1), st.InProgressUsers)
	assert.Equal(t, 75.0, st.AverageCompletion)
	assert.Equal(t, 50.0, st.CompletionRate)

	require.Len(t, out.ModuleBreakdown, 1)
	assert.Equal(t, int64(2), out.ModuleBreakdown[0].Learners)
	require.Len(t, out.Filters.Modules, 1)
	assert.Equal(t, seed.Module.Name, out.Filters.Modules[0].Name)

	require.Len(t, out.DataTableRows, 2)
	assert.Equal(t, done.ID, out.DataTableRows[0].UserID)
	assert.Equal(t, int64(1), out.DataTableRows[0].CompletedModules)
	assert.Equal(t, learnerColumns, out.DataTableColumns)

	filtered, err := svc.TrainingArea(context.Background(), seed.Area.ID, Filter{Search: "HALF"})
	require.NoError(t, err)
	require.Len(t, filtered.DataTableRows, 1)
	assert.Equal(t, "half@example.com", filtered.DataTableRows[0].Email)
}

func TestFrontlinersScopedToSubAdmin(t *testing.T) {
	svc, db := newTestService(t, nil)
	_, done, half := seedLearners(t, db)

	lead := testutil.User(t, db, models.UserTypeSubAdmin, "lead@example.com")
	var sa models.SubAdmin
	require.NoError(t, db.Where("user_id = ?", lead.ID).First(&sa).Error)
	require.NoError(t, db.Model(&models.NormalUser{}).Where("user_id = ?", half.ID).Update("sub_admin_id", sa.ID).Error)

	all, err := svc.Frontliners(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.GeneralStats.TotalFrontliners)
	require.Len(t, all.DataTableRows, 2)
	assert.Equal(t, done.ID, all.DataTableRows[0].UserID)
	assert.Equal(t, 20, all.DataTableRows[0].XPPoints)
	assert.Equal(t, int64(1), all.GeneralStats.CoursesCompleted)

	scoped, err := svc.Frontliners(context.Background(), Filter{SubAdminID: &sa.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), scoped.GeneralStats.TotalFrontliners)
	require.Len(t, scoped.DataTableRows, 1)
	assert.Equal(t, half.ID, scoped.DataTableRows[0].UserID)
	assert.Equal(t, 50.0, scoped.GeneralStats.AverageCompletion)
}

func TestModuleBreakdownFollowsLearnerFilter(t *testing.T) {
	svc, db := newTestService(t, nil)
	seed, _, half := seedLearners(t, db)

	empty := testutil.User(t, db, models.UserTypeSubAdmin, "empty@example.com")
	var none models.SubAdmin
	require.NoError(t, db.Where("user_id = ?", empty.ID).First(&none).Error)

	out, err := svc.TrainingArea(context.Background(), seed.Area.ID, Filter{SubAdminID: &none.ID})
	require.NoError(t, err)
	require.Len(t, out.ModuleBreakdown, 1)
	assert.Zero(t, out.ModuleBreakdown[0].Learners)
	assert.Zero(t, out.ModuleBreakdown[0].CompletedUsers)
	assert.Zero(t, out.ModuleBreakdown[0].AverageCompletion)

	lead := testutil.User(t, db, models.UserTypeSubAdmin, "lead@example.com")
	var sa models.SubAdmin
	require.NoError(t, db.Where("user_id = ?", lead.ID).First(&sa).Error)
	require.NoError(t, db.Model(&models.NormalUser{}).Where("user_id = ?", half.ID).Update("sub_admin_id", sa.ID).Error)

	out, err = svc.TrainingArea(context.Background(), seed.Area.ID, Filter{SubAdminID: &sa.ID})
	require.NoError(t, err)
	require.Len(t, out.ModuleBreakdown, 1)
	assert.Equal(t, int64(1), out.ModuleBreakdown[0].Learners)
	assert.Zero(t, out.ModuleBreakdown[0].CompletedUsers)
	assert.Equal(t, 50.0, out.ModuleBreakdown[0].AverageCompletion)
}

func TestAssessmentsReport(t *testing.T) {
	svc, db := newTestService(t, nil)
	seed, done, half := seedLearners(t, db)

	areaID := seed.Area.ID
	a := models.Assessment{TrainingAreaID: &areaID, Title: "Final", IsCertification: true}
	require.NoError(t, db.Create(&a).Error)
	unused := models.Assessment{TrainingAreaID: &areaID, Title: "Unused"}
	require.NoError(t, db.Create(&unused).Error)
	require.NoError(t, db.Create(&models.AssessmentAttempt{UserID: done.ID, AssessmentID: a.ID, Score: 100, Passed: true}).Error)
	require.NoError(t, db.Create(&models.AssessmentAttempt{UserID: half.ID, AssessmentID: a.ID, Score: 40}).Error)

	out, err := svc.Assessments(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.GeneralStats.TotalAssessments)
	assert.Equal(t, int64(1), out.GeneralStats.CertificationCount)
	assert.Equal(t, int64(2), out.GeneralStats.TotalAttempts)
	assert.Equal(t, 50.0, out.GeneralStats.OverallPassRate)
	assert.Equal(t, 70.0, out.GeneralStats.AverageScore)

	require.Len(t, out.Assessments, 2)
	assert.Equal(t, "Final", out.Assessments[0].Title)
	assert.Equal(t, int64(2), out.Assessments[0].Participants)
	assert.Equal(t, 50.0, out.Assessments[0].PassRate)
	assert.Zero(t, out.Assessments[1].Attempts)
}

func TestOverviewIsCached(t *testing.T) {
	mem := &memoryCache{}
	svc, db := newTestService(t, mem)
	seedLearners(t, db)
	ctx := context.Background()

	first, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.GeneralStats.TotalUsers)
	assert.Equal(t, int64(2), first.GeneralStats.NewUsersThisMonth)
	assert.Equal(t, int64(1), first.GeneralStats.CompletedCourses)
	assert.Equal(t, 75.0, first.GeneralStats.AverageCompletion)
	require.Len(t, first.UserGrowth, 1)
	assert.Equal(t, int64(2), first.UserGrowth[0].TotalUsers)
	require.Len(t, first.TrainingAreaCompletion, 1)
	assert.Equal(t, int64(1), first.TrainingAreaCompletion[0].CompletedUsers)

	testutil.User(t, db, models.UserTypeUser, "late@example.com")
	cached, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.GeneralStats.TotalUsers)
	assert.Equal(t, 1, mem.sets)

	svc.InvalidateOverview(ctx)
	fresh, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.GeneralStats.TotalUsers)
}

func TestOverviewDroppedOnWrites(t *testing.T) {
	mem := &memoryCache{}
	svc, db := newTestService(t, mem)
	require.NoError(t, svc.InvalidateOnWrite(db))
	seed, done, _ := seedLearners(t, db)
	ctx := context.Background()

	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, mem.data, 1)

	// progress rows age out with the TTL
	require.NoError(t, db.Model(&models.UserCourseProgress{}).Where("user_id = ?", done.ID).Update("completion_percentage", 90).Error)
	assert.Len(t, mem.data, 1)

	testutil.User(t, db, models.UserTypeUser, "late@example.com")
	assert.Empty(t, mem.data)
	out, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.GeneralStats.TotalUsers)

	require.NoError(t, db.Model(&seed.Course).Update("name", "Renamed").Error)
	assert.Empty(t, mem.data)
	_, err = svc.Overview(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.LearningBlock{}, seed.Blocks[0].ID).Error)
	assert.Empty(t, mem.data)
}
