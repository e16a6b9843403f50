package progress

import (
	"context"
	"net/http"
	"testing"

	"trainhub/models"
	"trainhub/progression"
	"trainhub/services/training"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	testutil.Config(t)
	db := testutil.DB(t)
	return NewService(db, training.NewService(db)), db
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want models.ProgressStatus
	}{
		{0, models.StatusNotStarted},
		{0.01, models.StatusInProgress},
		{99.99, models.StatusInProgress},
		{100, models.StatusCompleted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.pct), "pct %v", tt.pct)
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil, 0))
	assert.Equal(t, 33.33, Mean([]float64{100}, 3))
	assert.Equal(t, 50.0, Mean([]float64{100, 0}, 2))
	assert.Equal(t, 66.67, Mean([]float64{100, 100}, 3))
}

func TestCompleteBlockRecalculatesHierarchy(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 2)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	_, err := svc.Enroll(ctx, learner.ID, seed.Course.ID)
	require.NoError(t, err)

	res, err := svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)
	assert.Equal(t, 10, res.XPAwarded)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, 50.0, res.Courses[0].UnitPercentage)
	assert.Equal(t, 50.0, res.Courses[0].CompletionPercentage)
	assert.Equal(t, models.StatusInProgress, res.Courses[0].Status)

	var enrollment models.CourseEnrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", learner.ID, seed.Course.ID).First(&enrollment).Error)
	assert.Equal(t, models.StatusInProgress, enrollment.Status)
	assert.Equal(t, 50.0, enrollment.ProgressPercentage)

	res, err = svc.CompleteBlock(ctx, learner.ID, seed.Blocks[1].ID, BlockInput{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Courses[0].CompletionPercentage)
	assert.Equal(t, models.StatusCompleted, res.Courses[0].Status)

	var area models.UserTrainingAreaProgress
	require.NoError(t, db.Where("user_id = ? AND training_area_id = ?", learner.ID, seed.Area.ID).First(&area).Error)
	assert.Equal(t, models.StatusCompleted, area.Status)
	assert.NotNil(t, area.CompletedAt)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", learner.ID, seed.Course.ID).First(&enrollment).Error)
	assert.Equal(t, models.StatusCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestDraftContentDoesNotCountTowardsProgress(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	draftUnit := models.Unit{Name: "Advanced", Status: models.ContentDraft}
	require.NoError(t, db.Create(&draftUnit).Error)
	require.NoError(t, db.Create(&models.CourseUnit{CourseID: seed.Course.ID, UnitID: draftUnit.ID, Order: 2}).Error)
	require.NoError(t, db.Create(&models.LearningBlock{UnitID: draftUnit.ID, Type: models.BlockText, Title: "Hidden", Content: "x", Order: 1, Status: models.ContentPublished}).Error)

	draftCourse := models.Course{ModuleID: seed.Module.ID, Name: "Coming soon", Status: models.ContentDraft}
	require.NoError(t, db.Create(&draftCourse).Error)

	res, err := svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, 100.0, res.Courses[0].CompletionPercentage)
	assert.Equal(t, models.StatusCompleted, res.Courses[0].Status)

	var module models.UserModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", learner.ID, seed.Module.ID).First(&module).Error)
	assert.Equal(t, 100.0, module.CompletionPercentage)

	var area models.UserTrainingAreaProgress
	require.NoError(t, db.Where("user_id = ? AND training_area_id = ?", learner.ID, seed.Area.ID).First(&area).Error)
	assert.Equal(t, models.StatusCompleted, area.Status)
}

func TestDraftCourseCannotBeWalked(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")
	require.NoError(t, db.Model(&seed.Course).Update("status", models.ContentDraft).Error)

	_, err := svc.Course(ctx, learner.ID, seed.Course.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
	_, err = svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{CourseID: &seed.Course.ID})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestCompleteBlockAwardsXPOnce(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	first, err := svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)
	assert.Equal(t, 10, first.XPAwarded)

	again, err := svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)
	assert.Zero(t, again.XPAwarded)

	var u models.User
	require.NoError(t, db.First(&u, learner.ID).Error)
	assert.Equal(t, 10, u.XPPoints)
}

func TestLockedBlockIsRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 2)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	_, err := svc.StartBlock(ctx, learner.ID, seed.Blocks[1].ID, BlockInput{})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
	_, err = svc.CompleteBlock(ctx, learner.ID, seed.Blocks[1].ID, BlockInput{})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	started, err := svc.StartBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, started.Status)
	assert.NotNil(t, started.StartedAt)
}

func TestBeginningAssessmentGatesBlocks(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	courseID := seed.Course.ID
	pre := models.Assessment{CourseID: &courseID, Title: "Pre-check", Placement: models.PlacementBeginning, Status: models.ContentPublished}
	require.NoError(t, db.Create(&pre).Error)

	_, err := svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	require.NoError(t, db.Create(&models.AssessmentAttempt{UserID: learner.ID, AssessmentID: pre.ID, Score: 100, Passed: true, AttemptNumber: 1}).Error)
	_, err = svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	assert.NoError(t, err)
}

func TestBlockCourseMustContainUnit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	other := models.Course{ModuleID: seed.Module.ID, Name: "Other", Status: models.ContentPublished}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.StartBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{CourseID: &other.ID})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestDraftBlockIsHidden(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")
	require.NoError(t, db.Model(&seed.Blocks[0]).Update("status", models.ContentDraft).Error)

	_, err := svc.StartBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestEnroll(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	draft := models.Course{ModuleID: seed.Module.ID, Name: "Draft", Status: models.ContentDraft}
	require.NoError(t, db.Create(&draft).Error)
	_, err := svc.Enroll(ctx, learner.ID, draft.ID)
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	_, err = svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)

	e, err := svc.Enroll(ctx, learner.ID, seed.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, e.Status)
	assert.Equal(t, 100.0, e.ProgressPercentage)

	_, err = svc.Enroll(ctx, learner.ID, seed.Course.ID)
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	list, err := svc.Enrollments(ctx, learner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Course)
	assert.Equal(t, seed.Course.Name, list[0].Course.Name)
}

func TestCourseView(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 2)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	view, err := svc.Course(ctx, learner.ID, seed.Course.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Nil(t, view.Progress)
	assert.True(t, view.Items[0].Accessible)
	assert.False(t, view.Items[1].Accessible)

	_, err = svc.CompleteBlock(ctx, learner.ID, seed.Blocks[0].ID, BlockInput{})
	require.NoError(t, err)

	view, err = svc.Course(ctx, learner.ID, seed.Course.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Progress)
	assert.Equal(t, progression.KindLearningBlock, view.Items[1].Kind)
	assert.True(t, view.Items[0].Done)
	assert.True(t, view.Items[1].Accessible)
	assert.Len(t, view.Units, 1)

	summary, err := svc.Summary(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.CompletedBlocks)
	assert.Equal(t, 10, summary.XPPoints)
	assert.Len(t, summary.Courses, 1)
}
