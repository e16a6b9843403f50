package training

import (
	"context"
	"net/http"
	"testing"

	"trainhub/models"
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
	return NewService(db), db
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestDeleteTrainingAreaCascades(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 2)
	learner := testutil.User(t, db, models.UserTypeUser, "learner@example.com")

	areaID := seed.Area.ID
	quiz := models.Assessment{TrainingAreaID: &areaID, Title: "Final"}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&models.Question{AssessmentID: quiz.ID, Text: "?", CorrectAnswer: "True"}).Error)
	require.NoError(t, db.Create(&models.UserCourseProgress{UserID: learner.ID, CourseID: seed.Course.ID}).Error)
	require.NoError(t, db.Create(&models.UserTrainingAreaProgress{UserID: learner.ID, TrainingAreaID: areaID}).Error)
	courseID := seed.Course.ID
	require.NoError(t, db.Create(&models.Certificate{UserID: learner.ID, Title: "Done", CertificateNumber: "CERT-1", CourseID: &courseID}).Error)

	require.NoError(t, svc.DeleteTrainingArea(ctx, areaID))

	assert.Zero(t, count(t, db, &models.TrainingArea{}, "id = ?", areaID))
	assert.Zero(t, count(t, db, &models.Module{}, "id = ?", seed.Module.ID))
	assert.Zero(t, count(t, db, &models.Course{}, "id = ?", seed.Course.ID))
	assert.Zero(t, count(t, db, &models.CourseUnit{}, "course_id = ?", seed.Course.ID))
	assert.Zero(t, count(t, db, &models.Assessment{}, "id = ?", quiz.ID))
	assert.Zero(t, count(t, db, &models.Question{}, "assessment_id = ?", quiz.ID))
	assert.Zero(t, count(t, db, &models.UserCourseProgress{}, "course_id = ?", seed.Course.ID))
	assert.Zero(t, count(t, db, &models.UserTrainingAreaProgress{}, "training_area_id = ?", areaID))

	// units are shared and outlive the course
	assert.Equal(t, int64(1), count(t, db, &models.Unit{}, "id = ?", seed.Unit.ID))

	var cert models.Certificate
	require.NoError(t, db.Where("certificate_number = ?", "CERT-1").First(&cert).Error)
	assert.Nil(t, cert.CourseID)

	assert.Equal(t, http.StatusNotFound, utils.StatusOf(svc.DeleteTrainingArea(ctx, areaID)))
}

func TestCreateModuleNeedsParent(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateModule(context.Background(), ModuleInput{TrainingAreaID: 99, Name: "Orphan"})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestUpdateKeepsMissingFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	area, err := svc.CreateTrainingArea(ctx, TrainingAreaInput{Name: "Hygiene", Description: "Keep clean"})
	require.NoError(t, err)
	assert.Equal(t, models.ContentDraft, area.Status)

	published := models.ContentPublished
	updated, err := svc.UpdateTrainingArea(ctx, area.ID, TrainingAreaUpdate{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, "Hygiene", updated.Name)
	assert.Equal(t, "Keep clean", updated.Description)
	assert.Equal(t, models.ContentPublished, updated.Status)
}

func TestCourseUnitsOrdering(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 0)
	courseID := seed.Course.ID

	second, err := svc.CreateUnit(ctx, UnitInput{Name: "Second", CourseID: &courseID})
	require.NoError(t, err)
	third, err := svc.CreateUnit(ctx, UnitInput{Name: "Third"})
	require.NoError(t, err)

	link, err := svc.AddCourseUnit(ctx, courseID, CourseUnitInput{UnitID: third.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, link.Order)

	_, err = svc.AddCourseUnit(ctx, courseID, CourseUnitInput{UnitID: third.ID})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	links, err := svc.ReorderCourseUnits(ctx, courseID, ReorderInput{UnitIDs: []uint{third.ID, seed.Unit.ID, second.ID}})
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, third.ID, links[0].UnitID)
	assert.Equal(t, seed.Unit.ID, links[1].UnitID)
	assert.Equal(t, second.ID, links[2].UnitID)

	_, err = svc.ReorderCourseUnits(ctx, courseID, ReorderInput{UnitIDs: []uint{third.ID, 999}})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	require.NoError(t, svc.RemoveCourseUnit(ctx, courseID, second.ID))
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(svc.RemoveCourseUnit(ctx, courseID, second.ID)))
	_, err = svc.GetUnit(ctx, second.ID)
	assert.NoError(t, err)
}

func TestLearningBlockDefaults(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 1)

	zero := 0
	block, err := svc.CreateLearningBlock(ctx, LearningBlockInput{
		UnitID: seed.Unit.ID, Type: models.BlockText, Title: "Summary", Content: "done", XPPoints: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, block.Order)
	assert.Equal(t, models.ContentPublished, block.Status)

	stored, err := svc.GetLearningBlock(ctx, block.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.XPPoints)

	_, err = svc.CreateLearningBlock(ctx, LearningBlockInput{UnitID: 404, Type: models.BlockText, Title: "Lost", Content: "x"})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestContentHidesDrafts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seed := testutil.SeedCourse(t, db, 2)
	require.NoError(t, db.Model(&seed.Blocks[1]).Update("status", models.ContentDraft).Error)

	all, err := svc.Content(ctx, seed.Course.ID, false)
	require.NoError(t, err)
	require.Len(t, all.Units, 1)
	assert.Len(t, all.Units[0].LearningBlocks, 2)

	published, err := svc.Content(ctx, seed.Course.ID, true)
	require.NoError(t, err)
	require.Len(t, published.Units, 1)
	assert.Len(t, published.Units[0].LearningBlocks, 1)

	_, err = svc.Content(ctx, 12345, true)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	require.NoError(t, db.Model(&seed.Course).Update("status", models.ContentDraft).Error)
	_, err = svc.Content(ctx, seed.Course.ID, true)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
	_, err = svc.Content(ctx, seed.Course.ID, false)
	assert.NoError(t, err)
}
