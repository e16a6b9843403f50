package progress

import (
	"context"
	"errors"
	"time"

	"trainhub/models"
	"trainhub/progression"
	"trainhub/services/common"
	"trainhub/services/gamification"
	"trainhub/services/training"
	"trainhub/utils"

	"gorm.io/gorm"
)

// BlockInput optionally names the course the block is taken in.
type BlockInput struct {
	CourseID *uint `json:"courseId" validate:"omitempty,min=1"`
}

type CompletionResult struct {
	Progress  models.UserLearningBlockProgress `json:"progress"`
	XPAwarded int                              `json:"xpAwarded"`
	Badges    []models.Badge                   `json:"badges"`
	Courses   []CourseUpdate                   `json:"courses"`
}

type Summary struct {
	UserID            uint                              `json:"userId"`
	XPPoints          int                               `json:"xpPoints"`
	CompletedBlocks   int64                             `json:"completedBlocks"`
	PassedAssessments int64                             `json:"passedAssessments"`
	Badges            []models.UserBadge                `json:"badges"`
	Certificates      int64                             `json:"certificates"`
	Enrollments       []models.CourseEnrollment         `json:"enrollments"`
	TrainingAreas     []models.UserTrainingAreaProgress `json:"trainingAreas"`
	Modules           []models.UserModuleProgress       `json:"modules"`
	Courses           []models.UserCourseProgress       `json:"courses"`
}

type CourseView struct {
	Course   models.Course             `json:"course"`
	Progress *models.UserCourseProgress `json:"progress"`
	Units    []models.UserUnitProgress `json:"units"`
	Items    []progression.Item        `json:"items"`
	Enrolled bool                      `json:"enrolled"`
}

type Service struct {
	db       *gorm.DB
	training *training.Service
}

func NewService(db *gorm.DB, trainingService *training.Service) *Service {
	return &Service{db: db, training: trainingService}
}

// Items linearizes the published content of a course with the user's state.
func (s *Service) Items(ctx context.Context, userID, courseID uint) ([]progression.Item, *training.CourseContent, error) {
	content, err := s.training.Content(ctx, courseID, true)
	if err != nil {
		return nil, nil, err
	}

	var blockIDs, assessmentIDs []uint
	for _, u := range content.Units {
		for _, b := range u.LearningBlocks {
			blockIDs = append(blockIDs, b.ID)
		}
		for _, a := range u.Assessments {
			assessmentIDs = append(assessmentIDs, a.ID)
		}
	}
	for _, a := range content.Assessments {
		assessmentIDs = append(assessmentIDs, a.ID)
	}

	doneBlocks := map[uint]bool{}
	if len(blockIDs) > 0 {
		var ids []uint
		if err := s.db.WithContext(ctx).Model(&models.UserLearningBlockProgress{}).
			Where("user_id = ? AND status = ? AND learning_block_id IN ?", userID, models.StatusCompleted, blockIDs).
			Pluck("learning_block_id", &ids).Error; err != nil {
			return nil, nil, err
		}
		for _, id := range ids {
			doneBlocks[id] = true
		}
	}
	passed := map[uint]bool{}
	if len(assessmentIDs) > 0 {
		var ids []uint
		if err := s.db.WithContext(ctx).Model(&models.AssessmentAttempt{}).
			Where("user_id = ? AND passed = ? AND assessment_id IN ?", userID, true, assessmentIDs).
			Distinct().Pluck("assessment_id", &ids).Error; err != nil {
			return nil, nil, err
		}
		for _, id := range ids {
			passed[id] = true
		}
	}

	toAssessments := func(list []models.Assessment) []progression.Assessment {
		out := make([]progression.Assessment, 0, len(list))
		for _, a := range list {
			out = append(out, progression.Assessment{ID: a.ID, Title: a.Title, Placement: a.Placement, Done: passed[a.ID]})
		}
		return out
	}

	c := progression.Course{Assessments: toAssessments(content.Assessments)}
	for _, u := range content.Units {
		pu := progression.Unit{ID: u.ID, Name: u.Name, Order: u.Order, Assessments: toAssessments(u.Assessments)}
		for _, b := range u.LearningBlocks {
			pu.Blocks = append(pu.Blocks, progression.Block{ID: b.ID, Title: b.Title, Order: b.Order, Done: doneBlocks[b.ID]})
		}
		c.Units = append(c.Units, pu)
	}
	return progression.Linearize(c), content, nil
}

// courseForBlock picks the course used for the unlock check: the requested
// one, or the only course containing the unit. Zero means no check.
func (s *Service) courseForBlock(ctx context.Context, block *models.LearningBlock, requested *uint) (uint, error) {
	if requested != nil {
		linked, err := common.Exists[models.CourseUnit](ctx, s.db, "course_id = ? AND unit_id = ?", *requested, block.UnitID)
		if err != nil {
			return 0, err
		}
		if !linked {
			return 0, utils.NotFound("Learning block is not part of this course")
		}
		return *requested, nil
	}
	var courseIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.CourseUnit{}).Where("unit_id = ?", block.UnitID).Pluck("course_id", &courseIDs).Error; err != nil {
		return 0, err
	}
	if len(courseIDs) == 1 {
		return courseIDs[0], nil
	}
	return 0, nil
}

func (s *Service) ensureUnlocked(ctx context.Context, userID uint, block *models.LearningBlock, requested *uint) error {
	courseID, err := s.courseForBlock(ctx, block, requested)
	if err != nil || courseID == 0 {
		return err
	}
	items, _, err := s.Items(ctx, userID, courseID)
	if err != nil {
		return err
	}
	i := progression.Find(items, progression.KindLearningBlock, block.ID)
	if i < 0 {
		return utils.NotFound("Learning block is not available")
	}
	if !progression.Accessible(items, i) {
		return utils.Forbidden("Complete the previous step first")
	}
	return nil
}

// courseForAssessment picks the course whose sequence contains the
// assessment. Unit assessments use the unit's course when the assessment
// names none and the unit sits in exactly one course. Zero means the
// assessment is outside any course sequence.
func (s *Service) courseForAssessment(ctx context.Context, a *models.Assessment) (uint, error) {
	if a.CourseID != nil {
		return *a.CourseID, nil
	}
	if a.UnitID == nil {
		return 0, nil
	}
	var courseIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.CourseUnit{}).Where("unit_id = ?", *a.UnitID).Pluck("course_id", &courseIDs).Error; err != nil {
		return 0, err
	}
	if len(courseIDs) == 1 {
		return courseIDs[0], nil
	}
	return 0, nil
}

// AssessmentUnlocked applies the course unlock rule to an assessment.
func (s *Service) AssessmentUnlocked(ctx context.Context, userID uint, a *models.Assessment) error {
	courseID, err := s.courseForAssessment(ctx, a)
	if err != nil || courseID == 0 {
		return err
	}
	items, _, err := s.Items(ctx, userID, courseID)
	if err != nil {
		return err
	}
	i := progression.Find(items, progression.KindAssessment, a.ID)
	if i < 0 {
		return utils.NotFound("Assessment is not available")
	}
	if !progression.Accessible(items, i) {
		return utils.Forbidden("Complete the previous step first")
	}
	return nil
}

func (s *Service) publishedBlock(ctx context.Context, id uint) (*models.LearningBlock, error) {
	block, err := common.FindByID[models.LearningBlock](ctx, s.db, id, "Learning block")
	if err != nil {
		return nil, err
	}
	if block.Status != models.ContentPublished {
		return nil, utils.NotFound("Learning block not found")
	}
	return block, nil
}

// StartBlock marks a block in progress unless it is already completed.
func (s *Service) StartBlock(ctx context.Context, userID, blockID uint, in BlockInput) (*models.UserLearningBlockProgress, error) {
	block, err := s.publishedBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnlocked(ctx, userID, block, in.CourseID); err != nil {
		return nil, err
	}

	var row models.UserLearningBlockProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(map[string]interface{}{"user_id": userID, "learning_block_id": blockID}).
			FirstOrInit(&row).Error; err != nil {
			return err
		}
		if row.Status == models.StatusCompleted {
			return nil
		}
		now := time.Now()
		row.Status = models.StatusInProgress
		if row.StartedAt == nil {
			row.StartedAt = &now
		}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		return tx.Model(&models.CourseEnrollment{}).
			Where("user_id = ? AND status = ? AND course_id IN (?)", userID, models.StatusNotStarted,
				tx.Model(&models.CourseUnit{}).Select("course_id").Where("unit_id = ?", block.UnitID)).
			Update("status", models.StatusInProgress).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CompleteBlock completes a block, awards its XP once and recomputes the
// progress of every level above it.
func (s *Service) CompleteBlock(ctx context.Context, userID, blockID uint, in BlockInput) (*CompletionResult, error) {
	block, err := s.publishedBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnlocked(ctx, userID, block, in.CourseID); err != nil {
		return nil, err
	}

	result := &CompletionResult{Badges: []models.Badge{}}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := &result.Progress
		if err := tx.Where(map[string]interface{}{"user_id": userID, "learning_block_id": blockID}).
			FirstOrInit(row).Error; err != nil {
			return err
		}
		firstCompletion := row.Status != models.StatusCompleted
		apply(&row.ProgressFields, 100, now)
		if firstCompletion && row.XPEarned == 0 {
			row.XPEarned = block.XPPoints
			result.XPAwarded = block.XPPoints
		}
		if err := tx.Save(row).Error; err != nil {
			return err
		}

		if result.XPAwarded > 0 {
			badges, err := gamification.AwardXP(tx, userID, result.XPAwarded)
			if err != nil {
				return err
			}
			result.Badges = badges
		}

		courses, err := recalculate(tx, userID, block.UnitID, now)
		if err != nil {
			return err
		}
		result.Courses = courses
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Enroll registers the user on a published course.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint) (*models.CourseEnrollment, error) {
	course, err := common.FindByID[models.Course](ctx, s.db, courseID, "Course")
	if err != nil {
		return nil, err
	}
	if course.Status != models.ContentPublished {
		return nil, utils.BadRequest("Course is not published")
	}
	enrolled, err := common.Exists[models.CourseEnrollment](ctx, s.db, "user_id = ? AND course_id = ?", userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, utils.Conflict("Already enrolled in this course")
	}

	e := models.CourseEnrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     models.StatusNotStarted,
		EnrolledAt: time.Now(),
	}
	var cp models.UserCourseProgress
	err = s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&cp).Error
	if err == nil {
		e.Status = cp.Status
		e.ProgressPercentage = cp.CompletionPercentage
		e.CompletedAt = cp.CompletedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) Enrollments(ctx context.Context, userID uint) ([]models.CourseEnrollment, error) {
	var rows []models.CourseEnrollment
	err := s.db.WithContext(ctx).Preload("Course").Where("user_id = ?", userID).Order("enrolled_at desc").Find(&rows).Error
	return rows, err
}

// Course returns the learner's view of one course.
func (s *Service) Course(ctx context.Context, userID, courseID uint) (*CourseView, error) {
	items, content, err := s.Items(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	view := &CourseView{Course: content.Course, Items: items, Units: []models.UserUnitProgress{}}
	if view.Items == nil {
		view.Items = []progression.Item{}
	}

	var cp models.UserCourseProgress
	err = s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&cp).Error
	if err == nil {
		view.Progress = &cp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).Find(&view.Units).Error; err != nil {
		return nil, err
	}
	view.Enrolled, err = common.Exists[models.CourseEnrollment](ctx, s.db, "user_id = ? AND course_id = ?", userID, courseID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Summary aggregates a user's progress across the platform.
func (s *Service) Summary(ctx context.Context, userID uint) (*Summary, error) {
	u, err := common.FindByID[models.User](ctx, s.db, userID, "User")
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	out := &Summary{UserID: u.ID, XPPoints: u.XPPoints}

	if err := db.Model(&models.UserLearningBlockProgress{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).Count(&out.CompletedBlocks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.AssessmentAttempt{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Distinct("assessment_id").Count(&out.PassedAssessments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Certificate{}).Where("user_id = ?", userID).Count(&out.Certificates).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Badge").Where("user_id = ?", userID).Order("awarded_at asc").Find(&out.Badges).Error; err != nil {
		return nil, err
	}
	if out.Enrollments, err = s.Enrollments(ctx, userID); err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).Order("training_area_id asc").Find(&out.TrainingAreas).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).Order("module_id asc").Find(&out.Modules).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).Order("course_id asc").Find(&out.Courses).Error; err != nil {
		return nil, err
	}
	return out, nil
}
