package assessment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"trainhub/config"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/services/email"
	"trainhub/services/gamification"
	"trainhub/services/notification"
	"trainhub/services/training"
	"trainhub/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultMaxRetakes = 3
	defaultXPPoints   = 50
)

type AssessmentInput struct {
	TrainingAreaID  *uint                `json:"trainingAreaId" validate:"omitempty,min=1"`
	ModuleID        *uint                `json:"moduleId" validate:"omitempty,min=1"`
	CourseID        *uint                `json:"courseId" validate:"omitempty,min=1"`
	UnitID          *uint                `json:"unitId" validate:"omitempty,min=1"`
	Title           string               `json:"title" validate:"required,min=2,max=200"`
	Description     string               `json:"description" validate:"max=5000"`
	Placement       string               `json:"placement" validate:"omitempty,oneof=beginning end"`
	IsCertification bool                 `json:"isCertification"`
	PassingScore    *int                 `json:"passingScore" validate:"omitempty,min=0,max=100"`
	MaxRetakes      *int                 `json:"maxRetakes" validate:"omitempty,min=0"`
	TimeLimit       *int                 `json:"timeLimit" validate:"omitempty,min=1"`
	XPPoints        *int                 `json:"xpPoints" validate:"omitempty,min=0"`
	Status          models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type AssessmentUpdate struct {
	TrainingAreaID  *uint                 `json:"trainingAreaId" validate:"omitempty,min=1"`
	ModuleID        *uint                 `json:"moduleId" validate:"omitempty,min=1"`
	CourseID        *uint                 `json:"courseId" validate:"omitempty,min=1"`
	UnitID          *uint                 `json:"unitId" validate:"omitempty,min=1"`
	Title           *string               `json:"title" validate:"omitempty,min=2,max=200"`
	Description     *string               `json:"description" validate:"omitempty,max=5000"`
	Placement       *string               `json:"placement" validate:"omitempty,oneof=beginning end"`
	IsCertification *bool                 `json:"isCertification"`
	PassingScore    *int                  `json:"passingScore" validate:"omitempty,min=0,max=100"`
	MaxRetakes      *int                  `json:"maxRetakes" validate:"omitempty,min=0"`
	TimeLimit       *int                  `json:"timeLimit" validate:"omitempty,min=1"`
	XPPoints        *int                  `json:"xpPoints" validate:"omitempty,min=0"`
	Status          *models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type ListFilter struct {
	TrainingAreaID  uint                 `query:"trainingAreaId"`
	ModuleID        uint                 `query:"moduleId"`
	CourseID        uint                 `query:"courseId"`
	UnitID          uint                 `query:"unitId"`
	IsCertification *bool                `query:"isCertification"`
	Status          models.ContentStatus `query:"status" validate:"omitempty,oneof=draft published archived"`
}

type QuestionInput struct {
	Text          string   `json:"text" validate:"required,min=2"`
	Type          string   `json:"type" validate:"omitempty,oneof=mcq true_false"`
	Options       []string `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Explanation   string   `json:"explanation"`
	Order         *int     `json:"order" validate:"omitempty,min=0"`
}

type QuestionUpdate struct {
	Text          *string  `json:"text" validate:"omitempty,min=2"`
	Type          *string  `json:"type" validate:"omitempty,oneof=mcq true_false"`
	Options       []string `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswer *string  `json:"correctAnswer" validate:"omitempty,min=1"`
	Explanation   *string  `json:"explanation"`
	Order         *int     `json:"order" validate:"omitempty,min=0"`
}

type SubmitInput struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

type AttemptFilter struct {
	UserID uint `query:"userId"`
}

// Detail is an assessment with its questions, answers included.
type Detail struct {
	models.Assessment
	Questions []models.Question `json:"questions"`
}

// PublicQuestion hides the answer from learners.
type PublicQuestion struct {
	ID      uint           `json:"id"`
	Text    string         `json:"text"`
	Type    string         `json:"type"`
	Options datatypes.JSON `json:"options"`
	Order   int            `json:"order"`
}

type LearnerDetail struct {
	models.Assessment
	Questions    []PublicQuestion `json:"questions"`
	AttemptsUsed int64            `json:"attemptsUsed"`
	AttemptsLeft *int             `json:"attemptsLeft"`
	Passed       bool             `json:"passed"`
	BestScore    int              `json:"bestScore"`
}

type AttemptResult struct {
	Attempt        models.AssessmentAttempt `json:"attempt"`
	Score          int                      `json:"score"`
	Passed         bool                     `json:"passed"`
	PassingScore   int                      `json:"passingScore"`
	CorrectCount   int                      `json:"correctCount"`
	TotalQuestions int                      `json:"totalQuestions"`
	XPAwarded      int                      `json:"xpAwarded"`
	AttemptsLeft   *int                     `json:"attemptsLeft"`
	Badges         []models.Badge           `json:"badges"`
	Certificate    *models.Certificate      `json:"certificate,omitempty"`
}

// Gate decides whether a learner has reached an assessment in the course
// sequence it belongs to.
type Gate interface {
	AssessmentUnlocked(ctx context.Context, userID uint, a *models.Assessment) error
}

type Service struct {
	db     *gorm.DB
	mailer common.Mailer
	cfg    *config.Config
	gate   Gate
}

func NewService(db *gorm.DB, mailer common.Mailer, cfg *config.Config, gate Gate) *Service {
	return &Service{db: db, mailer: mailer, cfg: cfg, gate: gate}
}

func (s *Service) ensureParents(ctx context.Context, trainingAreaID, moduleID, courseID, unitID *uint) error {
	if err := common.EnsureOptional[models.TrainingArea](ctx, s.db, trainingAreaID, "Training area"); err != nil {
		return err
	}
	if err := common.EnsureOptional[models.Module](ctx, s.db, moduleID, "Module"); err != nil {
		return err
	}
	if err := common.EnsureOptional[models.Course](ctx, s.db, courseID, "Course"); err != nil {
		return err
	}
	return common.EnsureOptional[models.Unit](ctx, s.db, unitID, "Unit")
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Assessment, error) {
	q := s.db.WithContext(ctx)
	if f.TrainingAreaID > 0 {
		q = q.Where("training_area_id = ?", f.TrainingAreaID)
	}
	if f.ModuleID > 0 {
		q = q.Where("module_id = ?", f.ModuleID)
	}
	if f.CourseID > 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.UnitID > 0 {
		q = q.Where("unit_id = ?", f.UnitID)
	}
	if f.IsCertification != nil {
		q = q.Where("is_certification = ?", *f.IsCertification)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []models.Assessment
	err := q.Order("id asc").Find(&rows).Error
	return rows, err
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Assessment, error) {
	return common.FindByID[models.Assessment](ctx, s.db, id, "Assessment")
}

// published loads an assessment a learner may open: it must be published,
// as must the module or training area it hangs off.
func (s *Service) published(ctx context.Context, id uint) (*models.Assessment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.ContentPublished {
		return nil, utils.NotFound("Assessment not found")
	}
	if a.ModuleID != nil {
		ok, err := common.Exists[models.Module](ctx, s.db, "id = ? AND status = ?", *a.ModuleID, models.ContentPublished)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, utils.NotFound("Assessment not found")
		}
	}
	if a.TrainingAreaID != nil {
		ok, err := common.Exists[models.TrainingArea](ctx, s.db, "id = ? AND status = ?", *a.TrainingAreaID, models.ContentPublished)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, utils.NotFound("Assessment not found")
		}
	}
	return a, nil
}

// available is published plus the course unlock rule.
func (s *Service) available(ctx context.Context, userID, id uint) (*models.Assessment, error) {
	a, err := s.published(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.gate != nil {
		if err := s.gate.AssessmentUnlocked(ctx, userID, a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (s *Service) questions(ctx context.Context, assessmentID uint) ([]models.Question, error) {
	var rows []models.Question
	err := s.db.WithContext(ctx).Where("assessment_id = ?", assessmentID).Order("sort_order asc, id asc").Find(&rows).Error
	if rows == nil {
		rows = []models.Question{}
	}
	return rows, err
}

func (s *Service) Detail(ctx context.Context, id uint) (*Detail, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	qs, err := s.questions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Assessment: *a, Questions: qs}, nil
}

// LearnerView returns the assessment without answers plus the user's attempt state.
// Locked assessments are refused with 403.
func (s *Service) LearnerView(ctx context.Context, id, userID uint) (*LearnerDetail, error) {
	a, err := s.available(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	qs, err := s.questions(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Assessment: *a, Questions: qs}
	out := &LearnerDetail{Assessment: d.Assessment, Questions: make([]PublicQuestion, 0, len(d.Questions))}
	for _, q := range d.Questions {
		out.Questions = append(out.Questions, PublicQuestion{ID: q.ID, Text: q.Text, Type: q.Type, Options: q.Options, Order: q.Order})
	}

	var stats struct {
		Used   int64
		Best   *int
		Passed int64
	}
	err = s.db.WithContext(ctx).Model(&models.AssessmentAttempt{}).
		Select("COUNT(*) AS used, MAX(score) AS best, COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0) AS passed").
		Where("assessment_id = ? AND user_id = ?", id, userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	out.AttemptsUsed = stats.Used
	out.AttemptsLeft = AttemptsLeft(&d.Assessment, stats.Used)
	out.Passed = stats.Passed > 0
	if stats.Best != nil {
		out.BestScore = *stats.Best
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in AssessmentInput) (*models.Assessment, error) {
	if in.TrainingAreaID == nil && in.ModuleID == nil && in.CourseID == nil && in.UnitID == nil {
		return nil, utils.BadRequest("Validation failed!", "one of trainingAreaId, moduleId, courseId or unitId is required")
	}
	if err := s.ensureParents(ctx, in.TrainingAreaID, in.ModuleID, in.CourseID, in.UnitID); err != nil {
		return nil, err
	}

	row := models.Assessment{
		TrainingAreaID:  in.TrainingAreaID,
		ModuleID:        in.ModuleID,
		CourseID:        in.CourseID,
		UnitID:          in.UnitID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Placement:       in.Placement,
		IsCertification: in.IsCertification,
		PassingScore:    in.PassingScore,
		MaxRetakes:      defaultMaxRetakes,
		TimeLimit:       in.TimeLimit,
		XPPoints:        defaultXPPoints,
		Status:          in.Status,
	}
	if row.Placement == "" {
		row.Placement = models.PlacementEnd
	}
	if row.Status == "" {
		row.Status = models.ContentPublished
	}
	if in.MaxRetakes != nil {
		row.MaxRetakes = *in.MaxRetakes
	}
	if in.XPPoints != nil {
		row.XPPoints = *in.XPPoints
	}

	// zero values are skipped on insert and would pick up the column default
	zeroes := map[string]interface{}{}
	if row.MaxRetakes == 0 {
		zeroes["max_retakes"] = 0
	}
	if row.XPPoints == 0 {
		zeroes["xp_points"] = 0
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(zeroes) > 0 {
			return tx.Model(&row).Updates(zeroes).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id uint, in AssessmentUpdate) (*models.Assessment, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureParents(ctx, in.TrainingAreaID, in.ModuleID, in.CourseID, in.UnitID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "training_area_id", in.TrainingAreaID)
	utils.SetIfPresent(updates, "module_id", in.ModuleID)
	utils.SetIfPresent(updates, "course_id", in.CourseID)
	utils.SetIfPresent(updates, "unit_id", in.UnitID)
	utils.SetIfPresent(updates, "title", in.Title)
	utils.SetIfPresent(updates, "description", in.Description)
	utils.SetIfPresent(updates, "placement", in.Placement)
	utils.SetIfPresent(updates, "is_certification", in.IsCertification)
	utils.SetIfPresent(updates, "passing_score", in.PassingScore)
	utils.SetIfPresent(updates, "max_retakes", in.MaxRetakes)
	utils.SetIfPresent(updates, "time_limit", in.TimeLimit)
	utils.SetIfPresent(updates, "xp_points", in.XPPoints)
	utils.SetIfPresent(updates, "status", in.Status)
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the assessment with its questions and attempts.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := common.EnsureExists[models.Assessment](ctx, s.db, id, "Assessment"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return training.DeleteAssessments(tx, []uint{id})
	})
}

// Questions

func (s *Service) ListQuestions(ctx context.Context, assessmentID uint) ([]models.Question, error) {
	if err := common.EnsureExists[models.Assessment](ctx, s.db, assessmentID, "Assessment"); err != nil {
		return nil, err
	}
	return s.questions(ctx, assessmentID)
}

// normalizeOptions fills true/false options and checks the answer is one of them.
func normalizeOptions(questionType string, options []string, answer string) ([]string, error) {
	if questionType == models.QuestionTrueFalse {
		if len(options) == 0 {
			options = []string{"true", "false"}
		}
	} else if len(options) < 2 {
		return nil, utils.BadRequest("Validation failed!", "options must contain at least 2 choices for mcq questions")
	}
	for _, o := range options {
		if sameAnswer(o, answer) {
			return options, nil
		}
	}
	return nil, utils.BadRequest("Validation failed!", "correctAnswer must be one of the options")
}

func marshalOptions(options []string) (datatypes.JSON, error) {
	b, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (s *Service) CreateQuestion(ctx context.Context, assessmentID uint, in QuestionInput) (*models.Question, error) {
	if err := common.EnsureExists[models.Assessment](ctx, s.db, assessmentID, "Assessment"); err != nil {
		return nil, err
	}
	qType := in.Type
	if qType == "" {
		qType = models.QuestionMCQ
	}
	options, err := normalizeOptions(qType, in.Options, in.CorrectAnswer)
	if err != nil {
		return nil, err
	}
	raw, err := marshalOptions(options)
	if err != nil {
		return nil, err
	}

	row := models.Question{
		AssessmentID:  assessmentID,
		Text:          strings.TrimSpace(in.Text),
		Type:          qType,
		Options:       raw,
		CorrectAnswer: strings.TrimSpace(in.CorrectAnswer),
		Explanation:   in.Explanation,
	}
	if in.Order != nil {
		row.Order = *in.Order
	} else {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Question{}).Where("assessment_id = ?", assessmentID).Count(&count).Error; err != nil {
			return nil, err
		}
		row.Order = int(count) + 1
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, id uint, in QuestionUpdate) (*models.Question, error) {
	row, err := common.FindByID[models.Question](ctx, s.db, id, "Question")
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	utils.SetIfPresent(updates, "text", in.Text)
	utils.SetIfPresent(updates, "type", in.Type)
	utils.SetIfPresent(updates, "correct_answer", in.CorrectAnswer)
	utils.SetIfPresent(updates, "explanation", in.Explanation)
	utils.SetIfPresent(updates, "sort_order", in.Order)

	if in.Type != nil || in.Options != nil || in.CorrectAnswer != nil {
		qType := row.Type
		if in.Type != nil {
			qType = *in.Type
		}
		options := in.Options
		if options == nil {
			_ = json.Unmarshal(row.Options, &options)
		}
		answer := row.CorrectAnswer
		if in.CorrectAnswer != nil {
			answer = *in.CorrectAnswer
		}
		options, err = normalizeOptions(qType, options, answer)
		if err != nil {
			return nil, err
		}
		raw, err := marshalOptions(options)
		if err != nil {
			return nil, err
		}
		updates["options"] = raw
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return common.FindByID[models.Question](ctx, s.db, id, "Question")
}

func (s *Service) DeleteQuestion(ctx context.Context, id uint) error {
	row, err := common.FindByID[models.Question](ctx, s.db, id, "Question")
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(row).Error
}

// Attempts

// Submit scores an attempt. The first passing attempt awards the assessment
// XP, and for certification assessments issues a certificate. The attempt
// count and the earlier-pass check run under a lock on the user row so
// concurrent submissions are serialized.
func (s *Service) Submit(ctx context.Context, userID, assessmentID uint, in SubmitInput) (*AttemptResult, error) {
	a, err := s.available(ctx, userID, assessmentID)
	if err != nil {
		return nil, err
	}

	qs, err := s.questions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	correct, score := Score(qs, in.Answers)
	passed := Passed(a, score)

	answers, err := json.Marshal(in.Answers)
	if err != nil {
		return nil, err
	}

	result := &AttemptResult{
		Score:          score,
		Passed:         passed,
		PassingScore:   PassMark(a),
		CorrectCount:   correct,
		TotalQuestions: len(qs),
		Badges:         []models.Badge{},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holder models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&holder, userID).Error; err != nil {
			return err
		}

		var used int64
		if err := tx.Model(&models.AssessmentAttempt{}).
			Where("assessment_id = ? AND user_id = ?", assessmentID, userID).Count(&used).Error; err != nil {
			return err
		}
		if a.MaxRetakes > 0 && used >= int64(a.MaxRetakes) {
			return utils.Forbidden("Maximum number of attempts reached")
		}
		var passedBefore int64
		if err := tx.Model(&models.AssessmentAttempt{}).
			Where("assessment_id = ? AND user_id = ? AND passed = ?", assessmentID, userID, true).
			Count(&passedBefore).Error; err != nil {
			return err
		}
		result.AttemptsLeft = AttemptsLeft(a, used+1)

		result.Attempt = models.AssessmentAttempt{
			UserID:        userID,
			AssessmentID:  assessmentID,
			Score:         score,
			Passed:        passed,
			Answers:       datatypes.JSON(answers),
			AttemptNumber: int(used) + 1,
			CompletedAt:   time.Now(),
		}
		if err := tx.Create(&result.Attempt).Error; err != nil {
			return err
		}
		if !passed || passedBefore > 0 {
			return nil
		}

		badges, err := gamification.AwardXP(tx, userID, a.XPPoints)
		if err != nil {
			return err
		}
		result.XPAwarded = a.XPPoints
		result.Badges = badges

		if err := notification.Notify(tx, userID, notification.TypeAssessment,
			"Assessment passed", "You passed \""+a.Title+"\" with a score of "+utils.Itoa(uint(score))+"."); err != nil {
			return err
		}

		if a.IsCertification {
			cert, err := gamification.IssueCertificate(tx, userID, a.Title, a.CourseID, a.TrainingAreaID, &a.ID)
			if err != nil {
				return err
			}
			result.Certificate = cert
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Certificate != nil {
		var u models.User
		if err := s.db.WithContext(ctx).Select("id", "name", "email").First(&u, userID).Error; err == nil {
			s.mailer.Dispatch(email.TypeCertificateIssued, u.Email, u.Name, map[string]interface{}{
				"Name":              u.Name,
				"Title":             result.Certificate.Title,
				"CertificateNumber": result.Certificate.CertificateNumber,
				"ExpiresAt":         result.Certificate.ExpiresAt.Format("02 Jan 2006"),
			})
		}
	}
	return result, nil
}

// ListAttempts returns the caller's attempts; staff may see everyone's.
func (s *Service) ListAttempts(ctx context.Context, actor common.Actor, assessmentID uint, f AttemptFilter) ([]models.AssessmentAttempt, error) {
	if err := common.EnsureExists[models.Assessment](ctx, s.db, assessmentID, "Assessment"); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("assessment_id = ?", assessmentID)
	if actor.IsAdmin() || actor.IsSubAdmin() {
		if f.UserID > 0 {
			q = q.Where("user_id = ?", f.UserID)
		}
	} else {
		q = q.Where("user_id = ?", actor.ID)
	}
	var rows []models.AssessmentAttempt
	err := q.Order("completed_at desc, id desc").Find(&rows).Error
	return rows, err
}
