package report

import (
	"context"

	"trainhub/models"
	"trainhub/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Filter narrows the learner set a report aggregates over. SubAdminID limits
// the rows to frontliners managed by that sub admin.
type Filter struct {
	AssetID        *uint  `query:"assetId"`
	RoleID         *uint  `query:"roleId"`
	TrainingAreaID *uint  `query:"trainingAreaId"`
	Search         string `query:"search"`
	SubAdminID     *uint  `query:"-"`
}

// learners restricts a query that aliases users as u.
func (f Filter) learners(q *gorm.DB) *gorm.DB {
	if f.AssetID != nil {
		q = q.Where("u.asset_id = ?", *f.AssetID)
	}
	if f.RoleID != nil {
		q = q.Where("u.role_id = ?", *f.RoleID)
	}
	if f.SubAdminID != nil {
		q = q.Where("u.id IN (SELECT user_id FROM normal_users WHERE sub_admin_id = ?)", *f.SubAdminID)
	}
	return q
}

// Training area report

type TrainingAreaFilters struct {
	Modules []Option `json:"modules"`
	Courses []Option `json:"courses"`
	Assets  []Option `json:"assets"`
	Roles   []Option `json:"roles"`
}

type TrainingAreaStats struct {
	TotalModules       int64   `json:"totalModules"`
	TotalCourses       int64   `json:"totalCourses"`
	TotalAssessments   int64   `json:"totalAssessments"`
	EnrolledUsers      int64   `json:"enrolledUsers"`
	CompletedUsers     int64   `json:"completedUsers"`
	InProgressUsers    int64   `json:"inProgressUsers"`
	AverageCompletion  float64 `json:"averageCompletion"`
	CompletionRate     float64 `json:"completionRate"`
	CertificatesIssued int64   `json:"certificatesIssued"`
	AssessmentPassRate float64 `json:"assessmentPassRate"`
}

type ModuleBreakdown struct {
	ModuleID          uint    `json:"moduleId"`
	Name              string  `json:"name"`
	Learners          int64   `json:"learners"`
	CompletedUsers    int64   `json:"completedUsers"`
	AverageCompletion float64 `json:"averageCompletion"`
}

type LearnerRow struct {
	UserID               uint    `json:"userId"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Asset                string  `json:"asset"`
	Role                 string  `json:"role"`
	CompletionPercentage float64 `json:"completionPercentage"`
	Status               string  `json:"status"`
	CompletedModules     int64   `json:"completedModules"`
}

type TrainingAreaReport struct {
	TrainingArea     models.TrainingArea `json:"trainingArea"`
	Filters          TrainingAreaFilters `json:"filters"`
	GeneralStats     TrainingAreaStats   `json:"generalStats"`
	ModuleBreakdown  []ModuleBreakdown   `json:"moduleBreakdown"`
	DataTableColumns []Column            `json:"dataTableColumns"`
	DataTableRows    []LearnerRow        `json:"dataTableRows"`
}

var learnerColumns = []Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "asset", Label: "Asset"},
	{Key: "role", Label: "Role"},
	{Key: "completedModules", Label: "Completed Modules"},
	{Key: "completionPercentage", Label: "Completion %"},
	{Key: "status", Label: "Status"},
}

// TrainingArea reports learner progress inside one training area.
func (s *Service) TrainingArea(ctx context.Context, id uint, f Filter) (*TrainingAreaReport, error) {
	area, err := ensureTrainingArea(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	out := &TrainingAreaReport{TrainingArea: *area, DataTableColumns: learnerColumns}
	st := &out.GeneralStats
	moduleIDs := func() *gorm.DB {
		return s.db.Model(&models.Module{}).Select("id").Where("training_area_id = ?", id)
	}
	courseIDs := func() *gorm.DB {
		return s.db.Model(&models.Course{}).Select("id").Where("module_id IN (?)", moduleIDs())
	}

	progress := func(ctx context.Context) *gorm.DB {
		return f.learners(s.db.WithContext(ctx).Table("user_training_area_progress AS p").
			Joins("JOIN users u ON u.id = p.user_id").
			Where("p.training_area_id = ?", id))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.options(gctx, &models.Module{}, &out.Filters.Modules, "training_area_id = ?", id))
	g.Go(s.options(gctx, &models.Course{}, &out.Filters.Courses, "module_id IN (?)", moduleIDs()))
	g.Go(s.options(gctx, &models.Asset{}, &out.Filters.Assets, ""))
	g.Go(s.options(gctx, &models.Role{}, &out.Filters.Roles, ""))
	g.Go(s.count(gctx, &models.Module{}, &st.TotalModules, "training_area_id = ?", id))
	g.Go(s.count(gctx, &models.Course{}, &st.TotalCourses, "module_id IN (?)", moduleIDs()))
	g.Go(s.count(gctx, &models.Assessment{}, &st.TotalAssessments,
		"(training_area_id = ? OR module_id IN (?) OR course_id IN (?))", id, moduleIDs(), courseIDs()))
	g.Go(func() error {
		return f.learners(s.db.WithContext(gctx).Table("certificates AS c").
			Joins("JOIN users u ON u.id = c.user_id").
			Where("(c.training_area_id = ? OR c.course_id IN (?))", id, courseIDs())).
			Count(&st.CertificatesIssued).Error
	})
	g.Go(func() error {
		var agg struct {
			Enrolled   int64
			Completed  int64
			InProgress int64
			Average    float64
		}
		err := progress(gctx).Select(`COUNT(*) AS enrolled,
			COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(AVG(p.completion_percentage), 0) AS average`,
			models.StatusCompleted, models.StatusInProgress).Scan(&agg).Error
		if err != nil {
			return err
		}
		st.EnrolledUsers = agg.Enrolled
		st.CompletedUsers = agg.Completed
		st.InProgressUsers = agg.InProgress
		st.AverageCompletion = utils.Round2(agg.Average)
		st.CompletionRate = utils.Percentage(agg.Completed, agg.Enrolled)
		return nil
	})
	g.Go(func() error {
		var agg struct {
			Attempts int64
			Passed   int64
		}
		err := f.learners(s.db.WithContext(gctx).Table("assessment_attempts AS t").
			Joins("JOIN assessments a ON a.id = t.assessment_id").
			Joins("JOIN users u ON u.id = t.user_id").
			Where("(a.training_area_id = ? OR a.module_id IN (?) OR a.course_id IN (?))", id, moduleIDs(), courseIDs())).
			Select("COUNT(*) AS attempts, COALESCE(SUM(CASE WHEN t.passed THEN 1 ELSE 0 END), 0) AS passed").
			Scan(&agg).Error
		if err != nil {
			return err
		}
		st.AssessmentPassRate = utils.Percentage(agg.Passed, agg.Attempts)
		return nil
	})
	g.Go(func() error {
		scoped := f.learners(s.db.Table("user_module_progress AS ump").
			Select("ump.id, ump.module_id, ump.status, ump.completion_percentage").
			Joins("JOIN users u ON u.id = ump.user_id"))
		return s.db.WithContext(gctx).Table("modules AS m").
			Select(`m.id AS module_id, m.name AS name,
				COUNT(mp.id) AS learners,
				COALESCE(SUM(CASE WHEN mp.status = ? THEN 1 ELSE 0 END), 0) AS completed_users,
				COALESCE(AVG(mp.completion_percentage), 0) AS average_completion`, models.StatusCompleted).
			Joins("LEFT JOIN (?) mp ON mp.module_id = m.id", scoped).
			Where("m.training_area_id = ?", id).
			Group("m.id, m.name").Order("m.name asc").
			Scan(&out.ModuleBreakdown).Error
	})
	g.Go(func() error {
		q := progress(gctx).
			Select(`u.id AS user_id, u.name AS name, u.email AS email,
				COALESCE(a.name, '') AS asset, COALESCE(r.name, '') AS role,
				p.completion_percentage AS completion_percentage, p.status AS status,
				(SELECT COUNT(*) FROM user_module_progress mp JOIN modules m ON m.id = mp.module_id
				 WHERE mp.user_id = u.id AND m.training_area_id = ? AND mp.status = ?) AS completed_modules`,
				id, models.StatusCompleted).
			Joins("LEFT JOIN assets a ON a.id = u.asset_id").
			Joins("LEFT JOIN roles r ON r.id = u.role_id")
		if f.Search != "" {
			like := "%" + f.Search + "%"
			q = q.Where("(LOWER(u.name) LIKE LOWER(?) OR LOWER(u.email) LIKE LOWER(?))", like, like)
		}
		return q.Order("p.completion_percentage desc, u.name asc").Scan(&out.DataTableRows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out.ModuleBreakdown {
		out.ModuleBreakdown[i].AverageCompletion = utils.Round2(out.ModuleBreakdown[i].AverageCompletion)
	}
	if out.ModuleBreakdown == nil {
		out.ModuleBreakdown = []ModuleBreakdown{}
	}
	if out.DataTableRows == nil {
		out.DataTableRows = []LearnerRow{}
	}
	return out, nil
}

// Frontliner report

type FrontlinerFilters struct {
	Assets          []Option `json:"assets"`
	Roles           []Option `json:"roles"`
	SeniorityLevels []Option `json:"seniorityLevels"`
	TrainingAreas   []Option `json:"trainingAreas"`
}

type FrontlinerStats struct {
	TotalFrontliners   int64   `json:"totalFrontliners"`
	ActiveFrontliners  int64   `json:"activeFrontliners"`
	AverageXP          float64 `json:"averageXp"`
	AverageCompletion  float64 `json:"averageCompletion"`
	CoursesCompleted   int64   `json:"coursesCompleted"`
	CertificatesIssued int64   `json:"certificatesIssued"`
	BadgesAwarded      int64   `json:"badgesAwarded"`
}

type FrontlinerRow struct {
	UserID            uint    `json:"userId"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	EID               string  `json:"eid" gorm:"column:eid"`
	Asset             string  `json:"asset"`
	Role              string  `json:"role"`
	XPPoints          int     `json:"xpPoints" gorm:"column:xp_points"`
	CoursesEnrolled   int64   `json:"coursesEnrolled"`
	CoursesCompleted  int64   `json:"coursesCompleted"`
	AverageCompletion float64 `json:"averageCompletion"`
	Certificates      int64   `json:"certificates"`
	Badges            int64   `json:"badges"`
}

type FrontlinerReport struct {
	Filters          FrontlinerFilters `json:"filters"`
	GeneralStats     FrontlinerStats   `json:"generalStats"`
	DataTableColumns []Column          `json:"dataTableColumns"`
	DataTableRows    []FrontlinerRow   `json:"dataTableRows"`
}

var frontlinerColumns = []Column{
	{Key: "name", Label: "Name"},
	{Key: "eid", Label: "EID"},
	{Key: "asset", Label: "Asset"},
	{Key: "role", Label: "Role"},
	{Key: "xpPoints", Label: "XP"},
	{Key: "coursesEnrolled", Label: "Enrolled"},
	{Key: "coursesCompleted", Label: "Completed"},
	{Key: "averageCompletion", Label: "Avg. Completion %"},
	{Key: "certificates", Label: "Certificates"},
	{Key: "badges", Label: "Badges"},
}

// Frontliners reports per learner engagement.
func (s *Service) Frontliners(ctx context.Context, f Filter) (*FrontlinerReport, error) {
	out := &FrontlinerReport{DataTableColumns: frontlinerColumns}
	st := &out.GeneralStats

	users := func(ctx context.Context) *gorm.DB {
		q := f.learners(s.db.WithContext(ctx).Table("users AS u").Where("u.user_type = ?", models.UserTypeUser))
		if f.TrainingAreaID != nil {
			q = q.Where("u.id IN (SELECT user_id FROM user_training_area_progress WHERE training_area_id = ?)", *f.TrainingAreaID)
		}
		return q
	}
	scoped := func(ctx context.Context) *gorm.DB { return users(ctx).Select("u.id") }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.options(gctx, &models.Asset{}, &out.Filters.Assets, ""))
	g.Go(s.options(gctx, &models.Role{}, &out.Filters.Roles, ""))
	g.Go(s.options(gctx, &models.SeniorityLevel{}, &out.Filters.SeniorityLevels, ""))
	g.Go(s.options(gctx, &models.TrainingArea{}, &out.Filters.TrainingAreas, ""))
	g.Go(func() error {
		var agg struct {
			Total     int64
			Active    int64
			AverageXP float64 `gorm:"column:average_xp"`
		}
		err := users(gctx).Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN u.is_active THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(AVG(u.xp_points), 0) AS average_xp`).Scan(&agg).Error
		if err != nil {
			return err
		}
		st.TotalFrontliners = agg.Total
		st.ActiveFrontliners = agg.Active
		st.AverageXP = utils.Round2(agg.AverageXP)
		return nil
	})
	g.Go(func() error {
		var avg float64
		if err := s.db.WithContext(gctx).Model(&models.UserCourseProgress{}).
			Select("COALESCE(AVG(completion_percentage), 0)").
			Where("user_id IN (?)", scoped(gctx)).Row().Scan(&avg); err != nil {
			return err
		}
		st.AverageCompletion = utils.Round2(avg)
		return nil
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.UserCourseProgress{}).
			Where("status = ? AND user_id IN (?)", models.StatusCompleted, scoped(gctx)).
			Count(&st.CoursesCompleted).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Certificate{}).
			Where("user_id IN (?)", scoped(gctx)).Count(&st.CertificatesIssued).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.UserBadge{}).
			Where("user_id IN (?)", scoped(gctx)).Count(&st.BadgesAwarded).Error
	})
	g.Go(func() error {
		q := users(gctx).
			Select(`u.id AS user_id, u.name AS name, u.email AS email, COALESCE(u.eid, '') AS eid,
				COALESCE(a.name, '') AS asset, COALESCE(r.name, '') AS role, u.xp_points AS xp_points,
				(SELECT COUNT(*) FROM course_enrollments ce WHERE ce.user_id = u.id) AS courses_enrolled,
				(SELECT COUNT(*) FROM user_course_progress cp WHERE cp.user_id = u.id AND cp.status = ?) AS courses_completed,
				(SELECT COALESCE(AVG(cp.completion_percentage), 0) FROM user_course_progress cp WHERE cp.user_id = u.id) AS average_completion,
				(SELECT COUNT(*) FROM certificates c WHERE c.user_id = u.id) AS certificates,
				(SELECT COUNT(*) FROM user_badges b WHERE b.user_id = u.id) AS badges`, models.StatusCompleted).
			Joins("LEFT JOIN assets a ON a.id = u.asset_id").
			Joins("LEFT JOIN roles r ON r.id = u.role_id")
		if f.Search != "" {
			like := "%" + f.Search + "%"
			q = q.Where("(LOWER(u.name) LIKE LOWER(?) OR LOWER(u.email) LIKE LOWER(?) OR LOWER(u.eid) LIKE LOWER(?))", like, like, like)
		}
		return q.Order("u.xp_points desc, u.name asc").Scan(&out.DataTableRows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out.DataTableRows {
		out.DataTableRows[i].AverageCompletion = utils.Round2(out.DataTableRows[i].AverageCompletion)
	}
	if out.DataTableRows == nil {
		out.DataTableRows = []FrontlinerRow{}
	}
	return out, nil
}

// Assessment report

type AssessmentFilters struct {
	TrainingAreas []Option `json:"trainingAreas"`
	Assets        []Option `json:"assets"`
	Roles         []Option `json:"roles"`
}

type AssessmentStats struct {
	TotalAssessments       int64   `json:"totalAssessments"`
	CertificationCount     int64   `json:"certificationAssessments"`
	TotalAttempts          int64   `json:"totalAttempts"`
	UniqueParticipants     int64   `json:"uniqueParticipants"`
	OverallPassRate        float64 `json:"overallPassRate"`
	AverageScore           float64 `json:"averageScore"`
	CertificatesFromPasses int64   `json:"certificatesIssued"`
}

type AssessmentRow struct {
	AssessmentID    uint    `json:"assessmentId"`
	Title           string  `json:"title"`
	IsCertification bool    `json:"isCertification"`
	Attempts        int64   `json:"attempts"`
	Participants    int64   `json:"participants"`
	Passed          int64   `json:"passed"`
	PassRate        float64 `json:"passRate"`
	AverageScore    float64 `json:"averageScore"`
}

type AssessmentReport struct {
	Filters      AssessmentFilters `json:"filters"`
	GeneralStats AssessmentStats   `json:"generalStats"`
	Assessments  []AssessmentRow   `json:"assessments"`
}

// Assessments reports attempt outcomes per assessment.
func (s *Service) Assessments(ctx context.Context, f Filter) (*AssessmentReport, error) {
	out := &AssessmentReport{}
	st := &out.GeneralStats

	assessments := func(ctx context.Context) *gorm.DB {
		q := s.db.WithContext(ctx).Table("assessments AS a")
		if f.TrainingAreaID != nil {
			modules := s.db.Model(&models.Module{}).Select("id").Where("training_area_id = ?", *f.TrainingAreaID)
			courses := s.db.Model(&models.Course{}).Select("id").Where("module_id IN (?)", modules)
			q = q.Where("(a.training_area_id = ? OR a.module_id IN (?) OR a.course_id IN (?))", *f.TrainingAreaID, modules, courses)
		}
		if f.Search != "" {
			q = q.Where("LOWER(a.title) LIKE LOWER(?)", "%"+f.Search+"%")
		}
		return q
	}
	attempts := func(ctx context.Context) *gorm.DB {
		return f.learners(s.db.WithContext(ctx).Table("assessment_attempts AS t").
			Joins("JOIN users u ON u.id = t.user_id").
			Where("t.assessment_id IN (?)", assessments(ctx).Select("a.id")))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.options(gctx, &models.TrainingArea{}, &out.Filters.TrainingAreas, ""))
	g.Go(s.options(gctx, &models.Asset{}, &out.Filters.Assets, ""))
	g.Go(s.options(gctx, &models.Role{}, &out.Filters.Roles, ""))
	g.Go(func() error { return assessments(gctx).Count(&st.TotalAssessments).Error })
	g.Go(func() error {
		return assessments(gctx).Where("a.is_certification = ?", true).Count(&st.CertificationCount).Error
	})
	g.Go(func() error {
		var agg struct {
			Attempts     int64
			Participants int64
			Passed       int64
			AverageScore float64
		}
		err := attempts(gctx).Select(`COUNT(*) AS attempts, COUNT(DISTINCT t.user_id) AS participants,
			COALESCE(SUM(CASE WHEN t.passed THEN 1 ELSE 0 END), 0) AS passed,
			COALESCE(AVG(t.score), 0) AS average_score`).Scan(&agg).Error
		if err != nil {
			return err
		}
		st.TotalAttempts = agg.Attempts
		st.UniqueParticipants = agg.Participants
		st.OverallPassRate = utils.Percentage(agg.Passed, agg.Attempts)
		st.AverageScore = utils.Round2(agg.AverageScore)
		return nil
	})
	g.Go(func() error {
		return f.learners(s.db.WithContext(gctx).Table("certificates AS c").
			Joins("JOIN users u ON u.id = c.user_id").
			Where("c.assessment_id IN (?)", assessments(gctx).Select("a.id"))).
			Count(&st.CertificatesFromPasses).Error
	})
	g.Go(func() error {
		stats := attempts(gctx).Select(`t.assessment_id AS assessment_id, COUNT(*) AS attempts,
			COUNT(DISTINCT t.user_id) AS participants,
			SUM(CASE WHEN t.passed THEN 1 ELSE 0 END) AS passed,
			AVG(t.score) AS average_score`).Group("t.assessment_id")
		return assessments(gctx).
			Select(`a.id AS assessment_id, a.title AS title, a.is_certification AS is_certification,
				COALESCE(st.attempts, 0) AS attempts, COALESCE(st.participants, 0) AS participants,
				COALESCE(st.passed, 0) AS passed, COALESCE(st.average_score, 0) AS average_score`).
			Joins("LEFT JOIN (?) st ON st.assessment_id = a.id", stats).
			Order("attempts desc, a.title asc").
			Scan(&out.Assessments).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out.Assessments {
		row := &out.Assessments[i]
		row.PassRate = utils.Percentage(row.Passed, row.Attempts)
		row.AverageScore = utils.Round2(row.AverageScore)
	}
	if out.Assessments == nil {
		out.Assessments = []AssessmentRow{}
	}
	return out, nil
}
