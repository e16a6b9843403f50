package report

import (
	"context"
	"errors"
	"time"

	"trainhub/cache"
	"trainhub/logger"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const overviewCacheKey = "reports:overview"

// Option is a dropdown entry.
type Option struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Column describes one data table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Service struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewService(db *gorm.DB, c cache.Cache, ttl time.Duration, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{db: db, cache: c, ttl: ttl, log: log}
}

func (s *Service) count(ctx context.Context, model interface{}, dst *int64, query string, args ...interface{}) func() error {
	return func() error {
		q := s.db.WithContext(ctx).Model(model)
		if query != "" {
			q = q.Where(query, args...)
		}
		return q.Count(dst).Error
	}
}

func (s *Service) options(ctx context.Context, model interface{}, dst *[]Option, query string, args ...interface{}) func() error {
	return func() error {
		q := s.db.WithContext(ctx).Model(model).Select("id, name")
		if query != "" {
			q = q.Where(query, args...)
		}
		if err := q.Order("name asc").Scan(dst).Error; err != nil {
			return err
		}
		if *dst == nil {
			*dst = []Option{}
		}
		return nil
	}
}

// monthBucket returns the SQL expression grouping created_at by month.
func (s *Service) monthBucket() string {
	if s.db.Dialector.Name() == "postgres" {
		return "to_char(date_trunc('month', created_at), 'YYYY-MM')"
	}
	return "strftime('%Y-%m', created_at)"
}

// Overview

type OverviewStats struct {
	TotalUsers         int64   `json:"totalUsers"`
	ActiveUsers        int64   `json:"activeUsers"`
	TotalFrontliners   int64   `json:"totalFrontliners"`
	TotalSubAdmins     int64   `json:"totalSubAdmins"`
	NewUsersThisMonth  int64   `json:"newUsersThisMonth"`
	TotalTrainingAreas int64   `json:"totalTrainingAreas"`
	TotalModules       int64   `json:"totalModules"`
	TotalCourses       int64   `json:"totalCourses"`
	TotalUnits         int64   `json:"totalUnits"`
	TotalLearningBlock int64   `json:"totalLearningBlocks"`
	TotalAssessments   int64   `json:"totalAssessments"`
	TotalCertificates  int64   `json:"totalCertificates"`
	TotalEnrollments   int64   `json:"totalEnrollments"`
	CompletedCourses   int64   `json:"completedCourses"`
	AverageCompletion  float64 `json:"averageCompletion"`
}

type GrowthPoint struct {
	Period     string `json:"period"`
	NewUsers   int64  `json:"newUsers"`
	TotalUsers int64  `json:"totalUsers"`
}

type AreaCompletion struct {
	TrainingAreaID    uint    `json:"trainingAreaId"`
	Name              string  `json:"name"`
	Learners          int64   `json:"learners"`
	CompletedUsers    int64   `json:"completedUsers"`
	AverageCompletion float64 `json:"averageCompletion"`
}

type AssetCount struct {
	AssetID uint   `json:"assetId"`
	Name    string `json:"name"`
	Users   int64  `json:"users"`
}

type Overview struct {
	GeneralStats           OverviewStats    `json:"generalStats"`
	UserGrowth             []GrowthPoint    `json:"userGrowth"`
	TrainingAreaCompletion []AreaCompletion `json:"trainingAreaCompletion"`
	UsersByAsset           []AssetCount     `json:"usersByAsset"`
	GeneratedAt            time.Time        `json:"generatedAt"`
}

// Overview returns platform wide statistics, served from cache when fresh.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var cached Overview
	if err := s.cache.Get(ctx, overviewCacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("report cache read failed", "error", err)
	}

	out, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, overviewCacheKey, out, s.ttl); err != nil {
		s.log.Warn("report cache write failed", "error", err)
	}
	return out, nil
}

// InvalidateOverview drops the cached overview.
func (s *Service) InvalidateOverview(ctx context.Context) {
	if err := s.cache.Delete(ctx, overviewCacheKey); err != nil {
		s.log.Warn("report cache delete failed", "error", err)
	}
}

func (s *Service) buildOverview(ctx context.Context) (*Overview, error) {
	out := &Overview{GeneratedAt: time.Now()}
	st := &out.GeneralStats
	monthStart := now.BeginningOfMonth()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.count(gctx, &models.User{}, &st.TotalUsers, ""))
	g.Go(s.count(gctx, &models.User{}, &st.ActiveUsers, "is_active = ?", true))
	g.Go(s.count(gctx, &models.User{}, &st.TotalFrontliners, "user_type = ?", models.UserTypeUser))
	g.Go(s.count(gctx, &models.User{}, &st.TotalSubAdmins, "user_type = ?", models.UserTypeSubAdmin))
	g.Go(s.count(gctx, &models.User{}, &st.NewUsersThisMonth, "created_at >= ?", monthStart))
	g.Go(s.count(gctx, &models.TrainingArea{}, &st.TotalTrainingAreas, ""))
	g.Go(s.count(gctx, &models.Module{}, &st.TotalModules, ""))
	g.Go(s.count(gctx, &models.Course{}, &st.TotalCourses, ""))
	g.Go(s.count(gctx, &models.Unit{}, &st.TotalUnits, ""))
	g.Go(s.count(gctx, &models.LearningBlock{}, &st.TotalLearningBlock, ""))
	g.Go(s.count(gctx, &models.Assessment{}, &st.TotalAssessments, ""))
	g.Go(s.count(gctx, &models.Certificate{}, &st.TotalCertificates, ""))
	g.Go(s.count(gctx, &models.CourseEnrollment{}, &st.TotalEnrollments, ""))
	g.Go(s.count(gctx, &models.UserCourseProgress{}, &st.CompletedCourses, "status = ?", models.StatusCompleted))
	g.Go(func() error {
		var avg float64
		if err := s.db.WithContext(gctx).Model(&models.UserCourseProgress{}).
			Select("COALESCE(AVG(completion_percentage), 0)").Row().Scan(&avg); err != nil {
			return err
		}
		st.AverageCompletion = utils.Round2(avg)
		return nil
	})
	g.Go(func() error {
		growth, err := s.userGrowth(gctx, 12)
		out.UserGrowth = growth
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Table("training_areas AS ta").
			Select(`ta.id AS training_area_id, ta.name AS name,
				COUNT(p.id) AS learners,
				SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END) AS completed_users,
				COALESCE(AVG(p.completion_percentage), 0) AS average_completion`, models.StatusCompleted).
			Joins("LEFT JOIN user_training_area_progress p ON p.training_area_id = ta.id").
			Group("ta.id, ta.name").Order("ta.name asc").
			Scan(&out.TrainingAreaCompletion).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Table("assets AS a").
			Select("a.id AS asset_id, a.name AS name, COUNT(u.id) AS users").
			Joins("LEFT JOIN users u ON u.asset_id = a.id").
			Group("a.id, a.name").Order("users desc, a.name asc").
			Scan(&out.UsersByAsset).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out.TrainingAreaCompletion {
		out.TrainingAreaCompletion[i].AverageCompletion = utils.Round2(out.TrainingAreaCompletion[i].AverageCompletion)
	}
	if out.TrainingAreaCompletion == nil {
		out.TrainingAreaCompletion = []AreaCompletion{}
	}
	if out.UsersByAsset == nil {
		out.UsersByAsset = []AssetCount{}
	}
	return out, nil
}

// userGrowth buckets sign-ups per month over the last months and carries a
// running total that includes users created before the window.
func (s *Service) userGrowth(ctx context.Context, months int) ([]GrowthPoint, error) {
	start := now.New(time.Now().AddDate(0, -(months - 1), 0)).BeginningOfMonth()

	var baseline int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("created_at < ?", start).Count(&baseline).Error; err != nil {
		return nil, err
	}

	bucket := s.monthBucket()
	var points []GrowthPoint
	err := s.db.WithContext(ctx).Raw(`
		SELECT period, new_users, CAST(SUM(new_users) OVER (ORDER BY period) AS BIGINT) AS total_users
		FROM (
			SELECT `+bucket+` AS period, COUNT(*) AS new_users
			FROM users
			WHERE created_at >= ?
			GROUP BY `+bucket+`
		) growth
		ORDER BY period`, start).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	for i := range points {
		points[i].TotalUsers += baseline
	}
	if points == nil {
		points = []GrowthPoint{}
	}
	return points, nil
}

func ensureTrainingArea(ctx context.Context, db *gorm.DB, id uint) (*models.TrainingArea, error) {
	return common.FindByID[models.TrainingArea](ctx, db, id, "Training area")
}
