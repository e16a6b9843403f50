package server

import (
	"time"

	"trainhub/cache"
	"trainhub/config"
	aiController "trainhub/controllers/ai"
	assessmentController "trainhub/controllers/assessment"
	authController "trainhub/controllers/auth"
	gamificationController "trainhub/controllers/gamification"
	mediaController "trainhub/controllers/media"
	notificationController "trainhub/controllers/notification"
	progressController "trainhub/controllers/progress"
	reportController "trainhub/controllers/report"
	taxonomyController "trainhub/controllers/taxonomy"
	trainingController "trainhub/controllers/training"
	userController "trainhub/controllers/userControllers"
	"trainhub/logger"
	"trainhub/middleware"
	aiRoutes "trainhub/routers/aiRoutes"
	assessmentRoutes "trainhub/routers/assessmentRoutes"
	authRoutes "trainhub/routers/authRoutes"
	gamificationRoutes "trainhub/routers/gamificationRoutes"
	mediaRoutes "trainhub/routers/mediaRoutes"
	notificationRoutes "trainhub/routers/notificationRoutes"
	progressRoutes "trainhub/routers/progressRoutes"
	reportRoutes "trainhub/routers/reportRoutes"
	taxonomyRoutes "trainhub/routers/taxonomyRoutes"
	trainingRoutes "trainhub/routers/trainingRoutes"
	userRoutes "trainhub/routers/userRoutes"
	"trainhub/services/ai"
	"trainhub/services/assessment"
	"trainhub/services/common"
	"trainhub/services/gamification"
	"trainhub/services/media"
	"trainhub/services/notification"
	"trainhub/services/progress"
	"trainhub/services/report"
	"trainhub/services/taxonomy"
	"trainhub/services/training"
	"trainhub/services/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Services holds one instance of every domain service.
type Services struct {
	Users         *user.Service
	Taxonomy      *taxonomy.Service
	Training      *training.Service
	Assessments   *assessment.Service
	Progress      *progress.Service
	Media         *media.Service
	Reports       *report.Service
	Gamification  *gamification.Service
	Notifications *notification.Service
	AI            *ai.Service
}

func NewServices(db *gorm.DB, cfg *config.Config, log *logger.Logger, c cache.Cache, mailer common.Mailer) *Services {
	trainingSvc := training.NewService(db)
	progressSvc := progress.NewService(db, trainingSvc)
	reportSvc := report.NewService(db, c, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second, log)
	if err := reportSvc.InvalidateOnWrite(db); err != nil {
		log.Warn("report cache invalidation not registered", "error", err)
	}
	return &Services{
		Users:         user.NewService(db, mailer, cfg),
		Taxonomy:      taxonomy.NewService(db),
		Training:      trainingSvc,
		Assessments:   assessment.NewService(db, mailer, cfg, progressSvc),
		Progress:      progressSvc,
		Media:         media.NewService(db, cfg, log),
		Reports:       reportSvc,
		Gamification:  gamification.NewService(db),
		Notifications: notification.NewService(db),
		AI:            ai.NewService(db, cfg, log),
	}
}

// New builds the fiber app with every route mounted under /api.
func New(cfg *config.Config, log *logger.Logger, db *gorm.DB, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "TrainHub API",
		ErrorHandler: middleware.ErrorHandler(log),
		BodyLimit:    media.MaxUploadSize + 1<<20,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if cfg.LogMode != "test" {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	// Uploaded media
	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	auth := middleware.JWTMiddleware(db)
	api := app.Group("/api")
	authRoutes.SetupAuthRoutes(api, authController.New(svc.Users), auth)
	userRoutes.SetupUserRoutes(api, userController.New(svc.Users), auth)
	taxonomyRoutes.SetupTaxonomyRoutes(api, taxonomyController.New(svc.Taxonomy), auth)
	trainingRoutes.SetupTrainingRoutes(api, trainingController.New(svc.Training), auth)
	assessmentRoutes.SetupAssessmentRoutes(api, assessmentController.New(svc.Assessments), auth)
	progressRoutes.SetupProgressRoutes(api, progressController.New(svc.Progress, svc.Users), auth)
	mediaRoutes.SetupMediaRoutes(api, mediaController.New(svc.Media), auth)
	reportRoutes.SetupReportRoutes(api, reportController.New(svc.Reports, svc.Users), auth)
	gamificationRoutes.SetupGamificationRoutes(api, gamificationController.New(svc.Gamification, svc.Users), auth)
	notificationRoutes.SetupNotificationRoutes(api, notificationController.New(svc.Notifications), auth)
	aiRoutes.SetupAIRoutes(api, aiController.New(svc.AI), auth)

	return app
}
