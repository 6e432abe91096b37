package app

import (
	"context"
	"corp_lms_backend/internal/config"
	"corp_lms_backend/internal/controller"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/service"
	"corp_lms_backend/pkg/database"
	"corp_lms_backend/pkg/logger"
	"corp_lms_backend/pkg/monitoring"
	"corp_lms_backend/pkg/security"
	"corp_lms_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	quiz         *repository.QuizRepository
	submission   *repository.SubmissionRepository
	completion   *repository.CompletionRepository
	resetRequest *repository.ResetRequestRepository
	notification *repository.NotificationRepository
	learningPath *repository.LearningPathRepository
	liveSession  *repository.LiveSessionRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	course       *service.CourseService
	quiz         *service.QuizService
	submission   *service.SubmissionService
	grading      *service.GradingService
	reset        *service.ResetService
	completion   *service.CompletionService
	learningPath *service.LearningPathService
	liveSession  *service.LiveSessionService
	notification *service.NotificationService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	quiz         *controller.QuizController
	submission   *controller.SubmissionController
	grading      *controller.GradingController
	reset        *controller.ResetController
	completion   *controller.CompletionController
	learningPath *controller.LearningPathController
	liveSession  *controller.LiveSessionController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig applies a hot-reloaded config. Only settings read per-request
// pick up the change; listeners that need to react register a callback.
func (a *App) ReloadConfig(cfg *config.Config) {
	*a.Config = *cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		quiz:         repository.NewQuizRepository(db),
		submission:   repository.NewSubmissionRepository(db),
		completion:   repository.NewCompletionRepository(db, rdb),
		resetRequest: repository.NewResetRequestRepository(db),
		notification: repository.NewNotificationRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		liveSession:  repository.NewLiveSessionRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.course = service.NewCourseService(repos.course, s.storage)
	s.quiz = service.NewQuizService(repos.quiz, repos.course)
	s.submission = service.NewSubmissionService(repos.submission, repos.quiz, repos.completion)
	s.grading = service.NewGradingService(repos.submission, repos.quiz, repos.completion, repos.notification)
	s.reset = service.NewResetService(repos.resetRequest, repos.course, repos.completion)
	s.completion = service.NewCompletionService(repos.completion, repos.quiz, repos.learningPath, repos.resetRequest, repos.submission)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.course)
	s.liveSession = service.NewLiveSessionService(repos.liveSession, repos.course)
	s.notification = service.NewNotificationService(repos.notification)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course),
		quiz:         controller.NewQuizController(s.quiz),
		submission:   controller.NewSubmissionController(s.submission),
		grading:      controller.NewGradingController(s.grading),
		reset:        controller.NewResetController(s.reset),
		completion:   controller.NewCompletionController(s.completion),
		learningPath: controller.NewLearningPathController(s.learningPath),
		liveSession:  controller.NewLiveSessionController(s.liveSession),
		notification: controller.NewNotificationController(s.notification),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis is a cache here, not a dependency the app cannot live without.
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("corp-lms", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
