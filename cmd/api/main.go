// @title Class Quiz API
// @version 1.0
// @description School quiz backend: teachers author quizzes for their classes, students take them and compete on the leaderboard.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "classquiz/cmd/api/docs"
	"classquiz/internal/adapter"
	"classquiz/internal/cache"
	"classquiz/internal/config"
	"classquiz/internal/database"
	"classquiz/internal/domain"
	"classquiz/internal/handler"
	"classquiz/internal/logger"
	"classquiz/internal/middleware"
	"classquiz/internal/repository"
	"classquiz/internal/service"
	"classquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.Open(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db, cfg.DB.Driver); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	// Redis is optional. Without it quizzes are always assembled from the database.
	var quizStore domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		quizStore = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Info("Redis address not set, quiz cache disabled")
	}
	quizCache := service.NewQuizCacheService(quizStore, cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Quiz, service.DefaultQuizCacheTTL))

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	teacherRepository := repository.NewSQLXTeacherRepository(db)
	classRepository := repository.NewSQLXClassRepository(db)
	studentRepository := repository.NewSQLXStudentRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	leaderboardRepository := repository.NewSQLXLeaderboardRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	authService, err := service.NewAuthService(userRepository, teacherRepository, studentRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	adminService := service.NewAdminService(teacherRepository, userRepository, txManager, cfg.Auth.DefaultPassword)
	schoolService := service.NewSchoolService(classRepository, studentRepository, userRepository, txManager, cfg.Auth.DefaultPassword)
	quizService := service.NewQuizService(quizRepository, classRepository, leaderboardRepository, txManager, quizCache)
	leaderboardService := service.NewLeaderboardService(leaderboardRepository, quizRepository, classRepository, studentRepository)
	analyticsService := service.NewAnalyticsService(studentRepository, leaderboardRepository)

	// Initialize handlers
	vm := middleware.NewValidationMiddleware(validation.NewValidator())
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, vm),
		User:        handler.NewUserHandler(authService, vm),
		Admin:       handler.NewAdminHandler(adminService, vm),
		School:      handler.NewSchoolHandler(schoolService, vm),
		Quiz:        handler.NewQuizHandler(quizService, vm),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardService, analyticsService, vm),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return domain.NewInternalError("Database unavailable", err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(app.Group("/api"), authService, vm, handlers)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
