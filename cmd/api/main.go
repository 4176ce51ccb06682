package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/config"
	"glauniversity/ats-matcher/internal/handlers"
	applog "glauniversity/ats-matcher/internal/logger"
	"glauniversity/ats-matcher/internal/repositories"
	"glauniversity/ats-matcher/internal/secrets"
	"glauniversity/ats-matcher/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := applog.New(applog.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug, Service: "ats-matcher"})
	if err != nil {
		stdlog.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	ctx := context.Background()

	apiKey, err := secrets.Source{
		Name:  "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	}.Load()
	if err != nil {
		log.Fatal("❌ Failed to load Gemini API key", zap.Error(err))
	}

	client, err := services.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	scoringModel := services.NewGeminiService(client, cfg.Gemini.ScoringModel, cfg.Gemini.EmbedModel, log)
	analysisModel := services.NewGeminiService(client, cfg.Gemini.AnalysisModel, cfg.Gemini.EmbedModel, log)
	log.Info("✅ Gemini AI initialized successfully",
		zap.String("scoring_model", scoringModel.Model()),
		zap.String("analysis_model", analysisModel.Model()),
	)

	hasher, err := services.NewPasswordHasher(cfg.Auth.HashAlgorithm)
	if err != nil {
		log.Fatal("❌ Failed to initialize password hasher", zap.Error(err))
	}

	var (
		credentials services.CredentialStore
		runs        repositories.RankingRepository
	)

	switch cfg.Store.Driver {
	case "postgres":
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Fatal("❌ Failed to initialize database", zap.Error(err))
		}

		userRepo := repositories.NewUserRepository(db)
		if err := services.SeedUsers(ctx, userRepo, cfg.Auth.Users); err != nil {
			log.Fatal("❌ Failed to seed users", zap.Error(err))
		}

		credentials = services.NewRepositoryCredentialStore(userRepo)
		runs = repositories.NewRankingRepository(db)
	case "memory":
		credentials = services.NewStaticCredentialStore(cfg.Auth.Users)
		runs = repositories.NewMemoryRankingRepository()
	default:
		log.Fatal("❌ Unknown store driver", zap.String("driver", cfg.Store.Driver))
	}
	log.Info("✅ Repositories initialized successfully", zap.String("driver", cfg.Store.Driver))

	storage, err := newStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize storage", zap.Error(err))
	}

	var guidance services.GuidanceService
	if cfg.Guidance.Enabled {
		qdrantService, err := services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Qdrant.VectorSize,
			log,
		)
		if err != nil {
			log.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
		}

		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatal("❌ Failed to initialize Qdrant collection", zap.Error(err))
		}

		guidance = services.NewGuidanceService(analysisModel, qdrantService, cfg.Guidance.DocType, cfg.Guidance.Limit, log)
		log.Info("✅ Resume guidance enabled", zap.String("collection", cfg.Qdrant.Collection))
	}

	extractor := services.NewTextExtractor()
	sessions := services.NewSessionManager(services.NewCredentialVerifier(credentials, hasher, log), log)

	scorer := services.NewMatchScorer(scoringModel, log)
	pool := services.NewScoringPool(scorer, cfg.Ranking.Concurrency, log)
	ranking := services.NewRankingService(extractor, pool, cfg.Ranking.MaxTopN, log)

	student := services.NewStudentService(services.NewAnalysisResponder(analysisModel, log), guidance, log)
	log.Info("✅ Services initialized successfully")

	routes := handlers.Routes{
		Sessions: sessions,
		Auth:     handlers.NewAuthHandler(sessions),
		Student:  handlers.NewStudentHandler(student, extractor, cfg.Storage.MaxFileSize, log),
		Recruiter: handlers.NewRecruiterHandler(
			ranking,
			extractor,
			runs,
			storage,
			cfg.Storage.MaxFileSize,
			cfg.Ranking.DefaultTopN,
			cfg.Ranking.MaxResumes,
			log,
		),
	}

	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    cfg.RequestBodyLimit(),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Register(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ATS Resume Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/login",
				"POST /api/v1/auth/logout",
				"GET /api/v1/auth/me",
				"POST /api/v1/student/analyze",
				"POST /api/v1/recruiter/rank",
				"GET /api/v1/recruiter/runs/:id",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// newStorage returns nil when archiving is disabled.
func newStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (services.StorageService, error) {
	var storage services.StorageService

	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "local":
		storage = services.NewLocalStorageService(cfg.UploadPath, log)
	case "s3":
		s3Storage, err := services.NewS3StorageService(ctx, services.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}, log)
		if err != nil {
			return nil, err
		}
		storage = s3Storage
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if err := storage.EnsureReady(ctx); err != nil {
		return nil, err
	}

	log.Info("✅ Resume archiving enabled", zap.String("driver", cfg.Driver))
	return storage, nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
