package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/speech-summarizer/pkg/validator"

	"github.com/johnquangdev/speech-summarizer/internal/adapter/handler"
	"github.com/johnquangdev/speech-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/audio"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/cache"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/storage"
	"github.com/johnquangdev/speech-summarizer/internal/usecase/pipeline"
	pkgai "github.com/johnquangdev/speech-summarizer/pkg/ai"
	"github.com/johnquangdev/speech-summarizer/pkg/config"
	"github.com/johnquangdev/speech-summarizer/pkg/executor"
	pkglogger "github.com/johnquangdev/speech-summarizer/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.IsDevelopment(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}
	e.Renderer = renderer

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Initialize dependencies
	logger.Info("🔧 Initializing dependencies...")
	var closers []io.Closer

	logger.Info("📦 Connecting to object storage...", zap.String("type", cfg.Storage.Type))
	bucket, err := newBucket(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	if c, ok := bucket.(io.Closer); ok {
		closers = append(closers, c)
	}
	uploader := storage.NewUploader(bucket, logger)

	logger.Info("🎙️ Initializing transcriber...", zap.String("backend", cfg.Speech.Backend))
	transcriber, err := newTranscriber(ctx, cfg, uploader, bucket.Scheme(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize transcriber", zap.Error(err))
	}
	if c, ok := transcriber.(io.Closer); ok {
		closers = append(closers, c)
	}

	logger.Info("🤖 Initializing summarizer...", zap.String("backend", cfg.Summary.Backend))
	summarizer, err := newSummarizer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize summarizer", zap.Error(err))
	}

	logger.Info("📦 Initializing run store...", zap.String("backend", cfg.Runs.Backend))
	store, err := newRunStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize run store", zap.Error(err))
	}
	if c, ok := store.(io.Closer); ok {
		closers = append(closers, c)
	}
	runRepo := repository.NewRunRepository(store, cfg.Runs.TTL)

	normalizer := audio.NewNormalizer(executor.New(), cfg.Audio.FFmpegPath, cfg.Audio.TempDir, logger)

	pipelineService := pipeline.NewService(normalizer, uploader, transcriber, summarizer, runRepo, logger)

	// Setup router with handlers
	logger.Info("🛣️  Setting up routes...")
	runHandler := handler.NewRun(pipelineService, cfg.Server.MaxUploadMB, logger)
	webHandler := handler.NewWeb(pipelineService, logger)
	router := handler.NewRouter(cfg, runHandler, webHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	if err := pipelineService.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Pipeline did not stop in time", zap.Error(err))
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("⚠️ Failed to close resource", zap.Error(err))
		}
	}

	logger.Info("✅ Server stopped gracefully")
}

func newBucket(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Bucket, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeMinIO:
		bucket, err := storage.NewMinIOBucket(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		exists, err := bucket.BucketExists(ctx)
		if err != nil {
			logger.Warn("⚠️ Could not verify bucket", zap.String("bucket", cfg.Storage.BucketName), zap.Error(err))
		} else if !exists {
			return nil, fmt.Errorf("bucket %q does not exist", cfg.Storage.BucketName)
		}
		return bucket, nil
	default:
		return storage.NewGCSBucket(ctx, cfg.Storage.BucketName, cfg.Google.CredentialsFile)
	}
}

func newTranscriber(ctx context.Context, cfg *config.Config, objects pkgai.ObjectOpener, scheme string, logger *zap.Logger) (pipeline.Transcriber, error) {
	switch cfg.Speech.Backend {
	case config.TranscriberAssemblyAI:
		return pkgai.NewAssemblyAIClient(&cfg.Assembly, objects, logger), nil
	default:
		if scheme != "gs" {
			logger.Warn("⚠️ Speech-to-Text reads only gs:// objects; use TRANSCRIBER=assemblyai for this storage",
				zap.String("scheme", scheme),
			)
		}
		return pkgai.NewGoogleSpeechClient(ctx, &cfg.Speech, cfg.Google.CredentialsFile, logger)
	}
}

func newSummarizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (pipeline.Summarizer, error) {
	switch cfg.Summary.Backend {
	case config.SummarizerGemini:
		return pkgai.NewGeminiClient(ctx, &cfg.Gemini, cfg.Summary.MaxTokens, logger)
	default:
		return pkgai.NewOpenAIClient(&cfg.OpenAI, cfg.Summary.MaxTokens, logger), nil
	}
}

func newRunStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.Runs.Backend {
	case config.RunStoreRedis:
		return cache.NewRedisStore(ctx, cfg)
	default:
		return cache.NewMemoryStore(time.Minute), nil
	}
}
