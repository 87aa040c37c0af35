package main

import (
	"log"
	"log/slog"

	"github.com/vbonduro/appcatalog/internal/config"
	"github.com/vbonduro/appcatalog/internal/db"
	"github.com/vbonduro/appcatalog/internal/imagestore/local"
	"github.com/vbonduro/appcatalog/internal/logging"
	"github.com/vbonduro/appcatalog/internal/service"
	"github.com/vbonduro/appcatalog/internal/store"
	"github.com/vbonduro/appcatalog/internal/vision"
	claudevision "github.com/vbonduro/appcatalog/internal/vision/claude"
	ollamavision "github.com/vbonduro/appcatalog/internal/vision/ollama"
	"github.com/vbonduro/appcatalog/internal/web"
	"github.com/vbonduro/appcatalog/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	appStore := store.NewAppStore(database)
	storeStore := store.NewStoreStore(database)
	reviewStore := store.NewReviewStore(database)
	userStore := store.NewUserStore(database)
	certificateStore := store.NewCertificateStore(database)

	images, err := local.NewLocalImageStore(cfg.MediaPath)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return
	}

	describer := newDescriber(cfg, logger)

	catalogService := service.NewCatalogService(appStore, storeStore, reviewStore, certificateStore, logger)
	adminService := service.NewAdminService(appStore, storeStore, reviewStore, userStore, certificateStore, images, describer, logger)
	server := web.NewServer(catalogService, adminService, templates.FS, images, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newDescriber returns nil when drafting is disabled or misconfigured; app
// creation then keeps whatever description the admin typed.
func newDescriber(cfg *config.Config, logger *slog.Logger) vision.Describer {
	switch cfg.DescribeBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when DESCRIBE_BACKEND=claude; description drafting disabled")
			return nil
		}
		logger.Info("using Claude describer", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeDescriber(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama describer", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaDescriber(cfg.OllamaHost, cfg.OllamaModel)
	case "", "none":
		logger.Info("description drafting disabled")
		return nil
	default:
		logger.Warn("unknown DESCRIBE_BACKEND; description drafting disabled", "backend", cfg.DescribeBackend)
		return nil
	}
}
