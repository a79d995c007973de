package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocab-graph/agent"
	"vocab-graph/config"
	"vocab-graph/database"
	"vocab-graph/graph"
	"vocab-graph/llmclient"
	"vocab-graph/quiz"
	"vocab-graph/web"
	"vocab-graph/web/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "vocab-graph",
	Short: "Vocabulary graph API, importer and tutor",
	RunE:  runServe,
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and the configured logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to re-initialize logger with configured level: %w", err)
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.Cleanup()

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	neo := database.NewNeo4jStore(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, logger)
	defer neo.Close(context.Background())

	pg, err := database.NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to connect to attempt log, continuing without it", zap.Error(err))
		pg, _ = database.NewPostgresStore(ctx, "", logger)
	}
	defer pg.Close()

	// --- Ensure Schema Exists ---
	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	source := graph.NewSource(cfg.GraphPath(), logger)
	if _, err := source.Index(); err != nil {
		logger.Warn("Graph snapshot not loaded, index routes will report it unavailable",
			zap.String("path", source.Path()), zap.Error(err))
	}

	llm := llmclient.New(cfg, logger)
	tutor, err := agent.NewTutor(neo, llm, cfg.ExplanationCacheSize, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tutor", zap.Error(err))
	}

	generator := quiz.NewGenerator(time.Now().UnixNano())
	deps := web.Dependencies{
		GraphStore: neo,
		Progress:   pg,
		Search:     services.NewSearchService(source, neo, logger),
		Words:      source,
		Quiz:       services.NewQuizService(source, neo, pg, generator, logger),
		Importer:   services.NewImportService(neo, cfg.ImportCSVPath, logger),
		Tutor:      tutor,
	}

	webServer := web.NewServer(deps, logger, cfg)

	addr := fmt.Sprintf(":%d", cfg.WebPort)
	if err := webServer.Start(ctx, addr); err != nil {
		logger.Error("Web server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Application shut down gracefully.")
	return nil
}
