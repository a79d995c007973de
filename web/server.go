package web

import (
	"context"
	"net/http"
	"time"

	"vocab-graph/config"
	"vocab-graph/web/handlers"
	"vocab-graph/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the handlers' collaborators, built in main.
type Dependencies struct {
	GraphStore interface {
		handlers.GraphStore
		handlers.LearnerStore
	}
	Progress handlers.ProgressStore
	Search   handlers.Searcher
	Words    handlers.WordSource
	Quiz     handlers.QuizProvider
	Importer handlers.Importer
	Tutor    handlers.Tutor
}

type Server struct {
	router  *gin.Engine
	deps    Dependencies
	limiter *middleware.ClientRateLimiter
	logger  *zap.Logger
	config  *config.Config
}

func NewServer(deps Dependencies, logger *zap.Logger, config *config.Config) *Server {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})
	router.Use(middleware.Metrics())

	server := &Server{
		router: router,
		deps:   deps,
		limiter: middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerMinute: config.RateLimitRequestsPerMin,
			BurstSize:         config.RateLimitBurstSize,
			CleanupInterval:   10 * time.Minute,
		}, logger),
		logger: logger,
		config: config,
	}

	server.setupRoutes()
	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.deps.GraphStore, s.logger)
	admin := handlers.NewAdminHandler(s.deps.Importer, s.logger)
	learners := handlers.NewLearnerHandler(s.deps.GraphStore, s.deps.Progress, s.logger)
	quiz := handlers.NewQuizHandler(s.deps.Quiz, s.logger)
	agent := handlers.NewAgentHandler(s.deps.Tutor, s.logger)
	graphs := handlers.NewGraphHandler(s.deps.Search, s.deps.Words, s.logger)

	s.router.GET("/", health.Index)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/test-db", health.TestDB)
	s.router.POST("/init-sample", health.InitSample)
	s.router.POST("/import-csv", admin.ImportCSV)

	s.router.POST("/learners/init", learners.Init)
	s.router.POST("/learners/:id/simulate", learners.Simulate)
	s.router.GET("/learners/:id/progress", learners.Progress)

	s.router.GET("/quiz/:learnerId", quiz.LearnerQuiz)
	s.router.POST("/quiz/:learnerId/submit", quiz.SubmitLearner)

	s.router.GET("/agent/recommend/:learnerId", middleware.RateLimitMiddleware(s.limiter), agent.Recommend)

	api := s.router.Group("/api")
	{
		api.GET("/search/:word", graphs.Search)
		api.GET("/graph/stats", graphs.Stats)
		api.GET("/words/:word", graphs.Word)
		api.GET("/words/:word/synonyms", graphs.Synonyms)
		api.GET("/words/:word/antonyms", graphs.Antonyms)
		api.GET("/quiz", quiz.IndexQuiz)
		api.POST("/quiz/submit", quiz.Submit)
	}
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	s.limiter.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
