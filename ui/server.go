package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"energyexplain/app"
	"energyexplain/internal"
	"energyexplain/internal/config"
	"energyexplain/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the application services the HTTP API exposes.
type Services struct {
	Sessions    *app.SessionStore
	Explain     *app.ExplainService
	Evaluations *app.EvaluationService
	Reader      ports.RecordReader
}

// Server is the JSON API over sessions, explanations and evaluations.
type Server struct {
	router   *gin.Engine
	services Services
	cfg      config.ServerConfig
	logger   *internal.Logger
	httpSrv  *http.Server
}

// NewServer creates the router and registers every route.
func NewServer(services Services, cfg config.ServerConfig, logger *internal.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	s := &Server{
		router:   gin.New(),
		services: services,
		cfg:      cfg,
		logger:   internal.OrDefault(logger).With("http"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(s.cfg.CORSOrigins) == 0 || (len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	s.router.Use(cors.New(corsCfg))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		sessions := api.Group("/sessions")
		sessions.POST("", s.handleCreateSession)
		sessions.GET("/:id", s.handleGetSession)
		sessions.DELETE("/:id", s.handleDeleteSession)
		sessions.PUT("/:id/dataset", s.handleLoadDataset)
		sessions.POST("/:id/retrain", s.handleRetrain)
		sessions.GET("/:id/model/summary", s.handleModelSummary)
		sessions.POST("/:id/predict", s.handlePredict)
		sessions.GET("/:id/fuzzy", s.handleFuzzy)
		sessions.GET("/:id/drivers", s.handleDrivers)
		sessions.GET("/:id/explanation", s.handleExplanation)

		evaluations := api.Group("/evaluations")
		evaluations.POST("", s.handleSubmitEvaluation)
		evaluations.GET("", s.handleListEvaluations)
		evaluations.GET("/analytics", s.handleEvaluationAnalytics)
		evaluations.GET("/export", s.handleExportEvaluations)
		evaluations.DELETE("", s.handleDeleteEvaluations)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on http://%s", addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "energyexplain",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
