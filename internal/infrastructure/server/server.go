package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/numderiv/internal/api/http"
	"github.com/GriffinCanCode/numderiv/internal/api/middleware"
	"github.com/GriffinCanCode/numderiv/internal/infrastructure/config"
	"github.com/GriffinCanCode/numderiv/internal/infrastructure/logging"
	"github.com/GriffinCanCode/numderiv/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/numderiv/internal/infrastructure/tracing"
	mathProvider "github.com/GriffinCanCode/numderiv/internal/providers/math"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	logger   *logging.Logger
	tracer   *tracing.Tracer
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		l, err := logging.New(logging.Config{Level: cfg.Logging.Level})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}

	logger.Info("Initializing numderiv server",
		zap.String("port", cfg.Server.Port),
		zap.Float64("default_step", cfg.Derivative.DefaultStep),
		zap.Int("max_points", cfg.Derivative.MaxPoints),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("numderiv", logger.Logger)

	engineOpts := []derivative.Option{
		derivative.WithMaxPoints(cfg.Derivative.MaxPoints),
		derivative.WithParallelThreshold(cfg.Derivative.ParallelThreshold),
		derivative.WithLogger(logger.ForComponent("engine").Logger),
		derivative.WithObserver(metrics),
	}
	if cfg.Derivative.Workers > 0 {
		engineOpts = append(engineOpts, derivative.WithWorkers(cfg.Derivative.Workers))
	}
	engine := derivative.NewEngine(engineOpts...)

	settings := common.Settings{
		DefaultStep:   cfg.Derivative.DefaultStep,
		DefaultPoints: cfg.Derivative.DefaultPoints,
		MaxLength:     cfg.Expression.MaxLength,
		MaxDepth:      cfg.Expression.MaxDepth,
	}

	registry := service.NewRegistry()
	if err := registry.Register(mathProvider.NewProvider(engine, settings)); err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to register math provider: %w", err)
	}
	logger.Info("Registered service providers", zap.Any("stats", registry.Stats()))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		if cfg.RateLimit.Global {
			router.Use(middleware.GlobalRateLimit(rl))
		} else {
			router.Use(middleware.RateLimit(rl))
		}
	}

	handlers := api.NewHandlers(registry, &common.MathOps{Engine: engine, Settings: settings}, metrics, logger.ForComponent("http").Logger)
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: registry,
		logger:   logger,
		tracer:   tracer,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// Close releases the tracer and flushes the logger
func (s *Server) Close() error {
	s.tracer.Close()
	s.logger.Close()
	return nil
}
