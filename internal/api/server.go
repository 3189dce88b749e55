package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/shizzytech/LinguaSync-AI/internal/api/handler"
	"github.com/shizzytech/LinguaSync-AI/internal/api/middleware"
	"github.com/shizzytech/LinguaSync-AI/internal/api/validation"
	"github.com/shizzytech/LinguaSync-AI/internal/core/service"
	"github.com/shizzytech/LinguaSync-AI/internal/metrics"
	"github.com/shizzytech/LinguaSync-AI/pkg/config"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	log    logrus.FieldLogger
}

// Dependencies are the collaborators the HTTP layer needs
type Dependencies struct {
	AuthService     *service.AuthService
	WaitlistService *service.WaitlistService
	SessionStore    middleware.SessionStore
	Metrics         *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
	Logger   logrus.FieldLogger
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	rateLimit := middleware.RateLimitMiddleware(limiter, deps.Metrics)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.SessionStore, log)
	waitlistHandler := handler.NewWaitlistHandler(deps.WaitlistService, log)

	apiGroup := router.Group("/api")

	auth := apiGroup.Group("/auth")
	auth.Use(middleware.SessionMiddleware(deps.SessionStore, cfg.SessionName, log))
	{
		auth.POST("/register", rateLimit, authHandler.Register)
		auth.POST("/login", rateLimit, authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
	}

	waitlist := apiGroup.Group("/waitlist")
	{
		waitlist.POST("", rateLimit, waitlistHandler.Submit)
		waitlist.GET("", waitlistHandler.List)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if cfg.MetricsEnabled && deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(notFoundHandler(cfg.StaticDir))

	return &Server{
		router: router,
		config: cfg,
		log:    log,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// notFoundHandler serves the front-end build when one is configured. Unknown
// GET paths outside /api fall back to index.html for client-side routing.
func notFoundHandler(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if staticDir == "" || !isRead || p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Not found"})
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		c.File(filepath.Join(staticDir, "index.html"))
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.log.WithField("addr", addr).Info("starting HTTPS server")
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.log.WithField("addr", addr).Info("starting HTTP server")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
