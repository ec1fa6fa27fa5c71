// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"influencer_platform_backend/internal/auth"
	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/invite"
	"influencer_platform_backend/internal/jobs"
	"influencer_platform_backend/internal/middleware"
	"influencer_platform_backend/internal/payment"
	"influencer_platform_backend/internal/profile"
	"influencer_platform_backend/internal/session"
	"influencer_platform_backend/internal/user"
	"influencer_platform_backend/internal/workitem"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	sessionPurgeJob *jobs.SessionPurgeJob
}

// NewServer assembles the gin engine, global middleware and all route groups.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	resolver middleware.IdentityResolver,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	inviteHandler *invite.Handler,
	paymentHandler *payment.Handler,
	workItemHandler *workitem.Handler,
	profileHandler *profile.Handler,
	sessionPurgeJob *jobs.SessionPurgeJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	if err := db.AutoMigrate(
		&user.User{},
		&session.Session{},
		&invite.AdminInvite{},
		&payment.PaymentRequest{},
		&workitem.WorkItem{},
		&profile.InfluencerProfile{},
	); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	authMW := middleware.AuthMiddleware(resolver, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	root := router.Group("")
	authHandler.RegisterRoutes(root)
	userHandler.RegisterRoutes(root, authMW, adminRoleMW)
	inviteHandler.RegisterRoutes(root, authMW, adminRoleMW)
	paymentHandler.RegisterRoutes(root, authMW, adminRoleMW)
	workItemHandler.RegisterRoutes(root, authMW, adminRoleMW)
	profileHandler.RegisterRoutes(root, authMW, adminRoleMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		sessionPurgeJob: sessionPurgeJob,
	}, nil
}

// Start runs the HTTP server and background jobs. Blocks until the server stops.
func (s *Server) Start() error {
	if s.sessionPurgeJob != nil {
		if err := s.sessionPurgeJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start session purge job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
		zap.String("auth_mode", s.cfg.AuthMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown gracefully stops background jobs and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.sessionPurgeJob != nil {
		s.sessionPurgeJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
