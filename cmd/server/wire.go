// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"log"

	"influencer_platform_backend/internal/app"
	"influencer_platform_backend/internal/auth"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/invite"
	"influencer_platform_backend/internal/jobs"
	"influencer_platform_backend/internal/mailer"
	"influencer_platform_backend/internal/middleware"
	"influencer_platform_backend/internal/payment"
	"influencer_platform_backend/internal/platform/database"
	"influencer_platform_backend/internal/platform/logger"
	"influencer_platform_backend/internal/profile"
	"influencer_platform_backend/internal/session"
	"influencer_platform_backend/internal/shared"
	"influencer_platform_backend/internal/user"
	"influencer_platform_backend/internal/workitem"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Sessions
		session.NewManager,

		// User directory
		user.NewGORMRepository,
		user.NewService,
		user.NewHandler,
		wire.Bind(new(shared.Provisioner), new(*user.Service)),

		// Identity resolution
		middleware.NewIdentityResolver,

		// Mail
		mailer.NewSMTPSender,
		wire.Bind(new(mailer.Sender), new(*mailer.SMTPSender)),

		// Admin invites
		invite.NewGORMRepository,
		invite.NewHandler,

		// Auth
		auth.NewService,
		auth.NewOAuthService,
		auth.NewHandler,

		// Payment requests
		payment.NewGORMRepository,
		payment.NewService,
		payment.NewHandler,

		// Work items
		workitem.NewGORMRepository,
		workitem.NewService,
		workitem.NewHandler,

		// Influencer profiles
		profile.NewGORMRepository,
		profile.NewService,
		profile.NewHandler,

		// Background jobs
		jobs.NewSessionPurgeJob,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
