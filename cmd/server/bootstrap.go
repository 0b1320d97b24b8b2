package main

import (
	"context"

	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/handlers"
	"github.com/unitrack/portal/internal/middleware"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds everything the gateway routes need.
type appServices struct {
	cfg     *config.Config
	db      *gorm.DB
	portal  *services.Portal
	handler *handlers.Handler
	limiter *middleware.RateLimiter
}

// bootstrap opens the session storage and restores the portal from it.
func bootstrap(ctx context.Context, cfg *config.Config) (*appServices, error) {
	kv, kvStore, db, err := store.Open(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	portal, err := services.NewPortal(ctx, &cfg.API, kv, &services.Recorder{})
	if err != nil {
		return nil, err
	}
	if st := portal.Users.Snapshot(); st.Authenticated() {
		logger.Info().Str("role", string(st.Role())).Bool("guest", st.IsGuest).Msg("restored stored session")
	}

	return &appServices{
		cfg:     cfg,
		db:      db,
		portal:  portal,
		handler: handlers.New(portal, kvStore),
		limiter: middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}, nil
}

func (s *appServices) shutdown() {
	s.limiter.Stop()
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("portal gateway stopped")
}

// actor names the current viewer for audit lines.
func (s *appServices) actor() string {
	st := s.portal.Users.Snapshot()
	switch {
	case st.IsGuest:
		return "guest:" + string(st.GuestRole)
	case st.User != nil:
		return st.User.Email
	default:
		return "anonymous"
	}
}
