package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/auth"
	"github.com/talentlink/appcore/internal/core/session"
	"github.com/talentlink/appcore/internal/infrastructure/api"
	"github.com/talentlink/appcore/internal/infrastructure/config"
	"github.com/talentlink/appcore/internal/infrastructure/credstore"
	"github.com/talentlink/appcore/pkg/logger"
)

// app bundles the composed session stack every command needs.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	transport *api.Client
	session   *session.Store
	auth      *auth.Service
}

// newApp builds the stack and hydrates the session. Commands must only read
// role-gated state after this returns.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	creds, err := credstore.NewFileStore(cfg.Storage.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	transport := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	sess := session.NewStore(creds, transport, log)

	hydrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sess.Hydrate(hydrateCtx); err != nil {
		log.Warn().Err(err).Msg("session hydration incomplete")
	}

	return &app{
		cfg:       cfg,
		log:       log,
		transport: transport,
		session:   sess,
		auth:      auth.NewService(transport, creds, sess, cfg.StrictUIDCheck, log),
	}, nil
}
