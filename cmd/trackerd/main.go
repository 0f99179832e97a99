// trackerd is the background location reporter daemon. It hydrates the
// on-device session, samples the device position on a fixed interval, and
// publishes it to the realtime location feed for the signed-in talent. A
// small HTTP surface exposes health probes, reporter status, and metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/session"
	"github.com/talentlink/appcore/internal/infrastructure/api"
	"github.com/talentlink/appcore/internal/infrastructure/config"
	"github.com/talentlink/appcore/internal/infrastructure/credstore"
	redisdb "github.com/talentlink/appcore/internal/infrastructure/db/redis"
	httpx "github.com/talentlink/appcore/internal/infrastructure/http"
	"github.com/talentlink/appcore/internal/tracker"
	"github.com/talentlink/appcore/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := credstore.NewFileStore(cfg.Storage.Dir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}

	transport := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	sess := session.NewStore(creds, transport, log)

	hydrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := sess.Hydrate(hydrateCtx); err != nil {
		// The reporter tolerates a missing session by skipping publishes.
		log.Warn().Err(err).Msg("session hydration incomplete")
	}
	cancel()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to location feed")
	}
	feed := redisdb.NewLocationFeed(rdb, cfg.Tracker.FeedTTL)

	identity := func() string {
		u := sess.CurrentUser()
		if u == nil || u.Role != domain.RoleTalent {
			return ""
		}
		return u.ID
	}

	reporter := tracker.NewReporter(
		tracker.NewFileSampler(cfg.Tracker.FixPath),
		tracker.StaticPermission(cfg.Tracker.Allowed),
		feed,
		identity,
		tracker.Options{Interval: cfg.Tracker.Interval, MinMoveMeters: cfg.Tracker.MinMoveMeters},
		log,
	)
	if err := reporter.Start(ctx); err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			log.Fatal().Msg("background location permission denied; grant it and restart")
		}
		log.Fatal().Err(err).Msg("failed to start location reporter")
	}

	e := httpx.NewRouter(rdb, sess, reporter, feed)
	go func() {
		if err := e.Start(":" + cfg.Tracker.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Tracker.Port).Msg("trackerd running")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	reporter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	_ = rdb.Close()
}
