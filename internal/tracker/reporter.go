// Package tracker runs the background location reporter: a scheduled job,
// independent of any UI surface, that samples the device position and pushes
// it to the realtime feed keyed by the signed-in talent's id.
package tracker

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/ports"
)

const (
	defaultInterval = 10 * time.Second
	defaultMinMove  = 5.0 // meters
)

// Fix is a raw device position sample.
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Sampler acquires the current device position. Implementations wrap the
// platform location shim.
type Sampler interface {
	Sample(ctx context.Context) (Fix, error)
}

// PermissionRequester models the elevated "background location" permission
// prompt. A denial must be returned as domain.ErrPermissionDenied.
type PermissionRequester interface {
	RequestBackground(ctx context.Context) error
}

// IdentityFunc resolves the talent id to publish under at each tick. It
// returns "" when no signed-in talent is available; the tick is then skipped
// rather than failed.
type IdentityFunc func() string

// Status is a point-in-time view of the reporter.
type Status struct {
	Running       bool
	LastPublished time.Time
	Published     uint64
	Skipped       uint64
	Dropped       uint64
}

// Options tunes the sampling schedule.
type Options struct {
	// Interval between samples. Defaults to 10s.
	Interval time.Duration
	// MinMoveMeters suppresses publishes while the device stays within this
	// distance of the last published fix. Defaults to 5m.
	MinMoveMeters float64
}

// Reporter is the background job. Start and Stop manage its lifecycle;
// Stop is idempotent and safe to call before Start.
type Reporter struct {
	sampler  Sampler
	perms    PermissionRequester
	pub      ports.LocationPublisher
	identity IdentityFunc
	interval time.Duration
	minMove  float64
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	last    *Fix
	status  Status
}

func NewReporter(sampler Sampler, perms PermissionRequester, pub ports.LocationPublisher, identity IdentityFunc, opts Options, log zerolog.Logger) *Reporter {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	minMove := opts.MinMoveMeters
	if minMove <= 0 {
		minMove = defaultMinMove
	}
	return &Reporter{
		sampler:  sampler,
		perms:    perms,
		pub:      pub,
		identity: identity,
		interval: interval,
		minMove:  minMove,
		log:      log,
	}
}

// Start requests the background permission and launches the sampling loop.
// The loop is detached from the caller's context: it stops only via Stop.
// Starting an already-running reporter is a no-op.
func (r *Reporter) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if err := r.perms.RequestBackground(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.status.Running = true
	reporterRunning.Set(1)

	go r.run(runCtx, r.done)

	r.log.Info().
		Dur("interval", r.interval).
		Float64("min_move_m", r.minMove).
		Msg("location reporter started")
	return nil
}

// Stop cancels the sampling loop and waits for it to exit. Calling Stop when
// not started is a no-op.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel, done := r.cancel, r.done
	r.running = false
	r.status.Running = false
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	cancel()
	<-done
	reporterRunning.Set(0)
	r.log.Info().Msg("location reporter stopped")
}

// Status returns a copy of the reporter's counters.
func (r *Reporter) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Reporter) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick performs one sample-and-publish cycle. Every failure mode skips or
// drops; nothing here may take the loop down.
func (r *Reporter) tick(ctx context.Context) {
	talentID := r.identity()
	if talentID == "" {
		r.count(resultNoIdentity)
		r.log.Debug().Msg("no signed-in talent, skipping location publish")
		return
	}

	fix, err := r.sampler.Sample(ctx)
	if err != nil {
		r.count(resultSampleError)
		r.log.Warn().Err(err).Msg("location sample failed")
		return
	}

	r.mu.Lock()
	last := r.last
	r.mu.Unlock()
	if last != nil && haversineMeters(last.Latitude, last.Longitude, fix.Latitude, fix.Longitude) < r.minMove {
		r.count(resultStationary)
		return
	}

	sample := ports.LocationSample{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Timestamp: time.Now().UTC(),
	}

	start := time.Now()
	if err := r.pub.Publish(ctx, talentID, sample); err != nil {
		// Failed publishes are dropped, not buffered or retried.
		r.mu.Lock()
		r.status.Dropped++
		r.mu.Unlock()
		ticksTotal.WithLabelValues(resultPublishError).Inc()
		r.log.Warn().Err(err).Str("talent_id", talentID).Msg("location publish dropped")
		return
	}
	publishDuration.Observe(time.Since(start).Seconds())

	r.mu.Lock()
	r.last = &fix
	r.status.Published++
	r.status.LastPublished = sample.Timestamp
	r.mu.Unlock()
	ticksTotal.WithLabelValues(resultPublished).Inc()
}

func (r *Reporter) count(result string) {
	r.mu.Lock()
	r.status.Skipped++
	r.mu.Unlock()
	ticksTotal.WithLabelValues(result).Inc()
}

// haversineMeters returns the great-circle distance between two fixes.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371000.0

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
