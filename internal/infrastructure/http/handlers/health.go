package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
	"github.com/talentlink/appcore/internal/core/session"
	"github.com/talentlink/appcore/internal/tracker"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready — readiness probe.
// Checks the location feed connection and session hydration before
// declaring the daemon ready to report.
type HealthDependenciesHandler struct {
	redis   *redis.Client
	session *session.Store
}

func NewHealthDependenciesHandler(rdb *redis.Client, sess *session.Store) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		redis:   rdb,
		session: sess,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- Location feed ping ---
	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["location_feed"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["location_feed"] = dependencyStatus{Status: "ok"}
	}

	// --- Session hydration ---
	if !h.session.Hydrated() {
		deps["session"] = dependencyStatus{Status: "unhealthy", Error: "not hydrated"}
		healthy = false
	} else {
		deps["session"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

// locationSource reads back a talent's most recent feed entry.
type locationSource interface {
	Latest(ctx context.Context, talentID string) (*ports.LocationSample, error)
}

// StatusHandler handles GET /status — the reporter's lifecycle view plus the
// sample the feed currently holds for the signed-in talent.
type StatusHandler struct {
	reporter *tracker.Reporter
	session  *session.Store
	feed     locationSource
}

func NewStatusHandler(rep *tracker.Reporter, sess *session.Store, feed locationSource) *StatusHandler {
	return &StatusHandler{reporter: rep, session: sess, feed: feed}
}

type feedLocation struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ReportedAt string  `json:"reported_at"`
}

type statusResponse struct {
	Running       bool          `json:"running"`
	Authenticated bool          `json:"authenticated"`
	LastPublished string        `json:"last_published,omitempty"`
	Published     uint64        `json:"published"`
	Skipped       uint64        `json:"skipped"`
	Dropped       uint64        `json:"dropped"`
	Location      *feedLocation `json:"location,omitempty"`
}

func (h *StatusHandler) Status(c echo.Context) error {
	st := h.reporter.Status()
	resp := statusResponse{
		Running:       st.Running,
		Authenticated: h.session.IsAuthenticated(),
		Published:     st.Published,
		Skipped:       st.Skipped,
		Dropped:       st.Dropped,
	}
	if !st.LastPublished.IsZero() {
		resp.LastPublished = st.LastPublished.UTC().Format(time.RFC3339)
	}

	// Location is best-effort: absent while signed out, expired, or when the
	// feed read fails.
	if u := h.session.CurrentUser(); u != nil && u.Role == domain.RoleTalent {
		if sample, err := h.feed.Latest(c.Request().Context(), u.ID); err == nil && sample != nil {
			resp.Location = &feedLocation{
				Latitude:   sample.Latitude,
				Longitude:  sample.Longitude,
				ReportedAt: sample.Timestamp.UTC().Format(time.RFC3339),
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}
