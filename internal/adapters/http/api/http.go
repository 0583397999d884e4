// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/xparky/portal/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Leaderboard recomputes the full points table.
	Leaderboard(ctx context.Context) ([]Row, error)

	// EventNames lists the certificate events, optionally bypassing the
	// lookup cache.
	EventNames(ctx context.Context, refresh bool) []string

	// CertificateNames lists the display names available for one event.
	CertificateNames(ctx context.Context, event string, refresh bool) ([]string, error)

	// Certificate downloads one certificate image.
	Certificate(ctx context.Context, event, name string) ([]byte, error)
}

// Row mirrors the read shape returned by leaderboard queries.
type Row = types.LeaderboardRow

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	leaderboardHandler  *LeaderboardHandler
	exportHandler       *ExportHandler
	eventsHandler       *EventsHandler
	certificatesHandler *CertificatesHandler
	dashboardHandler    *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		leaderboardHandler:  NewLeaderboardHandler(deps, maxLimit),
		exportHandler:       NewExportHandler(deps),
		eventsHandler:       NewEventsHandler(deps),
		certificatesHandler: NewCertificatesHandler(deps),
		dashboardHandler:    newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/leaderboard.csv", MetricsMiddleware(s.exportHandler.HandleExportCSV, "leaderboard_csv"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "events"))
	mux.HandleFunc("/certificates/", MetricsMiddleware(s.certificatesHandler.HandleCertificates, "certificates"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// parseRefresh reports whether the request asked to bypass the lookup cache.
func parseRefresh(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return err == nil && v
}
