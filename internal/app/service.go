// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xparky/portal/internal/adapters/drive"
	"github.com/xparky/portal/internal/adapters/memo"
	"github.com/xparky/portal/internal/domain/certs"
	"github.com/xparky/portal/internal/domain/points"
	"github.com/xparky/portal/internal/domain/roster"
	"github.com/xparky/portal/internal/domain/types"
	"github.com/xparky/portal/pkg/logger"
	"github.com/xparky/portal/pkg/metrics"
)

// Cache operation names for the memoized lookups.
const (
	opEvents       = "events"
	opCertificates = "certificates"
)

// Service implements the API dependencies for the points portal.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     drive.Source
	aggregator *points.Aggregator
	resolver   *certs.Resolver
	roster     *roster.Source
	cache      memo.Cache

	// Configuration
	classroomFolderID    string
	evalFormsFolderID    string
	certificatesFolderID string
	rosterSpreadsheetID  string
	rosterPosition       string
	cacheTTL             time.Duration
	now                  func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataSource sets the drive source every lookup reads from.
func WithDataSource(source drive.Source) Option {
	return func(s *Service) {
		s.source = source
	}
}

// WithFolders sets the classroom, evaluation-forms, and certificates
// folder identifiers.
func WithFolders(classroomFolderID, evalFormsFolderID, certificatesFolderID string) Option {
	return func(s *Service) {
		s.classroomFolderID = classroomFolderID
		s.evalFormsFolderID = evalFormsFolderID
		s.certificatesFolderID = certificatesFolderID
	}
}

// WithRoster sets the roster spreadsheet and the cohort filter value. An
// empty position disables the filter; an empty spreadsheet id leaves the
// leaderboard unmerged.
func WithRoster(spreadsheetID, position string) Option {
	return func(s *Service) {
		s.rosterSpreadsheetID = spreadsheetID
		s.rosterPosition = position
	}
}

// WithCacheTTL sets the lookup cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithClock sets the time source used by the lookup cache.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL: time.Hour,
		now:      time.Now,
		logger:   nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.source == nil {
		return fmt.Errorf("start service: no data source configured")
	}

	s.logger.Info(ctx, "starting portal service...")

	// Initialize components
	if s.rosterSpreadsheetID != "" {
		s.roster = roster.New(s.source, s.rosterSpreadsheetID,
			roster.WithPosition(s.rosterPosition),
			roster.WithLogger(s.logger),
		)
	}

	aggOpts := []points.Option{
		points.WithFolders(s.classroomFolderID, s.evalFormsFolderID),
		points.WithLogger(s.logger),
	}
	if s.roster != nil {
		aggOpts = append(aggOpts, points.WithRoster(s.roster))
	}
	s.aggregator = points.New(s.source, aggOpts...)

	s.resolver = certs.New(s.source, certs.WithLogger(s.logger))
	s.cache = memo.NewInMemoryCache(
		memo.WithTTL(s.cacheTTL),
		memo.WithClock(s.now),
	)

	s.started = true
	s.logger.Info(ctx, "portal service started",
		logger.String("cacheTTL", s.cacheTTL.String()),
		logger.Bool("rosterConfigured", s.roster != nil),
	)

	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping portal service...")

	if s.cache != nil {
		s.cache.Flush(context.Background())
	}

	s.started = false
	s.logger.Info(context.Background(), "portal service stopped")
}

// Leaderboard recomputes the full points table. Every call is a fresh pass
// over the sources; only the certificate lookups are cached, never this.
func (s *Service) Leaderboard(ctx context.Context) ([]types.LeaderboardRow, error) {
	start := time.Now()

	rows, err := s.aggregator.Leaderboard(ctx)
	if err != nil {
		metrics.RecordAggregationError()
		metrics.RecordErrorByComponent("aggregator", "run_failed")
		metrics.RecordErrorLatency("aggregator", "run_failed", float64(time.Since(start).Milliseconds()))
		return nil, err
	}

	metrics.RecordAggregation()
	metrics.RecordAggregationDuration(float64(time.Since(start).Milliseconds()))

	stats := points.Summarize(rows)
	metrics.UpdateStudentCount(stats.Students)
	metrics.UpdateTotalPoints(stats.TotalPoints)
	metrics.UpdateTopScore(stats.HighestPoints)

	return rows, nil
}

// Summary computes the leaderboard's summary statistics.
func (s *Service) Summary(ctx context.Context) (points.Stats, error) {
	rows, err := s.Leaderboard(ctx)
	if err != nil {
		return points.Stats{}, err
	}
	return points.Summarize(rows), nil
}

// EventNames lists the certificate events, memoized. A true refresh
// bypasses the cache and repopulates it.
func (s *Service) EventNames(ctx context.Context, refresh bool) []string {
	return s.eventCatalog(ctx, refresh).Names()
}

// CertificateNames lists the display names available for one event,
// memoized. Unknown events yield ErrEventNotFound.
func (s *Service) CertificateNames(ctx context.Context, event string, refresh bool) ([]string, error) {
	catalog := s.eventCatalog(ctx, refresh)
	folderID, ok := catalog[event]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEventNotFound, event)
	}

	return s.certIndex(ctx, folderID, refresh).DisplayNames(), nil
}

// Certificate resolves a display name within an event and downloads the
// image. Downloads are never cached.
func (s *Service) Certificate(ctx context.Context, event, name string) ([]byte, error) {
	catalog := s.eventCatalog(ctx, false)
	folderID, ok := catalog[event]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEventNotFound, event)
	}

	id, ok := s.certIndex(ctx, folderID, false).Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCertificateNotFound, name)
	}

	img, err := s.source.Download(ctx, id)
	if err != nil {
		metrics.RecordErrorByComponent("certs", "download_failed")
		return nil, fmt.Errorf("download certificate: %w", err)
	}

	metrics.RecordCertificateDownload()
	return img, nil
}

// eventCatalog returns the event catalog, consulting the cache unless a
// refresh was requested. Whatever the resolver returns is cached, an empty
// catalog included; expiry is purely time-based.
func (s *Service) eventCatalog(ctx context.Context, refresh bool) certs.EventCatalog {
	if !refresh {
		if v, ok := s.cache.Get(ctx, opEvents, s.certificatesFolderID); ok {
			if catalog, ok := v.(certs.EventCatalog); ok {
				return catalog
			}
		}
	}

	catalog := s.resolver.Events(ctx, s.certificatesFolderID)
	s.cache.Put(ctx, opEvents, s.certificatesFolderID, catalog)
	return catalog
}

// certIndex returns one event's certificate index, cached like the catalog.
func (s *Service) certIndex(ctx context.Context, eventFolderID string, refresh bool) certs.Index {
	if !refresh {
		if v, ok := s.cache.Get(ctx, opCertificates, eventFolderID); ok {
			if index, ok := v.(certs.Index); ok {
				return index
			}
		}
	}

	index := s.resolver.Certificates(ctx, eventFolderID)
	s.cache.Put(ctx, opCertificates, eventFolderID, index)
	return index
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"cacheTTL": s.cacheTTL.String(),
	}

	if s.started {
		stats["cachedLookups"] = s.cache.Size()
		stats["rosterConfigured"] = s.roster != nil
	}

	return stats
}
