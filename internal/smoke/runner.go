package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/xparky/portal/pkg/logger"
)

// Run executes the complete portal smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting portal smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("event", config.Event),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("download", config.Download),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check portal health
	if err := runCheck(stats, func() error { return checkHealth(ctx, client, config) }); err != nil {
		return fmt.Errorf("portal health check failed: %w", err)
	}

	// Step 2: Check service stats
	if err := runCheck(stats, func() error { return checkStats(ctx, client, config) }); err != nil {
		return fmt.Errorf("stats check failed: %w", err)
	}

	// Step 3: Fetch and verify the leaderboard
	var rows []Row
	if err := runCheck(stats, func() error {
		var err error
		rows, err = checkLeaderboard(ctx, client, config, stats)
		return err
	}); err != nil {
		return fmt.Errorf("leaderboard check failed: %w", err)
	}

	// Step 4: Verify the CSV export against it
	if err := runCheck(stats, func() error { return checkCSV(ctx, client, config, rows) }); err != nil {
		return fmt.Errorf("CSV check failed: %w", err)
	}

	// Step 5: Fetch the certificate events
	var events []string
	if err := runCheck(stats, func() error {
		var err error
		events, err = checkEvents(ctx, client, config, stats)
		return err
	}); err != nil {
		return fmt.Errorf("events check failed: %w", err)
	}

	// Step 6: Walk certificates per event
	if err := runCheck(stats, func() error { return checkCertificates(ctx, client, config, events, stats) }); err != nil {
		return fmt.Errorf("certificates check failed: %w", err)
	}

	// Step 7: Verify the API docs
	if err := runCheck(stats, func() error { return checkDocs(ctx, client, config) }); err != nil {
		return fmt.Errorf("docs check failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// runCheck counts a check and its failure.
func runCheck(stats *Stats, check func() error) error {
	stats.ChecksRun++
	if err := check(); err != nil {
		stats.ChecksFailed++
		return err
	}
	return nil
}

// displayFinalStats prints the final smoke test statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.Int("leaderboardRows", stats.LeaderboardRows),
		logger.Int("eventsFound", stats.EventsFound),
		logger.Int("certificateNames", stats.CertificateNames),
		logger.Int("downloads", stats.Downloads),
		logger.String("duration", stats.Duration.String()))
}
