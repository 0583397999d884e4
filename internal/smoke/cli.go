package smoke

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/xparky/portal/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	os.Stdout.WriteString(`XParky Portal Smoke Test Tool
=============================

Checks every public endpoint of a running portal: health, stats,
leaderboard ordering, CSV export, certificate events, certificate
downloads, and the API docs.

Usage:
  go run cmd/smoke/main.go [options]

Options:
  -url string
        Base URL of the portal (default "http://localhost:8080")
  -event string
        Restrict certificate checks to one event (default: all events)
  -download
        Download one certificate per event and inspect it
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for test output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check a local portal
  go run cmd/smoke/main.go

  # Check a deployed portal including certificate downloads
  go run cmd/smoke/main.go -url https://points.example.org -download

  # Check one event only
  go run cmd/smoke/main.go -event "Onboarding 2025" -verbose
`)
}
