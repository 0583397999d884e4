// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional file and env vars on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// defaultRosterSpreadsheetID points at the cohort roster workbook. Deployments
// normally override this per cohort.
const defaultRosterSpreadsheetID = "1kPb0rcuEGNsuGqrMX8eWDkk-v5erbOHDLqAL3eMERzw"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// ClassroomFolderID is the Drive folder holding classroom submission
	// folders (one per activity).
	ClassroomFolderID string `koanf:"classroom_folder_id" validate:"required_unless=Demo true"`

	// EvalFormsFolderID is the Drive folder holding evaluation form
	// response spreadsheets.
	EvalFormsFolderID string `koanf:"eval_forms_folder_id" validate:"required_unless=Demo true"`

	// CertificatesFolderID is the Drive folder holding one subfolder per
	// certificate event.
	CertificatesFolderID string `koanf:"certificates_folder_id" validate:"required_unless=Demo true"`

	// RosterSpreadsheetID is the spreadsheet enumerating tracked students.
	RosterSpreadsheetID string `koanf:"roster_spreadsheet_id"`

	// RosterPosition keeps only roster rows whose Position column equals
	// this value. Empty disables the filter.
	RosterPosition string `koanf:"roster_position"`

	// CredentialsFile points at a Google service account key on disk.
	// CredentialsJSON carries the key inline and wins when both are set.
	CredentialsFile string `koanf:"credentials_file"`
	CredentialsJSON string `koanf:"credentials_json"`

	// CacheTTL bounds how long certificate lookups are served from memory.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gte=1"`

	// Demo serves the built-in sample dataset instead of talking to Drive.
	Demo bool `koanf:"demo"`
}

// New creates a Config populated with defaults. Load layers file and env
// sources on top of this.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		RosterSpreadsheetID: defaultRosterSpreadsheetID,
		RosterPosition:      "Data and ML Cadet",
		CacheTTL:            time.Hour,
		MaxLeaderboardLimit: 1000,
	}
}

var configValidator = validator.New()

// Validate checks field constraints plus the credential requirement that
// struct tags cannot express.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !c.Demo && c.CredentialsFile == "" && c.CredentialsJSON == "" {
		return fmt.Errorf("%w: credentials_file or credentials_json must be set", ErrInvalidConfig)
	}
	return nil
}
