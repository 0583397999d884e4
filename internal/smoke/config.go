package smoke

import "time"

// Config holds configuration for the portal smoke test
type Config struct {
	BaseURL  string        // Base URL of the running portal
	Event    string        // Restrict certificate checks to one event ("" checks all)
	Download bool          // Download one certificate per event and inspect it
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for test output
	Verbose  bool          // Enable verbose logging
}

// Row mirrors one leaderboard entry as served by the portal
type Row struct {
	StudentNumber string `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Points        int    `json:"xparky_points"`
}

// Stats holds smoke test statistics
type Stats struct {
	ChecksRun        int
	ChecksFailed     int
	LeaderboardRows  int
	EventsFound      int
	CertificateNames int
	Downloads        int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
