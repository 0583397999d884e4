package smoke

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
)

// pngMagic is the signature every certificate download must start with.
var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

// checkHealth verifies the portal is running.
func checkHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	log.Println("🔍 Checking portal health...")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to portal: %w", err)
	}
	defer resp.Body.Close()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != statusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	log.Println("✅ Portal is healthy")
	return nil
}

// checkStats verifies the stats endpoint decodes.
func checkStats(ctx context.Context, client *HTTPClient, config *Config) error {
	log.Println("🔍 Checking service stats...")

	var stats map[string]interface{}
	if err := client.getJSON(ctx, config.BaseURL+"/stats", &stats); err != nil {
		return fmt.Errorf("stats retrieval failed: %w", err)
	}

	if _, ok := stats["started"]; !ok {
		return fmt.Errorf("stats response missing started flag")
	}

	if config.Verbose {
		log.Printf("📊 Stats: %v", stats)
	}
	log.Println("✅ Service stats verified")
	return nil
}

// checkLeaderboard fetches the leaderboard and verifies its ordering.
func checkLeaderboard(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]Row, error) {
	log.Println("🔍 Checking leaderboard...")

	var rows []Row
	if err := client.getJSON(ctx, config.BaseURL+"/leaderboard", &rows); err != nil {
		return nil, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardRows = len(rows)

	// Verify descending point order
	for i := 1; i < len(rows); i++ {
		if rows[i].Points > rows[i-1].Points {
			return nil, fmt.Errorf("leaderboard not properly sorted: row %d has more points than row %d", i, i-1)
		}
	}

	// Verify every row carries an identifier
	for i, row := range rows {
		if row.StudentNumber == "" {
			return nil, fmt.Errorf("leaderboard row %d has no student number", i)
		}
	}

	displayTopRows(rows, config.Verbose)
	log.Printf("✅ Leaderboard verified (%d rows)", len(rows))
	return rows, nil
}

// checkCSV verifies the CSV export matches the leaderboard.
func checkCSV(ctx context.Context, client *HTTPClient, config *Config, rows []Row) error {
	log.Println("🔍 Checking CSV export...")

	body, contentType, err := client.getRaw(ctx, config.BaseURL+"/leaderboard.csv")
	if err != nil {
		return fmt.Errorf("CSV retrieval failed: %w", err)
	}

	if !strings.HasPrefix(contentType, "text/csv") {
		return fmt.Errorf("unexpected CSV content type: %s", contentType)
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if lines[0] != "Student Number,First Name,Last Name,XParky Points" {
		return fmt.Errorf("unexpected CSV header: %s", lines[0])
	}

	dataLines := len(lines) - 1
	if len(lines) == 1 && lines[0] == "" {
		dataLines = 0
	}
	if dataLines != len(rows) {
		return fmt.Errorf("CSV row count (%d) does not match leaderboard (%d)", dataLines, len(rows))
	}

	log.Printf("✅ CSV export verified (%d rows)", dataLines)
	return nil
}

// checkEvents fetches the certificate event list.
func checkEvents(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]string, error) {
	log.Println("🔍 Checking certificate events...")

	var events []string
	if err := client.getJSON(ctx, config.BaseURL+"/events", &events); err != nil {
		return nil, fmt.Errorf("events retrieval failed: %w", err)
	}
	stats.EventsFound = len(events)

	if config.Event != "" {
		for _, event := range events {
			if event == config.Event {
				log.Printf("✅ Event %q found", config.Event)
				return []string{config.Event}, nil
			}
		}
		return nil, fmt.Errorf("requested event %q not in event list %v", config.Event, events)
	}

	log.Printf("✅ Events verified (%d found)", len(events))
	return events, nil
}

// checkCertificates walks each event's certificate names and optionally
// downloads the first one.
func checkCertificates(ctx context.Context, client *HTTPClient, config *Config, events []string, stats *Stats) error {
	for _, event := range events {
		log.Printf("🔍 Checking certificates for %q...", event)

		var names []string
		url := config.BaseURL + "/certificates/" + pathEscape(event)
		if err := client.getJSON(ctx, url, &names); err != nil {
			return fmt.Errorf("certificate listing for %q failed: %w", event, err)
		}
		stats.CertificateNames += len(names)

		if config.Verbose {
			log.Printf("📜 %q certificates: %v", event, names)
		}

		if !config.Download || len(names) == 0 {
			log.Printf("✅ %q verified (%d names)", event, len(names))
			continue
		}

		body, contentType, err := client.getRaw(ctx, url+"/"+pathEscape(names[0]))
		if err != nil {
			return fmt.Errorf("certificate download for %q failed: %w", names[0], err)
		}
		if !strings.HasPrefix(contentType, "image/png") {
			return fmt.Errorf("unexpected certificate content type: %s", contentType)
		}
		if !bytes.HasPrefix(body, pngMagic) {
			return fmt.Errorf("certificate for %q is not a PNG image", names[0])
		}
		stats.Downloads++

		log.Printf("✅ %q verified (%d names, downloaded %q)", event, len(names), names[0])
	}

	return nil
}

// checkDocs verifies the API documentation endpoints.
func checkDocs(ctx context.Context, client *HTTPClient, config *Config) error {
	log.Println("🔍 Checking API docs...")

	body, _, err := client.getRaw(ctx, config.BaseURL+"/openapi.yaml")
	if err != nil {
		return fmt.Errorf("openapi spec retrieval failed: %w", err)
	}
	if !strings.Contains(string(body), "/leaderboard:") {
		return fmt.Errorf("openapi spec does not describe the leaderboard")
	}

	if _, _, err := client.getRaw(ctx, config.BaseURL+"/api-docs"); err != nil {
		return fmt.Errorf("api docs page retrieval failed: %w", err)
	}

	log.Println("✅ API docs verified")
	return nil
}

// displayTopRows shows the top of the leaderboard.
func displayTopRows(rows []Row, verbose bool) {
	topN := displayTopN
	if len(rows) < topN {
		topN = len(rows)
	}

	log.Printf("🏆 Top %d students:", topN)
	for i := 0; i < topN; i++ {
		row := rows[i]
		log.Printf("   %d. %s %s %s - %d points", i+1, row.StudentNumber, row.FirstName, row.LastName, row.Points)
	}

	if verbose && len(rows) > 0 {
		total := 0
		for _, row := range rows {
			total += row.Points
		}
		log.Printf(`📊 Point statistics:
   Students: %d
   Total: %d
   Average: %.2f
`, len(rows), total, float64(total)/float64(len(rows)))
	}
}
