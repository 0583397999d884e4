package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/xparky/portal/internal/adapters/drive"
	app "github.com/xparky/portal/internal/app"
	"github.com/xparky/portal/internal/config"
	"github.com/xparky/portal/internal/demo"
	"github.com/xparky/portal/internal/domain/points"
	"github.com/xparky/portal/internal/domain/types"
	"github.com/xparky/portal/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		csvPath = flag.String("csv", "", "Write the leaderboard to this CSV file instead of printing a table")
		top     = flag.Int("top", 0, "Print only the top N rows (0 prints all)")
		timeout = flag.Duration("timeout", defaultTimeout, "Aggregation timeout")
	)
	flag.Parse()

	if err := run(*csvPath, *top, *timeout); err != nil {
		os.Stderr.WriteString("report failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run performs one aggregation pass and renders the result.
func run(csvPath string, top int, timeout time.Duration) error {
	if err := logger.Init(); err != nil {
		return err
	}
	// Aggregation progress logs would drown the report output.
	_ = logger.SetLevelString("error")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	svc, err := buildService(cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	rows, err := svc.Leaderboard(ctx)
	if err != nil {
		return err
	}

	if csvPath != "" {
		if err := writeCSV(csvPath, rows); err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s\n", len(rows), csvPath)
	} else {
		printTable(rows, top)
	}

	printSummary(points.Summarize(rows))
	return nil
}

// buildService assembles the portal service the same way the HTTP
// entrypoint does, minus the server wiring.
func buildService(cfg *config.Config) (*app.Service, error) {
	log := logger.Get()

	if cfg.Demo {
		dataset := demo.NewDataset()
		return app.New(
			app.WithLogger(log),
			app.WithDataSource(dataset),
			app.WithFolders(dataset.ClassroomFolderID(), dataset.EvalFormsFolderID(), dataset.CertificatesFolderID()),
			app.WithRoster(dataset.RosterSpreadsheetID(), cfg.RosterPosition),
			app.WithCacheTTL(cfg.CacheTTL),
		), nil
	}

	var creds drive.Credentials
	var err error
	if cfg.CredentialsJSON != "" {
		creds, err = drive.ParseCredentials([]byte(cfg.CredentialsJSON))
	} else {
		creds, err = drive.LoadCredentialsFile(cfg.CredentialsFile)
	}
	if err != nil {
		return nil, err
	}

	tokens, err := drive.NewJWTTokenSource(creds)
	if err != nil {
		return nil, err
	}

	return app.New(
		app.WithLogger(log),
		app.WithDataSource(drive.New(drive.WithTokenSource(tokens), drive.WithLogger(log))),
		app.WithFolders(cfg.ClassroomFolderID, cfg.EvalFormsFolderID, cfg.CertificatesFolderID),
		app.WithRoster(cfg.RosterSpreadsheetID, cfg.RosterPosition),
		app.WithCacheTTL(cfg.CacheTTL),
	), nil
}

// printTable renders the leaderboard as an aligned text table.
func printTable(rows []types.LeaderboardRow, top int) {
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSTUDENT NUMBER\tNAME\tXPARKY POINTS")
	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%d\n", i+1, row.StudentNumber, row.FirstName, row.LastName, row.Points)
	}
	_ = tw.Flush()
}

// printSummary renders the aggregation summary statistics.
func printSummary(stats points.Stats) {
	fmt.Println()
	fmt.Printf("Students:       %d\n", stats.Students)
	fmt.Printf("Total points:   %d\n", stats.TotalPoints)
	fmt.Printf("Average points: %.2f\n", stats.AveragePoints)
	fmt.Printf("Highest:        %d\n", stats.HighestPoints)
	fmt.Printf("Lowest:         %d\n", stats.LowestPoints)
}

// writeCSV writes the leaderboard to path with the same column layout the
// HTTP CSV export uses.
func writeCSV(path string, rows []types.LeaderboardRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Student Number", "First Name", "Last Name", "XParky Points"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.StudentNumber,
			row.FirstName,
			row.LastName,
			strconv.Itoa(row.Points),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
