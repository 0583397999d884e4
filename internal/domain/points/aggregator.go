// Package points implements the XParky point aggregation rules.
package points

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xparky/portal/internal/adapters/drive"
	"github.com/xparky/portal/internal/domain/dedupe"
	"github.com/xparky/portal/internal/domain/roster"
	"github.com/xparky/portal/internal/domain/types"
	"github.com/xparky/portal/pkg/logger"
	"github.com/xparky/portal/pkg/metrics"
)

// Aggregation rule constants.
const (
	// evalFormsFolderName is the classroom child reserved for the
	// evaluation-forms rule and excluded from the classroom scan.
	evalFormsFolderName = "evaluationForms"

	// evalSheetName is the tab evaluation responses are exported to.
	evalSheetName = "Data"

	// colStudentNumber is the response column holding the identifier.
	colStudentNumber = "Student Number"

	// onboardingMarker switches an evaluation sheet to the onboarding award.
	onboardingMarker = "onboarding"
)

// Name placeholders for roster rows that somehow lack one.
const (
	fallbackFirstName = "Unknown"
	fallbackLastName  = "Student"
)

// DataSource provides the listings and sheet reads the rules consume.
type DataSource interface {
	drive.Lister
	drive.SheetReader
}

// Aggregator computes the unified student points table. Every run is a
// fresh single pass over the sources; nothing is retained between calls.
type Aggregator struct {
	source            DataSource
	roster            *roster.Source
	classroomFolderID string
	evalFormsFolderID string
	log               logger.Logger
}

// New creates a points aggregator over one data source.
func New(source DataSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		source: source,
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.Get()
	}

	return a
}

// Leaderboard runs every rule and merges the combined totals with the
// roster. Context cancellation is the only error it surfaces; per-item
// failures inside the rules degrade to zero contributions.
func (a *Aggregator) Leaderboard(ctx context.Context) ([]types.LeaderboardRow, error) {
	combined := a.Classroom(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation cancelled: %w", err)
	}

	combined.Merge(a.Evaluation(ctx))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation cancelled: %w", err)
	}

	rows := a.mergeRoster(ctx, combined)

	a.log.Info(ctx, "aggregation complete",
		logger.Int("students", len(rows)),
		logger.Int("identifiers_with_points", len(combined)),
	)
	return rows, nil
}

// Classroom scans the classroom submission folders and scores file names.
// Children named after the evaluation-forms folder are excluded; collected
// file names are deduplicated before scoring, so a name that recurs across
// submission folders is counted once.
func (a *Aggregator) Classroom(ctx context.Context) Tally {
	tally := make(Tally)

	children, err := a.source.ListChildren(ctx, a.classroomFolderID)
	if err != nil {
		a.log.Warn(ctx, "classroom folder listing failed, rule contributes nothing",
			logger.String("folder_id", a.classroomFolderID),
			logger.Error(err),
		)
		return tally
	}

	seen := dedupe.NewInMemoryDeduper()
	for _, child := range children {
		if strings.TrimSpace(child.Name) == evalFormsFolderName {
			continue
		}

		files, err := a.source.ListChildren(ctx, child.ID)
		if err != nil {
			a.log.Warn(ctx, "submission folder listing failed, skipping",
				logger.String("folder", child.Name),
				logger.Error(err),
			)
			continue
		}

		for _, f := range files {
			if seen.SeenAndRecord(ctx, f.Name) {
				metrics.RecordDuplicateFileName()
				a.log.Debug(ctx, "duplicate file name skipped",
					logger.String("name", f.Name),
				)
				continue
			}

			award, ok := classifySubmission(strings.ToUpper(f.Name))
			if !ok {
				continue
			}

			id := submissionStudentNumber(f.Name)
			if id == "" {
				a.log.Warn(ctx, "file name yields no student number, skipping",
					logger.String("name", f.Name),
				)
				continue
			}

			tally.Add(Entry{StudentNumber: id, Points: award, Source: SourceClassroom})
		}
	}

	return tally
}

// submissionStudentNumber extracts the identifier from a classroom file
// name: the trimmed segment before the first underscore of the uppercased
// name, or the whole name when it has no underscore.
func submissionStudentNumber(name string) string {
	upper := strings.ToUpper(name)
	if i := strings.Index(upper, "_"); i >= 0 {
		upper = upper[:i]
	}
	return strings.TrimSpace(upper)
}

// Evaluation scores the evaluation form spreadsheets. Each sheet awards its
// per-file value once per distinct identifier; the same identifier across
// different sheets accumulates.
func (a *Aggregator) Evaluation(ctx context.Context) Tally {
	tally := make(Tally)

	files, err := a.source.ListChildren(ctx, a.evalFormsFolderID)
	if err != nil {
		a.log.Warn(ctx, "evaluation folder listing failed, rule contributes nothing",
			logger.String("folder_id", a.evalFormsFolderID),
			logger.Error(err),
		)
		return tally
	}

	for _, f := range files {
		table, err := a.source.SheetValues(ctx, f.ID, evalSheetName)
		if err != nil {
			a.log.Warn(ctx, "evaluation sheet fetch failed, skipping",
				logger.String("name", f.Name),
				logger.Error(err),
			)
			continue
		}
		if table == nil {
			continue
		}

		col := table.ColumnIndex(colStudentNumber)
		if col < 0 {
			a.log.Debug(ctx, "evaluation sheet has no student number column, skipping",
				logger.String("name", f.Name),
			)
			continue
		}

		award := RegularEvalAward
		if strings.Contains(strings.ToLower(f.Name), onboardingMarker) {
			award = OnboardingEvalAward
		}

		counted := make(map[string]struct{}, len(table.Rows))
		for _, row := range table.Rows {
			id := strings.TrimSpace(row[col])
			if id == "" {
				continue
			}
			if _, dup := counted[id]; dup {
				continue
			}
			counted[id] = struct{}{}

			tally.Add(Entry{StudentNumber: id, Points: award, Source: SourceEvaluation})
		}
	}

	return tally
}

// mergeRoster left-joins the combined totals onto the roster: every roster
// student appears exactly once, totals for identifiers outside the roster
// are dropped. When the roster is unavailable the raw totals are returned
// unmerged so partial results still render.
func (a *Aggregator) mergeRoster(ctx context.Context, combined Tally) []types.LeaderboardRow {
	if a.roster == nil {
		a.log.Warn(ctx, "no roster source configured, returning unmerged totals")
		return unmergedRows(combined)
	}

	records, err := a.roster.Load(ctx)
	if err != nil {
		metrics.RecordRosterFallback()
		a.log.Warn(ctx, "roster unavailable, returning unmerged totals",
			logger.Error(err),
		)
		return unmergedRows(combined)
	}

	rows := make([]types.LeaderboardRow, 0, len(records))
	for _, rec := range records {
		first := rec.FirstName
		if first == "" {
			first = fallbackFirstName
		}
		last := rec.LastName
		if last == "" {
			last = fallbackLastName
		}

		rows = append(rows, types.LeaderboardRow{
			StudentNumber: rec.StudentNumber,
			FirstName:     first,
			LastName:      last,
			Points:        combined[rec.StudentNumber],
		})
	}

	sortByPoints(rows)
	return rows
}

// unmergedRows renders a raw tally as leaderboard rows without names.
// Identifier order fixes a deterministic base before the points sort so
// ties keep a stable ordering.
func unmergedRows(combined Tally) []types.LeaderboardRow {
	rows := make([]types.LeaderboardRow, 0, len(combined))
	for id, total := range combined {
		rows = append(rows, types.LeaderboardRow{StudentNumber: id, Points: total})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentNumber < rows[j].StudentNumber })
	sortByPoints(rows)
	return rows
}

// sortByPoints orders rows descending by points, preserving the incoming
// order on ties.
func sortByPoints(rows []types.LeaderboardRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Points > rows[j].Points })
}
