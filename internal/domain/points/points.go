// Package points implements the XParky point aggregation rules.
package points

import (
	"strings"

	"github.com/xparky/portal/internal/domain/types"
)

// Award values for each scoring rule.
const (
	ProjectAward        = 150
	CertificateAward    = 100 // badges score the same as certificates
	OnboardingEvalAward = 70
	RegularEvalAward    = 200
)

// Keywords a classroom file name must carry to score. Matching happens on
// the uppercased name.
const (
	keywordCertificate = "CERTIFICATE"
	keywordBadge       = "BADGE"
	keywordProject     = "PROJECT"
)

// Source tags recorded on point entries.
const (
	SourceClassroom  = "classroom"
	SourceEvaluation = "evaluation"
)

// Entry is one transient point award attributed to a student. Entries are
// summed per identifier, never overwritten.
type Entry struct {
	StudentNumber string
	Points        int
	Source        string
}

// Tally accumulates entries into per-student running totals.
type Tally map[string]int

// Add folds one entry into the tally.
func (t Tally) Add(e Entry) {
	t[e.StudentNumber] += e.Points
}

// Merge folds every total of other into t.
func (t Tally) Merge(other Tally) {
	for id, total := range other {
		t[id] += total
	}
}

// classifySubmission returns the award an uppercased classroom file name
// earns. Names without a scoring keyword earn nothing.
func classifySubmission(upperName string) (int, bool) {
	switch {
	case strings.Contains(upperName, keywordProject):
		return ProjectAward, true
	case strings.Contains(upperName, keywordCertificate),
		strings.Contains(upperName, keywordBadge):
		return CertificateAward, true
	default:
		return 0, false
	}
}

// Stats summarizes a computed leaderboard.
type Stats struct {
	Students      int     `json:"students"`
	TotalPoints   int     `json:"total_points"`
	AveragePoints float64 `json:"average_points"`
	HighestPoints int     `json:"highest_points"`
	LowestPoints  int     `json:"lowest_points"`
}

// Summarize computes the summary statistics for a leaderboard.
func Summarize(rows []types.LeaderboardRow) Stats {
	stats := Stats{Students: len(rows)}
	if len(rows) == 0 {
		return stats
	}

	stats.HighestPoints = rows[0].Points
	stats.LowestPoints = rows[0].Points
	for _, row := range rows {
		stats.TotalPoints += row.Points
		if row.Points > stats.HighestPoints {
			stats.HighestPoints = row.Points
		}
		if row.Points < stats.LowestPoints {
			stats.LowestPoints = row.Points
		}
	}
	stats.AveragePoints = float64(stats.TotalPoints) / float64(stats.Students)
	return stats
}
