// Package points implements the XParky point aggregation rules.
package points

import (
	"github.com/xparky/portal/internal/domain/roster"
	"github.com/xparky/portal/pkg/logger"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithFolders sets the classroom and evaluation-forms folder identifiers.
func WithFolders(classroomFolderID, evalFormsFolderID string) Option {
	return func(a *Aggregator) {
		a.classroomFolderID = classroomFolderID
		a.evalFormsFolderID = evalFormsFolderID
	}
}

// WithRoster sets the roster source used by the merge rule. Without one the
// aggregator always returns unmerged totals.
func WithRoster(src *roster.Source) Option {
	return func(a *Aggregator) {
		a.roster = src
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}
