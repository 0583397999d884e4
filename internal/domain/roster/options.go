// Package roster ingests the canonical student roster sheet.
package roster

import "github.com/xparky/portal/pkg/logger"

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithSheetName sets the sheet tab the roster lives in.
func WithSheetName(name string) Option {
	return func(s *Source) {
		if name != "" {
			s.sheetName = name
		}
	}
}

// WithPosition sets the cohort value rows must match when the Position
// column is present. An empty value disables the filter entirely.
func WithPosition(position string) Option {
	return func(s *Source) {
		s.position = position
	}
}

// WithLogger sets a custom logger for the source.
func WithLogger(log logger.Logger) Option {
	return func(s *Source) {
		if log != nil {
			s.log = log
		}
	}
}
