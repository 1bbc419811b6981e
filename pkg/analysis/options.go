// Package analysis turns dispatcher matches, applied operations and the
// rule registry into flat report models. The models are computed once
// and shared by every reporter format.
package analysis

import "github.com/yaklabco/quickfix/pkg/config"

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// SortField specifies how to sort catalog entries.
type SortField string

const (
	// SortByID sorts rules by identifier.
	SortByID SortField = "id"
	// SortByName sorts rules alphabetically by name.
	SortByName SortField = "name"
	// SortByRegistration keeps registration order, the order the
	// dispatcher runs rules in.
	SortByRegistration SortField = "registration"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByID, SortByName, SortByRegistration:
		return true
	default:
		return false
	}
}

// Options configures report construction.
type Options struct {
	// Preview performs every listed operation in memory and attaches its
	// diff to the listing.
	Preview bool

	// Jobs is the number of operations previewed concurrently.
	// If zero or negative, runtime.NumCPU() is used.
	Jobs int

	// SortBy orders catalog entries.
	SortBy SortField

	// RuleFormat controls how rule identifiers appear.
	RuleFormat config.RuleFormat

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SortBy:     SortByID,
		RuleFormat: config.RuleFormatCombined,
	}
}
