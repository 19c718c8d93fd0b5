package domain

import "time"

// PersistStats holds statistics about a persistence run.
type PersistStats struct {
	RunID    string
	Kind     string
	Target   string
	Items    int
	Written  int
	Skipped  int
	Failed   int
	Duration time.Duration
}
