package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run carries the values captured once at the start of a persistence run.
// Every artifact derived during the run shares StartedAt.
type Run struct {
	ID        string
	StartedAt time.Time
}

func NewRun(now time.Time) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: now,
	}
}

// CreateTime is the epoch-seconds stamp written on every relational row of the run.
func (r Run) CreateTime() uint32 {
	sec := r.StartedAt.Unix()
	if sec < 0 {
		return 0
	}
	return uint32(sec)
}
