package jobrun

import "time"

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunEvent is one background duty execution outcome.
type RunEvent struct {
	ID         string
	JobName    string
	Status     string
	Detail     string
	Error      string
	OccurredAt time.Time
}
