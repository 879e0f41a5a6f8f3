package model

import "time"

// Job status values recorded in history.
const (
	JobStatusOK     = "OK"
	JobStatusFailed = "FAILED"
)

// RenderJob is one pipeline run, persisted for history.
type RenderJob struct {
	ID         string
	StartedAt  time.Time
	Source     string // data source name
	Symbol     string
	Label      string
	Points     int
	Frames     int
	Reveal     bool
	OutputPath string
	OutputSize int64
	Elapsed    time.Duration
	Status     string
	Error      string
}
