package recorder

import "MysteryChart/internal/model"

// NoopRecorder discards everything. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordJob(_ *model.RenderJob) error { return nil }

func (n *NoopRecorder) RecentJobs(_ int) ([]model.RenderJob, error) { return nil, nil }

func (n *NoopRecorder) Close() error { return nil }
