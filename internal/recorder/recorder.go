package recorder

import "MysteryChart/internal/model"

// Recorder persists render job history for later inspection.
type Recorder interface {
	RecordJob(job *model.RenderJob) error
	RecentJobs(limit int) ([]model.RenderJob, error)
	Close() error
}
