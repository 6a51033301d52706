package domain

// JobStatus tracks lifecycle state for a single compression job.
type JobStatus string

const (
	JobStatusIdle    JobStatus = "idle"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

// Settings contains user-selectable runtime configuration.
type Settings struct {
	Preset          string `json:"preset"`
	OutputDir       string `json:"outputDir"`
	GhostscriptPath string `json:"ghostscriptPath"`
}

// Job stores identity, file paths, and lifecycle status for one compression.
type Job struct {
	ID         string    `json:"id"`
	InputPath  string    `json:"inputPath"`
	OutputPath string    `json:"outputPath"`
	Preset     Preset    `json:"preset"`
	Status     JobStatus `json:"status"`
}

// HelperStatus reports whether a usable Ghostscript executable was found.
type HelperStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}
