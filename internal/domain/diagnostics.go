package domain

// RunStatus summarizes how complete the data behind a report is.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusPartial  RunStatus = "partial"
	RunStatusFailed   RunStatus = "failed"
	RunStatusEmpty    RunStatus = "empty"
	RunStatusSkipped  RunStatus = "skipped"
)

// Diagnostics records what happened while a report's data was collected.
type Diagnostics struct {
	Status       RunStatus `json:"status"`
	Pages        int       `json:"pages"`
	Records      int       `json:"records"`
	SkippedPages int       `json:"skipped_pages,omitempty"`
	Duplicates   int       `json:"duplicates,omitempty"`
	Errors       []string  `json:"errors,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// Skipped builds diagnostics for a run that never reached the source.
func Skipped(reason string) Diagnostics {
	return Diagnostics{Status: RunStatusSkipped, Reason: reason}
}

// Degraded reports whether any data may be missing.
func (d Diagnostics) Degraded() bool {
	return d.Status == RunStatusPartial || d.Status == RunStatusFailed
}

// Cacheable reports whether a report with these diagnostics can be reused.
func (d Diagnostics) Cacheable() bool {
	return d.Status == RunStatusComplete || d.Status == RunStatusEmpty
}
