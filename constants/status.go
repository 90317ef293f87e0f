package constants

// JobStatus is the canonical status for rows in extract_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // submitted, waiting for a worker
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusExtracted JobStatus = "EXTRACTED" // at least one line item found
	JobStatusEmpty     JobStatus = "EMPTY"     // no strategy produced items; needs manual entry
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)

// Terminal reports whether no further transitions are expected.
func (s JobStatus) Terminal() bool {
	return s == JobStatusExtracted || s == JobStatusEmpty || s == JobStatusFailed
}
