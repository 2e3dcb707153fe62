package constants

// RunStatus is the canonical status for rows in the runs table.
type RunStatus string

// Stable values (store these exact strings in the run store).
const (
	RunStatusRunning   RunStatus = "RUNNING"   // in progress
	RunStatusSucceeded RunStatus = "SUCCEEDED" // at least one document produced output
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure, no document succeeded
)
