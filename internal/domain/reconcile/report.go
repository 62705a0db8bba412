package reconcile

import "time"

// Report is the outcome of one reconciliation run against one server. The
// run compares the backend's key list with the local rows and records every
// divergence; orphan deletion only happens when DryRun is false.
type Report struct {
	ID       uint
	ServerID uint
	DryRun   bool
	// RemoteTotal is the number of keys the backend reported.
	RemoteTotal int
	// Matched keys exist on both sides.
	Matched int
	// BackfilledRemoteIDs counts legacy rows whose backend id was filled in
	// by email matching.
	BackfilledRemoteIDs int
	// MissingOnServer lists local key IDs with no backend counterpart.
	// These are reported, never auto-recreated.
	MissingOnServer []uint
	// OrphansOnServer lists backend key identifiers with no local row.
	OrphansOnServer []string
	// OrphansDeleted is how many orphans were removed (0 in dry-run).
	OrphansDeleted int
	CreatedAt      time.Time
}
