package domain

import "time"

// Status is a platform-specific deployment state normalized into a small
// closed set. The platform's raw state string is kept alongside on the
// record for display.
type Status string

const (
	StatusPending Status = "pending" // queued or building
	StatusLive    Status = "live"    // serving traffic
	StatusFailed  Status = "failed"  // build/update failed or canceled
	StatusUnknown Status = "unknown" // state string not recognized
)

// DeploymentRecord is the normalized representation of a platform's
// deployment or service status reply. Records are immutable after
// construction and discarded once rendered into response text.
type DeploymentRecord struct {
	// ID is the platform-assigned deployment identifier.
	ID string

	// Platform names the provider that produced the record ("vercel", "render").
	Platform string

	// URL is the externally visible URL or service identifier, when the
	// platform reports one.
	URL string

	// Status is the normalized state.
	Status Status

	// RawStatus is the platform's own state string (e.g. "BUILDING",
	// "build_in_progress"), preserved for display.
	RawStatus string

	// Target is the deployment target reported by the platform
	// (e.g. "production"), when available.
	Target string

	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Target is a deployable unit as enumerated by a platform's listing call.
// Used to resolve a human-supplied name to a platform identifier.
type Target struct {
	ID   string
	Name string
	Kind string // e.g. "project", "web_service"
}
