package shared

const (
	// StateKey is the well-known key the DeviceState record lives under.
	StateKey = "guardian_lock_state"

	// ParentID is the fiber locals key carrying the authenticated parent id.
	ParentID = "parent_id"

	// PassThreshold is the fraction of quiz answers that must be correct
	// before an unlock session is granted.
	PassThreshold = 0.8

	// PollInterval is the change-bus polling backstop, in milliseconds.
	PollIntervalMs = 1000
)
