package flags

// Flag is one feature flag definition as served by the listing endpoint.
type Flag struct {
	Key string `json:"key"`

	// IsSimpleFlag marks flags whose decision is computed purely
	// client-side from the rollout hash, without a decide call.
	IsSimpleFlag bool `json:"is_simple_flag"`

	// RolloutPercentage is the fraction of subjects (0-100) that should
	// see the flag enabled. Absent means fully rolled out.
	RolloutPercentage *float64 `json:"rollout_percentage"`

	// Active flags are the only ones retained in the local table; an
	// inactive flag is indistinguishable from one that does not exist.
	Active bool `json:"active"`
}
