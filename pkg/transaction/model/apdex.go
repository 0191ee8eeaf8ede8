package model

// ApdexZone is the performance-satisfaction classification of one
// transaction against the agent run's apdex threshold.
type ApdexZone string

const (
	ApdexSatisfying  ApdexZone = "satisfying"
	ApdexTolerating  ApdexZone = "tolerating"
	ApdexFrustrating ApdexZone = "frustrating"
	// ApdexIgnore marks transactions that do not participate in apdex at
	// all (background work).
	ApdexIgnore ApdexZone = "ignore"
)
