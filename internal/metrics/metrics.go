// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Authorization failure reasons.
const (
	ReasonMissingCredentials = "missing_credentials"
	ReasonWrongCredentials   = "wrong_credentials"
	ReasonInvalidToken       = "invalid_token"
)

// Recorder captures metric events for the application.
type Recorder interface {
	IncGreetingRendered()
	IncSampleQuery(success bool)
	ObserveSampleQueryDuration(duration time.Duration)
	IncTokenIssued()
	IncAuthFailure(reason string)
	IncProtectedAccess()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
