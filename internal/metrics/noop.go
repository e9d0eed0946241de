package metrics

import "time"

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncGreetingRendered()                     {}
func (n *NoopRecorder) IncSampleQuery(bool)                      {}
func (n *NoopRecorder) ObserveSampleQueryDuration(time.Duration) {}
func (n *NoopRecorder) IncTokenIssued()                          {}
func (n *NoopRecorder) IncAuthFailure(string)                    {}
func (n *NoopRecorder) IncProtectedAccess()                      {}
