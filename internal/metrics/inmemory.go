package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	GreetingsRendered        uint64
	SampleQuerySuccesses     uint64
	SampleQueryErrors        uint64
	SampleQueryDurationCount uint64
	SampleQueryDurationNs    int64
	TokensIssued             uint64
	AuthMissingCredentials   uint64
	AuthWrongCredentials     uint64
	AuthInvalidTokens        uint64
	ProtectedAccesses        uint64
}

// InMemoryRecorder stores counters in memory with atomic updates.
type InMemoryRecorder struct {
	greetingsRendered        atomic.Uint64
	sampleQuerySuccesses     atomic.Uint64
	sampleQueryErrors        atomic.Uint64
	sampleQueryDurationCount atomic.Uint64
	sampleQueryDurationNs    atomic.Int64
	tokensIssued             atomic.Uint64
	authMissingCredentials   atomic.Uint64
	authWrongCredentials     atomic.Uint64
	authInvalidTokens        atomic.Uint64
	protectedAccesses        atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		GreetingsRendered:        m.greetingsRendered.Load(),
		SampleQuerySuccesses:     m.sampleQuerySuccesses.Load(),
		SampleQueryErrors:        m.sampleQueryErrors.Load(),
		SampleQueryDurationCount: m.sampleQueryDurationCount.Load(),
		SampleQueryDurationNs:    m.sampleQueryDurationNs.Load(),
		TokensIssued:             m.tokensIssued.Load(),
		AuthMissingCredentials:   m.authMissingCredentials.Load(),
		AuthWrongCredentials:     m.authWrongCredentials.Load(),
		AuthInvalidTokens:        m.authInvalidTokens.Load(),
		ProtectedAccesses:        m.protectedAccesses.Load(),
	}
}

func (m *InMemoryRecorder) IncGreetingRendered() {
	m.greetingsRendered.Add(1)
}

func (m *InMemoryRecorder) IncSampleQuery(success bool) {
	// Outcomes are counted separately so a snapshot never has to subtract.
	if success {
		m.sampleQuerySuccesses.Add(1)
		return
	}
	m.sampleQueryErrors.Add(1)
}

func (m *InMemoryRecorder) ObserveSampleQueryDuration(duration time.Duration) {
	m.sampleQueryDurationCount.Add(1)
	m.sampleQueryDurationNs.Add(duration.Nanoseconds())
}

func (m *InMemoryRecorder) IncTokenIssued() {
	m.tokensIssued.Add(1)
}

// IncAuthFailure counts a failure by reason. Unknown reasons are ignored.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	switch reason {
	case ReasonMissingCredentials:
		m.authMissingCredentials.Add(1)
	case ReasonWrongCredentials:
		m.authWrongCredentials.Add(1)
	case ReasonInvalidToken:
		m.authInvalidTokens.Add(1)
	}
}

func (m *InMemoryRecorder) IncProtectedAccess() {
	m.protectedAccesses.Add(1)
}
