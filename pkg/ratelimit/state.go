// Package ratelimit records Mailbox API rate-limit observations. It parses
// the Retry-After header on 429 responses and keeps the resulting window
// visible to operators and, via Redis, to sibling processes. It never gates,
// throttles, or retries requests; surfacing the condition is the whole job.
package ratelimit

import (
	"time"
)

// Redis keys for shared rate-limit observations.
const (
	RedisKeyBlockedUntil = "helpscout:rate_limit:blocked_until"
	RedisKeyLastObserved = "helpscout:rate_limit:last_observed"
)

// State is the most recent rate-limit observation. When shared via Redis it
// reflects the whole fleet, not just this process.
type State struct {
	// BlockedUntil is when the last reported Retry-After window ends.
	// Zero when no 429 has been observed.
	BlockedUntil time.Time `json:"blocked_until"`

	// LastObserved is when the last 429 was seen.
	LastObserved time.Time `json:"last_observed"`
}

// Active returns true while the last observed Retry-After window is open.
func (s *State) Active() bool {
	return time.Now().Before(s.BlockedUntil)
}

// TimeUntilReset returns the remaining duration of the observed window.
// Returns 0 once the window has passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.BlockedUntil)
	if duration < 0 {
		return 0
	}
	return duration
}

// IsStale returns true if the observation is older than the given duration.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastObserved) > maxAge
}
