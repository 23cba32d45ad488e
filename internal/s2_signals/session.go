package s2_signals

import "github.com/c0ughman/nasdaqst/backend/internal/contracts"

// Session is the per-run set of fingerprints already scored.
// The orchestrator creates one per run; it is not shared across runs.
type Session struct {
	seen map[contracts.Fingerprint]struct{}
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{seen: make(map[contracts.Fingerprint]struct{})}
}

// Novelty returns 1.0 the first time fp is seen in this session and
// repeat afterwards
func (s *Session) Novelty(fp contracts.Fingerprint, repeat float64) float64 {
	if _, ok := s.seen[fp]; ok {
		return repeat
	}
	s.seen[fp] = struct{}{}
	return 1.0
}

// Seen reports whether fp was already scored in this session
func (s *Session) Seen(fp contracts.Fingerprint) bool {
	_, ok := s.seen[fp]
	return ok
}

// Len returns the number of distinct fingerprints seen
func (s *Session) Len() int {
	return len(s.seen)
}
