package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// VisitorLimiter applies a token-bucket limit per client address. Buckets for
// idle clients are pruned so the map cannot grow without bound.
type VisitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// idleEviction is how long a client may be silent before its bucket is dropped.
const idleEviction = 10 * time.Minute

// NewVisitorLimiter builds a per-client limiter allowing rps requests per
// second with the given burst. Returns nil when rps is zero, which disables
// limiting entirely.
func NewVisitorLimiter(rps float64, burst int) *VisitorLimiter {
	if rps <= 0 {
		return nil
	}
	return &VisitorLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether the client identified by key may proceed.
func (l *VisitorLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.visitors[key]
	if !ok {
		l.prune(now)
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

// prune drops idle buckets. Called with l.mu held.
func (l *VisitorLimiter) prune(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleEviction {
			delete(l.visitors, key)
		}
	}
}
