package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedUsernames bounds the limiter map; idle limiters are evicted
// once it is reached.
const maxTrackedUsernames = 4096

// loginThrottle keeps one token bucket per username.
type loginThrottle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLoginThrottle(perSecond float64, burst int) *loginThrottle {
	if burst < 1 {
		burst = 1
	}
	return &loginThrottle{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow consumes one attempt for username at now.
func (t *loginThrottle) Allow(username string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[username]
	if !ok {
		if len(t.limiters) >= maxTrackedUsernames {
			t.evictIdle(now)
		}
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[username] = l
	}
	return l.AllowN(now, 1)
}

// evictIdle drops limiters whose bucket has refilled completely.
func (t *loginThrottle) evictIdle(now time.Time) {
	for name, l := range t.limiters {
		if l.TokensAt(now) >= float64(t.burst) {
			delete(t.limiters, name)
		}
	}
}
