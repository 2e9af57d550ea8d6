package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RequestRateLimiter enforces a minimum delay between outbound requests
// so scraped sites see polite traffic. Safe for concurrent use.
type RequestRateLimiter struct {
	minimumDelay    time.Duration
	lastRequestTime time.Time
	mutex           sync.Mutex
}

func NewRequestRateLimiter(minimumDelay time.Duration) *RequestRateLimiter {
	return &RequestRateLimiter{
		minimumDelay:    minimumDelay,
		lastRequestTime: time.Now().Add(-minimumDelay),
	}
}

// Wait blocks until the minimum delay since the previous request has
// elapsed, then records the current request.
func (l *RequestRateLimiter) Wait() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	elapsed := time.Since(l.lastRequestTime)
	if elapsed < l.minimumDelay {
		remaining := l.minimumDelay - elapsed
		logrus.WithFields(logrus.Fields{
			"component":       "RequestRateLimiter",
			"remaining_delay": remaining,
		}).Debug("Enforcing rate limit delay")
		time.Sleep(remaining)
	}
	l.lastRequestTime = time.Now()
}
