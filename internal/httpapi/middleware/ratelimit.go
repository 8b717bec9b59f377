package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Entries idle longer than this are dropped so the per-IP map cannot grow
// without bound.
const throttleIdleTTL = 10 * time.Minute

type throttledClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipThrottle struct {
	mu      sync.Mutex
	clients map[string]*throttledClient
	rps     int
}

func newIPThrottle(rps int) *ipThrottle {
	return &ipThrottle{clients: make(map[string]*throttledClient), rps: rps}
}

func (t *ipThrottle) limiter(ip string, now time.Time) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.clients[ip]
	if !ok {
		// sweep on new-client inserts only; known clients pay nothing
		t.sweep(now)
		c = &throttledClient{limiter: rate.NewLimiter(rate.Limit(t.rps), t.rps)}
		t.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (t *ipThrottle) sweep(now time.Time) {
	for ip, c := range t.clients {
		if now.Sub(c.lastSeen) > throttleIdleTTL {
			delete(t.clients, ip)
		}
	}
}

// Throttle limits each client IP to rps requests per second with a burst of
// the same size. Used on the auth endpoints, which the source left
// unthrottled.
func Throttle(rps int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	t := newIPThrottle(rps)

	return func(c *gin.Context) {
		if !t.limiter(c.ClientIP(), time.Now()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"detail": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
