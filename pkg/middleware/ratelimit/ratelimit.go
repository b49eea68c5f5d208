// Package ratelimit limits request rates per client IP.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/bukucerdas/bookstore/pkg/logging"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*entry
	rate    rate.Limit
	burst   int
	now     func() time.Time
}

func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		clients: make(map[string]*entry),
		rate:    rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.clients[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = l.now()
	return e.limiter
}

func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Cleanup drops limiters idle for longer than maxIdle and reports how many
// were removed.
func (l *Limiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxIdle)
	removed := 0
	for k, e := range l.clients {
		if e.lastSeen.Before(cutoff) {
			delete(l.clients, k)
			removed++
		}
	}
	return removed
}

func (l *Limiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if !l.Allow(ip) {
			logging.FromContext(c.Request().Context()).Warn("rate_limit_exceeded", "remote_ip", ip, "path", c.Path())
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
		}
		return next(c)
	}
}
