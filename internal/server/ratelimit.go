package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type rateEntry struct {
	count     int
	expiresAt time.Time
}

// RateLimiter enforces a per-IP fixed-window request ceiling. Each protected
// route group gets its own instance so the ceilings do not interfere.
type RateLimiter struct {
	max     int
	window  time.Duration
	message string

	mu      sync.Mutex
	entries map[string]*rateEntry
	now     func() time.Time
}

func NewRateLimiter(max int, window time.Duration, message string) *RateLimiter {
	l := &RateLimiter{
		max:     max,
		window:  window,
		message: message,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
	go l.sweep()
	return l
}

// sweep drops expired windows so idle clients do not pin memory.
func (l *RateLimiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := l.now()
		for ip, entry := range l.entries {
			if now.After(entry.expiresAt) {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[ip]
	if !ok || now.After(entry.expiresAt) {
		l.entries[ip] = &rateEntry{count: 1, expiresAt: now.Add(l.window)}
		return true
	}

	entry.count++
	return entry.count <= l.max
}

// Middleware rejects over-limit requests with a 429 envelope.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return respondError(c, http.StatusTooManyRequests, l.message, "")
			}
			return next(c)
		}
	}
}
