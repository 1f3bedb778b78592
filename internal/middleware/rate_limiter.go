package middleware

import (
	"sync"
	"time"
)

// RemainingHeader reports how many requests are left in the current window
const RemainingHeader = "X-RateLimit-Remaining"

// RateLimiter implements a simple in-memory fixed-window rate limiter keyed
// by team name and by client IP.
type RateLimiter struct {
	teamLimits map[string]*windowLimit
	ipLimits   map[string]*windowLimit
	mu         sync.Mutex

	teamMaxRequests int
	ipMaxRequests   int
	window          time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type windowLimit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter. A max of zero disables that
// limit.
func NewRateLimiter(teamMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		teamLimits:      make(map[string]*windowLimit),
		ipLimits:        make(map[string]*windowLimit),
		teamMaxRequests: teamMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
		stop:            make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// CheckTeamLimit checks if a team has exceeded its rate limit
func (rl *RateLimiter) CheckTeamLimit(team string) bool {
	return rl.check(rl.teamLimits, team, rl.teamMaxRequests)
}

// CheckIPLimit checks if IP has exceeded rate limit
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	return rl.check(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) check(limits map[string]*windowLimit, key string, max int) bool {
	if max <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &windowLimit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	// Check if limit exceeded
	if limit.requests >= max {
		return false
	}

	limit.requests++
	return true
}

// GetTeamRemaining returns remaining requests for a team
func (rl *RateLimiter) GetTeamRemaining(team string) int {
	return rl.remaining(rl.teamLimits, team, rl.teamMaxRequests)
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	return rl.remaining(rl.ipLimits, ip, rl.ipMaxRequests)
}

// remaining returns -1 when the limit is disabled
func (rl *RateLimiter) remaining(limits map[string]*windowLimit, key string, max int) int {
	if max <= 0 {
		return -1
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := limits[key]
	if !exists || time.Now().After(limit.resetTime) {
		return max
	}

	remaining := max - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := time.Now()
		for _, limits := range []map[string]*windowLimit{rl.teamLimits, rl.ipLimits} {
			for key, limit := range limits {
				if now.After(limit.resetTime) {
					delete(limits, key)
				}
			}
		}
		rl.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
