// Package ratelimit throttles API clients per endpoint rule.
//
// Each (client, rule) pair owns a token bucket from golang.org/x/time/rate.
// Buckets idle for longer than an hour are swept in the background.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleTTL = time.Hour

// Info describes the outcome of a single Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type bucket struct {
	lim   *rate.Limiter
	limit int
	seen  time.Time
}

// Limiter hands out per-client buckets for the configured endpoint rules.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 1000 requests a minute.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweepLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether clientID may call method on path right now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	rule, ruleKey := l.ruleFor(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucketFor(clientID+":"+ruleKey, rule, now)

	allowed := b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now,
	}
	if missing := float64(b.lim.Burst()) - tokens; missing > 0 {
		info.ResetTime = now.Add(wait(missing, b.lim.Limit()))
	}
	if !allowed {
		info.RetryAfter = wait(1-tokens, b.lim.Limit()).Round(time.Second)
		if info.RetryAfter < time.Second {
			info.RetryAfter = time.Second
		}
	}
	return allowed, info
}

// ruleFor resolves the endpoint rule. Every request matching one rule shares
// a bucket, so ids in the path do not multiply the allowance.
func (l *Limiter) ruleFor(path, method string) (*EndpointConfig, string) {
	if rule := MatchEndpoint(path, method, l.config.EndpointConfigs); rule != nil {
		return rule, rule.key()
	}
	return &EndpointConfig{
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}, "default"
}

func (l *Limiter) bucketFor(key string, rule *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := rule.Burst
		if burst <= 0 {
			burst = rule.Limit
		}
		perSecond := rate.Limit(float64(rule.Limit) / rule.Window.Seconds())
		b = &bucket{lim: rate.NewLimiter(perSecond, burst), limit: rule.Limit}
		l.buckets[key] = b
	}
	b.seen = now
	return b
}

// wait is the time needed to accrue n tokens at r.
func wait(n float64, r rate.Limit) time.Duration {
	if r <= 0 || n <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(n / float64(r) * float64(time.Second)))
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(l.now())
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets not touched within idleTTL of now.
func (l *Limiter) sweep(now time.Time) int {
	cutoff := now.Add(-idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
