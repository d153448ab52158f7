// Package ratelimit limits how often a member may change bookings.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/clock"
)

// Config holds rate limit configuration.
type Config struct {
	MutationsPerMinute int           // Booking mutations allowed per member per window (default: 20)
	Window             time.Duration // Counting window (default: 1m)

	// Clock for testing (nil uses real time)
	Clock clock.Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		MutationsPerMinute: 20,
		Window:             time.Minute,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Remaining  int
}

// entry tracks the mutations of one member in the current window.
type entry struct {
	count   int
	firstAt time.Time
}

// Limiter counts booking mutations per member in fixed windows.
type Limiter struct {
	config   *Config
	clock    clock.Clock
	mu       sync.Mutex
	byMember map[int64]*entry

	// Cleanup goroutine management
	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MutationsPerMinute <= 0 {
		cfg.MutationsPerMinute = DefaultConfig().MutationsPerMinute
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clk,
		byMember:      make(map[int64]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow records one mutation for memberID when it fits in the current window.
// A rejected attempt is not counted.
func (l *Limiter) Allow(memberID int64) LimitResult {
	l.startCleanup()
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.byMember[memberID]
	if e == nil || now.Sub(e.firstAt) >= l.config.Window {
		l.byMember[memberID] = &entry{count: 1, firstAt: now}
		return LimitResult{Allowed: true, Remaining: l.config.MutationsPerMinute - 1}
	}
	if e.count >= l.config.MutationsPerMinute {
		return LimitResult{
			Allowed:    false,
			RetryAfter: l.config.Window - now.Sub(e.firstAt),
		}
	}
	e.count++
	return LimitResult{Allowed: true, Remaining: l.config.MutationsPerMinute - e.count}
}

// Reset forgets the window of memberID.
func (l *Limiter) Reset(memberID int64) {
	l.mu.Lock()
	delete(l.byMember, memberID)
	l.mu.Unlock()
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.byMember {
		if now.Sub(e.firstAt) >= l.config.Window {
			delete(l.byMember, k)
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost public IP from X-Forwarded-For.
// When trustProxy is false, X-Forwarded-For is ignored.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "127.0.0.0/8", "::1/128", "fc00::/7", "fe80::/10"} {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		nets = append(nets, network)
	}
	return nets
}()

func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// LogRateLimitExceeded logs a rejected mutation.
func LogRateLimitExceeded(ctx context.Context, memberID int64, ip string, retryAfter time.Duration) {
	log.Ctx(ctx).Warn().
		Str("event", "rate_limit_exceeded").
		Int64("member_id", memberID).
		Str("ip", ip).
		Dur("retry_after", retryAfter).
		Msg("Booking mutation rate limit exceeded")
}
