package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND, config.RATE_LIMIT_CLIENT_IDLE)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rateLimit rate.Limit
	burstRate int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		clients:   make(map[string]*client),
		rateLimit: r,
		burstRate: b,
		idle:      idle,
		now:       time.Now,
	}
}

func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if i.idle > 0 && now.Sub(i.lastSweep) > i.idle {
		for k, c := range i.clients {
			if now.Sub(c.lastSeen) > i.idle {
				delete(i.clients, k)
			}
		}
		i.lastSweep = now
	}

	c, ok := i.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (i *IPRateLimiter) tracked() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

//TODO: move the per-ip limiters into redis once serve mode runs behind more than one replica
