package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter держит token bucket на каждый IP клиента.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	// простая уборка давно неактивных клиентов
	for key, other := range l.visitors {
		if now.Sub(other.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
	return v.limiter
}

func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter(ip).AllowN(l.now(), 1)
}

// RateLimit отвечает 429, когда клиент превысил лимит.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Fail("Too many requests. Please try again later.", nil))
			return
		}
		c.Next()
	}
}
