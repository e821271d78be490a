package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimit enforces a per-client request budget. When a Redis client is
// provided the window is shared across instances via redis_rate; otherwise,
// or when Redis is unreachable, a process-local token bucket is used.
func RateLimit(rdb *redis.Client, perMinute int) func(http.Handler) http.Handler {
	var shared *redis_rate.Limiter
	if rdb != nil {
		shared = redis_rate.NewLimiter(rdb)
	}
	local := newLocalLimiter(perMinute)
	limit := redis_rate.PerMinute(perMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)

			if shared != nil {
				res, err := shared.Allow(r.Context(), "ratelimit:ip:"+ip, limit)
				if err == nil {
					w.Header().Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
					w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
					if res.Allowed == 0 {
						retryAfter := int(res.RetryAfter.Seconds())
						if retryAfter < 1 {
							retryAfter = 1
						}
						w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
						w.WriteHeader(http.StatusTooManyRequests)
						return
					}
					next.ServeHTTP(w, r)
					return
				}
				// Redis unavailable, fall through to the local bucket.
			}

			if !local.allow(ip) {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type localLimiter struct {
	mu        sync.Mutex
	perMinute int
	buckets   map[string]*localBucket
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const localBucketTTL = 10 * time.Minute

func newLocalLimiter(perMinute int) *localLimiter {
	return &localLimiter{
		perMinute: perMinute,
		buckets:   make(map[string]*localBucket),
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{
			limiter: rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute),
		}
		l.buckets[key] = b
		l.evictStale(now)
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

func (l *localLimiter) evictStale(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > localBucketTTL {
			delete(l.buckets, key)
		}
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
