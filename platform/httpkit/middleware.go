// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"leadqualification_backend/platform/apperr"
	"leadqualification_backend/platform/config"
	"leadqualification_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID assigns every request an ID, reusing a caller-supplied one when present.
// The ID is echoed in the response and stored on the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		c.Header(HeaderRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.WithContext(c.Request.Context()).HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// CORS builds the cross-origin middleware from configuration.
// A wildcard origin combined with credentials echoes the caller's Origin,
// since browsers refuse a literal "*" on credentialed requests.
// Any request header is allowed: a preflight gets its own
// Access-Control-Request-Headers back as the allow list.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Language",
			"Authorization", "X-Requested-With", HeaderRequestID,
		},
		ExposeHeaders:    []string{"Content-Length", HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	switch {
	case cfg.GetCORSAllowAll() && cfg.GetCORSAllowCreds():
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	case cfg.GetCORSAllowAll():
		corsCfg.AllowAllOrigins = true
	default:
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}

	handler := cors.New(corsCfg)
	return func(c *gin.Context) {
		requested := c.GetHeader("Access-Control-Request-Headers")
		if c.Request.Method != http.MethodOptions || requested == "" {
			handler(c)
			return
		}

		original := c.Writer
		c.Writer = &preflightWriter{ResponseWriter: original, requestedHeaders: requested}
		handler(c)
		c.Writer = original
	}
}

// preflightWriter replaces the static allow-headers list of an accepted
// preflight with the headers the browser asked for.
type preflightWriter struct {
	gin.ResponseWriter
	requestedHeaders string
}

func (w *preflightWriter) WriteHeaderNow() {
	if !w.Written() && w.Header().Get("Access-Control-Allow-Origin") != "" {
		w.Header().Set("Access-Control-Allow-Headers", w.requestedHeaders)
	}
	w.ResponseWriter.WriteHeaderNow()
}

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

// IPRateLimiter manages per-IP rate limiters.
// Limiters idle for longer than limiterIdleTTL are evicted on a periodic sweep.
type IPRateLimiter struct {
	limiters  sync.Map
	rate      rate.Limit
	burst     int
	log       *logger.Logger
	now       func() time.Time
	lastSweep atomic.Int64
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	i := &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
		now:   time.Now,
	}
	i.lastSweep.Store(i.now().UnixNano())
	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := i.now()
	fresh := &ipLimiter{limiter: rate.NewLimiter(i.rate, i.burst)}
	fresh.lastSeen.Store(now.UnixNano())

	entry, loaded := i.limiters.LoadOrStore(ip, fresh)
	l := entry.(*ipLimiter)
	if loaded {
		l.lastSeen.Store(now.UnixNano())
	}

	i.sweep(now)
	return l.limiter
}

// sweep drops idle limiters at most once per limiterSweepInterval.
func (i *IPRateLimiter) sweep(now time.Time) {
	last := i.lastSweep.Load()
	if now.UnixNano()-last < int64(limiterSweepInterval) {
		return
	}
	if !i.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-limiterIdleTTL).UnixNano()
	i.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiter).lastSeen.Load() < cutoff {
			i.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := i.getLimiter(ip)

		if !limiter.Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			HandleError(c, apperr.TooManyRequests("rate limit exceeded"))
			c.Abort()
			return
		}

		c.Next()
	}
}
