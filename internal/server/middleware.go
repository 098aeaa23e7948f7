package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"deal-rater/internal/auth"
	"deal-rater/internal/dealerrors"
	"deal-rater/internal/metrics"
	"deal-rater/services/deals/helpers"
	"deal-rater/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RequestLoggerMiddleware logs incoming requests with timing and counts them per route
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	latency := time.Since(start)
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": latency.String(),
		"user_id": c.GetString(helpers.CallerKey),
	})
}

// ResponseTimeMiddleware reports handler latency in the X-Response-Time header
func ResponseTimeMiddleware(c *gin.Context) {
	start := time.Now()
	w := &timedWriter{ResponseWriter: c.Writer, start: start}
	c.Writer = w
	c.Next()
	// handlers that only set a status write nothing; gin flushes the header after the chain
	w.stamp()
}

// timedWriter stamps X-Response-Time right before the headers go out
type timedWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timedWriter) stamp() {
	if !w.Written() {
		w.Header().Set("X-Response-Time", fmt.Sprintf("%dms", time.Since(w.start).Milliseconds()))
	}
}

func (w *timedWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timedWriter) Write(data []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(data)
}

func (w *timedWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// AuthMiddleware resolves the caller from a Bearer token and stores the user ID in the context
func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			err := fmt.Errorf("middleware: %w - authorization header missing or invalid", dealerrors.ErrUnauthorized)
			utils.JSONAbort(c, http.StatusUnauthorized, err, "authentication required")
			return
		}

		claims, err := issuer.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONAbort(c, http.StatusUnauthorized, errors.Join(dealerrors.ErrUnauthorized, err), "invalid token")
			utils.Warn("AuthMiddleware: rejected token", map[string]any{"path": c.Request.URL.Path, "error": err.Error()})
			return
		}

		c.Set(helpers.CallerKey, claims.UserID())
		c.Next()
	}
}

// RateLimiter hands out one token bucket per caller
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per caller with bursts of the same size
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Middleware rejects callers that ran out of tokens with 429. It must run after AuthMiddleware.
func (l *RateLimiter) Middleware(c *gin.Context) {
	key := c.GetString(helpers.CallerKey)
	if key == "" {
		key = c.ClientIP()
	}
	if !l.get(key).Allow() {
		utils.JSONAbort(c, http.StatusTooManyRequests, errors.New("rate limit exceeded"), "too many requests")
		utils.Warn("RateLimiter: request throttled", map[string]any{"key": key, "path": c.Request.URL.Path})
		return
	}
	c.Next()
}
