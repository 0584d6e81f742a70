package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/metrics"
	"github.com/madspace-uw/madspace/internal/server/ratelimit"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const userKey = "user"

// SessionVerifier checks a session cookie, implemented by *firebase.Auth.
type SessionVerifier interface {
	VerifySession(ctx context.Context, cookie string) (*types.User, error)
}

// Options configures the middleware manager.
type Options struct {
	SessionCookie     string
	RateLimit         int
	RateWindowSeconds int
}

// Manager wires all HTTP middlewares with shared dependencies.
type Manager struct {
	sessions     SessionVerifier
	sessionCache *cache.Cache
	rateLimiter  *ratelimit.Limiter
	log          *zap.Logger
	opts         Options
}

// NewManager builds a middleware manager for the HTTP server.
func NewManager(sessions SessionVerifier, sessionCache *cache.Cache, limiter *ratelimit.Limiter, log *zap.Logger, opts Options) *Manager {
	return &Manager{
		sessions:     sessions,
		sessionCache: sessionCache,
		rateLimiter:  limiter,
		log:          log,
		opts:         opts,
	}
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *types.User {
	value, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := value.(*types.User)
	return user
}

// Session resolves the session cookie to a user. Requests without a valid
// cookie continue anonymously and a bad cookie is cleared.
func (m *Manager) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(m.opts.SessionCookie)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		if cached, found := m.sessionCache.Get(cookie); found {
			if user, ok := cached.(*types.User); ok {
				c.Set(userKey, user)
				c.Next()
				return
			}
		}

		user, err := m.sessions.VerifySession(c.Request.Context(), cookie)
		if err != nil {
			m.log.Debug("rejected session cookie", zap.Error(err))
			c.SetCookie(m.opts.SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		m.sessionCache.Set(cookie, user, cache.DefaultExpiration)
		c.Set(userKey, user)
		c.Next()
	}
}

// Forget drops a cookie from the session cache, used on sign out.
func (m *Manager) Forget(cookie string) {
	m.sessionCache.Delete(cookie)
}

// ForgetUser drops every cached cookie that resolved to uid, so revoked
// sessions on other devices stop working immediately.
func (m *Manager) ForgetUser(uid string) {
	for cookie, item := range m.sessionCache.Items() {
		if user, ok := item.Object.(*types.User); ok && user.UID == uid {
			m.sessionCache.Delete(cookie)
		}
	}
}

// RequireUser sends anonymous visitors to the sign-in page and back again
// afterwards.
func (m *Manager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		next := c.Request.URL.Path
		if c.Request.Method != http.MethodGet {
			next = "/account"
		}
		c.Redirect(http.StatusSeeOther, "/auth?next="+url.QueryEscape(next))
		c.Abort()
	}
}

// RateLimit enforces per-client request limits.
func (m *Manager) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !m.rateLimiter.Allow(key, m.opts.RateLimit, m.opts.RateWindowSeconds) {
			retry := m.rateLimiter.Remaining(key)
			c.Header("Retry-After", fmt.Sprintf("%d", int(retry.Round(time.Second).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// Logger writes one structured line per request.
func (m *Manager) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			m.log.Error("request", fields...)
			return
		}
		m.log.Info("request", fields...)
	}
}

// Recovery turns panics into a 500 and logs them.
func (m *Manager) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		m.log.Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// Metrics records request counts and latencies by route template.
func (m *Manager) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// SafeNext returns next when it is a local path, otherwise "/".
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
