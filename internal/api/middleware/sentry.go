package middleware

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
)

const (
	// RequestIDKey is the gin context key and RequestIDHeader the header
	// carrying the request correlation ID.
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	sentryFlushTimeout = 2 * time.Second
	unmatchedRoute     = "unmatched"
)

// requestID reuses a well-formed upstream ID so gateway and API logs line
// up, and mints a new one otherwise.
func requestID(c *gin.Context) string {
	if id := c.GetHeader(RequestIDHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return uuid.New().String()
}

// RequestTracking tags each request with an ID, logs its outcome and feeds
// the request counters.
func RequestTracking(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c)
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		fields := logger.WithContext(c)
		fields["route"] = route
		fields["status_code"] = status
		fields["duration_ms"] = elapsed.Milliseconds()
		fields["client_ip"] = c.ClientIP()

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed with server error", nil, fields)
		case status >= http.StatusBadRequest:
			logger.Warn("Request failed with client error", fields)
		default:
			logger.Info("Request completed", fields)
		}

		recorder.APIRequest(c.Request.Context(), route, status, elapsed)
	}
}

// SentryMiddleware attaches a Sentry hub to every request.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: sentryFlushTimeout,
	})
}

// RecoverWithSentry turns panics into a 500 and reports them with the
// request ID and owner attached.
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			id := c.GetString(RequestIDKey)

			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetRequest(c.Request)
					scope.SetTag(RequestIDKey, id)
					if owner := c.GetString(OwnerKey); owner != "" {
						scope.SetUser(sentry.User{ID: owner})
					}
					hub.RecoverWithContext(c.Request.Context(), rec)
				})
			}

			logger.Error("Panic recovered", nil, logger.Fields{
				RequestIDKey: id,
				"panic":      rec,
				"path":       c.Request.URL.Path,
			})

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": id,
			})
		}()
		c.Next()
	}
}
