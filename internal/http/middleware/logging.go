// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file covers the correlation and logging pipeline:
//
//   - RequestID() stamps every request with a correlation ID, carried via
//     X-Request-ID in both directions and kept in the Gin context.
//   - Logger() writes one structured access log line per request, attaches
//     a request-scoped zerolog.Logger, and chooses the level from the
//     outcome (info/warn/error).
//   - Recovery() turns panics into JSON 500 responses without losing the
//     correlation ID, logging the stack trace.
//   - LoggerFrom() hands the request-scoped logger to handlers and services.
//
// Install RequestID first, then Logger, then Recovery, so panics and errors
// carry the correlation ID.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the correlation ID.
	requestIDKey = "requestID"
	// requestIDHeader carries the correlation ID on the wire.
	requestIDHeader = "X-Request-ID"
	// maxQueryLogLength caps the logged bytes of the raw query string.
	maxQueryLogLength = 2048
)

// RequestID reuses an incoming X-Request-ID or mints a fresh UUIDv4, echoes
// it in the response header, and stores it in the Gin context for the rest
// of the chain.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// requestID reads the correlation ID stashed by RequestID, empty when that
// middleware did not run.
func requestID(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	return asString(v)
}

// Logger records method, route path, remote IP, user agent, correlation ID,
// request size, status, latency, and bytes written for every request. It
// also puts a request-scoped zerolog.Logger into the Gin context under
// "logger" for downstream code.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		uid, _ := c.Get("userID")
		path := c.FullPath()
		if path == "" {
			// Unmatched route, log the raw path instead.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", requestID(c)).
			Str("user_id", asString(uid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Logger()

		c.Set("logger", &l)

		c.Next()

		status := c.Writer.Status()
		out := l.With().
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			out.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			out.Error().Msg("request")
		case status >= 400:
			out.Warn().Msg("request")
		default:
			out.Info().Msg("request")
		}
	}
}

// Recovery catches panics, logs the stack trace, and answers with a JSON
// 500 carrying the correlation ID. When the response body has already been
// started, only the status can change.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := requestID(c)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger, falling back to the
// global logger when Logger() did not run. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString returns v when it is a string, "" for anything else.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// truncate caps s at max bytes and appends an ellipsis when it cuts. A max
// of zero or less disables truncation; byte-level cutting is acceptable for
// log output.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
