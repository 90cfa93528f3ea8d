// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, an HTTP access logger that scrubs
// personal data from request metadata before anything reaches the log sink.
// Bodies are never logged. Emails, phone numbers, and UUID-shaped tokens in
// queries and header values are replaced with typed placeholders, and
// sensitive headers (Authorization, Cookie, Set-Cookie, plus configured
// extras) are masked wholesale.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	redactUUIDRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	redactEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits only, so the hex runs inside a UUID never look like a phone.
	redactPhoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// scrubValue replaces PII-shaped substrings with typed placeholders. UUIDs
// go first; once their digit groups are gone the phone pattern cannot latch
// onto them.
func scrubValue(s string) string {
	if s == "" {
		return s
	}
	s = redactUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	s = redactEmailRE.ReplaceAllString(s, "[REDACTED:email]")
	return redactPhoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactOptions names additional headers whose values are replaced with
// "[REDACTED]" entirely. Matching is case-insensitive and added on top of
// the built-in sensitive set.
type RedactOptions struct {
	MaskHeaders []string
}

// maskSet merges the caller's extra headers with the always-masked ones,
// keyed by lowercase name.
func maskSet(extra []string) map[string]struct{} {
	set := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}

// RedactingLogger returns a Gin middleware that logs each request with
// sensitive values scrubbed. 5xx responses log at ERROR, 4xx at WARN,
// everything else at INFO.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := maskSet(opts.MaskHeaders)

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrubValue(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for name, vv := range c.Request.Header {
			if _, hide := masked[strings.ToLower(name)]; hide {
				safeHeaders[name] = "[REDACTED]"
				continue
			}
			safeHeaders[name] = scrubValue(strings.Join(vv, ", "))
		}

		c.Next()

		status := c.Writer.Status()

		// Prefer the ID the server stamped on the response; fall back to
		// whatever the client sent.
		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
