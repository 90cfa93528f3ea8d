package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_MasksAndRedacts(t *testing.T) {
	buf := captureLogger(t)

	r := gin.New()
	// Simulate the upstream RequestID middleware setting the response header.
	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-resp")
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/chats/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b+tag@example.com&phone=+1-555-123-4567&id=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodGet, "/chats/abc?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set("X-Request-ID", "rid-req")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) {
		t.Fatalf("expected info level: %s", logs)
	}
	// Route pattern, not the raw URL.
	if !strings.Contains(logs, `"path":"/chats/:id"`) {
		t.Fatalf("expected route pattern path: %s", logs)
	}
	// The response header wins over the request header.
	if !strings.Contains(logs, `"request_id":"rid-resp"`) {
		t.Fatalf("expected request_id from response header: %s", logs)
	}
	for _, marker := range []string{"[REDACTED:email]", "[REDACTED:phone]", "[REDACTED:id]"} {
		if !strings.Contains(logs, marker) {
			t.Fatalf("query missing %s: %s", marker, logs)
		}
	}
	for _, hdr := range []string{`"Authorization":"[REDACTED]"`, `"Cookie":"[REDACTED]"`, `"X-Api-Key":"[REDACTED]"`} {
		if !strings.Contains(logs, hdr) {
			t.Fatalf("header not masked (%s): %s", hdr, logs)
		}
	}
	// Non-masked headers get pattern redaction only.
	if !strings.Contains(logs, `"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`) {
		t.Fatalf("X-Custom not pattern-redacted: %s", logs)
	}
}

func TestRedactingLogger_LevelsAndRequestIDFallback(t *testing.T) {
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	// Without a response header the logger falls back to the request's id.
	req := httptest.NewRequest(http.MethodGet, "/warn", nil)
	req.Header.Set("X-Request-ID", "rid-warn")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	req = httptest.NewRequest(http.MethodGet, "/error", nil)
	req.Header.Set("X-Request-ID", "rid-err")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"request_id":"rid-warn"`) {
		t.Fatalf("warn log wrong: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"request_id":"rid-err"`) {
		t.Fatalf("error log wrong: %s", logs)
	}
}
