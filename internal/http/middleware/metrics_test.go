package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())

	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "привет")
	})
	// 204 with no body leaves the writer size at -1 and skips the size
	// histogram.
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Baselines, since the registry is process-global.
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ok", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ghost", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ok -> %d", w.Code)
	}

	// Unmatched routes are labeled with the raw URL path.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /ghost -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/empty", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /empty -> %d", w.Code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ok", "200")); got != baseOK+1 {
		t.Fatalf("counter /ok = %v, want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ghost", "404")); got != base404+1 {
		t.Fatalf("counter /ghost = %v, want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("inflight gauge = %v after requests drained", inFlight)
	}
}
