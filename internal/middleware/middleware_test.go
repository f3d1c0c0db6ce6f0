package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/httputil"
	"github.com/persistorai/socialgraph/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func get(r http.Handler, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func limitedRouter(t *testing.T, ratePerSec float64, burst int) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.Use(middleware.NewRateLimiter(ctx, ratePerSec, burst).Handler())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_BlocksExceedingBurst(t *testing.T) {
	r := limitedRouter(t, 1, 2)

	for i := range 3 {
		w := get(r, "1.2.3.4")
		if i < 2 && w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
		if i == 2 {
			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("request %d: expected 429, got %d", i, w.Code)
			}

			var body httputil.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Code != "rate_limited" {
				t.Errorf("code = %q", body.Code)
			}
		}
	}
}

func TestRateLimiter_IndependentClients(t *testing.T) {
	r := limitedRouter(t, 1, 1)

	get(r, "1.1.1.1")
	if w := get(r, "2.2.2.2"); w.Code != http.StatusOK {
		t.Fatalf("different IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	r := limitedRouter(t, 1_000_000, 1)

	get(r, "5.5.5.5")
	if w := get(r, "5.5.5.5"); w.Code != http.StatusOK {
		t.Fatalf("expected tokens to refill, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		r := gin.New()
		r.Use(middleware.SecurityHeaders(hsts))
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := get(r, "1.2.3.4")

		if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q", got)
		}
		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Control = %q", got)
		}
		if got := w.Header().Get("Strict-Transport-Security") != ""; got != hsts {
			t.Errorf("hsts=%v: header present = %v", hsts, got)
		}
	}
}

func TestRequestID(t *testing.T) {
	var fromCtx string

	r := gin.New()
	r.Use(middleware.RequestID(testLogger()))
	r.GET("/test", func(c *gin.Context) {
		fromCtx = middleware.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "client-chosen")
	r.ServeHTTP(w, req)

	id := w.Header().Get(middleware.RequestIDHeader)
	if id == "" || id == "client-chosen" {
		t.Errorf("request ID = %q, want a fresh server ID", id)
	}
	if fromCtx != id {
		t.Errorf("context ID = %q, header ID = %q", fromCtx, id)
	}
}

func TestMaxBodySize(t *testing.T) {
	r := gin.New()
	r.Use(middleware.MaxBodySize(8))
	r.POST("/test", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("code = %d, want 413", w.Code)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Metrics())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", http.NoBody))
	if w.Code != http.StatusNotFound {
		t.Errorf("code = %d", w.Code)
	}
}
