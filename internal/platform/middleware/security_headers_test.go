package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSecurityHeaders(t *testing.T) {
	rec, err := runMiddleware(t, SecurityHeaders(), okHandler, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"X-XSS-Protection", "0"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
		{"Referrer-Policy", "no-referrer"},
		{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
		{"Cache-Control", "no-store"},
	}
	for _, c := range checks {
		if got := rec.Header().Get(c.header); got != c.want {
			t.Errorf("%s = %q, want %q", c.header, got, c.want)
		}
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, handler should still run", rec.Code)
	}
}

func TestSecurityHeaders_SetEvenOnError(t *testing.T) {
	rec, err := runMiddleware(t, SecurityHeaders(), func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "no such doctor")
	}, nil)
	if err == nil {
		t.Fatal("handler error should propagate")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("headers should be set before the handler runs")
	}
}
