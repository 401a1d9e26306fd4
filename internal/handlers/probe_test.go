package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"seokeys/internal/handlers"
	"seokeys/internal/mock"
)

func TestProbeHandler(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		pingErr  error
		wantCode int
	}{
		{name: "liveness ignores store", path: "/livez", pingErr: errors.New("down"), wantCode: http.StatusOK},
		{name: "readiness ok", path: "/readyz", wantCode: http.StatusOK},
		{name: "readiness store down", path: "/readyz", pingErr: errors.New("down"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &mock.Store{PingFn: func(context.Context) error { return tt.pingErr }}
			h := handlers.NewProbeHandler(st)

			app := fiber.New()
			app.Get("/livez", h.Liveness)
			app.Get("/readyz", h.Readiness)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
		})
	}
}
