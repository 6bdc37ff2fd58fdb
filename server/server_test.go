package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakmate/component"
	"github.com/kbukum/speakmate/logger"
)

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, logger.Nop())
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("addr = %s", cfg.Addr())
	}
	if cfg.MaxBodySize != "26MB" {
		t.Errorf("max body = %s", cfg.MaxBodySize)
	}
	if cfg.CORS.AllowedOrigins[0] != "*" || !cfg.CORS.AllowCredentials {
		t.Errorf("cors = %+v", cfg.CORS)
	}
	if len(cfg.RateLimit.SkipPaths) != 3 || cfg.RateLimit.SkipPaths[0] != "/" {
		t.Errorf("rate limit skip paths = %v", cfg.RateLimit.SkipPaths)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.Port = 70000
	if cfg.Validate() == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestHandler_AppliesMiddleware(t *testing.T) {
	s := newTestServer(t, nil)
	s.GinEngine().GET("/boom", func(*gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

func TestDefaultEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.RegisterDefaultEndpoints("speakmate", func(context.Context) []component.Health {
		return []component.Health{{Name: "coach", Status: component.StatusDegraded}}
	})

	tests := []struct {
		path   string
		status int
		key    string
	}{
		{"/health", http.StatusOK, "components"},
		{"/livez", http.StatusOK, "status"},
		{"/version", http.StatusOK, "version"},
		{"/info", http.StatusOK, "routes"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			if rr.Code != tc.status {
				t.Fatalf("status = %d", rr.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if _, ok := body[tc.key]; !ok {
				t.Errorf("missing %q in %v", tc.key, body)
			}
		})
	}
}

func TestHealth_UnhealthyIs503(t *testing.T) {
	s := newTestServer(t, nil)
	s.RegisterDefaultEndpoints("speakmate", func(context.Context) []component.Health {
		return []component.Health{{Name: "coach", Status: component.StatusUnhealthy}}
	})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRateLimitEnabled(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RateLimit.Enabled = true
		c.RateLimit.Rate = 0.001
		c.RateLimit.Burst = 1
	})
	s.GinEngine().GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "hi"}) })
	s.GinEngine().POST("/speak", func(c *gin.Context) { c.Status(http.StatusOK) })
	s.RegisterDefaultEndpoints("speakmate", func(context.Context) []component.Health { return nil })

	send := func(method, path string) int {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
		return rr.Code
	}

	if code := send(http.MethodPost, "/speak"); code != http.StatusOK {
		t.Fatalf("first upload = %d", code)
	}
	if code := send(http.MethodPost, "/speak"); code != http.StatusTooManyRequests {
		t.Fatalf("second upload = %d, want 429", code)
	}
	// Liveness stays reachable for a throttled client.
	for _, path := range []string{"/", "/livez", "/health"} {
		for i := 0; i < 3; i++ {
			if code := send(http.MethodGet, path); code != http.StatusOK {
				t.Fatalf("GET %s = %d, want 200", path, code)
			}
		}
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Port = 0 })
	s.GinEngine().GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	comp := NewComponent(s)

	if comp.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("server should be unhealthy before start")
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })

	if comp.Health(context.Background()).Status != component.StatusHealthy {
		t.Error("server should be healthy once bound")
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/", s.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
