package routes

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/inclusion-hub/heva/internal/config"
	"github.com/inclusion-hub/heva/internal/logging"
)

func TestSetupRequiresBackendsOutsideDevelopment(t *testing.T) {
	_, err := Setup(fiber.New(), Deps{Cfg: config.Config{AppEnv: "production"}, Logger: logging.Discard()})
	if err == nil {
		t.Fatalf("expected error without database in production")
	}
}

func TestHealthReportsMemoryBackends(t *testing.T) {
	app := fiber.New()
	if _, err := Setup(app, Deps{Cfg: config.Config{AppName: "test", AppEnv: "development"}}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status map[string]string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status["postgres"] != "memory" || body.Status["redis"] != "disabled" {
		t.Fatalf("unexpected health %+v", body.Status)
	}
}

func TestWritesRequireIdempotencyKeyWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	cfg := config.Config{AppEnv: "development", IdempotencyTTL: time.Minute, RateLimitPerMinute: 10}
	if _, err := Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	register := `{"email": "k@example.org", "password": "longenough", "full_name": "K"}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/users", strings.NewReader(register))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", resp.StatusCode)
	}

	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(fiber.MethodPost, "/api/v1/users", strings.NewReader(register))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set("Idempotency-Key", "register-k")
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("attempt %d: expected replayed 201, got %d", i, resp.StatusCode)
		}
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/users/missing/analytics", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get("X-RateLimit-Limit") != "10" {
		t.Fatalf("expected analytics route to be rate limited")
	}
}
