package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/inclusion-hub/heva/internal/logging"
	"github.com/inclusion-hub/heva/internal/middleware"
	"github.com/inclusion-hub/heva/internal/users"
)

func newHandlerApp(t *testing.T, repo Repository, source DashboardSource) (*fiber.App, users.User) {
	t.Helper()
	s := newStore()
	userSvc := users.NewService(s.users)
	user, err := userSvc.Register(context.Background(), users.Registration{
		Email:    "neema@example.org",
		Password: "long-enough",
		FullName: "Neema",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	f := newUpdaterFixture(repo)
	if source == nil {
		source = NewScanSource(s.users, s.entries, s.stories)
	}
	agg := NewAggregator(source, nil, logging.Discard())
	metrics := NewMetricsService(agg, NewMemoryRepository(), logging.Discard())

	h := NewHandler(userSvc, f.updater, agg, metrics)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Discard())})
	app.Get("/users/:userId/analytics", h.UserAnalytics)
	app.Get("/dashboard", h.Dashboard)
	return app, user
}

func errorBody(t *testing.T, app *fiber.App, path string, wantStatus int) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s: expected %d got %d", path, wantStatus, resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body["error"]
}

func TestUserAnalyticsUnavailableIs503(t *testing.T) {
	app, user := newHandlerApp(t, failingRepository{upsertErr: errors.New("connection reset")}, nil)

	msg := errorBody(t, app, "/users/"+user.ID+"/analytics", fiber.StatusServiceUnavailable)
	if msg != ErrUnavailable.Error() {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestDashboardFailureHidesCause(t *testing.T) {
	app, _ := newHandlerApp(t, NewMemoryRepository(), failingSource{})

	msg := errorBody(t, app, "/dashboard", fiber.StatusInternalServerError)
	if msg != "dashboard unavailable" {
		t.Fatalf("expected generic message, got %q", msg)
	}
}
