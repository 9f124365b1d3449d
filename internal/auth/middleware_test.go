package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/observability"
)

func newGateTestApp(t *testing.T, store *fakeIdentityStore) (*fiber.App, *SessionResolver) {
	t.Helper()
	resolver := newTestResolver(t, store, time.Hour)
	middleware := NewGateMiddleware(NewGate(DefaultPolicies()), resolver, zap.NewNop(), observability.NewMetrics())

	app := fiber.New()
	app.Use(middleware.Handle)
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/", ok)
	app.Get("/admin/orders", ok)
	app.Get("/checkout/summary", ok)
	return app, resolver
}

func TestGateMiddlewareAnonymousAdminRedirectsToRoot(t *testing.T) {
	app, _ := newGateTestApp(t, &fakeIdentityStore{users: map[string]*domain.User{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
}

func TestGateMiddlewareAnonymousCheckoutRedirectsToLogin(t *testing.T) {
	app, _ := newGateTestApp(t, &fakeIdentityStore{users: map[string]*domain.User{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/checkout/summary", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("bad Location header: %v", err)
	}
	if loc.Path != "/auth/login" {
		t.Fatalf("expected login redirect, got %q", loc.Path)
	}
	if got := loc.Query().Get("p"); got != "/checkout/summary" {
		t.Fatalf("expected p=/checkout/summary, got %q", got)
	}
}

func TestGateMiddlewareClientCookiePassesCheckout(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleClient},
	}}
	app, resolver := newGateTestApp(t, store)

	token, _, err := resolver.Tokens().Sign("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/checkout/summary", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGateMiddlewareClientDeniedAdminArea(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleClient},
	}}
	app, resolver := newGateTestApp(t, store)

	token, _, err := resolver.Tokens().Sign("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
}

func TestGateMiddlewareBearerHeaderAccepted(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*domain.User{
		"a1": {ID: "a1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin},
	}}
	app, resolver := newGateTestApp(t, store)

	token, _, err := resolver.Tokens().Sign("a1", "root@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
