package auth

import (
	"net/url"
	"testing"

	"github.com/spec-kit/shop-service/internal/domain"
)

func identity(id string, role domain.Role) *domain.Identity {
	return &domain.Identity{ID: id, Email: id + "@example.com", Role: role}
}

func TestAdminAreaRoles(t *testing.T) {
	gate := NewGate(DefaultPolicies())

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSuperUser, domain.RoleSEO} {
		decision := gate.Evaluate(identity("u1", role), "/admin/orders")
		if !decision.Allow {
			t.Fatalf("role %s: expected allow", role)
		}
	}

	decision := gate.Evaluate(identity("u1", domain.RoleClient), "/admin/orders")
	if decision.Allow {
		t.Fatal("client must not reach the admin area")
	}
	if decision.RedirectTo != "/" {
		t.Fatalf("admin denial must redirect to site root, got %q", decision.RedirectTo)
	}
}

func TestAdminAreaAnonymousRedirectsToRoot(t *testing.T) {
	gate := NewGate(DefaultPolicies())

	decision := gate.Evaluate(nil, "/admin/dashboard")
	if decision.Allow {
		t.Fatal("anonymous must not reach the admin area")
	}
	if decision.RedirectTo != "/" {
		t.Fatalf("expected redirect to /, got %q", decision.RedirectTo)
	}
}

func TestCheckoutRequiresAnyAuthenticatedIdentity(t *testing.T) {
	gate := NewGate(DefaultPolicies())

	for _, role := range []domain.Role{domain.RoleClient, domain.RoleAdmin, domain.RoleSuperUser, domain.RoleSEO} {
		decision := gate.Evaluate(identity("u1", role), "/checkout/summary")
		if !decision.Allow {
			t.Fatalf("role %s: expected allow on checkout", role)
		}
	}
}

func TestCheckoutAnonymousRedirectPreservesPath(t *testing.T) {
	gate := NewGate(DefaultPolicies())

	decision := gate.Evaluate(nil, "/checkout/address")
	if decision.Allow {
		t.Fatal("anonymous must not reach checkout")
	}

	parsed, err := url.Parse(decision.RedirectTo)
	if err != nil {
		t.Fatalf("redirect target not a URL: %v", err)
	}
	if parsed.Path != "/auth/login" {
		t.Fatalf("expected login redirect, got %q", parsed.Path)
	}
	if got := parsed.Query().Get("p"); got != "/checkout/address" {
		t.Fatalf("expected p=/checkout/address, got %q", got)
	}
}

func TestUnguardedPathsPassThrough(t *testing.T) {
	gate := NewGate(DefaultPolicies())

	for _, path := range []string{"/", "/products/shirt", "/auth/validate-token", "/order/history"} {
		if decision := gate.Evaluate(nil, path); !decision.Allow {
			t.Fatalf("path %s: expected pass-through for anonymous", path)
		}
	}
}

func TestLongestPrefixWins(t *testing.T) {
	gate := NewGate([]RoutePolicy{
		{Prefix: "/admin", AllowedRoles: []domain.Role{domain.RoleAdmin}, RedirectTarget: "/"},
		{Prefix: "/admin/seo", AllowedRoles: []domain.Role{domain.RoleSEO}, RedirectTarget: "/"},
	})

	if decision := gate.Evaluate(identity("u1", domain.RoleSEO), "/admin/seo/reports"); !decision.Allow {
		t.Fatal("SEO should match the more specific policy")
	}
	if decision := gate.Evaluate(identity("u1", domain.RoleSEO), "/admin/orders"); decision.Allow {
		t.Fatal("SEO must not pass the general admin policy here")
	}
}

func TestSanitizeReturnPath(t *testing.T) {
	cases := map[string]string{
		"/checkout/address":           "/checkout/address",
		"/orders/abc?tab=2":           "/orders/abc?tab=2",
		"":                            "/",
		"https://evil.example/phish":  "/",
		"//evil.example":              "/",
		"/\\evil.example":             "/",
		"relative/path":               "/",
		"/ok\r\nSet-Cookie: pwn=1":    "/",
		"javascript:alert(1)":         "/",
	}
	for input, want := range cases {
		if got := SanitizeReturnPath(input); got != want {
			t.Fatalf("SanitizeReturnPath(%q) = %q, want %q", input, got, want)
		}
	}
}
