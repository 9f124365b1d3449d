package auth

import (
	"net/url"
	"sort"
	"strings"

	"github.com/spec-kit/shop-service/internal/domain"
)

// RoutePolicy guards one route prefix. An empty AllowedRoles set admits any
// authenticated identity; denial always redirects to RedirectTarget.
// AppendReturnPath controls whether the originally requested page is carried
// along as the `p` query value for post-login redirect-back.
type RoutePolicy struct {
	Prefix           string
	AllowedRoles     []domain.Role
	RedirectTarget   string
	AppendReturnPath bool
}

// Decision is the gate verdict for one request.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Gate decides per request whether a path may be reached by the resolved
// identity. The policy table is loaded once at startup and read-only after.
type Gate struct {
	policies []RoutePolicy
}

// NewGate builds a gate over the given policy table. Policies are kept
// sorted longest-prefix-first so the most specific entry wins.
func NewGate(policies []RoutePolicy) *Gate {
	sorted := make([]RoutePolicy, len(policies))
	copy(sorted, policies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Gate{policies: sorted}
}

// DefaultPolicies returns the two shipped route policies.
//
// The admin area turns strangers back to the site root ("you don't belong
// here"), while checkout sends anonymous visitors to login with the
// requested page preserved ("please log in"). The asymmetry is deliberate.
func DefaultPolicies() []RoutePolicy {
	return []RoutePolicy{
		{
			Prefix:         "/admin",
			AllowedRoles:   []domain.Role{domain.RoleAdmin, domain.RoleSuperUser, domain.RoleSEO},
			RedirectTarget: "/",
		},
		{
			Prefix:           "/checkout",
			AllowedRoles:     nil,
			RedirectTarget:   "/auth/login",
			AppendReturnPath: true,
		},
	}
}

// Evaluate matches the path against the policy table and decides
// Allow or deny-with-redirect. Paths outside every policy pass through.
// A nil identity is an anonymous caller; resolution failures upstream must
// map to nil so the gate fails closed.
func (g *Gate) Evaluate(identity *domain.Identity, path string) Decision {
	policy, ok := g.match(path)
	if !ok {
		return Decision{Allow: true}
	}

	if identity != nil && policy.permits(identity.Role) {
		return Decision{Allow: true}
	}

	target := policy.RedirectTarget
	if policy.AppendReturnPath {
		target += "?p=" + url.QueryEscape(SanitizeReturnPath(path))
	}
	return Decision{Allow: false, RedirectTo: target}
}

func (g *Gate) match(path string) (RoutePolicy, bool) {
	for _, policy := range g.policies {
		if strings.HasPrefix(path, policy.Prefix) {
			return policy, true
		}
	}
	return RoutePolicy{}, false
}

func (p RoutePolicy) permits(role domain.Role) bool {
	if len(p.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range p.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// SanitizeReturnPath keeps the post-login return value a same-origin
// relative path. Anything absolute, protocol-relative, or otherwise odd
// falls back to the site root to shut the open-redirect door.
func SanitizeReturnPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") {
		return "/"
	}
	// "//evil.example" is treated as protocol-relative by browsers.
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	if strings.ContainsAny(path, "\r\n") {
		return "/"
	}
	parsed, err := url.Parse(path)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return "/"
	}
	return path
}
