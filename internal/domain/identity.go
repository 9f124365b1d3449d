package domain

import (
	"fmt"
	"time"
)

// Role is the authorization tier assigned to a user.
type Role string

const (
	RoleClient    Role = "client"
	RoleAdmin     Role = "admin"
	RoleSuperUser Role = "super-user"
	RoleSEO       Role = "SEO"
)

// ParseRole maps a stored role string onto the closed enumeration.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleClient, RoleAdmin, RoleSuperUser, RoleSEO:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Identity is the verified caller for the duration of one request.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// User is the identity-store record. The role here is authoritative;
// session tokens never carry it.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity projects the store record into a request identity.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
