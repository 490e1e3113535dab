package auth

import (
	"fmt"
	"strings"
)

// Staff roles. Baristas read order activity; admins additionally manage the
// catalog and staff accounts.
const (
	RoleBarista = "BARISTA"
	RoleAdmin   = "ADMIN"
)

// User is a staff account. Password always holds the bcrypt hash, never the
// plain text.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

// NormalizeRole canonicalizes a requested role. Empty means barista.
func NormalizeRole(role string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case "":
		return RoleBarista, nil
	case RoleBarista:
		return RoleBarista, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}
