package types

import "fmt"

// Role represents the author of a persisted conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleUser,
		RoleAssistant,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Label returns the display label used when formatting conversation history
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
