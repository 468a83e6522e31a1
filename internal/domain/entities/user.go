package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMecanico Role = "mecanico"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleMecanico:
		return RoleMecanico, true
	}
	return "", false
}

// User is a staff profile allowed to sign in.
type User struct {
	ID           string
	Email        string
	FullName     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// AuthSession is the identity attached to one authenticated request.
// It is built by the auth middleware and handed to whoever needs it.
type AuthSession struct {
	UserID    string
	FullName  string
	Role      Role
	ExpiresAt time.Time
}

func (s AuthSession) IsAdmin() bool {
	return s.Role == RoleAdmin
}
