package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUnset     Role = "unset"
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

// ParseRole maps a form value onto a Role. The login dropdown's placeholder
// ("Select Role"), empty input and unknown values all map to RoleUnset.
func ParseRole(label string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(label))) {
	case RoleStudent:
		return RoleStudent
	case RoleRecruiter:
		return RoleRecruiter
	default:
		return RoleUnset
	}
}

// Session is the login state of one client. It exists only in memory.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	LoggedIn  bool      `json:"logged_in"`
	CreatedAt time.Time `json:"created_at"`
}
