package staff

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
	RoleOther Role = "other"
)

// ParseRole normalises role strings coming from the store ("Staff", " STAFF ").
// Anything unrecognised becomes RoleOther.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStaff:
		return RoleStaff
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleOther
	}
}

type Status string

const (
	StatusActive     Status = "active"
	StatusSuspended  Status = "suspended"
	StatusTerminated Status = "terminated"
)

// ParseStatus normalises a status string. Unknown values are rejected.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusSuspended:
		return StatusSuspended, nil
	case StatusTerminated:
		return StatusTerminated, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Member struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Status    Status
	DeviceID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

func (m Member) IsActive() bool {
	return m.Status == StatusActive
}
