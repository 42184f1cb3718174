package actor

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is the caller's resolved role. Identity resolution itself is an
// external collaborator; this core only trusts the resolved value.
type Role string

const (
	RoleRequester Role = "requester"
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRequester, RoleOwner, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsOwner() bool {
	return a.Role == RoleOwner
}
