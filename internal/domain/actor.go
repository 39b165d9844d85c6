package domain

import "github.com/google/uuid"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func (a Actor) IsAnonymous() bool { return a.UserID == uuid.Nil }

// Anonymous is the caller of public endpoints.
var Anonymous = Actor{}
