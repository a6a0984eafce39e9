package services

import "codegaming/models"

// Identity is the resolved principal for a request: either an authenticated
// account or a guest session, never both. Handlers that accept both tracks
// switch on the concrete type.
type Identity interface {
	// DisplayName is the name shown on leaderboards and dashboards.
	DisplayName() string
}

// AuthedUser is the authenticated variant of Identity.
type AuthedUser struct {
	User      models.User
	SessionID string
	// RenewedToken carries a fresh JWT when the session was rotated during
	// resolution. Empty otherwise. The transport layer forwards it to the
	// client via a response header.
	RenewedToken string
}

func (a *AuthedUser) DisplayName() string {
	return a.User.Username
}

// GuestUser is the anonymous variant of Identity.
type GuestUser struct {
	Session models.GuestSession
}

func (g *GuestUser) DisplayName() string {
	return g.Session.Nickname
}
