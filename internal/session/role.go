package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

var ErrBadToken = errors.New("malformed session token")

// Role is the session-scoped capability flag set. It is read-only input
// to the projections and only ever replaced wholesale after a status
// re-check against the store; no UI action mutates it in place.
type Role struct {
	IsAdmin          bool `json:"is_admin"`
	IsApprovedSeller bool `json:"is_approved_seller"`
}

// Privileged reports whether the role sees management actions instead of
// the shopping actions.
func (r Role) Privileged() bool {
	return r.IsAdmin || r.IsApprovedSeller
}

// RoleFromToken reads the capability claims out of a store-issued session
// token. The store signed the token; the client treats its claims as
// authoritative and does not verify the signature (it has no secret, and
// the token only travels back to the store that minted it).
func RoleFromToken(token string) (Role, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Role{}, ErrBadToken
	}

	var role Role
	if v, ok := claims["is_admin"].(bool); ok {
		role.IsAdmin = v
	}
	if v, ok := claims["is_approved_seller"].(bool); ok {
		role.IsApprovedSeller = v
	}
	return role, nil
}
