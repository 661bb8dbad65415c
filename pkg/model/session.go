package model

import "time"

// Session is a console browser session. It maps a cookie to the API bearer token.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"-"` // API bearer token (not exposed via JSON)
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsAdmin reports whether the token's role claim is the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdminClaim
}
