package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleClaim is the claim the API puts the account role under.
const RoleClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// DecodeRole reads the role claim from a bearer token without verifying its
// signature; the API does that on every request. It returns "" for malformed
// tokens or tokens without a role.
func DecodeRole(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{RoleClaim, "role"} {
		if role := claimString(claims[key]); role != "" {
			return role
		}
	}
	return ""
}

// claimString accepts a single string or the first string of a list.
func claimString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
