// Package sessiontest builds bearer tokens shaped like the API's for tests.
package sessiontest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/me/heroconsole/internal/session"
)

// Token returns a signed token carrying role under the API's role claim.
// An empty role produces a token without the claim.
func Token(role string) string {
	claims := jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims[session.RoleClaim] = role
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("sessiontest-key"))
	if err != nil {
		panic(err)
	}
	return tok
}
