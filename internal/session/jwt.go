package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// EmailFromToken extracts the subject claim from the bearer token for
// display purposes only. The backend puts the user's email in "sub"; when
// the verify endpoint omits the email field this is the fallback. The
// signature is deliberately not verified — the server remains the only
// authority on token validity, this is cosmetic.
func EmailFromToken(token string) string {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
