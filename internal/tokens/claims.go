package tokens

import "github.com/golang-jwt/jwt/v5"

// Both token kinds share {sub, email}; the refresh token additionally
// carries a JTI so rotations are observable in logs.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
