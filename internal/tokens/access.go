package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

// NewAccessToken signs an HS256 access token. The dashboard never issues
// tokens itself; this is used by tooling and tests.
func NewAccessToken(claims AccessClaims, accessSecret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
}
