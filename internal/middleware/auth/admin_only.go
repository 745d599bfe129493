package auth

import (
	"net/http"
	"strings"

	"github.com/JMPenyaP/fixer-back-end/internal/tokens"
	"github.com/labstack/echo/v4"
)

type Guard struct {
	JWTSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{JWTSecret: secret}
}

// RequireAdmin accepts an access token from the accessToken cookie or a
// bearer Authorization header and lets only the admin role through.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, g.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if claims.Role != tokens.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie("accessToken"); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
