package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID      = "user_id"
	CtxRole        = "role"
	CtxCommunityID = "community_id"
)

// Auth verifies the bearer token and stores the caller's identity claims
// on the echo context. Tokens are HS256 only.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	keyFunc := func(*jwt.Token) (any, error) { return []byte(jwtSecret), nil }
	parser := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return err
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, keyFunc, parser...)
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, claims["sub"])
			c.Set(CtxRole, claims["role"])
			c.Set(CtxCommunityID, claims["community_id"])

			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return token, nil
}
