package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
)

const ctxKeyPrincipal = "principal"

// Principal is the authenticated caller. Tokens are issued by the account
// service; this service only verifies them.
type Principal struct {
	UserID string
	Role   string
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var (
	errMissingToken = apperr.UnauthorizedErr("Authentication required.")
	errBadToken     = apperr.UnauthorizedErr("Invalid or expired token.")
	errForbidden    = apperr.ForbiddenErr("You are not allowed to do that.")
)

// SignToken issues an HS256 token for userID; used by tooling and tests.
func SignToken(secret, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Principal{}, err
	}
	if !tok.Valid || claims.Subject == "" {
		return Principal{}, errors.New("token without subject")
	}
	return Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

// Auth requires a valid "Authorization: Bearer <jwt>" header.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			Fail(c, errMissingToken)
			return
		}
		p, err := parseToken(secret, strings.TrimSpace(raw))
		if err != nil {
			Fail(c, errBadToken.WithCause(err))
			return
		}
		c.Set(ctxKeyPrincipal, p)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			Fail(c, errMissingToken)
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		Fail(c, errForbidden)
	}
}

func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ctxKeyPrincipal)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
