package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/response"
)

const (
	principalKey = "principal"
	tokenKey     = "session_token"
)

// SessionResolver turns a session token into the principal it belongs to.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*user.Principal, error)
}

// AuthMiddleware requires a valid session, taken from the Bearer header or
// the session cookie, and stores the resolved principal on the context.
func AuthMiddleware(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		principal, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, user.ErrInvalidSession) || errors.Is(err, apperror.ErrAuthFailure) {
				response.Unauthorized(c, "invalid or expired session")
			} else {
				response.FromError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// SessionToken extracts the raw token, preferring the Authorization header.
func SessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentPrincipal returns the principal set by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (*user.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*user.Principal)
	return p, ok
}

// CurrentToken returns the token the request authenticated with.
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
