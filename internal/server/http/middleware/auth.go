package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/dispatch/internal/domain/model"
	pkgAuth "github.com/polkiloo/dispatch/internal/pkg/auth"
	"github.com/polkiloo/dispatch/internal/server/http/dto"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated caller.
	PrincipalContextKey = "principal"
	// AuthCookieName carries the bearer token for browser clients.
	AuthCookieName = "dispatch_token"
)

// TokenParser resolves a bearer token into the caller principal.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (model.Principal, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		principal, err := parser.ParseToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// RequireRole rejects callers whose role differs from role. It must run after AuthRequired.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if principal.Role != role {
			abort(c, http.StatusForbidden, string(role)+" access required")
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by AuthRequired.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	val, ok := c.Get(PrincipalContextKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := val.(model.Principal)
	return principal, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", false, true)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}
