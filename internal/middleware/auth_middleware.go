package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/auth"
	"github.com/yigit/codetrack/internal/pkg/websocket"
)

// Context keys set by JWTAuth
const (
	identityKey = "identity"
	userKey     = "user"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	directory  *appauth.IdentityDirectory
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, directory *appauth.IdentityDirectory) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		directory:  directory,
	}
}

// JWTAuth validates the bearer token and resolves the caller's current role
// tags. Browsers cannot set headers on a WebSocket handshake, so the token may
// also arrive as the "token" query parameter.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.KindUnauthenticated, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortWithError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			abortWithError(c, err)
			return
		}

		user, identity, err := m.directory.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Set(userKey, user)
		c.Set(websocket.UserIDKey, identity.UserID)

		c.Next()
	}
}

// RoleRequired rejects callers that hold none of roles. It runs after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			abortWithError(c, apperrors.ErrTokenInvalid)
			return
		}

		for _, r := range roles {
			if identity.Roles.Has(r) {
				c.Next()
				return
			}
		}
		abortWithError(c, apperrors.NewPermissionDeniedError("you don't have sufficient permissions for this operation"))
	}
}

// CurrentIdentity returns the caller resolved by JWTAuth
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

func abortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}
