package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	appauth "github.com/jdelacruz/schoolrecords/internal/app/auth"
	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/auth"
)

// Context and session keys.
const (
	ContextActorKey    = "actor"
	SessionUserIDKey   = "user_id"
	SessionCSRFKey     = "csrf_token"
	CSRFHeaderName     = "X-CSRFToken"
	sessionAuthFlagKey = "session_auth"
)

// AuthMiddleware authenticates requests with either a bearer token or the
// login session cookie, and enforces the role policy.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	loadUser   func(c *gin.Context, id int64) (*models.User, error)
}

// NewAuthMiddleware creates a new AuthMiddleware. loadUser resolves a
// session user id to an account.
func NewAuthMiddleware(jwtService *auth.JWTService, loadUser func(c *gin.Context, id int64) (*models.User, error)) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		loadUser:   loadUser,
	}
}

// Authenticate validates the bearer token when present, falling back to the
// session cookie. The resolved actor is attached to the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			m.authenticateBearer(c, header)
			return
		}
		m.authenticateSession(c)
	}
}

func (m *AuthMiddleware) authenticateBearer(c *gin.Context, header string) {
	tokenString, err := auth.ExtractBearerToken(header)
	if err != nil {
		abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
		return
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
			return
		}
		abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
		return
	}

	c.Set(ContextActorKey, &appauth.Actor{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      models.Role(claims.Role),
		StudentID: claims.StudentID,
	})
	c.Next()
}

func (m *AuthMiddleware) authenticateSession(c *gin.Context) {
	session := sessions.Default(c)

	userID, ok := session.Get(SessionUserIDKey).(int64)
	if !ok {
		abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
		return
	}

	user, err := m.loadUser(c, userID)
	if err != nil || !user.IsActive {
		abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
		return
	}

	// Cookie-authenticated writes need the double-submit CSRF token.
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		token, _ := session.Get(SessionCSRFKey).(string)
		if token == "" || c.GetHeader(CSRFHeaderName) != token {
			abortForbidden(c, "CSRF token missing or invalid")
			return
		}
	}

	c.Set(sessionAuthFlagKey, true)
	c.Set(ContextActorKey, &appauth.Actor{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		StudentID: user.StudentID,
	})
	c.Next()
}

// RequireOperation enforces the role policy for one API operation. It must
// run after Authenticate.
func (m *AuthMiddleware) RequireOperation(op appauth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}
		if !appauth.Allowed(op, actor.Role) {
			abortForbidden(c, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor for the request, or nil.
func GetActor(c *gin.Context) *appauth.Actor {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*appauth.Actor)
	if !ok {
		return nil
	}
	return actor
}

// MustGetActor returns the actor or writes a 401 and reports failure.
func MustGetActor(c *gin.Context) (*appauth.Actor, bool) {
	actor := GetActor(c)
	if actor == nil {
		HandleAPIError(c, apperrors.ErrInvalidCredentials)
		return nil, false
	}
	return actor, true
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, message)))
}
