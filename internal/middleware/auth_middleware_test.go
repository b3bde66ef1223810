package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	appauth "github.com/jdelacruz/schoolrecords/internal/app/auth"
	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/auth"
)

const testCSRFToken = "6f1c2f1e-csrf-test-token"

func newTestJWTService(accessExp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "schoolrecords.test",
	})
}

func testUser(role models.Role) *models.User {
	studentID := "202212312"
	user := &models.User{
		ID:       1,
		Username: "jdelacruz",
		Role:     role,
		IsActive: true,
	}
	if role == models.RoleStudent {
		user.StudentID = &studentID
	}
	return user
}

// newAuthTestRouter builds a router with session support, the auth
// middleware and a couple of test routes. loadUser backs session auth.
func newAuthTestRouter(loadUser func(c *gin.Context, id int64) (*models.User, error), jwtService *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-session-secret"))))

	authMiddleware := NewAuthMiddleware(jwtService, loadUser)

	// Establishes a logged-in session the way the login controller does.
	router.POST("/session-login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserIDKey, int64(1))
		session.Set(SessionCSRFKey, testCSRFToken)
		_ = session.Save()
		c.Status(http.StatusOK)
	})

	protected := router.Group("", authMiddleware.Authenticate())
	protected.GET("/me", func(c *gin.Context) {
		actor, ok := MustGetActor(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": actor.Username, "role": actor.Role})
	})
	protected.POST("/students", authMiddleware.RequireOperation(appauth.OpStudentWrite), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return router
}

func bearerTokenFor(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	return "Bearer " + accessToken
}

func TestAuthenticateBearerToken(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	router := newAuthTestRouter(nil, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerTokenFor(t, jwtService, testUser(models.RoleTeacher)))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
}

func TestAuthenticateRejectsMissingCredentials(t *testing.T) {
	router := newAuthTestRouter(nil, newTestJWTService(time.Hour))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	router := newAuthTestRouter(nil, newTestJWTService(time.Hour))

	// Tokens signed with a different secret must also fail.
	otherService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "some-other-secret",
		AccessTokenExp: time.Hour,
	})

	tests := []struct {
		name   string
		header string
	}{
		{"malformed header", "not-a-bearer-header"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong key", "Bearer " + mustToken(t, otherService)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", tt.header)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", recorder.Code)
			}
		})
	}
}

func mustToken(t *testing.T, jwtService *auth.JWTService) string {
	t.Helper()
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(testUser(models.RoleTeacher))
	if err != nil {
		t.Fatal(err)
	}
	return accessToken
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	// Tokens from a service with a negative lifetime are already expired.
	expiredService := newTestJWTService(-time.Minute)
	router := newAuthTestRouter(nil, newTestJWTService(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerTokenFor(t, expiredService, testUser(models.RoleTeacher)))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}

func TestRequireOperationEnforcesPolicy(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	router := newAuthTestRouter(nil, jwtService)

	tests := []struct {
		name       string
		role       models.Role
		wantStatus int
	}{
		{"teacher may write students", models.RoleTeacher, http.StatusNoContent},
		{"student may not write students", models.RoleStudent, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/students", nil)
			req.Header.Set("Authorization", bearerTokenFor(t, jwtService, testUser(tt.role)))

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

// sessionCookies logs in over the session route and returns the cookies to
// replay on subsequent requests.
func sessionCookies(t *testing.T, router *gin.Engine) []*http.Cookie {
	t.Helper()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/session-login", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("session login status = %d", recorder.Code)
	}

	cookies := recorder.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}
	return cookies
}

func TestAuthenticateSessionCookie(t *testing.T) {
	loadUser := func(c *gin.Context, id int64) (*models.User, error) {
		if id != 1 {
			return nil, apperrors.ErrUserNotFound
		}
		return testUser(models.RoleTeacher), nil
	}
	router := newAuthTestRouter(loadUser, newTestJWTService(time.Hour))
	cookies := sessionCookies(t, router)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
}

func TestSessionWriteRequiresCSRFToken(t *testing.T) {
	loadUser := func(c *gin.Context, id int64) (*models.User, error) {
		return testUser(models.RoleTeacher), nil
	}
	router := newAuthTestRouter(loadUser, newTestJWTService(time.Hour))
	cookies := sessionCookies(t, router)

	tests := []struct {
		name       string
		csrfHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusForbidden},
		{"wrong token", "not-the-token", http.StatusForbidden},
		{"matching token", testCSRFToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/students", nil)
			for _, cookie := range cookies {
				req.AddCookie(cookie)
			}
			if tt.csrfHeader != "" {
				req.Header.Set(CSRFHeaderName, tt.csrfHeader)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

func TestSessionAuthRejectsInactiveUser(t *testing.T) {
	loadUser := func(c *gin.Context, id int64) (*models.User, error) {
		user := testUser(models.RoleTeacher)
		user.IsActive = false
		return user, nil
	}
	router := newAuthTestRouter(loadUser, newTestJWTService(time.Hour))
	cookies := sessionCookies(t, router)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}
