package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/app/services"
	"github.com/jdelacruz/schoolrecords/internal/middleware"
)

// AuthController handles registration, login and token lifecycle endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles account registration
// @Summary Register an account
// @Description Creates a teacher or student account. Student accounts are linked to a student profile; a placeholder profile is created when none exists yet.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration information"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or username taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.RegisterResponse{
		Message: "Account registered successfully.",
		Role:    string(user.Role),
	}
	if user.StudentID != nil {
		resp.StudentID = *user.StudentID
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp))
}

// Login handles credential verification
// @Summary Log in
// @Description Verifies credentials and returns an access and refresh token pair. Also establishes a cookie session for browser clients.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid username or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, tokens, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	session := sessions.Default(ctx)
	session.Set(middleware.SessionUserIDKey, user.ID)
	if err := session.Save(); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResponse{
		Token: *tokens,
		User:  user,
	}))
}

// Refresh rotates a refresh token
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a new access and refresh token pair. The old refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "New token pair"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Token expired, revoked or unknown"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	_, tokens, err := c.authService.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(*tokens))
}

// Logout revokes a refresh token and clears the session
// @Summary Log out
// @Description Revokes the supplied refresh token and clears the cookie session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unknown refresh token"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	session := sessions.Default(ctx)
	session.Clear()
	if err := session.Save(); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logged out successfully."))
}

// LogoutAll revokes every refresh token of the authenticated user
// @Summary Log out everywhere
// @Description Revokes every refresh token issued to the authenticated user and clears the cookie session.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out everywhere"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout-all [post]
func (c *AuthController) LogoutAll(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	if err := c.authService.LogoutAll(ctx.Request.Context(), actor.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	session := sessions.Default(ctx)
	session.Clear()
	if err := session.Save(); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logged out of all sessions."))
}

// CSRF issues the anti-forgery token for cookie sessions
// @Summary Get CSRF token
// @Description Issues the double-submit anti-forgery token tied to the cookie session.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.CSRFResponse "Anti-forgery token"
// @Router /csrf [get]
func (c *AuthController) CSRF(ctx *gin.Context) {
	session := sessions.Default(ctx)

	token, ok := session.Get(middleware.SessionCSRFKey).(string)
	if !ok || token == "" {
		token = uuid.New().String()
		session.Set(middleware.SessionCSRFKey, token)
		if err := session.Save(); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.CSRFResponse{CSRFToken: token})
}
