package api

import (
	"log"

	"teamspend/config"
	"teamspend/middleware"
	"teamspend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves registration, the password grant and token lifecycle.
type AuthHandler struct {
	cfg   *config.Config
	auth  *service.AuthService
	email *service.EmailService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:   cfg,
		auth:  service.NewAuthService(db),
		email: service.NewEmailService(&cfg.Email),
	}
}

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"John"`
	Surname  string `json:"surname" binding:"required,max=50" example:"Doe"`
	Email    string `json:"email" binding:"required,email" example:"john@x.com"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// TokenResponse is the password grant reply.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	TokenType   string `json:"token_type"`
}

// Register creates a new unapproved user account.
// @Summary Register
// @Description Create an unapproved user account with role "user"
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 200 {object} Response "user created"
// @Failure 409 {object} Response "email already registered"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	if err := h.auth.Register(service.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		FromError(c, err, "Failed to create user")
		return
	}

	SuccessWithMessage(c, "User created successfully", nil)
}

// Token performs an OAuth2-style password grant. The credentials arrive as
// form fields, not JSON.
// @Summary Obtain access token
// @Description OAuth2 password grant; username field carries the email
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "email"
// @Param password formData string true "password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} Response "incorrect password"
// @Failure 404 {object} Response "user not found"
// @Router /token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		BadRequest(c, "username and password are required")
		return
	}

	user, err := h.auth.Authenticate(username, password)
	if err != nil {
		FromError(c, err, "Authentication failed")
		return
	}

	token, err := middleware.GenerateToken(user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate token"))
		return
	}

	c.JSON(200, TokenResponse{
		AccessToken: token,
		Role:        string(user.Role),
		TokenType:   "bearer",
	})
}

// ResetPasswordRequest identifies the account to reset.
type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"john@x.com"`
}

// ResetPassword issues a new random password, returning it and mailing it
// when mail delivery is enabled.
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "account email"
// @Success 200 {object} Response "new password"
// @Failure 404 {object} Response "user not found"
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	password, err := h.auth.ResetPassword(req.Email)
	if err != nil {
		FromError(c, err, "Failed to reset password")
		return
	}

	if h.email.Enabled() {
		if err := h.email.SendPasswordEmail(req.Email, req.Email, password); err != nil {
			log.Printf("password email to %s failed: %v", req.Email, err)
		}
	}

	Success(c, gin.H{"password": password})
}

// TokenRequest carries a raw token for introspection or renewal.
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// CheckToken validates a token and reports the holder's role and approval.
// @Summary Introspect token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "token"
// @Success 200 {object} Response "role and approval flag"
// @Failure 401 {object} Response "invalid token"
// @Router /check-token [post]
func (h *AuthHandler) CheckToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	claims, err := middleware.ParseToken(req.Token)
	if err != nil {
		Unauthorized(c, "Invalid token")
		return
	}

	user, err := h.auth.UserByEmail(claims.Subject)
	if err != nil {
		Unauthorized(c, "Invalid token")
		return
	}

	c.JSON(200, gin.H{
		"role":        user.Role,
		"is_approved": user.IsApproved,
	})
}

// RefreshToken exchanges a valid token for a fresh one.
// @Summary Refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "token"
// @Success 200 {object} Response "new access token"
// @Failure 401 {object} Response "invalid token"
// @Router /refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request"))
		return
	}

	claims, err := middleware.ParseToken(req.Token)
	if err != nil {
		Unauthorized(c, "Invalid token")
		return
	}

	user, err := h.auth.UserByEmail(claims.Subject)
	if err != nil {
		Unauthorized(c, "Invalid token")
		return
	}

	token, err := middleware.GenerateToken(user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate token"))
		return
	}

	c.JSON(200, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
