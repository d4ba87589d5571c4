package handlers

import (
	"fmt"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	authService *services.AuthService
	opLog       *services.OperationLogService
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(cfg),
		opLog:       services.NewOperationLogService(cfg),
		cfg:         cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login authenticates a user and issues a signed token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.authService.Authenticate(req.Username, req.Password, c.ClientIP())
	if err != nil {
		h.opLog.LogLogin(req.Username, c.ClientIP(), c.GetHeader("User-Agent"), models.OpStatusFailed, err.Error())
		respondServiceError(c, err)
		return
	}

	token, expiresAt, err := h.generateToken(user)
	if err != nil {
		respondError(c, 500, "Failed to generate token")
		return
	}

	if err := h.authService.CreateSession(user.ID, token, expiresAt); err != nil {
		respondError(c, 500, "Failed to create session")
		return
	}

	h.opLog.LogLogin(user.Username, c.ClientIP(), c.GetHeader("User-Agent"), models.OpStatusSuccess, "")

	respondOK(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a viewer account. Elevated roles are granted through
// user management, never at registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.authService.CreateUser(req.Username, req.Password, models.RoleViewer)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, "User registered successfully", user)
}

// Logout invalidates the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	session, exists := c.Get("session")
	if !exists {
		respondError(c, 401, "Not authenticated")
		return
	}

	sess := session.(*models.Session)
	if err := h.authService.DeleteSession(sess.Token); err != nil {
		respondError(c, 500, "Failed to logout")
		return
	}

	h.opLog.LogLogout(currentUsername(c), c.ClientIP(), c.GetHeader("User-Agent"))
	respondMessage(c, "Logged out successfully", nil)
}

// Refresh replaces the caller's session with a freshly signed token
func (h *AuthHandler) Refresh(c *gin.Context) {
	session, exists := c.Get("session")
	if !exists {
		respondError(c, 401, "Not authenticated")
		return
	}
	user := c.MustGet("user").(*models.User)

	token, expiresAt, err := h.generateToken(user)
	if err != nil {
		respondError(c, 500, "Failed to generate token")
		return
	}
	if err := h.authService.CreateSession(user.ID, token, expiresAt); err != nil {
		respondError(c, 500, "Failed to create session")
		return
	}

	sess := session.(*models.Session)
	h.authService.DeleteSession(sess.Token)

	respondOK(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// GetMe returns the authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		respondError(c, 401, "Not authenticated")
		return
	}
	respondOK(c, user.(*models.User))
}

type ForgotPasswordRequest struct {
	Username string `json:"username" binding:"required"`
}

// ForgotPassword issues a single-use reset token. The response is the
// same whether or not the username exists so the endpoint cannot be
// used to probe accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	reset, err := h.authService.CreatePasswordReset(req.Username)
	if err != nil {
		respondMessage(c, "If the account exists, a reset token has been issued", nil)
		return
	}

	respondMessage(c, "If the account exists, a reset token has been issued", gin.H{
		"token":      reset.Token,
		"expires_at": reset.ExpiresAt,
	})
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetPassword consumes a reset token and sets a new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Password has been reset", nil)
}

// generateToken signs a JWT for the user
func (h *AuthHandler) generateToken(user *models.User) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(h.cfg.JWT.ExpiresIn)
	if err != nil {
		expiresIn = 168 * time.Hour
	}
	expiresAt := time.Now().Add(expiresIn)

	secret := h.cfg.JWT.Secret
	if secret == "" {
		secret = "ad-panel-default-secret-change-in-production"
	}

	// jti keeps tokens unique even for back-to-back logins in the
	// same second; session tokens are unique-indexed.
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
		"iss":      h.cfg.JWT.Issuer,
		"jti":      fmt.Sprintf("%d-%d", user.ID, time.Now().UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
