package handlers

import (
	"ad-panel/internal/config"
	"ad-panel/internal/models"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
	opLog       *services.OperationLogService
}

func NewUserHandler(cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(cfg),
		opLog:       services.NewOperationLogService(cfg),
	}
}

// ListUsers returns all users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, users)
}

// GetUser returns a single user
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, user)
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	RealName string `json:"realName" binding:"max=100"`
	Role     string `json:"role" binding:"required,oneof=admin operator viewer"`
}

// CreateUser creates a new panel account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Password, req.Email, req.RealName, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "User created successfully", user)
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	RealName *string `json:"realName" binding:"omitempty,max=100"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin operator viewer"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive locked"`
}

// UpdateUser applies a partial update to a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(id, services.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		RealName: req.RealName,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "User updated successfully", user)
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword sets a user's password without the old-password check
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.userService.UpdatePassword(id, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Password updated successfully", nil)
}

// DeleteUser removes a user account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	current := c.MustGet("user").(*models.User)
	if current.ID == id {
		respondError(c, 400, "Cannot delete your own account")
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "User deleted successfully", gin.H{"id": id})
}

type UpdateProfileRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	RealName *string `json:"realName" binding:"omitempty,max=100"`
}

// UpdateProfile lets the authenticated user edit their own contact info
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	current := c.MustGet("user").(*models.User)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(current.ID, services.UserUpdate{
		Email:    req.Email,
		RealName: req.RealName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Profile updated successfully", user)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword verifies the old password before setting the new one
func (h *UserHandler) ChangePassword(c *gin.Context) {
	current := c.MustGet("user").(*models.User)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.userService.ChangePassword(current.ID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Password changed successfully", nil)
}
