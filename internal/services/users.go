package services

import (
	"errors"

	"ad-panel/internal/config"
	"ad-panel/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	authService *AuthService
}

func NewUserService(cfg *config.Config) *UserService {
	return &UserService{
		authService: NewAuthService(cfg),
	}
}

// GetUsers returns all users
func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := models.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a specific user by ID
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (s *UserService) CreateUser(username, password, email, realName, role string) (*models.User, error) {
	user, err := s.authService.CreateUser(username, password, role)
	if err != nil {
		return nil, err
	}

	if email != "" || realName != "" {
		user.Email = email
		user.RealName = realName
		if err := models.DB.Save(user).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

// UserUpdate carries a partial user update; nil fields are left unchanged.
type UserUpdate struct {
	Username *string
	Email    *string
	RealName *string
	Role     *string
	Status   *string
}

// UpdateUser updates user information (except password)
func (s *UserService) UpdateUser(id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil && *upd.Username != user.Username {
		var existing models.User
		if err := models.DB.Where("username = ? AND id != ?", *upd.Username, id).First(&existing).Error; err == nil {
			return nil, ErrUserExists
		}
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.RealName != nil {
		user.RealName = *upd.RealName
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Status != nil {
		user.Status = *upd.Status
	}

	if err := models.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password and sets the new one.
func (s *UserService) ChangePassword(id uint, oldPassword, newPassword string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if !s.authService.VerifyPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hashedPassword, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	return models.DB.Save(user).Error
}

// UpdatePassword sets a user's password without the old-password check;
// admin-only path.
func (s *UserService) UpdatePassword(id uint, newPassword string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	hashedPassword, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	return models.DB.Save(user).Error
}

// DeleteUser deletes a user; the last admin cannot be removed.
func (s *UserService) DeleteUser(id uint) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	var adminCount int64
	models.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if user.Role == models.RoleAdmin && adminCount <= 1 {
		return errors.New("cannot delete the last admin user")
	}

	return models.DB.Delete(user).Error
}
