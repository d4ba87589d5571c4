package services

import "errors"

var (
	ErrAdNotFound         = errors.New("ad not found")
	ErrInvalidRenewal     = errors.New("new end date must be after the current end date")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account is disabled or locked")
	ErrSettingNotFound    = errors.New("setting not found")
	ErrSettingNotEditable = errors.New("setting is not editable")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)
