package account

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoRoles         = errors.New("at least one role is required")
)
