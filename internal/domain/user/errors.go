package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserInactive           = errors.New("user account is inactive")
	ErrEmailExists            = errors.New("email already registered")
	ErrRFIDTagExists          = errors.New("rfid tag already registered")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrElevatedRoleRequired   = errors.New("admin or mentor role required")
	ErrSelfAccessOnly         = errors.New("you can only view your own records")
)
