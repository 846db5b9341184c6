package store

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssigneeNotFound   = errors.New("assignee not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrNoFields           = errors.New("no fields to update")
)
