package engineer

import "errors"

var (
	ErrNotFound       = errors.New("engineer not found")
	ErrInvalidAuth    = errors.New("invalid credentials")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateLogin = errors.New("login already taken")
)
