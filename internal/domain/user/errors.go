package user

import "errors"

var (
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrWorkerRoleRequired     = errors.New("worker role required")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrActorMissing           = errors.New("authenticated actor is missing from request context")
)
