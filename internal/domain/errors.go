package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPermissionDeny     = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUnknownRole        = errors.New("unknown role")
	ErrConflict           = errors.New("conflict")
	ErrDeclined           = errors.New("action declined")
)
