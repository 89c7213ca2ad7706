package usecase

import "errors"

var (
	// ErrValidation indicates the request payload failed validation before
	// any write happened.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied indicates the actor lacks the required permission.
	ErrPermissionDenied = errors.New("insufficient permissions")
)
