package service

import "errors"

// Sentinel errors controllers translate into HTTP statuses. Wrap them with
// fmt.Errorf("%w: ...") to attach detail; match with errors.Is.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrBadCredentials = errors.New("invalid email or password")
)
