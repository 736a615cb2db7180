package domain

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrCodeNotFound    = errors.New("code not found")
	ErrCodeExpired     = errors.New("code expired")
	ErrCodeUsed        = errors.New("code already used")
	ErrProfileNotFound = errors.New("profile not found")
)
