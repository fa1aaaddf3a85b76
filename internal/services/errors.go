package services

import "errors"

// Sentinel errors the handlers translate to HTTP statuses.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPostNotFound       = errors.New("post not found")
	ErrNotPostAuthor      = errors.New("not the post author")
)
