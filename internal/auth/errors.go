// Package auth manages user accounts and bearer tokens for the API.
package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for a wrong username or password, and
	// for signups whose credentials do not meet the minimum requirements.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when signing up with a taken username.
	ErrUserExists = errors.New("username already registered")
	// ErrUserNotFound is returned by the store when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken is returned for malformed or badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for tokens past their expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrRateLimited is returned when login attempts exceed the allowed rate.
	ErrRateLimited = errors.New("too many login attempts")
)
